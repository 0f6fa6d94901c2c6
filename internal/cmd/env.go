// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

const envArgsName = "GUESTCHECK_ARGS"

// EnvArgs returns guestcheck arguments from the environment.
func EnvArgs() []string {
	return strings.Fields(os.Getenv(envArgsName))
}

// LocalConfigArgs returns guestcheck arguments from a local config file.
//
// The file's format is one argument per line. Environment variables may be used
// and are expanded with [os.ExpandEnv]. A missing file is not an error.
func LocalConfigArgs(fsys fs.FS, file string) ([]string, error) {
	conf, err := fs.ReadFile(fsys, file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read file: %w", err)
	}

	args := []string{}

	expandedConf := os.ExpandEnv(string(conf))
	for line := range strings.SplitSeq(expandedConf, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			args = append(args, line)
		}
	}

	return args, nil
}

// MergedArgs inserts the arguments from the local config file and the
// environment after the program name in the given args.
//
// Later flags win, so the order of precedence is: command line, environment,
// local config file.
func MergedArgs(args []string, fsys fs.FS, file string) ([]string, error) {
	if len(args) == 0 {
		return nil, &ParseArgsError{msg: "no program name given"}
	}

	localArgs, err := LocalConfigArgs(fsys, file)
	if err != nil {
		return nil, &ParseArgsError{msg: "local config " + file, err: err}
	}

	envArgs := EnvArgs()

	merged := make([]string, 0, len(args)+len(localArgs)+len(envArgs))
	merged = append(merged, args[0])
	merged = append(merged, localArgs...)
	merged = append(merged, envArgs...)
	merged = append(merged, args[1:]...)

	return merged, nil
}
