// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/aibor/guestcheck/internal/harness"
	"github.com/aibor/guestcheck/internal/marker"
	"github.com/aibor/guestcheck/internal/monitor"
)

const (
	fakeGuestEnv = "GUESTCHECK_FAKE_GUEST"

	// Script that never prints the boot marker.
	fakeGuestNoBoot = "noboot"
)

// runFakeGuest emulates QEMU running a guest system. It writes the boot
// marker to the serial log given by the -serial argument and, once the
// default runner command is typed on the monitor, the test results of the
// script. The script is a comma separated list of id=PASS or id=FAIL.
func runFakeGuest(script string) int {
	logPath := serialLogPath(os.Args[1:])
	if logPath == "" {
		fmt.Fprintln(os.Stderr, "no -serial file: argument")
		return 2
	}

	log, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open serial log:", err)
		return 2
	}
	defer log.Close()

	fmt.Fprintln(log, "fake kernel booting")

	if script != fakeGuestNoBoot {
		fmt.Fprintln(log, marker.BootMarker)
	}

	expected := monitor.Encode(harness.DefaultRunnerCommand)
	received := []string{}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == monitor.QuitCommand {
			return 0
		}

		received = append(received, line)
		if len(received) < len(expected) {
			continue
		}

		if !slices.Equal(expected, received) {
			fmt.Fprintf(log, "unknown command: %q\n", received)
			continue
		}

		writeResults(log, script)
	}

	return 0
}

func writeResults(log *os.File, script string) {
	for result := range strings.SplitSeq(script, ",") {
		id, status, found := strings.Cut(result, "=")
		if !found {
			continue
		}

		fmt.Fprintf(log, "TEST[%s] %s\n", id, status)
	}
}

func serialLogPath(args []string) string {
	for idx := 0; idx+1 < len(args); idx++ {
		if args[idx] == "-serial" {
			return strings.TrimPrefix(args[idx+1], "file:")
		}
	}

	return ""
}
