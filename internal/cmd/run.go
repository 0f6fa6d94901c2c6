// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime/debug"

	"github.com/aibor/guestcheck/internal/harness"
	"github.com/aibor/guestcheck/internal/qemu"
)

const localConfigFile = ".guestcheck-args"

// Exit codes returned by [Run].
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func newFlags(args []string, cfg IO) (*flags, error) {
	args, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	flags, err := parseArgs(args[1:], cfg.Stderr)
	if err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	return flags, nil
}

func validate(flags *flags) error {
	_, err := exec.LookPath(flags.QemuBin)
	if err != nil {
		return fmt.Errorf("qemu binary: %w", err)
	}

	err = ValidateFilePath(string(flags.DiskImage))
	if err != nil {
		return fmt.Errorf("disk image: %w", err)
	}

	return nil
}

func newQemuCommand(flags *flags) (*qemu.Command, error) {
	cmd, err := qemu.NewCommand(flags.commandSpec())
	if err != nil {
		return nil, fmt.Errorf("new qemu command: %w", err)
	}

	return cmd, nil
}

func run(ctx context.Context, flags *flags, cfg IO) error {
	plan, err := harness.LoadPlan(string(flags.PlanPath))
	if err != nil {
		return err //nolint:wrapcheck
	}

	slog.Debug("Loaded test plan",
		slog.String("path", string(flags.PlanPath)),
		slog.Int("tests", len(plan)))

	err = validate(flags)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	cmd, err := newQemuCommand(flags)
	if err != nil {
		return err
	}

	slog.Debug("QEMU command",
		slog.String("command", cmd.String()))

	executor := harness.NewExecutor(flags.harnessConfig(cfg.Stdout), cmd)

	err = executor.Run(ctx, plan)
	if err != nil {
		return fmt.Errorf("%s: %w", executor.FailedIn(), err)
	}

	return nil
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return ExitSuccess
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return ExitFailure
}

func handleRunError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var testErr *harness.TestError

	switch {
	case errors.As(err, &testErr):
		slog.Error("Test did not pass",
			slog.String("test", testErr.ID),
			slog.Any("error", testErr.Err))
	case errors.Is(err, harness.ErrBootTimeout):
		slog.Error("Guest did not boot in time")
	case errors.Is(err, qemu.ErrSpawn):
		slog.Error("Failed to start QEMU", slog.Any("error", err))
	case errors.Is(err, context.Canceled):
		slog.Error("Interrupted")
	default:
		slog.Error(err.Error())
	}

	return ExitFailure
}

// Run is the main entry point for the CLI command. The first argument is
// the program name. It returns the exit code for the process.
func Run(ctx context.Context, args []string, cfg IO) int {
	flags, err := newFlags(args, cfg)
	if err != nil {
		return handleParseArgsError(err)
	}

	runID := setupLogging(cfg.Stderr, flags.Debug)

	slog.Debug("Starting run",
		slog.String("id", runID),
		slog.String("level", flags.logLevel().String()))

	if flags.Version {
		buildInfo, err := getBuildInfo()
		if err != nil {
			slog.Error(err.Error())
			return ExitFailure
		}

		fmt.Fprintf(cfg.Stdout, "Version: %s\n", buildInfo.Main.Version)

		return ExitSuccess
	}

	return handleRunError(run(ctx, flags, cfg))
}

func getBuildInfo() (*debug.BuildInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrReadBuildInfo
	}

	return buildInfo, nil
}
