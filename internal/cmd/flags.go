// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aibor/guestcheck/internal/harness"
	"github.com/aibor/guestcheck/internal/poll"
	"github.com/aibor/guestcheck/internal/qemu"
)

const (
	name = "guestcheck"

	memMin = qemu.MinMemory
	memMax = qemu.MaxMemory

	bootTimeoutMin = 1
	bootTimeoutMax = 3600

	usageMessage = `Usage of 'guestcheck':
    guestcheck [flags...] plan.json

Boots the disk image in QEMU, starts the guest's test runner and waits for
the results of all tests listed in the plan file. The plan is a JSON array
of objects with the test "id" and the "wait" time in seconds:
	[{"id": "fs", "wait": 10}, {"id": "net", "wait": 30}]

All guestcheck flags can also be provided via environment variable
GUESTCHECK_ARGS:
	GUESTCHECK_ARGS="-image=build/os.img -debug" guestcheck plan.json

All guestcheck flags can also be provided via file ./.guestcheck-args, with
one argument per line.

Additional QEMU arguments can be given with -qemu-arg, which may be used
multiple times. They can not replace the arguments guestcheck relies on,
like -monitor or -serial:
	guestcheck -qemu-arg smp=2 -qemu-arg device=e1000,netdev=n0 plan.json
`
)

type flags struct {
	QemuBin     string
	DiskImage   FilePath
	SerialLog   FilePath
	Memory      uint64
	CPU         string
	Keymap      string
	QemuArgs    []qemu.Argument
	BootTimeout uint64
	Runner      string
	Interval    time.Duration
	GracePeriod time.Duration
	PlanPath    FilePath
	Debug       bool
	Version     bool
}

func defaultFlags() *flags {
	return &flags{
		QemuBin:     qemu.DefaultExecutable,
		DiskImage:   qemu.DefaultDiskImage,
		SerialLog:   qemu.DefaultSerialLog,
		Memory:      qemu.DefaultMemory,
		CPU:         qemu.DefaultCPU,
		Keymap:      qemu.DefaultKeymap,
		BootTimeout: harness.DefaultBootTimeout,
		Runner:      harness.DefaultRunnerCommand,
		Interval:    poll.DefaultInterval,
		GracePeriod: qemu.DefaultGracePeriod,
	}
}

func (f *flags) logLevel() slog.Level {
	if f.Debug {
		return slog.LevelDebug
	}

	return slog.LevelWarn
}

func (f *flags) commandSpec() qemu.CommandSpec {
	spec := qemu.CommandSpec{
		Executable:  f.QemuBin,
		DiskImage:   string(f.DiskImage),
		SerialLog:   string(f.SerialLog),
		Memory:      f.Memory,
		CPU:         f.CPU,
		Keymap:      f.Keymap,
		ExtraArgs:   f.QemuArgs,
		GracePeriod: f.GracePeriod,
	}

	spec.AddDefaults()

	return spec
}

func (f *flags) harnessConfig(output io.Writer) harness.Config {
	return harness.Config{
		LogPath:       string(f.SerialLog),
		BootTimeout:   int(f.BootTimeout), //nolint:gosec
		RunnerCommand: f.Runner,
		Poller: poll.Poller{
			Interval: f.Interval,
			Progress: output,
		},
		Output: output,
	}
}

func parseArgs(args []string, output io.Writer) (*flags, error) {
	flags := defaultFlags()
	flagSet := flags.newFlagSet(output)

	// Parses arguments up to the first one that is not prefixed with a "-" or
	// is "--".
	err := flagSet.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, ErrHelp
		}

		return nil, &ParseArgsError{msg: "flag parse", err: err}
	}

	// With version flag, nothing else is required.
	if flags.Version {
		return flags, nil
	}

	if flags.Interval <= 0 {
		return nil, fail(flagSet, "interval must be positive", nil)
	}

	if flags.GracePeriod <= 0 {
		return nil, fail(flagSet, "grace period must be positive", nil)
	}

	positionalArgs := flagSet.Args()

	switch len(positionalArgs) {
	case 0:
		return nil, fail(flagSet, "no test plan given", nil)
	case 1:
	default:
		return nil, fail(flagSet, "only one test plan allowed", nil)
	}

	err = flags.PlanPath.Set(positionalArgs[0])
	if err != nil {
		return nil, fail(flagSet, "test plan path", err)
	}

	return flags, nil
}

func (f *flags) newFlagSet(output io.Writer) *flag.FlagSet {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(flagSet.Output(), usageMessage)
		fmt.Fprintln(flagSet.Output(), "\nFlags:")
		flagSet.PrintDefaults()
	}

	flagSet.StringVar(
		&f.QemuBin,
		"qemu-bin",
		f.QemuBin,
		"QEMU binary to use",
	)

	flagSet.Var(
		&f.DiskImage,
		"image",
		"raw disk image to boot",
	)

	flagSet.Var(
		&f.SerialLog,
		"log",
		"file the guest serial output is written to and searched for markers",
	)

	flagSet.Var(
		&LimitedUintValue{
			Value: &f.Memory,
			Lower: memMin,
			Upper: memMax,
		},
		"memory",
		"memory (in MB) for the QEMU VM",
	)

	flagSet.StringVar(
		&f.CPU,
		"cpu",
		f.CPU,
		"QEMU CPU type to use",
	)

	flagSet.StringVar(
		&f.Keymap,
		"keymap",
		f.Keymap,
		"keyboard layout for injected keys",
	)

	flagSet.Var(
		&QemuArgsValue{
			Args: &f.QemuArgs,
		},
		"qemu-arg",
		"additional QEMU argument as name=value or name, may be repeated",
	)

	flagSet.Var(
		&LimitedUintValue{
			Value: &f.BootTimeout,
			Lower: bootTimeoutMin,
			Upper: bootTimeoutMax,
		},
		"boot-timeout",
		"number of poll intervals to wait for the guest to boot",
	)

	flagSet.StringVar(
		&f.Runner,
		"runner",
		f.Runner,
		"command typed into the guest to start the test runner",
	)

	flagSet.DurationVar(
		&f.Interval,
		"interval",
		f.Interval,
		"time between two polls of the guest log",
	)

	flagSet.DurationVar(
		&f.GracePeriod,
		"grace",
		f.GracePeriod,
		"time QEMU gets to quit before it is terminated and then killed",
	)

	flagSet.BoolVar(
		&f.Debug,
		"debug",
		f.Debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.Version,
		"version",
		f.Version,
		"show version and exit",
	)

	return flagSet
}

// fail fails like flag does. It prints the error first and then usage.
func fail(flagSet *flag.FlagSet, msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(flagSet.Output(), err.Error())

	flagSet.Usage()

	return err
}
