// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aibor/guestcheck/internal/marker"
	"github.com/aibor/guestcheck/internal/monitor"
	"github.com/aibor/guestcheck/internal/poll"
)

const (
	// DefaultBootTimeout is the number of poll intervals to wait for the
	// guest to boot.
	DefaultBootTimeout = 15

	// DefaultRunnerCommand is typed into the guest once it has booted.
	DefaultRunnerCommand = "/system/tests/runall.sh"

	bootLabel = "Boot"
)

// Process is the guest system process the [Executor] controls.
//
// It is implemented by the QEMU command of package qemu.
type Process interface {
	monitor.LineSender

	// Start spawns the process.
	Start() error

	// Shutdown requests the process to quit and waits for it to exit.
	Shutdown() error
}

// ErrorOutputter is implemented by processes that keep their error output
// for diagnostics. The [Executor] logs it on failure.
type ErrorOutputter interface {
	ErrorOutput() string
}

// Config is the configuration of an [Executor].
type Config struct {
	// LogPath is the path of the file the guest writes its serial console
	// output to.
	LogPath string

	// BootTimeout is the number of poll intervals to wait for the boot
	// marker. [DefaultBootTimeout] is used if not set.
	BootTimeout int

	// RunnerCommand starts the test runner in the guest.
	// [DefaultRunnerCommand] is used if not set.
	RunnerCommand string

	// Poller waits for the markers. Its progress writer should usually be
	// the same as Output.
	Poller poll.Poller

	// Output receives the guest log in case of failure.
	Output io.Writer
}

// AddDefaults sets defaults for all fields that are not set.
func (c *Config) AddDefaults() {
	if c.BootTimeout <= 0 {
		c.BootTimeout = DefaultBootTimeout
	}

	if c.RunnerCommand == "" {
		c.RunnerCommand = DefaultRunnerCommand
	}

	if c.Output == nil {
		c.Output = io.Discard
	}
}

// Executor runs a [Plan] against a guest [Process].
//
// An Executor is meant to be used for a single run only.
type Executor struct {
	config  Config
	process Process
	reader   *marker.Reader
	state    State
	failedIn State
	current  int
}

// NewExecutor creates a new [Executor] for the given process.
func NewExecutor(config Config, process Process) *Executor {
	config.AddDefaults()

	return &Executor{
		config:  config,
		process: process,
		reader:  &marker.Reader{Path: config.LogPath},
		current: -1,
	}
}

// State returns the current state of the executor.
func (e *Executor) State() State {
	return e.state
}

// FailedIn returns the state the executor was in when it aborted. It is only
// meaningful if [Executor.State] is [Aborted].
func (e *Executor) FailedIn() State {
	return e.failedIn
}

// Current returns the index of the currently or last run test. It is -1 if
// no test has been run yet.
func (e *Executor) Current() int {
	return e.current
}

func (e *Executor) transition(state State) {
	if e.state.Terminal() {
		return
	}

	if state == Aborted {
		e.failedIn = e.state
	}

	e.state = state

	attrs := []any{slog.String("state", state.String())}
	if state == RunningTest {
		attrs = append(attrs, slog.Int("test", e.current))
	}

	slog.Debug("Executor state changed", attrs...)
}

// Run boots the guest, starts the test runner and waits for all tests of the
// plan in order.
//
// It returns nil only if all tests passed. It returns [ErrBootTimeout] if the
// guest did not boot in time and [TestError] for the first test that did not
// pass. Any stale log file is removed before the process is started. Once the
// process is started, it is always shut down before Run returns. On failure,
// the guest log is written to the configured output first and the process'
// error output is logged at debug level, if it provides any.
func (e *Executor) Run(ctx context.Context, plan Plan) (err error) {
	if e.state != NotStarted {
		return fmt.Errorf("run: executor %s", e.state)
	}

	err = plan.Validate()
	if err != nil {
		e.transition(Aborted)
		return err
	}

	err = ensureGone(e.config.LogPath)
	if err != nil {
		e.transition(Aborted)
		return err
	}

	e.transition(Booting)

	err = e.process.Start()
	if err != nil {
		e.transition(Aborted)
		return fmt.Errorf("start guest: %w", err)
	}

	defer func() {
		if err != nil {
			e.transition(Aborted)
			e.dumpLog()
		}

		e.shutdown()

		if err != nil {
			e.logErrorOutput()
		}
	}()

	return e.run(ctx, plan)
}

func (e *Executor) run(ctx context.Context, plan Plan) error {
	result, err := e.config.Poller.Wait(
		ctx,
		bootLabel,
		e.config.BootTimeout,
		marker.Boot{Reader: e.reader},
		nil,
	)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if result.Outcome != poll.Succeeded {
		return ErrBootTimeout
	}

	e.transition(RunnerLaunching)

	err = monitor.Type(e.process, e.config.RunnerCommand)
	if err != nil {
		return fmt.Errorf("start runner: %w", err)
	}

	for idx, test := range plan {
		e.current = idx
		e.transition(RunningTest)

		err := e.runTest(ctx, test)
		if err != nil {
			return err
		}
	}

	e.transition(Done)

	return nil
}

func (e *Executor) runTest(ctx context.Context, test TestCase) error {
	result, err := e.config.Poller.Wait(
		ctx,
		test.ID,
		test.Wait,
		marker.Passed{Reader: e.reader, ID: test.ID},
		marker.Failed{Reader: e.reader, ID: test.ID},
	)
	if err != nil {
		return err //nolint:wrapcheck
	}

	switch result.Outcome {
	case poll.Succeeded:
		return nil
	case poll.Failed:
		return &TestError{ID: test.ID, Err: ErrTestFailed}
	default:
		return &TestError{ID: test.ID, Err: ErrTestTimeout}
	}
}

func (e *Executor) dumpLog() {
	content, err := e.reader.ReadLog()
	if err != nil {
		slog.Error("Failed to read guest log", slog.Any("error", err))
		return
	}

	_, _ = io.WriteString(e.config.Output, content)
}

func (e *Executor) logErrorOutput() {
	outputter, ok := e.process.(ErrorOutputter)
	if !ok {
		return
	}

	output := outputter.ErrorOutput()
	if output == "" {
		return
	}

	slog.Debug("Guest process error output", slog.String("stderr", output))
}

func (e *Executor) shutdown() {
	err := e.process.Shutdown()
	if err != nil {
		slog.Warn("Guest did not shut down cleanly", slog.Any("error", err))
	}
}

func ensureGone(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale log: %w", err)
	}

	return nil
}
