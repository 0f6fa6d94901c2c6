// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/aibor/guestcheck/internal/monitor"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// errorOutputSize is the number of bytes of stderr kept for
// [Command.ErrorOutput].
const errorOutputSize = 4096

// Command is a single QEMU process that is controlled via its monitor on
// stdin.
//
// Create it with [NewCommand], start it with [Command.Start] and always end
// it with [Command.Shutdown].
type Command struct {
	name        string
	args        []string
	dir         string
	gracePeriod time.Duration

	// Stdout receives the process' standard output. If not set, the output
	// is written to a temporary file that is removed on shutdown.
	Stdout io.Writer

	// Stderr receives the process' standard error. If not set, the output
	// is written to a temporary file that is removed on shutdown.
	Stderr io.Writer

	cmd       *exec.Cmd
	stdin     io.WriteCloser
	outputs   errgroup.Group
	tempSinks   []*os.File
	errorOutput *tailBuffer
	exited      chan error
	stopped     bool
}

// NewCommand creates a new [Command] from the given [CommandSpec].
//
// The [CommandSpec] is validated and its arguments are compiled. The process
// is not started yet.
func NewCommand(spec CommandSpec) (*Command, error) {
	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	args, err := BuildArgumentStrings(spec.arguments())
	if err != nil {
		return nil, err
	}

	gracePeriod := spec.GracePeriod
	if gracePeriod <= 0 {
		gracePeriod = DefaultGracePeriod
	}

	cmd := &Command{
		name:        spec.Executable,
		args:        args,
		dir:         spec.Dir,
		gracePeriod: gracePeriod,
	}

	return cmd, nil
}

// Args returns a copy of the compiled QEMU arguments.
func (c *Command) Args() []string {
	return append([]string(nil), c.args...)
}

// String returns the command line as it is executed.
func (c *Command) String() string {
	return c.name + " " + strings.Join(c.args, " ")
}

// Start spawns the QEMU process.
//
// Stdout and stderr are copied into their sinks until the process exits. The
// end of stderr is also kept for [Command.ErrorOutput].
// Stdin stays open for [Command.SendLine]. A process that cannot be created
// is reported with [ErrSpawn].
func (c *Command) Start() error {
	if c.cmd != nil {
		return &CommandError{Op: "start", Err: ErrAlreadyStarted}
	}

	stdoutSink, err := c.sink(c.Stdout, "stdout")
	if err != nil {
		return c.spawnError(err)
	}

	stderrSink, err := c.sink(c.Stderr, "stderr")
	if err != nil {
		return c.spawnError(err)
	}

	cmd := exec.Command(c.name, c.args...)
	cmd.Dir = c.dir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return c.spawnError(err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return c.spawnError(err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return c.spawnError(err)
	}

	err = cmd.Start()
	if err != nil {
		return c.spawnError(err)
	}

	slog.Debug("QEMU process started", slog.Int("pid", cmd.Process.Pid))

	c.cmd = cmd
	c.stdin = stdin
	c.exited = make(chan error, 1)
	c.errorOutput = newTailBuffer(errorOutputSize)

	c.outputs.Go(copyOutput(stdoutSink, stdout, "stdout"))
	c.outputs.Go(copyOutput(io.MultiWriter(stderrSink, c.errorOutput), stderr, "stderr"))

	go func() {
		// All reads from the pipes must be done before [exec.Cmd.Wait]
		// closes them.
		outputErr := c.outputs.Wait()
		c.exited <- errors.Join(cmd.Wait(), outputErr)
	}()

	return nil
}

// ErrorOutput returns the last bytes the process wrote to stderr. It is
// complete once [Command.Shutdown] returned, even if the sink was a
// temporary file.
func (c *Command) ErrorOutput() string {
	if c.errorOutput == nil {
		return ""
	}

	return c.errorOutput.String()
}

func (c *Command) spawnError(err error) error {
	c.removeTempSinks()
	return &CommandError{Op: "start", Err: fmt.Errorf("%w: %w", ErrSpawn, err)}
}

func (c *Command) sink(writer io.Writer, name string) (io.Writer, error) {
	if writer != nil {
		return writer, nil
	}

	file, err := os.CreateTemp("", "guestcheck-qemu-"+name+"-*")
	if err != nil {
		return nil, fmt.Errorf("create %s sink: %w", name, err)
	}

	c.tempSinks = append(c.tempSinks, file)

	return file, nil
}

func (c *Command) removeTempSinks() {
	for _, file := range c.tempSinks {
		_ = file.Close()

		err := os.Remove(file.Name())
		if err != nil {
			slog.Warn("Failed to remove output sink",
				slog.String("path", file.Name()),
				slog.Any("error", err))
		}
	}

	c.tempSinks = nil
}

func copyOutput(dst io.Writer, src io.Reader, name string) func() error {
	return func() error {
		_, err := io.Copy(dst, src)
		if err != nil {
			return fmt.Errorf("copy %s: %w", name, err)
		}

		return nil
	}
}

// SendLine writes the given text followed by a newline to the QEMU monitor.
//
// The line is written with a single unbuffered write, so it is visible to the
// process once SendLine returns.
func (c *Command) SendLine(text string) error {
	if c.cmd == nil {
		return &CommandError{Op: "send", Err: ErrNotStarted}
	}

	_, err := io.WriteString(c.stdin, text+"\n")
	if err != nil {
		return &CommandError{Op: "send", Err: err}
	}

	return nil
}

// Shutdown requests QEMU to quit and waits for the process to exit.
//
// If the process does not exit within the grace period, it is sent SIGTERM.
// If it still does not exit within another grace period, it is killed and
// [ErrKilled] is returned. Output sinks are drained before Shutdown returns.
func (c *Command) Shutdown() error {
	if c.cmd == nil {
		return &CommandError{Op: "shutdown", Err: ErrNotStarted}
	}

	if c.stopped {
		return &CommandError{Op: "shutdown", Err: ErrStopped}
	}

	c.stopped = true

	defer c.removeTempSinks()

	// The process might have exited already. It must be waited for anyway.
	sendErr := c.SendLine(monitor.QuitCommand)
	if sendErr != nil {
		slog.Debug("Failed to send quit command", slog.Any("error", sendErr))
	}

	_ = c.stdin.Close()

	err := c.awaitExit()
	if err != nil {
		return &CommandError{Op: "shutdown", Err: err}
	}

	return nil
}

func (c *Command) awaitExit() error {
	select {
	case err := <-c.exited:
		return err
	case <-time.After(c.gracePeriod):
	}

	slog.Warn("QEMU did not quit in time, sending SIGTERM",
		slog.Duration("grace_period", c.gracePeriod))

	_ = c.cmd.Process.Signal(unix.SIGTERM)

	select {
	case err := <-c.exited:
		return err
	case <-time.After(c.gracePeriod):
	}

	slog.Warn("QEMU did not terminate in time, killing it")

	_ = c.cmd.Process.Kill()

	return errors.Join(ErrKilled, <-c.exited)
}
