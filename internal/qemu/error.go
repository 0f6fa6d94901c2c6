// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"errors"
)

var (
	// ErrArgumentCollision is returned if two [Argument]s are considered equal.
	ErrArgumentCollision = errors.New("colliding args")

	// ErrEmptyArgumentName is returned by [ParseArgument] for input without
	// name.
	ErrEmptyArgumentName = errors.New("empty argument name")

	// ErrSpawn is returned if the QEMU process could not be created.
	ErrSpawn = errors.New("process could not be started")

	// ErrNotStarted is returned if a [Command] is used before
	// [Command.Start] succeeded.
	ErrNotStarted = errors.New("process not started")

	// ErrAlreadyStarted is returned if [Command.Start] is called more than
	// once.
	ErrAlreadyStarted = errors.New("process already started")

	// ErrStopped is returned if [Command.Shutdown] is called more than once.
	ErrStopped = errors.New("process already shut down")

	// ErrKilled is returned if the process did not exit on its own after the
	// quit command and a SIGTERM and had to be killed.
	ErrKilled = errors.New("process killed after grace period")
)

// ArgumentError indicates an issue with an input argument.
type ArgumentError struct {
	msg string
}

// Error implements the [error] interface.
func (e *ArgumentError) Error() string {
	return "argument error: " + e.msg
}

// Is implements the [errors.Is] interface.
func (*ArgumentError) Is(other error) bool {
	_, ok := other.(*ArgumentError)
	return ok
}

// CommandError wraps any error occurred during Command execution.
type CommandError struct {
	Op  string
	Err error
}

// Error implements the [error] interface.
func (e *CommandError) Error() string {
	return "qemu " + e.Op + ": " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*CommandError) Is(other error) bool {
	_, ok := other.(*CommandError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *CommandError) Unwrap() error {
	return e.Err
}
