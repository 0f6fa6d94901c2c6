// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"errors"
	"fmt"
)

var (
	// ErrBootTimeout is returned if the guest did not finish booting in time.
	ErrBootTimeout = errors.New("boot timed out")

	// ErrTestTimeout is returned if the guest printed neither the pass nor
	// the fail marker of a test in time.
	ErrTestTimeout = errors.New("test timed out")

	// ErrTestFailed is returned if the guest printed the fail marker of a
	// test.
	ErrTestFailed = errors.New("test failed")

	// ErrEmptyID is returned for a plan entry without id.
	ErrEmptyID = errors.New("empty test id")

	// ErrDuplicateID is returned if a plan contains the same id twice.
	ErrDuplicateID = errors.New("duplicate test id")

	// ErrInvalidPlan is returned if the plan document is not an array.
	ErrInvalidPlan = errors.New("invalid plan")

	// ErrInvalidWait is returned for a plan entry with missing, malformed or
	// non-positive wait time.
	ErrInvalidWait = errors.New("invalid wait time")
)

// TestError is returned if a single test of the plan did not pass.
type TestError struct {
	ID  string
	Err error
}

// Error implements the [error] interface.
func (e *TestError) Error() string {
	return fmt.Sprintf("test %s: %v", e.ID, e.Err)
}

// Is implements the [errors.Is] interface.
func (*TestError) Is(other error) bool {
	_, ok := other.(*TestError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *TestError) Unwrap() error {
	return e.Err
}

// PlanError is returned if a test plan can not be loaded.
type PlanError struct {
	Path string
	Err  error
}

// Error implements the [error] interface.
func (e *PlanError) Error() string {
	return fmt.Sprintf("test plan %s: %v", e.Path, e.Err)
}

// Is implements the [errors.Is] interface.
func (*PlanError) Is(other error) bool {
	_, ok := other.(*PlanError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *PlanError) Unwrap() error {
	return e.Err
}
