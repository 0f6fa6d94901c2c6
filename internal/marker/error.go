// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package marker

// ReadError is returned if the log file can not be read.
type ReadError struct {
	Path string
	Err  error
}

// Error implements the [error] interface.
func (e *ReadError) Error() string {
	return "read log " + e.Path + ": " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*ReadError) Is(other error) bool {
	_, ok := other.(*ReadError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ReadError) Unwrap() error {
	return e.Err
}
