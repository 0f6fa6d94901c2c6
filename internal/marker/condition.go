// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package marker

import "github.com/aibor/guestcheck/internal/poll"

var (
	_ poll.Condition = Boot{}
	_ poll.Condition = Passed{}
	_ poll.Condition = Failed{}
)

// Boot is met once the guest finished booting.
type Boot struct {
	Reader *Reader
}

// Met implements [poll.Condition].
func (c Boot) Met() (bool, error) {
	return c.Reader.BootReady()
}

// Passed is met once the test with the given ID passed.
type Passed struct {
	Reader *Reader
	ID     string
}

// Met implements [poll.Condition].
func (c Passed) Met() (bool, error) {
	return c.Reader.TestPassed(c.ID)
}

// Failed is met once the test with the given ID failed.
type Failed struct {
	Reader *Reader
	ID     string
}

// Met implements [poll.Condition].
func (c Failed) Met() (bool, error) {
	return c.Reader.TestFailed(c.ID)
}
