// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package poll

// Outcome is the result of a [Poller.Wait].
type Outcome int

const (
	// Undecided is returned along with an error if the wait was aborted.
	Undecided Outcome = iota
	// Succeeded means the success condition was met.
	Succeeded
	// Failed means the failure condition was met.
	Failed
	// TimedOut means no condition was met until the deadline.
	TimedOut
)

// String implements [fmt.Stringer].
func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "PASS"
	case Failed:
		return "FAIL"
	case TimedOut:
		return "TIMEOUT"
	default:
		return "UNDECIDED"
	}
}

// Result describes how a [Poller.Wait] ended.
type Result struct {
	Outcome Outcome

	// Polls is the number of intervals that passed.
	Polls int

	// Deadline is the maximum number of intervals that were allowed.
	Deadline int
}
