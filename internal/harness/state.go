// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

// State of an [Executor].
type State int

// Executor states. An executor moves forward only. [Done] and [Aborted] are
// terminal.
const (
	NotStarted State = iota
	Booting
	RunnerLaunching
	RunningTest
	Done
	Aborted
)

var stateNames = map[State]string{
	NotStarted:      "not started",
	Booting:         "booting",
	RunnerLaunching: "launching runner",
	RunningTest:     "running test",
	Done:            "done",
	Aborted:         "aborted",
}

// String implements [fmt.Stringer].
func (s State) String() string {
	name, exists := stateNames[s]
	if !exists {
		return "unknown"
	}

	return name
}

// Terminal returns true for states an executor can not leave.
func (s State) Terminal() bool {
	return s == Done || s == Aborted
}
