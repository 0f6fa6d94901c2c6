// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package poll

// Condition is checked by [Poller.Wait] once per interval.
//
// Met must derive its answer from the current external state only. An error
// aborts the wait.
type Condition interface {
	Met() (bool, error)
}

// ConditionFunc is a function used as [Condition].
type ConditionFunc func() (bool, error)

// Met implements [Condition].
func (f ConditionFunc) Met() (bool, error) {
	return f()
}
