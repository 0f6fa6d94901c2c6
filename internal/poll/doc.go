// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package poll provides a bounded wait for external conditions that can only
// be observed by checking them repeatedly.
//
// A [Poller] checks a success and an optional failure [Condition] once per
// interval, up to a deadline given in intervals. Success is always checked
// first, so if both conditions are met at the same poll, the wait succeeds.
package poll
