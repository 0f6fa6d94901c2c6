// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package harness runs a test plan against a guest system.
//
// The [Executor] boots the guest, types the command that starts the guest's
// test runner and waits for each test's pass or fail marker in the guest log,
// in plan order. It stops at the first test that fails or times out.
package harness
