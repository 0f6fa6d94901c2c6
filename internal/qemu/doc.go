// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package qemu provides utilities for composing and running the QEMU system
// emulation command that boots the image under test. It expects the required
// QEMU binary to be present on the system.
//
// The guest system is expected to write its log to the first serial port,
// which is redirected into a file on the host. The QEMU monitor is attached to
// the process' stdio and is the only control channel into the guest. Stdout
// and stderr of the process are captured and not shown.
package qemu
