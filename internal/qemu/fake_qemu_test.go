// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sys/unix"
)

const (
	fakeQemuModeEnv   = "GUESTCHECK_FAKE_QEMU"
	fakeQemuRecordEnv = "GUESTCHECK_FAKE_QEMU_RECORD"

	// Quits on "q" like the real QEMU monitor.
	fakeQemuObey = "obey"
	// Ignores "q" but terminates on SIGTERM.
	fakeQemuStubborn = "stubborn"
	// Ignores "q" and SIGTERM.
	fakeQemuDeaf = "deaf"
)

// runFakeQemu emulates the QEMU monitor on stdio. Every line received is
// appended to the record file.
func runFakeQemu(mode, recordPath string) int {
	if mode == fakeQemuDeaf {
		signal.Ignore(unix.SIGTERM)
	}

	record, err := os.OpenFile(recordPath,
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open record:", err)
		return 2
	}
	defer record.Close()

	fmt.Fprintln(os.Stdout, "QEMU 8.2.0 monitor - type 'help' for more information")
	fmt.Fprintln(os.Stderr, "fake qemu started")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fmt.Fprintln(record, scanner.Text())
		fmt.Fprint(os.Stdout, "(qemu) ")

		if scanner.Text() == "q" && mode == fakeQemuObey {
			return 0
		}
	}

	if mode == fakeQemuObey {
		return 0
	}

	time.Sleep(time.Minute)

	return 3
}
