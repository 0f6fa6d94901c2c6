// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package marker detects well-known markers in the guest's log file.
//
// The log is only ever appended to by the guest. Each query reads the whole
// file again, so a marker written between two queries is always seen by the
// next one. A partially written marker simply reads as not present yet.
package marker

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// BootMarker is printed by the guest once its init is ready for input.
const BootMarker = "init is up and running"

// PassMarker returns the marker the guest prints if the test with the given
// id passed.
func PassMarker(id string) string {
	return fmt.Sprintf("TEST[%s] PASS", id)
}

// FailMarker returns the marker the guest prints if the test with the given
// id failed.
func FailMarker(id string) string {
	return fmt.Sprintf("TEST[%s] FAIL", id)
}

// Reader answers marker queries on the log file at Path.
type Reader struct {
	Path string
}

// ReadLog returns the complete current content of the log file.
func (r *Reader) ReadLog() (string, error) {
	content, err := os.ReadFile(r.Path)
	if err != nil {
		return "", &ReadError{Path: r.Path, Err: err}
	}

	return string(content), nil
}

// Contains returns true if the given marker is present in the log.
func (r *Reader) Contains(marker string) (bool, error) {
	log, err := r.ReadLog()
	if err != nil {
		return false, err
	}

	return strings.Contains(log, marker), nil
}

// BootReady returns true if the guest printed the [BootMarker].
//
// A log file that does not exist yet is not an error. The guest might not have
// opened its serial port yet.
func (r *Reader) BootReady() (bool, error) {
	found, err := r.Contains(BootMarker)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	return found, err
}

// TestPassed returns true if the guest printed the [PassMarker] for the test
// with the given id.
func (r *Reader) TestPassed(id string) (bool, error) {
	return r.Contains(PassMarker(id))
}

// TestFailed returns true if the guest printed the [FailMarker] for the test
// with the given id.
func (r *Reader) TestFailed(id string) (bool, error) {
	return r.Contains(FailMarker(id))
}
