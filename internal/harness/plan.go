// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// TestCase is a single entry of a [Plan].
type TestCase struct {
	// ID of the test as printed by the guest in its markers.
	ID string

	// Wait is the maximum time in seconds to wait for the test's markers.
	Wait int
}

// UnmarshalJSON implements [json.Unmarshaler].
//
// The wait field may be given as number or as string holding an integer.
// Fractional numbers are truncated.
func (c *TestCase) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   string          `json:"id"`
		Wait json.RawMessage `json:"wait"`
	}

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err //nolint:wrapcheck
	}

	wait, err := parseWait(raw.Wait)
	if err != nil {
		return err
	}

	c.ID = raw.ID
	c.Wait = wait

	return nil
}

func parseWait(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)

	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("%w: missing", ErrInvalidWait)
	}

	if raw[0] == '"' {
		var str string

		err := json.Unmarshal(raw, &str)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidWait, err)
		}

		wait, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidWait, err)
		}

		return wait, nil
	}

	var number float64

	err := json.Unmarshal(raw, &number)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidWait, err)
	}

	if number > maxWait || number < -maxWait {
		return 0, fmt.Errorf("%w: out of range: %g", ErrInvalidWait, number)
	}

	return int(number), nil
}

// maxWait caps wait times so they convert to int on all platforms.
const maxWait = math.MaxInt32

// Plan is an ordered list of tests. Tests are run in the given order.
type Plan []TestCase

// Validate checks that all tests have a unique id and a positive wait time.
func (p Plan) Validate() error {
	seen := make(map[string]int, len(p))

	for idx, test := range p {
		if test.ID == "" {
			return fmt.Errorf("test %d: %w", idx, ErrEmptyID)
		}

		if test.Wait <= 0 {
			return fmt.Errorf("test %s: %w: %d", test.ID, ErrInvalidWait, test.Wait)
		}

		if first, exists := seen[test.ID]; exists {
			return fmt.Errorf("test %d and %d: %w: %s",
				first, idx, ErrDuplicateID, test.ID)
		}

		seen[test.ID] = idx
	}

	return nil
}

// ParsePlan decodes and validates a plan from its JSON representation, an
// array of objects with fields "id" and "wait".
func ParsePlan(data []byte) (Plan, error) {
	var plan Plan

	err := json.Unmarshal(data, &plan)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	// A JSON null decodes into a nil slice without error.
	if plan == nil {
		return nil, fmt.Errorf("%w: not an array", ErrInvalidPlan)
	}

	err = plan.Validate()
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// LoadPlan reads the plan file at the given path. Any error is returned as
// [PlanError].
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PlanError{Path: path, Err: err}
	}

	plan, err := ParsePlan(data)
	if err != nil {
		return nil, &PlanError{Path: path, Err: err}
	}

	return plan, nil
}
