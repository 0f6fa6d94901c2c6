// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package poll

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// DefaultInterval is used if [Poller.Interval] is not set.
const DefaultInterval = time.Second

// SleepFunc blocks for the given duration or until the context is done.
type SleepFunc func(ctx context.Context, duration time.Duration) error

// Poller waits for conditions in fixed intervals.
//
// The zero value is ready to use. It polls once per [DefaultInterval] and
// discards progress output.
type Poller struct {
	// Interval between two polls.
	Interval time.Duration

	// Progress receives a human readable progress line per wait. Write
	// errors are ignored.
	Progress io.Writer

	// Sleep is used to wait for each interval. If not set, a timer is used.
	Sleep SleepFunc
}

// Wait polls until the success or failure condition is met or the deadline
// is reached.
//
// The deadline is the maximum number of intervals to wait. After each
// interval, success is checked first. If it is not met and failure is not nil,
// failure is checked next. If neither is met after the last interval,
// [TimedOut] is returned.
//
// An error is returned only if a condition fails or the context is done. The
// result's outcome is [Undecided] in this case.
func (p *Poller) Wait(
	ctx context.Context,
	label string,
	deadline int,
	success Condition,
	failure Condition,
) (Result, error) {
	result := Result{Deadline: deadline}

	p.progress("%s...", label)

	for result.Polls < deadline {
		err := p.sleep(ctx)
		if err != nil {
			p.progress("ABORTED\n")
			return result, fmt.Errorf("wait for %s: %w", label, err)
		}

		result.Polls++

		p.progress(".")

		result.Outcome, err = check(success, failure)
		if err != nil {
			p.progress("ERROR\n")
			return result, fmt.Errorf("wait for %s: %w", label, err)
		}

		if result.Outcome != Undecided {
			p.progress("%s (in %s of %s)\n", result.Outcome,
				p.elapsed(result.Polls), p.elapsed(deadline))

			return p.done(label, result), nil
		}
	}

	result.Outcome = TimedOut

	p.progress("%s\n", result.Outcome)

	return p.done(label, result), nil
}

func check(success, failure Condition) (Outcome, error) {
	met, err := success.Met()
	if err != nil {
		return Undecided, err
	}

	if met {
		return Succeeded, nil
	}

	if failure == nil {
		return Undecided, nil
	}

	met, err = failure.Met()
	if err != nil {
		return Undecided, err
	}

	if met {
		return Failed, nil
	}

	return Undecided, nil
}

func (p *Poller) done(label string, result Result) Result {
	slog.Debug("Wait finished",
		slog.String("label", label),
		slog.String("outcome", result.Outcome.String()),
		slog.Int("polls", result.Polls),
		slog.Int("deadline", result.Deadline))

	return result
}

func (p *Poller) interval() time.Duration {
	if p.Interval <= 0 {
		return DefaultInterval
	}

	return p.Interval
}

func (p *Poller) elapsed(polls int) time.Duration {
	return time.Duration(polls) * p.interval()
}

func (p *Poller) sleep(ctx context.Context) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, p.interval())
	}

	return Sleep(ctx, p.interval())
}

func (p *Poller) progress(format string, args ...any) {
	if p.Progress == nil {
		return
	}

	_, _ = fmt.Fprintf(p.Progress, format, args...)
}

// Sleep is the default [SleepFunc]. It returns the context's error if the
// context is done before the duration passed.
func Sleep(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	case <-timer.C:
		return nil
	}
}
