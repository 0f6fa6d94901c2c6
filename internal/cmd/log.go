// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// setupLogging sets the default logger. Each run is tagged with a random id
// so logs of parallel runs in the same CI job can be told apart.
func setupLogging(writer io.Writer, debug bool) string {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	runID := uuid.NewString()

	slog.SetDefault(slog.New(slog.NewTextHandler(
		writer,
		&slog.HandlerOptions{
			Level: level,
		},
	)).With(slog.String("run", runID)))

	return runID
}
