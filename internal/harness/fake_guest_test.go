// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const bootLine = "init is up and running\n"

var errSend = errors.New("monitor gone")

// fakeGuest is a scripted guest process. Its clock advances only when the
// executor sleeps. The timeline maps poll ticks to log output that is
// appended right after the tick.
type fakeGuest struct {
	t *testing.T

	logPath  string
	timeline map[int]string
	removeAt int

	startErr    error
	sendErr     error
	shutdownErr error
	errorOutput string

	ticks             int
	lines             []string
	shutdowns         int
	logExistedAtStart bool
}

func newFakeGuest(t *testing.T, timeline map[int]string) *fakeGuest {
	t.Helper()

	return &fakeGuest{
		t:        t,
		logPath:  filepath.Join(t.TempDir(), "kernel.log"),
		timeline: timeline,
	}
}

func (g *fakeGuest) Start() error {
	if g.startErr != nil {
		return g.startErr
	}

	_, err := os.Stat(g.logPath)
	g.logExistedAtStart = err == nil

	return nil
}

func (g *fakeGuest) SendLine(line string) error {
	if g.sendErr != nil {
		return g.sendErr
	}

	g.lines = append(g.lines, line)

	return nil
}

func (g *fakeGuest) Shutdown() error {
	g.shutdowns++
	return g.shutdownErr
}

func (g *fakeGuest) ErrorOutput() string {
	return g.errorOutput
}

func (g *fakeGuest) Sleep(ctx context.Context, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.ticks++

	if g.removeAt > 0 && g.ticks == g.removeAt {
		require.NoError(g.t, os.Remove(g.logPath))
		require.NoError(g.t, os.Mkdir(g.logPath, 0o700))
	}

	if output, exists := g.timeline[g.ticks]; exists {
		g.appendLog(output)
	}

	return nil
}

func (g *fakeGuest) appendLog(output string) {
	g.t.Helper()

	file, err := os.OpenFile(g.logPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
	require.NoError(g.t, err)

	_, err = file.WriteString(output)
	require.NoError(g.t, err)
	require.NoError(g.t, file.Close())
}
