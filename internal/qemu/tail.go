// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import "sync"

// tailBuffer is an [io.Writer] that keeps only the last size bytes written.
type tailBuffer struct {
	mu   sync.Mutex
	size int
	data []byte
}

func newTailBuffer(size int) *tailBuffer {
	return &tailBuffer{size: size}
}

// Write implements [io.Writer]. It never fails.
func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = append(b.data, p...)

	if over := len(b.data) - b.size; over > 0 {
		b.data = append(b.data[:0], b.data[over:]...)
	}

	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return string(b.data)
}
