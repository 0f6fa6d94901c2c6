// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package monitor encodes text as QEMU monitor commands.
//
// The guest can only be driven through a simulated keyboard. Each character is
// typed by its own "sendkey" command, one command per line.
package monitor

import "fmt"

const (
	// SendKeyCommand is the monitor command that injects a single key press.
	SendKeyCommand = "sendkey"

	// QuitCommand is the monitor command that quits the emulator.
	QuitCommand = "q"

	// EnterKey is the key sent for line breaks and after each typed text.
	EnterKey = "kp_enter"
)

// keyNames maps characters that can not be used as key names directly.
var keyNames = map[rune]string{
	'/':  "slash",
	'&':  "shift-7",
	'\n': EnterKey,
	'.':  "dot",
	' ':  "spc",
}

// LineSender sends a single command line to the monitor.
type LineSender interface {
	SendLine(line string) error
}

// KeyName returns the monitor key name for the given character.
func KeyName(char rune) string {
	if name, exists := keyNames[char]; exists {
		return name
	}

	return string(char)
}

// SendKey returns the monitor command line that presses the given key.
func SendKey(key string) string {
	return SendKeyCommand + " " + key
}

// Encode returns the monitor command lines that type the given text followed
// by a single enter key press.
func Encode(text string) []string {
	lines := make([]string, 0, len(text)+1)

	for _, char := range text {
		lines = append(lines, SendKey(KeyName(char)))
	}

	return append(lines, SendKey(EnterKey))
}

// Type types the given text followed by enter via the given [LineSender].
//
// It stops at the first failing line.
func Type(sender LineSender, text string) error {
	for _, line := range Encode(text) {
		err := sender.SendLine(line)
		if err != nil {
			return fmt.Errorf("type %q: %w", text, err)
		}
	}

	return nil
}
