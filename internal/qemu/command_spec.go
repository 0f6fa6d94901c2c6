// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Defaults used by [CommandSpec.AddDefaults] for unset fields.
const (
	DefaultExecutable   = "qemu-system-i386"
	DefaultDiskImage    = "out/os.img"
	DefaultSerialLog    = "out/kernel.log"
	DefaultMemory       = 768
	DefaultCPU          = "n270"
	DefaultKeymap       = "en-us"
	DefaultVendor       = "Puppy"
	DefaultManufacturer = "Puppy"
	DefaultProduct      = "Puppy System"
	DefaultSerial       = "P0PP1"
	DefaultGracePeriod  = 5 * time.Second
)

// Bounds for [CommandSpec.Memory] in MB.
const (
	MinMemory = 64
	MaxMemory = 16384
)

// CommandSpec defines the parameters for a [Command].
type CommandSpec struct {
	// Path to the qemu-system binary.
	Executable string

	// Path to the raw disk image to boot.
	DiskImage string

	// Path of the file the guest's first serial port is written to. This is
	// the log the harness watches for markers.
	SerialLog string

	// Memory for the machine in MB.
	Memory uint64

	// CPU type to use. Depends on the QEMU binary used.
	CPU string

	// Keyboard layout used by the monitor's sendkey command.
	Keymap string

	// SMBIOS identification strings. The guest reads them to identify the
	// environment it runs in.
	Vendor       string
	Manufacturer string
	Product      string
	Serial       string

	// ExtraArgs are appended to the QEMU arguments. Unique arguments set by
	// the command itself, like the monitor and the serial log, can not be
	// replaced. [NewCommand] returns [ErrArgumentCollision] in that case.
	ExtraArgs []Argument

	// Working directory of the QEMU process. Relative paths are relative to
	// it. Empty means the current working directory.
	Dir string

	// Time to wait for the process to exit after the quit command before
	// escalating to SIGTERM and then SIGKILL.
	GracePeriod time.Duration
}

// AddDefaults sets the default values for all fields that are not set yet.
func (s *CommandSpec) AddDefaults() {
	setDefault(&s.Executable, DefaultExecutable)
	setDefault(&s.DiskImage, DefaultDiskImage)
	setDefault(&s.SerialLog, DefaultSerialLog)
	setDefault(&s.CPU, DefaultCPU)
	setDefault(&s.Keymap, DefaultKeymap)
	setDefault(&s.Vendor, DefaultVendor)
	setDefault(&s.Manufacturer, DefaultManufacturer)
	setDefault(&s.Product, DefaultProduct)
	setDefault(&s.Serial, DefaultSerial)

	if s.Memory == 0 {
		s.Memory = DefaultMemory
	}

	if s.GracePeriod == 0 {
		s.GracePeriod = DefaultGracePeriod
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Validate checks that all essential fields are set and memory is within
// [MinMemory] and [MaxMemory].
func (s *CommandSpec) Validate() error {
	switch {
	case s.Executable == "":
		return &ArgumentError{"no qemu executable given"}
	case s.DiskImage == "":
		return &ArgumentError{"no disk image given"}
	case s.SerialLog == "":
		return &ArgumentError{"no serial log path given"}
	case s.Memory < MinMemory || s.Memory > MaxMemory:
		return &ArgumentError{fmt.Sprintf(
			"memory %d MB not within %d..%d", s.Memory, MinMemory, MaxMemory)}
	}

	return nil
}

// arguments compiles the argument list for the QEMU command.
func (s *CommandSpec) arguments() []Argument {
	args := []Argument{
		RepeatableArg("drive",
			"format=raw",
			"media=disk",
			"file="+escapeOptionValue(s.DiskImage),
		),
		// Disable video output.
		UniqueArg("display", "none"),
		// Guest log output the markers are searched in.
		UniqueArg("serial", "file:"+s.SerialLog),
		UniqueArg("m", strconv.FormatUint(s.Memory, 10)),
		// Log invalid guest operations to QEMU's stderr.
		UniqueArg("d", "guest_errors"),
		UniqueArg("rtc", "base=utc"),
		// Monitor on stdio is the control channel for key injection.
		UniqueArg("monitor", "stdio"),
		RepeatableArg("smbios",
			"type=0",
			"vendor="+escapeOptionValue(s.Vendor),
		),
		RepeatableArg("smbios",
			"type=1",
			"manufacturer="+escapeOptionValue(s.Manufacturer),
			"product="+escapeOptionValue(s.Product),
			"serial="+escapeOptionValue(s.Serial),
		),
	}

	if s.Keymap != "" {
		args = append(args, UniqueArg("k", s.Keymap))
	}

	if s.CPU != "" {
		args = append(args, UniqueArg("cpu", s.CPU))
	}

	return append(args, s.ExtraArgs...)
}

// escapeOptionValue escapes commas in QEMU option values. QEMU uses a double
// comma for a literal one.
func escapeOptionValue(value string) string {
	return strings.ReplaceAll(value, ",", ",,")
}
