// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"strings"
	"testing"

	"github.com/aibor/guestcheck/internal/qemu"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandSpec_AddDefaults(t *testing.T) {
	spec := qemu.CommandSpec{
		Executable: "qemu-system-x86_64",
		Memory:     1024,
	}
	spec.AddDefaults()

	expected := qemu.CommandSpec{
		Executable:   "qemu-system-x86_64",
		DiskImage:    qemu.DefaultDiskImage,
		SerialLog:    qemu.DefaultSerialLog,
		Memory:       1024,
		CPU:          qemu.DefaultCPU,
		Keymap:       qemu.DefaultKeymap,
		Vendor:       qemu.DefaultVendor,
		Manufacturer: qemu.DefaultManufacturer,
		Product:      qemu.DefaultProduct,
		Serial:       qemu.DefaultSerial,
		GracePeriod:  qemu.DefaultGracePeriod,
	}

	assert.Equal(t, expected, spec)
}

func TestCommandSpec_Validate(t *testing.T) {
	valid := func() qemu.CommandSpec {
		spec := qemu.CommandSpec{}
		spec.AddDefaults()

		return spec
	}

	tests := []struct {
		name        string
		modify      func(*qemu.CommandSpec)
		expectedErr error
	}{
		{
			name:   "defaults",
			modify: func(*qemu.CommandSpec) {},
		},
		{
			name:        "no executable",
			modify:      func(s *qemu.CommandSpec) { s.Executable = "" },
			expectedErr: &qemu.ArgumentError{},
		},
		{
			name:        "no disk image",
			modify:      func(s *qemu.CommandSpec) { s.DiskImage = "" },
			expectedErr: &qemu.ArgumentError{},
		},
		{
			name:        "no serial log",
			modify:      func(s *qemu.CommandSpec) { s.SerialLog = "" },
			expectedErr: &qemu.ArgumentError{},
		},
		{
			name:        "no memory",
			modify:      func(s *qemu.CommandSpec) { s.Memory = 0 },
			expectedErr: &qemu.ArgumentError{},
		},
		{
			name:        "memory too low",
			modify:      func(s *qemu.CommandSpec) { s.Memory = qemu.MinMemory - 1 },
			expectedErr: &qemu.ArgumentError{},
		},
		{
			name:        "memory too high",
			modify:      func(s *qemu.CommandSpec) { s.Memory = qemu.MaxMemory + 1 },
			expectedErr: &qemu.ArgumentError{},
		},
		{
			name:   "memory lower bound",
			modify: func(s *qemu.CommandSpec) { s.Memory = qemu.MinMemory },
		},
		{
			name:   "memory upper bound",
			modify: func(s *qemu.CommandSpec) { s.Memory = qemu.MaxMemory },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := valid()
			tt.modify(&spec)

			err := spec.Validate()
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestNewCommand_DefaultArguments(t *testing.T) {
	spec := qemu.CommandSpec{}
	spec.AddDefaults()

	cmd, err := qemu.NewCommand(spec)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "default_arguments", []byte(strings.Join(cmd.Args(), "\n")+"\n"))

	assert.True(t, strings.HasPrefix(cmd.String(), "qemu-system-i386 -drive "),
		"command string should start with executable")
}

func TestNewCommand_InvalidMemory(t *testing.T) {
	spec := qemu.CommandSpec{Memory: 1}
	spec.AddDefaults()

	_, err := qemu.NewCommand(spec)
	require.ErrorIs(t, err, &qemu.ArgumentError{})
}

func TestNewCommand_ExtraArgs(t *testing.T) {
	tests := []struct {
		name        string
		extra       string
		expectedErr error
	}{
		{
			name:  "additional device",
			extra: "device=e1000",
		},
		{
			name:  "additional drive",
			extra: "drive=file=data.img,format=raw",
		},
		{
			name:        "monitor replaced",
			extra:       "monitor=none",
			expectedErr: qemu.ErrArgumentCollision,
		},
		{
			name:        "serial replaced",
			extra:       "serial=stdio",
			expectedErr: qemu.ErrArgumentCollision,
		},
		{
			name:        "memory replaced",
			extra:       "m=128",
			expectedErr: qemu.ErrArgumentCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arg, err := qemu.ParseArgument(tt.extra)
			require.NoError(t, err)

			spec := qemu.CommandSpec{ExtraArgs: []qemu.Argument{arg}}
			spec.AddDefaults()

			cmd, err := qemu.NewCommand(spec)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr == nil {
				assert.Contains(t, cmd.String(), arg.String())
			}
		})
	}
}
