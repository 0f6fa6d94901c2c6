// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"strings"

	"github.com/aibor/guestcheck/internal/qemu"
)

// QemuArgsValue is a repeatable [flag.Value] that collects additional QEMU
// arguments. Each value is parsed by [qemu.ParseArgument].
type QemuArgsValue struct {
	Args *[]qemu.Argument
}

func (v *QemuArgsValue) String() string {
	if v.Args == nil {
		return ""
	}

	strs := make([]string, 0, len(*v.Args))

	for _, arg := range *v.Args {
		str := arg.Name()
		if arg.Value() != "" {
			str += "=" + arg.Value()
		}

		strs = append(strs, str)
	}

	return strings.Join(strs, " ")
}

func (v *QemuArgsValue) Set(s string) error {
	arg, err := qemu.ParseArgument(s)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if v.Args == nil {
		v.Args = new([]qemu.Argument)
	}

	*v.Args = append(*v.Args, arg)

	return nil
}
