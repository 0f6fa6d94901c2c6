// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"slices"
	"strings"
)

// Argument is a QEMU argument with or without value.
//
// Its name might be marked to be unique in a list of arguments.
type Argument struct {
	name          string
	value         string
	nonUniqueName bool
}

// String implements [fmt.Stringer].
func (a Argument) String() string {
	s := "-" + a.name
	if a.value != "" {
		s += " " + a.value
	}

	return s
}

// Name returns the name of the [Argument].
func (a Argument) Name() string {
	return a.name
}

// Value returns the value of the [Argument].
func (a Argument) Value() string {
	return a.value
}

// UniqueName returns if the name of the [Argument] must be unique in an
// argument list.
func (a Argument) UniqueName() bool {
	return !a.nonUniqueName
}

// Equal compares the [Argument]s.
//
// If the name of any of both is marked unique, only names are compared.
// Otherwise name and value are compared.
func (a Argument) Equal(other Argument) bool {
	if a.name != other.name {
		return false
	}

	if a.UniqueName() || other.UniqueName() {
		return true
	}

	return a.value == other.value
}

// UniqueArg returns a new [Argument] with the given name that is marked as
// unique and so can be used in an argument list only once.
func UniqueArg(name string, value ...string) Argument {
	return Argument{
		name:  name,
		value: strings.Join(value, ","),
	}
}

// RepeatableArg returns a new [Argument] with the given name that is not
// unique and so can be used in an argument list multiple times.
func RepeatableArg(name string, value ...string) Argument {
	return Argument{
		name:          name,
		value:         strings.Join(value, ","),
		nonUniqueName: true,
	}
}

// ParseArgument parses an argument given as "name=value" or "name". A leading
// dash of the name is ignored. The returned [Argument] is repeatable, so it
// collides only with unique arguments of the same name or with the same
// argument given twice.
func ParseArgument(input string) (Argument, error) {
	name, value, _ := strings.Cut(input, "=")

	name = strings.TrimPrefix(name, "-")
	if name == "" {
		return Argument{}, fmt.Errorf("%w: %q", ErrEmptyArgumentName, input)
	}

	return RepeatableArg(name, value), nil
}

// BuildArgumentStrings renders the [Argument]s as command line strings for
// [exec.Command].
//
// An [Argument] that is equal to an earlier one is reported as
// [ErrArgumentCollision] naming both.
func BuildArgumentStrings(args []Argument) ([]string, error) {
	strs := make([]string, 0, 2*len(args))

	for idx, arg := range args {
		earlier := slices.IndexFunc(args[:idx], arg.Equal)
		if earlier >= 0 {
			return nil, fmt.Errorf("%w: %s conflicts with %s",
				ErrArgumentCollision, arg, args[earlier])
		}

		strs = append(strs, "-"+arg.Name())

		if arg.Value() != "" {
			strs = append(strs, arg.Value())
		}
	}

	return strs, nil
}
