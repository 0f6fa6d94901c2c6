// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"testing"
	"testing/fstest"

	"github.com/aibor/guestcheck/internal/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvArgs(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		output []string
	}{
		{
			name:   "empty",
			env:    "",
			output: []string{},
		},
		{
			name:   "multiple args",
			env:    "-image build/os.img  -debug",
			output: []string{"-image", "build/os.img", "-debug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GUESTCHECK_ARGS", tt.env)
			assert.Equal(t, tt.output, cmd.EnvArgs())
		})
	}
}

func TestLocalConfigArgs(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		env      map[string]string
		expected []string
	}{
		{
			name:     "empty",
			content:  "",
			expected: []string{},
		},
		{
			name:     "single line",
			content:  "-arg1=3\n-arg2=4 5",
			expected: []string{"-arg1=3", "-arg2=4 5"},
		},
		{
			name:     "multiple lines",
			content:  "-arg1\n3\n\n-arg2\n  4  \n",
			expected: []string{"-arg1", "3", "-arg2", "4"},
		},
		{
			name:     "with env vars",
			content:  "-arg1=${VAR1}\n-arg2=$VAR2--\n-arg3=${VAR3}/more\n",
			env:      map[string]string{"VAR1": "42", "VAR2": "__"},
			expected: []string{"-arg1=42", "-arg2=__--", "-arg3=/more"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFS := fstest.MapFS{
				"conf": &fstest.MapFile{
					Data: []byte(tt.content),
				},
			}

			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			content, err := cmd.LocalConfigArgs(testFS, "conf")
			require.NoError(t, err)

			assert.Equal(t, tt.expected, content)
		})
	}
}

func TestLocalConfigArgs_Missing(t *testing.T) {
	content, err := cmd.LocalConfigArgs(fstest.MapFS{}, "conf")
	require.NoError(t, err)

	assert.Empty(t, content)
}

func TestLocalConfigArgs_NotAFile(t *testing.T) {
	testFS := fstest.MapFS{
		"conf/file": &fstest.MapFile{},
	}

	_, err := cmd.LocalConfigArgs(testFS, "conf")
	require.Error(t, err)
}

func TestMergedArgs(t *testing.T) {
	testFS := fstest.MapFS{
		".guestcheck-args": &fstest.MapFile{
			Data: []byte("-memory=512\n-cpu=pentium\n"),
		},
	}

	t.Setenv("GUESTCHECK_ARGS", "-memory=1024 -debug")

	tests := []struct {
		name        string
		args        []string
		file        string
		expected    []string
		expectedErr error
	}{
		{
			name: "order of precedence",
			args: []string{"guestcheck", "-memory=2048", "plan.json"},
			file: ".guestcheck-args",
			expected: []string{
				"guestcheck",
				"-memory=512", "-cpu=pentium",
				"-memory=1024", "-debug",
				"-memory=2048", "plan.json",
			},
		},
		{
			name: "no config file",
			args: []string{"guestcheck", "plan.json"},
			file: "missing",
			expected: []string{
				"guestcheck",
				"-memory=1024", "-debug",
				"plan.json",
			},
		},
		{
			name:        "no program name",
			file:        ".guestcheck-args",
			expectedErr: &cmd.ParseArgsError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, err := cmd.MergedArgs(tt.args, testFS, tt.file)
			require.ErrorIs(t, err, tt.expectedErr)

			assert.Equal(t, tt.expected, merged)
		})
	}
}
