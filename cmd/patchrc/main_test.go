// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/patch"
	"gitlab.com/tozd/go/errors"
)

const testRules = `name: publish
targets:
  - "*.txt"
rules:
  - name: publish
    description: mark drafts published
    literal: status=draft
    replace: status=published
`

func execute(t *testing.T, args ...string) (*opts.RootOpts, string, error) {
	t.Helper()

	color.NoColor = true
	pterm.DisableOutput()
	t.Cleanup(func() {
		color.NoColor = false
		pterm.EnableOutput()
	})

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	o := &opts.RootOpts{UserLogger: log.NewUserLogger(ctx)}

	var out bytes.Buffer
	cmd := newRootCmd(o)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	return o, out.String(), err
}

func setupDir(t *testing.T, rules string, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.yaml"), []byte(rules), 0644))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func read(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestApplyCommand(t *testing.T) {
	tests := []struct {
		name         string
		files        map[string]string
		args         func(dir string) []string
		wantExit     int
		wantContent  map[string]string
		wantInOutput []string
	}{
		{
			name:  "patches_rule_set_targets",
			files: map[string]string{"a.txt": "status=draft\n", "b.txt": "status=published\n"},
			args: func(dir string) []string {
				return []string{"apply", "-r", filepath.Join(dir, "rules.yaml")}
			},
			wantExit: 0,
			wantContent: map[string]string{
				"a.txt": "status=published\n",
				"b.txt": "status=published\n",
			},
			wantInOutput: []string{"patchrc • apply publish (1 rules, 1 targets)", "◆ publish", "mark drafts published", "patched 1 of 2 files"},
		},
		{
			name:  "explicit_file_argument",
			files: map[string]string{"a.txt": "status=draft\n", "b.txt": "status=draft\n"},
			args: func(dir string) []string {
				return []string{"apply", "-r", filepath.Join(dir, "rules.yaml"), filepath.Join(dir, "b.txt")}
			},
			wantExit: 0,
			wantContent: map[string]string{
				"a.txt": "status=draft\n",
				"b.txt": "status=published\n",
			},
		},
		{
			name:  "nothing_matches_exits_one",
			files: map[string]string{"a.txt": "status=published\n"},
			args: func(dir string) []string {
				return []string{"apply", "-r", filepath.Join(dir, "rules.yaml")}
			},
			wantExit:     1,
			wantContent:  map[string]string{"a.txt": "status=published\n"},
			wantInOutput: []string{"no rules applied"},
		},
		{
			name:  "allow_noop_exits_zero",
			files: map[string]string{"a.txt": "status=published\n"},
			args: func(dir string) []string {
				return []string{"apply", "--allow-noop", "-r", filepath.Join(dir, "rules.yaml")}
			},
			wantExit:    0,
			wantContent: map[string]string{"a.txt": "status=published\n"},
		},
		{
			name:  "dry_run_prints_diff",
			files: map[string]string{"a.txt": "status=draft\n"},
			args: func(dir string) []string {
				return []string{"apply", "--dry-run", "-r", filepath.Join(dir, "rules.yaml")}
			},
			wantExit:     0,
			wantContent:  map[string]string{"a.txt": "status=draft\n"},
			wantInOutput: []string{"- status=draft", "+ status=published", "would be patched"},
		},
		{
			name:  "concurrent_with_backup",
			files: map[string]string{"a.txt": "status=draft\n", "b.txt": "status=draft\n"},
			args: func(dir string) []string {
				return []string{"apply", "-j", "2", "--backup", "-r", filepath.Join(dir, "rules.yaml")}
			},
			wantExit: 0,
			wantContent: map[string]string{
				"a.txt":      "status=published\n",
				"b.txt":      "status=published\n",
				"a.txt.orig": "status=draft\n",
				"b.txt.orig": "status=draft\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupDir(t, testRules, tt.files)

			o, out, err := execute(t, tt.args(dir)...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantExit, o.ExitCode)

			for name, want := range tt.wantContent {
				assert.Equal(t, want, read(t, filepath.Join(dir, name)), name)
			}
			for _, want := range tt.wantInOutput {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestApplyCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		rules   string
		files   map[string]string
		args    func(dir string) []string
		wantErr error
	}{
		{
			name:  "missing_rule_file",
			rules: testRules,
			args: func(dir string) []string {
				return []string{"apply", "-r", filepath.Join(dir, "nope.yaml")}
			},
			wantErr: config.ErrConfigNotFound,
		},
		{
			name: "duplicate_rule_names",
			rules: `rules:
  - name: same
    literal: a
    replace: b
  - name: same
    literal: c
    replace: d
`,
			files: map[string]string{"a.txt": "a\n"},
			args: func(dir string) []string {
				return []string{"apply", "-r", filepath.Join(dir, "rules.yaml"), filepath.Join(dir, "a.txt")}
			},
			wantErr: patch.ErrDuplicateRuleName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupDir(t, tt.rules, tt.files)

			_, _, err := execute(t, tt.args(dir)...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestApplyCommand_MissingTarget(t *testing.T) {
	dir := setupDir(t, testRules, map[string]string{"a.txt": "status=draft\n"})

	_, _, err := execute(t, "apply", "-r", filepath.Join(dir, "rules.yaml"), filepath.Join(dir, "a.txt"), filepath.Join(dir, "gone.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source not found")
	assert.Equal(t, "status=draft\n", read(t, filepath.Join(dir, "a.txt")), "no file is written when any target is missing")
}

func TestCheckCommand(t *testing.T) {
	t.Run("idempotent_rules_pass", func(t *testing.T) {
		dir := setupDir(t, testRules, map[string]string{"a.txt": "status=draft\n"})

		o, out, err := execute(t, "check", "-r", filepath.Join(dir, "rules.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 0, o.ExitCode)
		assert.Contains(t, out, "patchrc • check publish (1 rules, 1 targets)")
		assert.Contains(t, out, "1 of 1 files would be patched")
		assert.Equal(t, "status=draft\n", read(t, filepath.Join(dir, "a.txt")))
	})

	t.Run("self_matching_rule_fails", func(t *testing.T) {
		rules := `rules:
  - name: grow
    literal: x
    replace: xx
`
		dir := setupDir(t, rules, map[string]string{"a.txt": "x\n"})

		_, out, err := execute(t, "check", "-r", filepath.Join(dir, "rules.yaml"), filepath.Join(dir, "a.txt"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, patch.ErrNotIdempotent), "got %v", err)
		assert.Contains(t, out, "rule grow applies again")
	})
}

func TestVersionCommand(t *testing.T) {
	_, out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "🚀 patchrc version info:")
	assert.Contains(t, out, "Platform:")
}
