package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestResolveTargets(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"a.tsx", "b.tsx", "nested/c.tsx", "nested/deep/d.tsx", "readme.md"} {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(f), 0644))
	}

	tests := []struct {
		name      string
		patterns  []string
		want      []string
		wantErr   error
		wantError string
	}{
		{
			name:     "literal_path",
			patterns: []string{"a.tsx"},
			want:     []string{"a.tsx"},
		},
		{
			name:     "missing_literal_path_is_kept",
			patterns: []string{"missing.tsx"},
			want:     []string{"missing.tsx"},
		},
		{
			name:     "single_star",
			patterns: []string{"*.tsx"},
			want:     []string{"a.tsx", "b.tsx"},
		},
		{
			name:     "double_star",
			patterns: []string{"**/*.tsx"},
			want:     []string{"a.tsx", "b.tsx", "nested/c.tsx", "nested/deep/d.tsx"},
		},
		{
			name:     "duplicates_removed",
			patterns: []string{"a.tsx", "*.tsx", "./a.tsx"},
			want:     []string{"a.tsx", "b.tsx"},
		},
		{
			name:     "directories_skipped",
			patterns: []string{"nest*"},
			wantErr:  ErrSourceNotFound,
		},
		{
			name:      "no_matches",
			patterns:  []string{"*.go"},
			wantErr:   ErrSourceNotFound,
			wantError: "matched no files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTargets(dir, tt.patterns)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)

			want := make([]string, 0, len(tt.want))
			for _, w := range tt.want {
				want = append(want, filepath.Join(dir, w))
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestResolveTargets_Absolute(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abs.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	got, err := ResolveTargets("/somewhere/else", []string{path})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, got)
}
