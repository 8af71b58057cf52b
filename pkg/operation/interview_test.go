package operation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/pkg/config"
)

func TestInterviewSafetyRules(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join("testdata", "InterviewScreen.tsx"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		content string
		ending  string
	}{
		{name: "lf_file", content: string(fixture), ending: "lf"},
		{name: "crlf_file", content: strings.ReplaceAll(string(fixture), "\n", "\r\n"), ending: "crlf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)

			rs, err := config.Load(ctx, filepath.Join("..", "..", "examples", "interview-safety.yaml"))
			require.NoError(t, err)

			path := writeFile(t, t.TempDir(), "InterviewScreen.tsx", tt.content)
			runner := NewRunner(Options{})

			summary, err := runner.Run(ctx, rs, []string{path})
			require.NoError(t, err)

			result := summary.Files[0].Result
			assert.Equal(t, []string{
				"add-ai-decision-ref",
				"add-hard-timer",
				"store-ai-decision",
				"add-manual-end",
				"wire-end-button",
			}, result.Applied)
			assert.Empty(t, result.Unapplied)
			assert.Empty(t, result.Ambiguous())
			assert.Equal(t, tt.ending, result.LineEnding.String())

			patched := readFile(t, path)
			assert.Contains(t, patched, "onClick={handleManualEnd}")
			assert.Contains(t, patched, "aiDecisionRef.current = { passed, reason };")
			assert.Contains(t, patched, "const forceEndTimer = setTimeout")
			if tt.ending == "crlf" {
				assert.Equal(t, strings.Count(patched, "\n"), strings.Count(patched, "\r\n"), "every line break stays CRLF")
			} else {
				assert.NotContains(t, patched, "\r")
			}

			again, err := runner.Run(ctx, rs, []string{path})
			require.NoError(t, err)
			assert.Equal(t, OutcomeNoOp, again.Outcome())
			assert.Equal(t, patched, readFile(t, path))

			check, err := runner.Check(ctx, rs, []string{writeFile(t, t.TempDir(), "InterviewScreen.tsx", tt.content)})
			require.NoError(t, err)
			assert.True(t, check.Idempotent())
		})
	}
}
