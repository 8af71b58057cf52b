package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_Find(t *testing.T) {
	tests := []struct {
		name      string
		matcher   Matcher
		text      string
		wantStart int
		wantEnd   int
		wantCount int
	}{
		{
			name:      "literal_single",
			matcher:   Literal("world"),
			text:      "hello world",
			wantStart: 6,
			wantEnd:   11,
			wantCount: 1,
		},
		{
			name:      "literal_repeated",
			matcher:   Literal("ab"),
			text:      "ab-ab-ab",
			wantStart: 0,
			wantEnd:   2,
			wantCount: 3,
		},
		{
			name:      "literal_missing",
			matcher:   Literal("zzz"),
			text:      "hello world",
			wantCount: 0,
		},
		{
			name:      "literal_empty_never_matches",
			matcher:   Literal(""),
			text:      "hello",
			wantCount: 0,
		},
		{
			name:      "pattern_single",
			matcher:   MustPattern(`w(or)ld`),
			text:      "hello world",
			wantStart: 6,
			wantEnd:   11,
			wantCount: 1,
		},
		{
			name:      "pattern_optional_cr",
			matcher:   MustPattern(`a\r?\nb`),
			text:      "x\r\na\r\nb",
			wantStart: 3,
			wantEnd:   7,
			wantCount: 1,
		},
		{
			name:      "pattern_repeated",
			matcher:   MustPattern(`\d+`),
			text:      "1 22 333",
			wantStart: 0,
			wantEnd:   1,
			wantCount: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, count := tt.matcher.Find(tt.text)
			assert.Equal(t, tt.wantCount, count)
			if tt.wantCount == 0 {
				assert.Nil(t, loc)
				return
			}
			require.NotNil(t, loc)
			assert.Equal(t, tt.wantStart, loc.Start)
			assert.Equal(t, tt.wantEnd, loc.End)
		})
	}
}

func TestMatcher_Expand(t *testing.T) {
	text := "name=patchrc"

	pattern := MustPattern(`(?P<key>\w+)=(\w+)`)
	loc, _ := pattern.Find(text)
	require.NotNil(t, loc)
	assert.Equal(t, "patchrc:name", pattern.Expand("${2}:${key}", text, *loc))
	assert.Equal(t, "$literal", pattern.Expand("$$literal", text, *loc))

	literal := Literal("name")
	loc, _ = literal.Find(text)
	require.NotNil(t, loc)
	assert.Equal(t, "${2} stays", literal.Expand("${2} stays", text, *loc))
}

func TestPattern_Invalid(t *testing.T) {
	_, err := Pattern(`(unclosed`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling pattern")

	assert.Panics(t, func() { MustPattern(`(unclosed`) })

	_, err = PatternRule("broken", `[`, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `rule "broken"`)
}

func TestMatcher_Kind(t *testing.T) {
	assert.Equal(t, KindLiteral, Literal("a").Kind())
	assert.Equal(t, KindPattern, MustPattern("a").Kind())
	assert.Equal(t, "a+", MustPattern("a+").String())
}
