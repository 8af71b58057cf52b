package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		name string
		text string
		want LineEnding
	}{
		{name: "empty", text: "", want: LF},
		{name: "single_line", text: "no breaks", want: LF},
		{name: "lf_only", text: "a\nb\n", want: LF},
		{name: "crlf_only", text: "a\r\nb\r\n", want: CRLF},
		{name: "mostly_crlf", text: "a\r\nb\r\nc\n", want: CRLF},
		{name: "mostly_lf", text: "a\r\nb\nc\n", want: LF},
		{name: "tie_prefers_crlf", text: "a\r\nb\n", want: CRLF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLineEnding(tt.text))
		})
	}
}

func TestLineEnding_Convert(t *testing.T) {
	assert.Equal(t, "a\r\nb\r\n", CRLF.Convert("a\nb\n"))
	assert.Equal(t, "a\r\nb\r\n", CRLF.Convert("a\r\nb\n"))
	assert.Equal(t, "a\nb\n", LF.Convert("a\r\nb\r\n"))
	assert.Equal(t, "plain", LF.Convert("plain"))
	assert.Equal(t, "crlf", CRLF.String())
	assert.Equal(t, "lf", LF.String())
}
