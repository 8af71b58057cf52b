package patch

import "strings"

// LineEnding is the line terminator convention of a text buffer
type LineEnding string

const (
	LF   LineEnding = "\n"
	CRLF LineEnding = "\r\n"
)

// DetectLineEnding reports the dominant convention of text. Text with no
// line breaks, or with more bare LF than CRLF breaks, is LF. In mixed text
// the minority breaks are not matched by converted literal rule text; rules
// that must span them should be patterns using "\r?\n".
func DetectLineEnding(text string) LineEnding {
	crlf := strings.Count(text, "\r\n")
	if crlf == 0 {
		return LF
	}
	if bare := strings.Count(text, "\n") - crlf; crlf >= bare {
		return CRLF
	}
	return LF
}

// Convert rewrites every line break in s to le.
func (le LineEnding) Convert(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if le == CRLF {
		s = strings.ReplaceAll(s, "\n", "\r\n")
	}
	return s
}

func (le LineEnding) String() string {
	if le == CRLF {
		return "crlf"
	}
	return "lf"
}
