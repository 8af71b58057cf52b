package operation

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// RenderDiff returns a line diff of before and after with context unchanged
// lines around each change. Line terminators are not shown.
func RenderDiff(before, after string, context int) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var buf strings.Builder
	write := func(c *color.Color, prefix, line string) {
		buf.WriteString(c.Sprint(prefix + line))
		buf.WriteString("\n")
	}

	plain := color.New(color.Reset)
	faint := color.New(color.Faint)
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)

	for i, d := range diffs {
		lines := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			for _, line := range lines {
				write(added, "+ ", line)
			}
		case diffmatchpatch.DiffDelete:
			for _, line := range lines {
				write(removed, "- ", line)
			}
		case diffmatchpatch.DiffEqual:
			var lead, trail []string
			skipped := false
			switch {
			case i == 0:
				trail = lines
				if len(lines) > context {
					trail = lines[len(lines)-context:]
					skipped = true
				}
			case i == len(diffs)-1:
				lead = lines
				if len(lines) > context {
					lead = lines[:context]
					skipped = true
				}
			default:
				lead = lines
				if len(lines) > 2*context {
					lead = lines[:context]
					trail = lines[len(lines)-context:]
					skipped = true
				}
			}

			for _, line := range lead {
				write(plain, "  ", line)
			}
			if skipped {
				write(faint, "  ", "...")
			}
			for _, line := range trail {
				write(plain, "  ", line)
			}
		}
	}

	return buf.String()
}

// splitLines splits text into lines without their terminators
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r\n")
	}
	return lines
}
