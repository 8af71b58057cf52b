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

package patch

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔍 MatcherKind identifies how a matcher locates its span
type MatcherKind string

const (
	KindLiteral MatcherKind = "literal"
	KindPattern MatcherKind = "pattern"
)

// 📍 Location is a located span in the working text
type Location struct {
	Start int
	End   int

	// submatch index pairs as returned by regexp, nil for literals
	groups []int
}

// 🎯 Matcher locates the span a rule rewrites
type Matcher interface {
	// Find returns the first occurrence in text and the total number of
	// non-overlapping occurrences. loc is nil when count is zero.
	Find(text string) (loc *Location, count int)

	// Expand renders the replacement template for a located match.
	Expand(template, text string, loc Location) string

	Kind() MatcherKind
	String() string
}

// lineEndingAware is implemented by matchers whose source text should follow
// the working text's line endings.
type lineEndingAware interface {
	withLineEnding(le LineEnding) Matcher
}

// 📝 literalMatcher matches an exact substring
type literalMatcher struct {
	text string
}

// Literal returns a matcher for an exact substring. The replacement of a
// literal rule is inserted verbatim.
func Literal(text string) Matcher {
	return &literalMatcher{text: text}
}

func (m *literalMatcher) Find(text string) (*Location, int) {
	if m.text == "" {
		return nil, 0
	}
	idx := strings.Index(text, m.text)
	if idx < 0 {
		return nil, 0
	}
	return &Location{Start: idx, End: idx + len(m.text)}, strings.Count(text, m.text)
}

func (m *literalMatcher) Expand(template, _ string, _ Location) string {
	return template
}

func (m *literalMatcher) Kind() MatcherKind { return KindLiteral }

func (m *literalMatcher) String() string { return m.text }

func (m *literalMatcher) withLineEnding(le LineEnding) Matcher {
	return &literalMatcher{text: le.Convert(m.text)}
}

// 🧩 patternMatcher matches a regular expression with capture groups
type patternMatcher struct {
	re *regexp.Regexp
}

// Pattern compiles expr into a matcher. The replacement template may refer to
// captures as $1, ${1} or ${name}.
func Pattern(expr string) (Matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Errorf("compiling pattern %q: %w", expr, err)
	}
	return &patternMatcher{re: re}, nil
}

// MustPattern is like Pattern but panics if expr does not compile.
func MustPattern(expr string) Matcher {
	m, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *patternMatcher) Find(text string) (*Location, int) {
	groups := m.re.FindStringSubmatchIndex(text)
	if groups == nil {
		return nil, 0
	}
	count := len(m.re.FindAllStringIndex(text, -1))
	return &Location{Start: groups[0], End: groups[1], groups: groups}, count
}

func (m *patternMatcher) Expand(template, text string, loc Location) string {
	return string(m.re.ExpandString(nil, template, text, loc.groups))
}

func (m *patternMatcher) Kind() MatcherKind { return KindPattern }

func (m *patternMatcher) String() string { return m.re.String() }
