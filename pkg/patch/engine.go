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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrNotIdempotent marks a rule set whose rules fire again on their own output
var ErrNotIdempotent = errors.Base("rule set is not idempotent")

// 📊 Outcome records what a single rule did during a run
type Outcome struct {
	Name    string
	Applied bool

	// Matches is the number of occurrences found in the working text.
	// Values above one mean only the first occurrence was rewritten.
	Matches int

	// Offset is the byte offset of the rewritten span in the working text,
	// -1 when the rule did not apply
	Offset int
}

// Ambiguous reports whether the matcher found more than one occurrence
func (o Outcome) Ambiguous() bool {
	return o.Matches > 1
}

// 📦 Result is the outcome of applying a rule set to a text buffer
type Result struct {
	OriginalText string
	FinalText    string

	// Applied and Unapplied list rule names in rule-set order
	Applied   []string
	Unapplied []string

	// Outcomes holds one entry per rule in rule-set order
	Outcomes []Outcome

	// Changed is true when at least one rule applied
	Changed bool

	// LineEnding is the convention detected in the original text
	LineEnding LineEnding
}

// Ambiguous returns the outcomes of rules that matched more than once
func (r *Result) Ambiguous() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Ambiguous() {
			out = append(out, o)
		}
	}
	return out
}

// 🔌 Applier applies rule sets to text
type Applier interface {
	// Apply runs rules in order against text and reports which applied
	Apply(text string, rules []Rule) (*Result, error)
}

// 🛠️ Engine is the default Applier
//
// Each rule sees the working text as left by the rules before it. A rule
// applies at most once: when its matcher finds several occurrences only the
// first is rewritten and the count is kept in the Outcome. A matcher finding
// nothing is recorded as unapplied and the run continues.
//
// Rule text is authored with "\n" line breaks. Literal matchers and all
// replacements are rewritten to the line ending detected in the input, so
// the bytes of a CRLF file stay CRLF. Pattern expressions are used as written
// and should match "\r?\n" where they span lines.
type Engine struct{}

// NewEngine creates a new Engine
func NewEngine() *Engine {
	return &Engine{}
}

// Apply implements Applier.Apply. The only errors are rule set
// configuration errors, reported before any matching is attempted.
func (e *Engine) Apply(text string, rules []Rule) (*Result, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	le := DetectLineEnding(text)
	result := &Result{
		OriginalText: text,
		FinalText:    text,
		Applied:      []string{},
		Unapplied:    []string{},
		Outcomes:     make([]Outcome, 0, len(rules)),
		LineEnding:   le,
	}

	working := text
	for _, rule := range rules {
		m := rule.Matcher
		if a, ok := m.(lineEndingAware); ok {
			m = a.withLineEnding(le)
		}

		outcome := Outcome{Name: rule.Name, Offset: -1}
		loc, count := m.Find(working)
		outcome.Matches = count
		if loc == nil {
			result.Unapplied = append(result.Unapplied, rule.Name)
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		replacement := m.Expand(le.Convert(rule.Replacement), working, *loc)
		working = working[:loc.Start] + replacement + working[loc.End:]

		outcome.Applied = true
		outcome.Offset = loc.Start
		result.Applied = append(result.Applied, rule.Name)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	result.Changed = len(result.Applied) > 0
	if result.Changed {
		result.FinalText = working
	}
	return result, nil
}

// CheckIdempotent runs the package-level CheckIdempotent with e.
func (e *Engine) CheckIdempotent(text string, rules []Rule) (*Result, []string, error) {
	return CheckIdempotent(e, text, rules)
}

// CheckIdempotent applies rules to text and then again to the result. It
// returns the first result and, wrapped in ErrNotIdempotent, the names of
// rules that fired on the already-patched text.
func CheckIdempotent(a Applier, text string, rules []Rule) (*Result, []string, error) {
	first, err := a.Apply(text, rules)
	if err != nil {
		return nil, nil, err
	}

	second, err := a.Apply(first.FinalText, rules)
	if err != nil {
		return nil, nil, err
	}

	if second.Changed {
		return first, second.Applied, errors.Errorf("%w: %s", ErrNotIdempotent, strings.Join(second.Applied, ", "))
	}
	return first, nil, nil
}

// Apply runs rules against text with a default Engine.
func Apply(text string, rules []Rule) (*Result, error) {
	return NewEngine().Apply(text, rules)
}
