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
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrDuplicateRuleName is returned when two rules in a set share a name
	ErrDuplicateRuleName = errors.Base("duplicate rule name")

	// ErrInvalidRule is returned for rules without a name or matcher
	ErrInvalidRule = errors.Base("invalid rule")
)

// 🔄 Rule is a named matcher and replacement, applied at most once per run
type Rule struct {
	// Name identifies the rule and must be unique within a rule set
	Name string

	// Description is free text shown in run summaries
	Description string

	// Matcher locates the span to rewrite
	Matcher Matcher

	// Replacement is inserted verbatim for literal matchers and expanded as
	// a template for pattern matchers
	Replacement string
}

// LiteralRule builds a rule that replaces an exact substring.
func LiteralRule(name, old, replacement string) Rule {
	return Rule{Name: name, Matcher: Literal(old), Replacement: replacement}
}

// PatternRule builds a rule that rewrites a regular expression match.
func PatternRule(name, expr, template string) (Rule, error) {
	m, err := Pattern(expr)
	if err != nil {
		return Rule{}, errors.Errorf("rule %q: %w", name, err)
	}
	return Rule{Name: name, Matcher: m, Replacement: template}, nil
}

// ValidateRules checks that every rule has a name and a matcher and that
// no two rules share a name.
func ValidateRules(rules []Rule) error {
	seen := make(map[string]int, len(rules))
	for i, rule := range rules {
		if rule.Name == "" {
			return errors.Errorf("%w: rule %d: name is required", ErrInvalidRule, i)
		}
		if rule.Matcher == nil {
			return errors.Errorf("%w: rule %q: matcher is required", ErrInvalidRule, rule.Name)
		}
		if prev, ok := seen[rule.Name]; ok {
			return errors.Errorf("%w: %q (rules %d and %d)", ErrDuplicateRuleName, rule.Name, prev, i)
		}
		seen[rule.Name] = i
	}
	return nil
}
