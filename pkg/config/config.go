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

package config

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/walteh/patchrc/pkg/patch"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidRuleSet is returned when a rule file fails validation
	ErrInvalidRuleSet = errors.Base("invalid rule set")

	// ErrConfigNotFound is returned when the rule file does not exist
	ErrConfigNotFound = errors.Base("rule file not found")
)

// 🔌 Parser is the interface for rule file parsers
type Parser interface {
	// 📝 Parse parses the rule set from bytes
	Parse(ctx context.Context, data []byte) (*RuleSet, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 RuleDef is a single rule as written in a rule file. Exactly one of
// Literal and Pattern must be set.
type RuleDef struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Literal     string `json:"literal,omitempty" yaml:"literal,omitempty"`
	Pattern     string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Replace     string `json:"replace" yaml:"replace"`
}

// 📚 RuleSet is an ordered list of rules and the files they target
type RuleSet struct {
	Name    string    `json:"name,omitempty" yaml:"name,omitempty"`
	Targets []string  `json:"targets,omitempty" yaml:"targets,omitempty"`
	Rules   []RuleDef `json:"rules" yaml:"rules"`

	// location is the path the rule set was loaded from
	location string
}

// Location returns the path the rule set was loaded from, if any
func (rs *RuleSet) Location() string {
	return rs.location
}

// 🔍 Validate checks if the rule set is valid
func (rs *RuleSet) Validate() error {
	if len(rs.Rules) == 0 {
		return errors.Errorf("%w: at least one rule is required", ErrInvalidRuleSet)
	}

	seen := make(map[string]int, len(rs.Rules))
	for i, rule := range rs.Rules {
		if rule.Name == "" {
			return errors.Errorf("%w: rule %d: name is required", ErrInvalidRuleSet, i)
		}
		if prev, ok := seen[rule.Name]; ok {
			return errors.Errorf("%w: %q (rules %d and %d)", patch.ErrDuplicateRuleName, rule.Name, prev, i)
		}
		seen[rule.Name] = i

		switch {
		case rule.Literal == "" && rule.Pattern == "":
			return errors.Errorf("%w: rule %q: one of literal or pattern is required", ErrInvalidRuleSet, rule.Name)
		case rule.Literal != "" && rule.Pattern != "":
			return errors.Errorf("%w: rule %q: literal and pattern are mutually exclusive", ErrInvalidRuleSet, rule.Name)
		case rule.Pattern != "":
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				return errors.Errorf("%w: rule %q: %s", ErrInvalidRuleSet, rule.Name, err.Error())
			}
			if re.MatchString("") {
				return errors.Errorf("%w: rule %q: pattern matches the empty string", ErrInvalidRuleSet, rule.Name)
			}
		}
	}

	for i, target := range rs.Targets {
		if strings.TrimSpace(target) == "" {
			return errors.Errorf("%w: target %d is empty", ErrInvalidRuleSet, i)
		}
	}

	return nil
}

// ⚙️ Compile converts the rule definitions into engine rules
func (rs *RuleSet) Compile() ([]patch.Rule, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}

	rules := make([]patch.Rule, 0, len(rs.Rules))
	for _, def := range rs.Rules {
		var rule patch.Rule
		if def.Pattern != "" {
			r, err := patch.PatternRule(def.Name, def.Pattern, def.Replace)
			if err != nil {
				return nil, errors.Errorf("compiling rule: %w", err)
			}
			rule = r
		} else {
			rule = patch.LiteralRule(def.Name, def.Literal, def.Replace)
		}
		rule.Description = def.Description
		rules = append(rules, rule)
	}
	return rules, nil
}

// 📝 String returns a short description of the rule set
func (rs *RuleSet) String() string {
	name := rs.Name
	if name == "" {
		name = "rules"
	}
	return fmt.Sprintf("%s (%d rules, %d targets)", name, len(rs.Rules), len(rs.Targets))
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*RuleSet, error) {
	var rs RuleSet
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rs); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	if err := rs.Validate(); err != nil {
		return nil, errors.Errorf("validating rule set: %w", err)
	}

	return &rs, nil
}
