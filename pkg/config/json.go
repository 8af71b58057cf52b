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
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔧 JSONParser implements the Parser interface for JSON files
type JSONParser struct{}

func init() {
	Register(&JSONParser{})
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *JSONParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(filename)), ".json")
}

// 📝 Parse parses the rule set from JSON bytes
func (p *JSONParser) Parse(ctx context.Context, data []byte) (*RuleSet, error) {
	var rs RuleSet
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&rs); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	if decoder.More() {
		return nil, errors.Errorf("%w: unexpected data after the rule set object", ErrInvalidRuleSet)
	}

	if err := checkJSONRules(&rs); err != nil {
		return nil, err
	}

	if err := rs.Validate(); err != nil {
		return nil, errors.Errorf("validating rule set: %w", err)
	}

	return &rs, nil
}

// checkJSONRules reports missing fields by their JSON path, so "$.rules[2]"
// points at the object to fix
func checkJSONRules(rs *RuleSet) error {
	if len(rs.Rules) == 0 {
		return errors.Errorf("%w: $.rules: at least one rule is required", ErrInvalidRuleSet)
	}
	for i, rule := range rs.Rules {
		if rule.Name == "" {
			return errors.Errorf("%w: $.rules[%d].name is required", ErrInvalidRuleSet, i)
		}
		if rule.Literal == "" && rule.Pattern == "" {
			return errors.Errorf("%w: $.rules[%d]: one of literal or pattern is required", ErrInvalidRuleSet, i)
		}
	}
	return nil
}
