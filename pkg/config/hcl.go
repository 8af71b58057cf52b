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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
//
// Rules are labelled blocks:
//
//	rule "add_y" {
//	  literal = "const x = 1;"
//	  replace = "const x = 1;\nconst y = 2;"
//	}
//
// HCL treats ${ as interpolation in strings and heredocs, so template
// references and literal ${ in code must be written $${.
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the rule set from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*RuleSet, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "rules.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclRuleSet struct {
		Name    string   `hcl:"name,optional"`
		Targets []string `hcl:"targets,optional"`
		Rules   []struct {
			Name        string `hcl:"name,label"`
			Description string `hcl:"description,optional"`
			Literal     string `hcl:"literal,optional"`
			Pattern     string `hcl:"pattern,optional"`
			Replace     string `hcl:"replace,optional"`
		} `hcl:"rule,block"`
	}

	// Decode HCL
	var hclCfg hclRuleSet
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	rs := &RuleSet{
		Name:    hclCfg.Name,
		Targets: hclCfg.Targets,
	}
	for _, r := range hclCfg.Rules {
		rs.Rules = append(rs.Rules, RuleDef{
			Name:        r.Name,
			Description: r.Description,
			Literal:     r.Literal,
			Pattern:     r.Pattern,
			Replace:     r.Replace,
		})
	}

	if err := rs.Validate(); err != nil {
		return nil, errors.Errorf("validating rule set: %w", err)
	}

	return rs, nil
}
