package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Load reads, parses and validates the rule file at path. The format is
// chosen by extension: .yaml/.yml, .json or .hcl.
func Load(ctx context.Context, path string) (*RuleSet, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading rule set")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, errors.Errorf("reading rule file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	rs, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing rule file %s: %w", path, err)
	}
	rs.location = path

	logger.Debug().
		Str("path", path).
		Str("name", rs.Name).
		Int("rules", len(rs.Rules)).
		Strs("targets", rs.Targets).
		Msg("loaded rule set")

	return rs, nil
}

// BaseDir is the directory target globs are resolved against: the rule
// file's directory, or the working directory for rule sets built in memory.
func (rs *RuleSet) BaseDir() string {
	if rs.location == "" {
		return "."
	}
	return filepath.Dir(rs.location)
}
