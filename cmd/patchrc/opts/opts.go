package opts

import (
	"context"
	"os"
	"path/filepath"

	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/files"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// DefaultRulesFile is used when --rules is not given
const DefaultRulesFile = ".patchrc.yaml"

// RootOpts contains shared options used by all commands
type RootOpts struct {
	RulesFile  string
	Debug      bool
	UserLogger *log.UserLogger

	// ExitCode is set by the command that ran
	ExitCode int
}

// LoadRuleSet loads and validates the rule file
func (o *RootOpts) LoadRuleSet(ctx context.Context) (*config.RuleSet, error) {
	rs, err := config.Load(ctx, o.RulesFile)
	if err != nil {
		return nil, errors.Errorf("loading rules: %w", err)
	}
	o.UserLogger.LogValidation(true, "Loaded "+rs.String(), nil)
	return rs, nil
}

// Targets returns the files to patch. Arguments are resolved against the
// working directory; without arguments the rule set's targets are resolved
// against the rule file's directory.
func (o *RootOpts) Targets(rs *config.RuleSet, args []string) ([]string, error) {
	base, patterns := rs.BaseDir(), rs.Targets
	if len(args) > 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Errorf("getting working directory: %w", err)
		}
		base, patterns = wd, args
	}

	if len(patterns) == 0 {
		return nil, errors.Errorf("%w: pass files or set targets in %s", operation.ErrNoTargets, filepath.Base(o.RulesFile))
	}

	targets, err := files.ResolveTargets(base, patterns)
	if err != nil {
		return nil, errors.Errorf("resolving targets: %w", err)
	}
	o.UserLogger.LogTargets(targets)
	return targets, nil
}
