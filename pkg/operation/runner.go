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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/files"
	"github.com/walteh/patchrc/pkg/patch"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// ErrNoTargets is returned when a run has no files to patch
var ErrNoTargets = errors.Base("no target files")

// diagnosticBytes is how much of an unpatched file is logged at debug level
const diagnosticBytes = 500

// 🔧 Options configures a Runner
type Options struct {
	// Engine applies rule sets, patch.NewEngine() when nil
	Engine patch.Applier

	// Files reads and writes targets, files.NewManager() when nil
	Files files.FileManager

	// DryRun computes results without writing
	DryRun bool

	// Backup copies each file before it is rewritten
	Backup bool

	// Diff renders a line diff for every changed file
	Diff bool

	// DiffContext is the number of unchanged lines shown around changes
	DiffContext int

	// Concurrency bounds how many files are processed at once, values
	// below 2 process files one at a time
	Concurrency int
}

// 🏃 Runner applies a rule set to target files
type Runner struct {
	engine patch.Applier
	files  files.FileManager
	opts   Options
}

// 🏗️ NewRunner creates a new runner
func NewRunner(opts Options) *Runner {
	if opts.Engine == nil {
		opts.Engine = patch.NewEngine()
	}
	if opts.Files == nil {
		opts.Files = files.NewManager()
	}
	if opts.DiffContext <= 0 {
		opts.DiffContext = 3
	}
	return &Runner{
		engine: opts.Engine,
		files:  opts.Files,
		opts:   opts,
	}
}

// 🏃 Run applies rs to every target. All targets are read and patched in
// memory first, so a missing or unreadable file aborts the run before anything
// is written. Changed files are then written one path lock at a time.
func (r *Runner) Run(ctx context.Context, rs *config.RuleSet, targets []string) (*Summary, error) {
	rules, err := rs.Compile()
	if err != nil {
		return nil, errors.Errorf("compiling rule set: %w", err)
	}
	if len(targets) == 0 {
		return nil, errors.WithStack(ErrNoTargets)
	}

	summary := &Summary{
		RuleSet: rs.Name,
		Source:  rs.Location(),
		DryRun:  r.opts.DryRun,
		rules:   rules,
		Files:   make([]FileReport, len(targets)),
	}

	// Plan: read and patch in memory
	if err := r.each(ctx, targets, func(ctx context.Context, i int, path string) error {
		report, err := r.plan(ctx, path, rules)
		if err != nil {
			return err
		}
		summary.Files[i] = *report
		return nil
	}); err != nil {
		return nil, err
	}

	if r.opts.DryRun {
		return summary, nil
	}

	// Commit: write changed files
	if err := r.each(ctx, targets, func(ctx context.Context, i int, path string) error {
		return r.commit(ctx, &summary.Files[i], rules)
	}); err != nil {
		return summary, err
	}

	return summary, nil
}

// 🔍 Check applies rs to every target in memory and then again to the
// patched text, reporting rules that would fire twice. Nothing is written.
func (r *Runner) Check(ctx context.Context, rs *config.RuleSet, targets []string) (*Summary, error) {
	rules, err := rs.Compile()
	if err != nil {
		return nil, errors.Errorf("compiling rule set: %w", err)
	}
	if len(targets) == 0 {
		return nil, errors.WithStack(ErrNoTargets)
	}

	summary := &Summary{
		RuleSet: rs.Name,
		Source:  rs.Location(),
		DryRun:  true,
		rules:   rules,
		Files:   make([]FileReport, len(targets)),
	}

	if err := r.each(ctx, targets, func(ctx context.Context, i int, path string) error {
		content, err := r.files.ReadFile(ctx, path)
		if err != nil {
			return errors.Errorf("reading %s: %w", path, err)
		}

		result, refired, err := patch.CheckIdempotent(r.engine, string(content), rules)
		if err != nil && !errors.Is(err, patch.ErrNotIdempotent) {
			return errors.Errorf("checking %s: %w", path, err)
		}

		summary.Files[i] = FileReport{
			Path:    path,
			Result:  result,
			Refired: refired,
		}
		if r.opts.Diff && result.Changed {
			summary.Files[i].Diff = RenderDiff(result.OriginalText, result.FinalText, r.opts.DiffContext)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return summary, nil
}

// each runs fn for every target, concurrently when configured
func (r *Runner) each(ctx context.Context, targets []string, fn func(ctx context.Context, i int, path string) error) error {
	if r.opts.Concurrency < 2 {
		for i, path := range targets {
			if err := ctx.Err(); err != nil {
				return errors.Errorf("operation cancelled: %w", err)
			}
			if err := fn(ctx, i, path); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for i, path := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Errorf("operation cancelled: %w", err)
			}
			return fn(gctx, i, path)
		})
	}
	return g.Wait()
}

// 📄 plan reads a target and applies the rules in memory
func (r *Runner) plan(ctx context.Context, path string, rules []patch.Rule) (*FileReport, error) {
	logger := zerolog.Ctx(ctx).With().Str("file", path).Logger()

	content, err := r.files.ReadFile(ctx, path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}

	result, err := r.engine.Apply(string(content), rules)
	if err != nil {
		return nil, errors.Errorf("applying rules to %s: %w", path, err)
	}

	logger.Debug().
		Strs("applied", result.Applied).
		Strs("unapplied", result.Unapplied).
		Str("line_ending", result.LineEnding.String()).
		Msg("planned patch")

	if !result.Changed {
		logger.Debug().Str("head", head(result.OriginalText, diagnosticBytes)).Msg("no rules matched")
	}

	report := &FileReport{Path: path, Result: result}
	if r.opts.Diff && result.Changed {
		report.Diff = RenderDiff(result.OriginalText, result.FinalText, r.opts.DiffContext)
	}
	return report, nil
}

// 💾 commit writes a planned report under the file's path lock. If the file
// changed since it was planned, the rules are applied again to what is on disk.
func (r *Runner) commit(ctx context.Context, report *FileReport, rules []patch.Rule) error {
	if !report.Result.Changed {
		return nil
	}

	unlock := r.files.Lock(report.Path)
	defer unlock()

	current, err := r.files.ReadFile(ctx, report.Path)
	if err != nil {
		return errors.Errorf("re-reading %s: %w", report.Path, err)
	}

	if string(current) != report.Result.OriginalText {
		zerolog.Ctx(ctx).Debug().Str("file", report.Path).Msg("file changed since planning, re-applying rules")

		result, err := r.engine.Apply(string(current), rules)
		if err != nil {
			return errors.Errorf("applying rules to %s: %w", report.Path, err)
		}
		report.Result = result
		report.Diff = ""
		if r.opts.Diff && result.Changed {
			report.Diff = RenderDiff(result.OriginalText, result.FinalText, r.opts.DiffContext)
		}
		if !result.Changed {
			return nil
		}
	}

	if r.opts.Backup {
		backup, err := r.files.Backup(ctx, report.Path)
		if err != nil {
			report.Err = errors.Errorf("backing up %s: %w", report.Path, err)
			return report.Err
		}
		report.Backup = backup
	}

	if err := r.files.WriteFileAtomic(ctx, report.Path, []byte(report.Result.FinalText)); err != nil {
		report.Err = errors.Errorf("writing %s: %w", report.Path, err)
		return report.Err
	}
	report.Written = true

	return nil
}

func head(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n]
}
