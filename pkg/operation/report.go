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

	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/patch"
)

// 📊 Outcome is the overall result of a run
type Outcome int

const (
	// OutcomeApplied means at least one rule applied to at least one file
	OutcomeApplied Outcome = iota
	// OutcomeNoOp means no rule applied anywhere and nothing was written
	OutcomeNoOp
	// OutcomeError means the run failed on configuration or I/O
	OutcomeError
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeNoOp:
		return "no-op"
	default:
		return "error"
	}
}

// ExitCode maps an outcome to a process exit status: 0 applied, 1 no-op,
// 2 error. allowNoop maps a no-op to 0.
func ExitCode(o Outcome, allowNoop bool) int {
	switch o {
	case OutcomeApplied:
		return 0
	case OutcomeNoOp:
		if allowNoop {
			return 0
		}
		return 1
	default:
		return 2
	}
}

// 📄 FileReport is the result of a rule set against one file
type FileReport struct {
	Path    string
	Result  *patch.Result
	Written bool
	Backup  string
	Diff    string

	// Err is the failure that stopped the file from being written
	Err error

	// Refired lists rules that applied again to the patched text, set by
	// Runner.Check
	Refired []string
}

// 📦 Summary is the result of a run across all target files
type Summary struct {
	RuleSet string
	Source  string
	DryRun  bool
	Files   []FileReport

	rules []patch.Rule
}

// Changed reports whether any rule applied to any file
func (s *Summary) Changed() bool {
	for _, f := range s.Files {
		if f.Result != nil && f.Result.Changed {
			return true
		}
	}
	return false
}

// Outcome returns the overall outcome of the run
func (s *Summary) Outcome() Outcome {
	if s.Changed() {
		return OutcomeApplied
	}
	return OutcomeNoOp
}

// Idempotent reports whether no rule fired twice during a check
func (s *Summary) Idempotent() bool {
	for _, f := range s.Files {
		if len(f.Refired) > 0 {
			return false
		}
	}
	return true
}

// Failed returns the number of files that could not be written
func (s *Summary) Failed() int {
	failed := 0
	for _, f := range s.Files {
		if f.Err != nil {
			failed++
		}
	}
	return failed
}

// Counts returns the number of changed and written files
func (s *Summary) Counts() (changed, written int) {
	for _, f := range s.Files {
		if f.Result != nil && f.Result.Changed {
			changed++
		}
		if f.Written {
			written++
		}
	}
	return changed, written
}

// 📝 Log prints the summary: one line per rule per file, a line per file and
// a closing status line.
func (s *Summary) Log(ctx context.Context, l *log.Logger) {
	descriptions := make(map[string]string, len(s.rules))
	for _, r := range s.rules {
		descriptions[r.Name] = r.Description
	}

	l.StartRuleSet(ctx, log.RuleSetOperation{
		Name:    s.RuleSet,
		Source:  s.Source,
		Rules:   len(s.rules),
		Targets: len(s.Files),
		DryRun:  s.DryRun,
	})

	for _, f := range s.Files {
		if f.Result == nil {
			continue
		}

		l.StartFile(ctx, f.Path)
		for _, o := range f.Result.Outcomes {
			l.LogRuleOperation(ctx, log.RuleOperation{
				Name:        o.Name,
				Description: descriptions[o.Name],
				Applied:     o.Applied,
				Matches:     o.Matches,
			})
		}
		l.Diff(f.Diff)
		l.EndFile(ctx, log.FileOperation{
			Path:       f.Path,
			Applied:    len(f.Result.Applied),
			Total:      len(f.Result.Outcomes),
			Written:    f.Written,
			LineEnding: f.Result.LineEnding.String(),
			Backup:     f.Backup,
			Err:        f.Err,
		})
		for _, o := range f.Result.Ambiguous() {
			l.Infof("rule %s matched %d times in %s, only the first was rewritten", o.Name, o.Matches, f.Path)
		}
		for _, name := range f.Refired {
			l.Warningf("rule %s applies again to its own output in %s", name, f.Path)
		}
	}

	l.LogNewline()
	changed, written := s.Counts()
	switch failed := s.Failed(); {
	case failed > 0:
		l.Errorf("%d of %d files could not be written", failed, len(s.Files))
	case changed == 0:
		l.Warning("no rules applied; files may already be patched or patterns did not match")
	case s.DryRun:
		l.Successf("%d of %d files would be patched", changed, len(s.Files))
	default:
		l.Successf("patched %d of %d files", written, len(s.Files))
	}
}
