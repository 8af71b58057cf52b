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

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	ruleIndent  = 4  // spaces to indent rule entries
	nameWidth   = 35 // Base width for rule and file names
	statusWidth = 15 // Width for status text
	countWidth  = 12 // Width for match and rule counts
)

// 🎯 RuleOperation is the outcome of one rule against one file
type RuleOperation struct {
	Name        string // Rule name
	Description string // Optional rule description
	Applied     bool   // Whether the rule rewrote the file
	Matches     int    // Number of occurrences found
}

// 📄 FileOperation is the outcome of a rule set against one file
type FileOperation struct {
	Path       string // File path
	Applied    int    // Number of rules that applied
	Total      int    // Number of rules in the set
	Written    bool   // Whether the file was rewritten
	LineEnding string // Detected line ending convention
	Backup     string // Backup path, if one was made
	Err        error  // Failure reading or writing the file
}

// 📦 RuleSetOperation describes the rule set a run applies
type RuleSetOperation struct {
	Name    string // Rule set name
	Source  string // Rule file path
	Rules   int    // Number of rules
	Targets int    // Number of target files
	DryRun  bool   // Whether writes are skipped
}

// 🎯 Logger prints a run summary to the console and mirrors it to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	rules   []RuleOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatRuleOperation formats a rule outcome for display
func (l *Logger) formatRuleOperation(op RuleOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	var status string
	switch {
	case op.Applied && op.Matches > 1:
		symbol = '⚠'
		symbolColor = color.FgYellow
		status = "ambiguous"
	case op.Applied:
		symbol = '✓'
		symbolColor = color.FgGreen
		status = "applied"
	default:
		symbol = '✗'
		symbolColor = color.FgRed
		status = "not found"
	}

	matches := fmt.Sprintf("%d matches", op.Matches)
	if op.Matches == 1 {
		matches = "1 match"
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", ruleIndent),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Name),
		color.New(symbolColor).Sprint(fmt.Sprintf("%-*s", statusWidth, status)),
		fmt.Sprintf("%-*s", countWidth, matches))
	if op.Description != "" {
		line += " " + color.New(color.Faint).Sprint(op.Description)
	}
	return line
}

// 📝 formatFileOperation formats a file outcome for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	var status string
	switch {
	case op.Err != nil:
		symbol = '✗'
		symbolColor = color.FgRed
		status = "error"
	case op.Applied > 0 && op.Written:
		symbol = '⟳'
		symbolColor = color.FgBlue
		status = "patched"
	case op.Applied > 0:
		symbol = '•'
		symbolColor = color.FgCyan
		status = "would patch"
	default:
		symbol = '-'
		symbolColor = color.FgYellow
		status = "unchanged"
	}

	return fmt.Sprintf("%s %s %s %s",
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth+ruleIndent, op.Path),
		color.New(symbolColor).Sprint(fmt.Sprintf("%-*s", statusWidth, status)),
		fmt.Sprintf("%d/%d rules", op.Applied, op.Total))
}

// 📝 StartRuleSet prints the rule set header
func (l *Logger) StartRuleSet(ctx context.Context, op RuleSetOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	name := op.Name
	if name == "" {
		name = op.Source
	}
	mode := "apply"
	if op.DryRun {
		mode = "dry run"
	}

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(name),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d rules, %d files (%s)", op.Rules, op.Targets, mode))

	l.zlog.Info().
		Str("rule_set", op.Name).
		Str("source", op.Source).
		Int("rules", op.Rules).
		Int("targets", op.Targets).
		Bool("dry_run", op.DryRun).
		Msg("starting rule set")
}

// 📝 StartFile starts the report for a target file
func (l *Logger) StartFile(ctx context.Context, path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rules = nil
	fmt.Fprintf(l.console, "[patching %s]\n", color.New(color.FgCyan).Sprint(path))
}

// 📝 LogRuleOperation logs a rule outcome
func (l *Logger) LogRuleOperation(ctx context.Context, op RuleOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rules = append(l.rules, op)

	fmt.Fprintln(l.console, l.formatRuleOperation(op))

	l.zlog.Info().
		Str("rule", op.Name).
		Bool("applied", op.Applied).
		Int("matches", op.Matches).
		Msg("rule outcome")
}

// 📝 EndFile prints the file summary line
func (l *Logger) EndFile(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatFileOperation(op))
	if op.Backup != "" {
		fmt.Fprintf(l.console, "%s backup written to %s\n",
			strings.Repeat(" ", ruleIndent),
			color.New(color.Faint).Sprint(op.Backup))
	}

	event := l.zlog.Info()
	if op.Err != nil {
		event = l.zlog.Error().Err(op.Err)
	}
	event.
		Str("file", op.Path).
		Int("applied", op.Applied).
		Int("rules", op.Total).
		Bool("written", op.Written).
		Str("line_ending", op.LineEnding).
		Int("logged_rules", len(l.rules)).
		Msg("file complete")

	l.rules = nil
}

// 📝 Diff prints a rendered diff verbatim
func (l *Logger) Diff(diff string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if diff == "" {
		return
	}
	fmt.Fprint(l.console, diff)
	if !strings.HasSuffix(diff, "\n") {
		fmt.Fprintln(l.console)
	}
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	patchrcText := color.New(color.Bold, color.FgCyan).Sprint("patchrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", patchrcText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
