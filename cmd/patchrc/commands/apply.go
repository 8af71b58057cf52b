package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var (
		dryRun      bool
		diff        bool
		backup      bool
		concurrency int
		allowNoop   bool
	)

	cmd := &cobra.Command{
		Use:   "apply [files...]",
		Short: "Apply a rule set to files",
		Long: `Apply runs every rule in order against each file and rewrites the files
where at least one rule applied.
It will:
1. Load and validate the rule file
2. Read every target and patch it in memory
3. Write changed files atomically

Exit status is 0 when something was patched, 1 when nothing matched and 2 on error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "apply").Logger().WithContext(cmd.Context())

			rs, err := o.LoadRuleSet(ctx)
			if err != nil {
				return err
			}

			targets, err := o.Targets(rs, args)
			if err != nil {
				return err
			}

			verb := "Patching"
			if dryRun {
				verb = "Previewing"
			}
			o.UserLogger.LogStateChange(fmt.Sprintf("%s %d files", verb, len(targets)))

			console := log.New(cmd.OutOrStdout(), *zerolog.Ctx(ctx))
			console.Header("apply " + rs.String())

			runner := operation.NewRunner(operation.Options{
				DryRun:      dryRun,
				Backup:      backup,
				Diff:        diff || dryRun,
				Concurrency: concurrency,
			})

			summary, err := runner.Run(ctx, rs, targets)
			if summary != nil {
				summary.Log(ctx, console)
			}
			if err != nil {
				return errors.Errorf("applying %s: %w", rs.Location(), err)
			}

			o.ExitCode = operation.ExitCode(summary.Outcome(), allowNoop)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would change without writing")
	cmd.Flags().BoolVar(&diff, "diff", false, "print a diff for every changed file")
	cmd.Flags().BoolVar(&backup, "backup", false, "keep a .orig copy of every rewritten file")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 1, "number of files to process at once")
	cmd.Flags().BoolVar(&allowNoop, "allow-noop", false, "exit 0 when no rule applied")

	return cmd
}
