package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/operation"
	"github.com/walteh/patchrc/pkg/patch"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	var (
		diff      bool
		allowNoop bool
	)

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Report which rules would apply without writing",
		Long: `Check patches every file in memory, then runs the rules again on the
patched text. Any rule that fires the second time is reported and the command
fails, since running apply twice would edit the file twice.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "check").Logger().WithContext(cmd.Context())

			rs, err := o.LoadRuleSet(ctx)
			if err != nil {
				return err
			}

			targets, err := o.Targets(rs, args)
			if err != nil {
				return err
			}

			o.UserLogger.LogStateChange(fmt.Sprintf("Checking %d files", len(targets)))

			console := log.New(cmd.OutOrStdout(), *zerolog.Ctx(ctx))
			console.Header("check " + rs.String())

			summary, err := operation.NewRunner(operation.Options{Diff: diff}).Check(ctx, rs, targets)
			if err != nil {
				return errors.Errorf("checking %s: %w", rs.Location(), err)
			}
			summary.Log(ctx, console)

			if !summary.Idempotent() {
				var refired []string
				for _, f := range summary.Files {
					refired = append(refired, f.Refired...)
				}
				return errors.Errorf("%w: %v", patch.ErrNotIdempotent, refired)
			}

			o.UserLogger.LogValidation(true, "Rule set is idempotent", nil)
			o.ExitCode = operation.ExitCode(summary.Outcome(), allowNoop)
			return nil
		},
	}

	cmd.Flags().BoolVar(&diff, "diff", false, "print a diff for every file that would change")
	cmd.Flags().BoolVar(&allowNoop, "allow-noop", false, "exit 0 when no rule would apply")

	return cmd
}
