package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/allyaudit/ally/internal/adapters/outbound/tui"
	"github.com/allyaudit/ally/internal/application"
)

func newFixCmd() *cobra.Command {
	var (
		threshold float64
		dryRun    bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Auto-apply high-confidence accessibility fixes",
		Long:  "Fix scans the given paths, patches violations whose fix pattern meets the confidence threshold, and rescans once to report the resulting score. Use --dry-run to preview without writing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAuditService(".")
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = svc.Config().FixThreshold()
			}

			plan, warnings, err := application.NewFixService(svc).Fix(cmd.Context(), ".", args, threshold, dryRun)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(plan)
			}

			for _, f := range plan.Files {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", f.File)
				for _, a := range f.Applied {
					fmt.Fprintf(cmd.OutOrStdout(), "    %s ×%d (confidence %.2f)\n", a.RuleID, a.Replacements, a.Confidence)
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderFixSummary(plan.Applied, plan.Skipped, plan.ScoreBefore, plan.ScoreAfter, plan.DryRun))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0.9, "minimum pattern confidence to apply [0,1]")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing files")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the fix plan as JSON")
	return cmd
}
