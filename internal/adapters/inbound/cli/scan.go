package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/allyaudit/ally/internal/adapters/outbound/tui"
	"github.com/allyaudit/ally/internal/domain"
)

func newScanCmd() *cobra.Command {
	var (
		asJSON   bool
		ciMode   bool
		minScore int
		badge    bool
	)

	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan HTML files for accessibility violations",
		Long:  "Scan runs axe-core against the given files, directories, or globs (default: the whole project), prints the scored results, and writes .ally/report.json for other commands to consume.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAuditService(".")
			if err != nil {
				return err
			}

			report, warnings, err := svc.Audit(cmd.Context(), ".", args)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
			}

			switch {
			case asJSON:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			case badge:
				fmt.Fprintf(cmd.OutOrStdout(),
					"![Accessibility](https://img.shields.io/badge/accessibility-%d%%2F100-%s)\n",
					report.Summary.Score, domain.BadgeColor(report.Summary.Score))
			default:
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))
			}

			if ciMode && report.Summary.Score < minScore {
				return fmt.Errorf("score %d is below the required minimum %d", report.Summary.Score, minScore)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output the raw report as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "fail when the score is below --min")
	cmd.Flags().IntVar(&minScore, "min", 80, "minimum passing score for --ci")
	cmd.Flags().BoolVar(&badge, "badge", false, "output a markdown score badge")
	return cmd
}
