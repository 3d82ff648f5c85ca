package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configloader "github.com/allyaudit/ally/internal/adapters/outbound/config"
	"github.com/allyaudit/ally/internal/adapters/outbound/store"
	"github.com/allyaudit/ally/internal/domain"
	"github.com/allyaudit/ally/internal/report"
)

func newReportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Convert the last scan into another format",
		Long:  "Report reads .ally/report.json from the last scan and renders it as json, sarif, junit, csv, markdown, or html.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configloader.New().Load(".")
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") && cfg.Format != "" {
				format = cfg.Format
			}
			if !cmd.Flags().Changed("output") && cfg.Output != "" {
				output = cfg.Output
			}

			f, err := domain.ParseFormat(format)
			if err != nil {
				return err
			}

			r, err := store.New().Load(".")
			if err != nil {
				if errors.Is(err, store.ErrNoReport) {
					fmt.Fprintln(cmd.OutOrStdout(), "No report found. Run `ally scan` first.")
					return nil
				}
				return fmt.Errorf("%w (re-run `ally scan` to regenerate it)", err)
			}

			out, err := report.Convert(r, f)
			if err != nil {
				return err
			}

			if output != "" {
				return os.WriteFile(output, []byte(out), 0644)
			}
			_, err = cmd.OutOrStdout().Write([]byte(out))
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: json, sarif, junit, csv, markdown, html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
