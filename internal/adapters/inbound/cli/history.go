package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/allyaudit/ally/internal/adapters/outbound/history"
	"github.com/allyaudit/ally/internal/adapters/outbound/tui"
)

func newHistoryCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past accessibility scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := history.New().Entries(".")
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output entries as JSON")
	return cmd
}
