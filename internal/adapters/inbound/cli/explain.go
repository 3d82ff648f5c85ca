package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/allyaudit/ally/internal/domain/fix"
	"github.com/allyaudit/ally/internal/domain/kb"
)

func newExplainCmd() *cobra.Command {
	var (
		list   bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "explain [rule-id]",
		Short: "Explain an accessibility rule",
		Long:  "Explain prints a plain-language description of an axe rule: what it checks, who it affects, and how to fix it. Works offline from a built-in knowledge base.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if list || len(args) == 0 {
				fmt.Fprintln(out, "Known rules:")
				for _, id := range kb.IDs() {
					entry, _ := kb.Lookup(id)
					marker := " "
					if _, ok := fix.Lookup(id); ok {
						marker = "*"
					}
					fmt.Fprintf(out, "  %s %-16s %s\n", marker, id, entry.Title)
				}
				fmt.Fprintln(out, "\n* auto-fixable by `ally fix`")
				return nil
			}

			id := strings.ToLower(strings.TrimSpace(args[0]))
			entry, ok := kb.Lookup(id)
			if !ok {
				msg := fmt.Sprintf("unknown rule %q", id)
				if suggestions := kb.Suggest(id); len(suggestions) > 0 {
					msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(suggestions, ", "))
				}
				return fmt.Errorf("%s", msg)
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entry)
			}

			fmt.Fprintf(out, "\n%s — %s [%s]\n\n", entry.ID, entry.Title, entry.Impact)
			fmt.Fprintf(out, "%s\n\n", entry.Summary)
			fmt.Fprintf(out, "Who it affects: %s\n", entry.WhoItAffects)
			fmt.Fprintf(out, "How to fix:     %s\n", entry.HowToFix)
			if len(entry.WCAG) > 0 {
				fmt.Fprintf(out, "WCAG:           %s\n", strings.Join(entry.WCAG, ", "))
			}
			if p, ok := fix.Lookup(id); ok {
				fmt.Fprintf(out, "Auto-fixable:   yes (confidence %.2f)\n", p.Confidence)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list every known rule")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the entry as JSON")
	return cmd
}
