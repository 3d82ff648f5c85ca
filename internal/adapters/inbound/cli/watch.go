package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/allyaudit/ally/internal/application"
)

func newWatchCmd() *cobra.Command {
	var (
		autoFix   bool
		threshold float64
		debounce  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Rescan HTML files as they change",
		Long:  "Watch monitors a directory tree and rescans changed files after a debounce window. With --fix, high-confidence fixes are applied automatically and the file is rescanned once. Stop with Ctrl-C.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			svc, err := newAuditService(root)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = svc.Config().FixThreshold()
			}
			if !cmd.Flags().Changed("debounce") && svc.Config().DebounceMS > 0 {
				debounce = time.Duration(svc.Config().DebounceMS) * time.Millisecond
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return application.NewWatchService(svc, cmd.OutOrStdout()).Run(ctx, root, application.WatchOptions{
				AutoFix:   autoFix,
				Threshold: threshold,
				Debounce:  debounce,
			})
		},
	}

	cmd.Flags().BoolVar(&autoFix, "fix", false, "auto-apply high-confidence fixes on change")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0.9, "minimum pattern confidence for --fix")
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "quiet window before rescanning a changed file")
	return cmd
}
