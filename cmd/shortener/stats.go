package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atinyakov/shortlinks/internal/app/service"
	"github.com/atinyakov/shortlinks/internal/metrics"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <short-code>",
		Short: "Show the click count of a short link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			ctx := cmd.Context()

			st, err := openStorage(ctx, a.cfg, a.log.Log)
			if err != nil {
				return err
			}
			defer st.Close()

			links, release := a.linkService(st, metrics.NewRegistry())
			defer release()

			stats, err := links.Stats(ctx, code)
			if errors.Is(err, service.ErrNotFound) {
				return fmt.Errorf("short code %q not found", code)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Short code: %s\n", stats.ShortCode)
			fmt.Fprintf(out, "Original URL: %s\n", stats.OriginalURL)
			fmt.Fprintf(out, "Clicks: %d\n", stats.ClickCount)
			fmt.Fprintf(out, "Created: %s\n", stats.CreatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}
