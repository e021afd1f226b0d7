package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ridewell/rematch/internal/cli"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show metadata about the most recent data upload",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	env, err := newAppEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	stats, err := env.client.UploadStats(ctx)
	if err != nil {
		return err
	}

	content := fmt.Sprintf(`Source:       %s
Uploaded:     %s
Data range:   %s - %s
Total:        %d
Matched:      %d
Unmatched:    %d`,
		stats.Source,
		stats.LastUploadAt.Format("2006-01-02 15:04"),
		stats.DataFrom.Format("2006-01-02"),
		stats.DataTo.Format("2006-01-02"),
		stats.Total,
		stats.Matched,
		stats.Unmatched)

	fmt.Println(cli.RenderBox("Last upload", content))
	return nil
}
