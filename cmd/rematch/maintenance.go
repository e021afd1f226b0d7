package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ridewell/rematch/internal/cli"
	"github.com/ridewell/rematch/internal/workflow"
)

func reprocessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reprocess",
		Short: "Re-run the automated matcher over all unmatched transactions",
		Long: `Ask the reconciliation service to re-run its automated matching pipeline
over every unmatched transaction. Requires confirmation; the unmatched pool
is reloaded afterwards.`,
		RunE: runReprocess,
	}
}

func runReprocess(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	env, err := newAppEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	w, err := env.workflowFor(ctx, workflow.KindTransaction)
	if err != nil {
		return err
	}

	summary, err := w.Reprocess(ctx)
	if saveErr := env.saveWorkflow(ctx, w); saveErr != nil {
		return saveErr
	}
	if err != nil {
		return err
	}
	if summary == nil {
		fmt.Println(cli.FormatWarning("Reprocess aborted"))
		return nil
	}

	content := fmt.Sprintf("Total:     %d\nMatched:   %d\nUnmatched: %d",
		summary.Total, summary.Matched, summary.Unmatched)
	if summary.Message != "" {
		content += "\n\n" + summary.Message
	}
	fmt.Println(cli.RenderBox("Reprocess complete", content))
	return nil
}

func cleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete duplicate transactions on the reconciliation service",
		Long: `Ask the reconciliation service to find and delete duplicate transactions.
Requires confirmation; the unmatched pool is reloaded afterwards.`,
		RunE: runCleanup,
	}
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	env, err := newAppEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	w, err := env.workflowFor(ctx, workflow.KindTransaction)
	if err != nil {
		return err
	}

	summary, err := w.CleanupDuplicates(ctx)
	if saveErr := env.saveWorkflow(ctx, w); saveErr != nil {
		return saveErr
	}
	if err != nil {
		return err
	}
	if summary == nil {
		fmt.Println(cli.FormatWarning("Cleanup aborted"))
		return nil
	}

	fmt.Println(cli.RenderBox("Cleanup complete", fmt.Sprintf("Duplicates found: %d\nDeleted:          %d",
		summary.DuplicatesFound, summary.Deleted)))
	return nil
}
