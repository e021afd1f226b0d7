package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ridewell/rematch/internal/cli"
)

func pickCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pick <driver-id>",
		Short: "Select a driver for the next assignment",
		Long: `Select a candidate driver. The source-side selection is untouched; once
both sides are selected, 'rematch assign' submits the match. The driver's
milestone list is fetched and cached for batch transaction assignments.`,
		Args: cobra.ExactArgs(1),
		RunE: runPick,
	}

	cmd.Flags().StringP("kind", "k", "", "workflow to pick for (lead, reg, txn; default: the active one)")

	return cmd
}

func runPick(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := newAppEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	kindFlag, _ := cmd.Flags().GetString("kind")
	kind, err := kindFromFlag(kindFlag)
	if err != nil {
		return err
	}
	if kind == "" {
		kind = env.activeKind(ctx)
	}

	w, err := env.workflowFor(ctx, kind)
	if err != nil {
		return err
	}

	driverID := args[0]
	if err := w.SelectDriver(ctx, driverID); err != nil {
		return err
	}
	if err := env.saveWorkflow(ctx, w); err != nil {
		return err
	}

	state := w.State()
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Driver %s selected (%s workflow, phase %s, %d milestones cached)",
		driverID, kind, state.Phase(), len(state.Milestones))))
	return nil
}
