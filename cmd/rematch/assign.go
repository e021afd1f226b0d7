package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ridewell/rematch/internal/cli"
	"github.com/ridewell/rematch/internal/workflow"
)

func assignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Submit the assignment for the current selections",
		Long: `Link the selected source record (or transaction set) to the selected
driver. With either side missing this is a no-op. On success both selections
are cleared and the unmatched pool is reloaded; on failure the selections are
preserved so the assignment can be retried without re-selecting.`,
		RunE: runAssign,
	}

	cmd.Flags().StringP("kind", "k", "", "workflow to assign for (lead, reg, txn; default: the active one)")

	return cmd
}

func runAssign(cmd *cobra.Command, _ []string) error {
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
	if kind == workflow.KindTransaction {
		// Group membership must be current for the batch call.
		if err := w.ReloadUnmatched(ctx); err != nil {
			return err
		}
	}

	done, assignErr := w.Assign(ctx)
	if saveErr := env.saveWorkflow(ctx, w); saveErr != nil {
		return saveErr
	}
	if assignErr != nil {
		fmt.Println(cli.FormatError(w.State().LastError))
		return assignErr
	}
	if !done {
		fmt.Println(cli.FormatWarning("Nothing to assign: select a source record and a driver first"))
		return nil
	}

	fmt.Println(cli.FormatSuccess("Assignment confirmed, unmatched pool reloaded"))
	return nil
}

func clearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the current selections",
		RunE:  runClear,
	}

	cmd.Flags().StringP("kind", "k", "", "workflow to clear (lead, reg, txn; default: the active one)")
	cmd.Flags().Bool("driver-only", false, "clear only the driver side")

	return cmd
}

func runClear(cmd *cobra.Command, _ []string) error {
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

	driverOnly, _ := cmd.Flags().GetBool("driver-only")
	w.ClearDriver()
	if !driverOnly {
		w.ClearSource()
	}
	if err := env.saveWorkflow(ctx, w); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Selections cleared (%s workflow, phase %s)", kind, w.State().Phase())))
	return nil
}
