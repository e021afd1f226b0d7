package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ridewell/rematch/internal/cli"
	"github.com/ridewell/rematch/internal/filter"
	"github.com/ridewell/rematch/internal/model"
	"github.com/ridewell/rematch/internal/workflow"
)

func leadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Browse and act on unmatched marketing leads",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the unmatched lead pool",
		RunE:  runLeadsList,
	}
	list.Flags().StringP("search", "s", "", "case-insensitive text filter")
	list.Flags().String("from", "", "earliest creation date (YYYY-MM-DD)")
	list.Flags().String("to", "", "latest creation date, whole day inclusive (YYYY-MM-DD)")

	sel := &cobra.Command{
		Use:   "select <lead-id>",
		Short: "Select a lead as the source side of the next assignment",
		Args:  cobra.ExactArgs(1),
		RunE:  runLeadsSelect,
	}

	discard := &cobra.Command{
		Use:   "discard <lead-id>",
		Short: "Discard a lead from the unmatched pool (asks for confirmation)",
		Args:  cobra.ExactArgs(1),
		RunE:  runLeadsDiscard,
	}

	cmd.AddCommand(list, sel, discard)
	return cmd
}

func runLeadsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	env, err := newAppEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	w, err := env.workflowFor(ctx, workflow.KindLead)
	if err != nil {
		return err
	}
	if err := w.ReloadUnmatched(ctx); err != nil {
		return err
	}

	search, _ := cmd.Flags().GetString("search")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	query, err := queryFromFlags(search, from, to)
	if err != nil {
		return err
	}

	leads := filter.Apply(w.Leads(), query, func(l model.Lead) filter.Probe {
		return filter.Probe{
			Texts: []string{l.ID, l.FirstName, l.LastName, l.Phone},
			Dates: []time.Time{l.CreatedAt},
		}
	})

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Unmatched leads (%d)", len(leads))))
	cli.RenderLeads(os.Stdout, leads, w.State().SourceID)
	return nil
}

func runLeadsSelect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := newAppEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	w, err := env.workflowFor(ctx, workflow.KindLead)
	if err != nil {
		return err
	}

	w.SelectSource(args[0])
	if err := env.saveWorkflow(ctx, w); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Lead %s selected (phase %s)", args[0], w.State().Phase())))
	return nil
}

func runLeadsDiscard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := newAppEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	w, err := env.workflowFor(ctx, workflow.KindLead)
	if err != nil {
		return err
	}

	done, err := w.DiscardLead(ctx, args[0])
	if err != nil {
		return err
	}
	if !done {
		fmt.Println(cli.FormatWarning("Discard aborted"))
		return nil
	}
	if err := env.saveWorkflow(ctx, w); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Lead %s discarded, %d leads remain unmatched", args[0], len(w.Leads()))))
	return nil
}
