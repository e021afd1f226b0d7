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

func regsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regs",
		Short: "Browse and act on unmatched scout registrations",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the unmatched registration pool",
		RunE:  runRegsList,
	}
	list.Flags().StringP("search", "s", "", "case-insensitive text filter")
	list.Flags().String("from", "", "earliest registration date (YYYY-MM-DD)")
	list.Flags().String("to", "", "latest registration date, whole day inclusive (YYYY-MM-DD)")

	sel := &cobra.Command{
		Use:   "select <registration-id>",
		Short: "Select a registration as the source side of the next assignment",
		Args:  cobra.ExactArgs(1),
		RunE:  runRegsSelect,
	}

	cmd.AddCommand(list, sel)
	return cmd
}

func runRegsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	env, err := newAppEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	w, err := env.workflowFor(ctx, workflow.KindRegistration)
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

	regs := filter.Apply(w.Registrations(), query, func(r model.ScoutRegistration) filter.Probe {
		return filter.Probe{
			Texts: []string{r.ID, r.FirstName, r.LastName, r.Phone, r.LicenseNumber},
			Dates: []time.Time{r.RegisteredAt},
		}
	})

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Unmatched registrations (%d)", len(regs))))
	cli.RenderRegistrations(os.Stdout, regs, w.State().SourceID)
	return nil
}

func runRegsSelect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := newAppEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	w, err := env.workflowFor(ctx, workflow.KindRegistration)
	if err != nil {
		return err
	}

	w.SelectSource(args[0])
	if err := env.saveWorkflow(ctx, w); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Registration %s selected (phase %s)", args[0], w.State().Phase())))
	return nil
}
