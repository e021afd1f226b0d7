package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ridewell/rematch/internal/cli"
	"github.com/ridewell/rematch/internal/filter"
	"github.com/ridewell/rematch/internal/model"
	"github.com/ridewell/rematch/internal/workflow"
)

func txnsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txns",
		Short: "Browse and act on unmatched payment transactions",
		Long: `Unmatched transactions are grouped by the driver name parsed from their
comment; transactions with no parsed name form singleton groups. Selection is
per transaction, with group-level select/deselect shortcuts.`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the unmatched transactions grouped by parsed driver name",
		RunE:  runTxnsList,
	}
	list.Flags().StringP("search", "s", "", "case-insensitive filter over comments and parsed names")
	list.Flags().String("from", "", "earliest transaction date (YYYY-MM-DD)")
	list.Flags().String("to", "", "latest transaction date, whole day inclusive (YYYY-MM-DD)")

	sel := &cobra.Command{
		Use:   "select <txn-id>...",
		Short: "Add transactions to the selection set",
		Args:  cobra.MinimumNArgs(1),
		RunE:  selectionRunner((*workflow.Workflow).SelectTransactions, "selected"),
	}
	unsel := &cobra.Command{
		Use:   "unselect <txn-id>...",
		Short: "Remove transactions from the selection set",
		Args:  cobra.MinimumNArgs(1),
		RunE:  selectionRunner((*workflow.Workflow).DeselectTransactions, "deselected"),
	}

	selGroup := &cobra.Command{
		Use:   "select-group <group-key>",
		Short: "Select every transaction in one group",
		Args:  cobra.ExactArgs(1),
		RunE:  groupRunner((*workflow.Workflow).SelectGroup, "selected"),
	}
	deselGroup := &cobra.Command{
		Use:   "deselect-group <group-key>",
		Short: "Deselect every transaction in one group",
		Args:  cobra.ExactArgs(1),
		RunE:  groupRunner((*workflow.Workflow).DeselectGroup, "deselected"),
	}

	toggle := &cobra.Command{
		Use:   "toggle <group-key>",
		Short: "Expand or collapse one group in the listing",
		Args:  cobra.ExactArgs(1),
		RunE:  runTxnsToggle,
	}

	cmd.AddCommand(list, sel, unsel, selGroup, deselGroup, toggle)
	return cmd
}

func runTxnsList(cmd *cobra.Command, _ []string) error {
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

	// A group passes when any member transaction does.
	groups := filter.Apply(w.Groups(), query, func(g model.TransactionGroup) filter.Probe {
		texts := []string{g.Key}
		dates := make([]time.Time, 0, g.Count())
		for _, t := range g.Transactions {
			texts = append(texts, t.Comment, t.DriverNameFromComment)
			dates = append(dates, t.Date)
		}
		return filter.Probe{Texts: texts, Dates: dates}
	})

	state := w.State()
	fmt.Println(cli.FormatTitle(fmt.Sprintf("Unmatched transactions: %d groups, %d selected",
		len(groups), len(state.TransactionIDs))))
	cli.RenderGroups(os.Stdout, groups, state.IsExpanded, state.IsSelected)
	return nil
}

// selectionRunner builds a RunE applying an id-set mutation to the
// transaction workflow.
func selectionRunner(op func(*workflow.Workflow, ...int64), verb string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ids := make([]int64, 0, len(args))
		for _, arg := range args {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q: %w", arg, err)
			}
			ids = append(ids, id)
		}

		env, err := newAppEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		w, err := env.workflowFor(ctx, workflow.KindTransaction)
		if err != nil {
			return err
		}

		op(w, ids...)
		if err := env.saveWorkflow(ctx, w); err != nil {
			return err
		}

		fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d transactions %s, %d now selected",
			len(ids), verb, len(w.State().TransactionIDs))))
		return nil
	}
}

// groupRunner builds a RunE applying a group-scoped selection mutation. The
// pool is reloaded first so the group's membership is current.
func groupRunner(op func(*workflow.Workflow, string) error, verb string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
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
		if err := w.ReloadUnmatched(ctx); err != nil {
			return err
		}

		if err := op(w, args[0]); err != nil {
			return err
		}
		if err := env.saveWorkflow(ctx, w); err != nil {
			return err
		}

		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Group %q %s, %d transactions now selected",
			args[0], verb, len(w.State().TransactionIDs))))
		return nil
	}
}

func runTxnsToggle(cmd *cobra.Command, args []string) error {
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

	w.ToggleGroup(args[0])
	if err := env.saveWorkflow(ctx, w); err != nil {
		return err
	}

	state := "collapsed"
	if w.State().IsExpanded(args[0]) {
		state = "expanded"
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Group %q %s", args[0], state)))
	return nil
}
