package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ridewell/rematch/internal/aggregate"
	"github.com/ridewell/rematch/internal/cli"
	"github.com/ridewell/rematch/internal/common"
	"github.com/ridewell/rematch/internal/config"
	"github.com/ridewell/rematch/internal/filter"
	"github.com/ridewell/rematch/internal/match"
	"github.com/ridewell/rematch/internal/model"
	"github.com/ridewell/rematch/internal/workflow"
)

func driversCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "Aggregate and browse the candidate driver pool",
		Long: `Fetch driver snapshots day by day over a date range, merge them into one
deduplicated pool, and list it. When a source record is currently selected,
likely matches are highlighted.

Without --from/--to the previously aggregated pool is listed.`,
		RunE: runDrivers,
	}

	cmd.Flags().String("from", "", "range start (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "range end (YYYY-MM-DD)")
	cmd.Flags().String("scope", "", "organizational scope id (default: remote.scope_id from config)")
	cmd.Flags().StringP("search", "s", "", "case-insensitive text filter")
	cmd.Flags().String("hired-from", "", "earliest hire date (YYYY-MM-DD)")
	cmd.Flags().String("hired-to", "", "latest hire date, whole day inclusive (YYYY-MM-DD)")

	return cmd
}

func runDrivers(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	env, err := newAppEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	fromFlag, _ := cmd.Flags().GetString("from")
	toFlag, _ := cmd.Flags().GetString("to")
	from, err := parseDateFlag(fromFlag)
	if err != nil {
		return err
	}
	to, err := parseDateFlag(toFlag)
	if err != nil {
		return err
	}

	var drivers []model.Driver
	if from != nil || to != nil {
		drivers, err = aggregateDrivers(cmd, env, from, to)
		if err != nil {
			return err
		}
		if err := env.store.SaveDriverPool(ctx, drivers); err != nil {
			return err
		}
	} else {
		drivers, err = env.store.LoadDriverPool(ctx)
		if errors.Is(err, common.ErrNotFound) {
			fmt.Println(cli.FormatWarning("No driver pool yet - run with --from/--to to aggregate one"))
			return nil
		}
		if err != nil {
			return err
		}
	}

	search, _ := cmd.Flags().GetString("search")
	hiredFrom, _ := cmd.Flags().GetString("hired-from")
	hiredTo, _ := cmd.Flags().GetString("hired-to")
	query, err := queryFromFlags(search, hiredFrom, hiredTo)
	if err != nil {
		return err
	}

	drivers = filter.Apply(drivers, query, func(d model.Driver) filter.Probe {
		return filter.Probe{
			Texts: []string{d.ID, d.FullName, d.Phone, d.LicenseNumber},
			Dates: []time.Time{d.HireDate},
		}
	})

	highlighted, selectedDriver, err := highlightContext(cmd, env, drivers)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Drivers (%d)", len(drivers))))
	cli.RenderDrivers(os.Stdout, drivers, highlighted, selectedDriver)
	return nil
}

// aggregateDrivers runs the day-by-day aggregation with a progress bar.
func aggregateDrivers(cmd *cobra.Command, env *appEnv, from, to *time.Time) ([]model.Driver, error) {
	scope, _ := cmd.Flags().GetString("scope")
	if scope == "" {
		scope = config.ScopeID()
	}

	aggregator := aggregate.New(env.client, scope)

	var bar *progressbar.ProgressBar
	aggregator.Progress = func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Aggregating drivers..."),
			)
		}
		_ = bar.Set(done)
	}

	drivers, err := aggregator.Drivers(cmd.Context(), from, to)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return nil, err
	}
	return drivers, nil
}

// highlightContext resolves the operator's current source selection (if any)
// and computes the likely-match set over the visible drivers, plus the
// currently selected driver id for that workflow.
func highlightContext(cmd *cobra.Command, env *appEnv, drivers []model.Driver) (map[string]bool, string, error) {
	ctx := cmd.Context()
	kind := env.activeKind(ctx)
	if kind == workflow.KindTransaction {
		// Transaction selections have no matchable source fields.
		w, err := env.workflowFor(ctx, kind)
		if err != nil {
			return nil, "", err
		}
		return nil, w.State().DriverID, nil
	}

	w, err := env.workflowFor(ctx, kind)
	if err != nil {
		return nil, "", err
	}
	if w.State().SourceID == "" {
		return nil, w.State().DriverID, nil
	}
	if err := w.ReloadUnmatched(ctx); err != nil {
		return nil, "", err
	}

	source, ok := w.SelectedSource()
	if !ok {
		return nil, w.State().DriverID, nil
	}

	highlighted := make(map[string]bool)
	for _, d := range drivers {
		if match.LikelyMatch(source, d) {
			highlighted[d.ID] = true
		}
	}
	return highlighted, w.State().DriverID, nil
}
