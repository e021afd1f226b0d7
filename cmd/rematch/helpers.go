package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/ridewell/rematch/internal/aggregate"
	"github.com/ridewell/rematch/internal/cli"
	"github.com/ridewell/rematch/internal/common"
	"github.com/ridewell/rematch/internal/config"
	"github.com/ridewell/rematch/internal/filter"
	"github.com/ridewell/rematch/internal/registry"
	"github.com/ridewell/rematch/internal/service"
	"github.com/ridewell/rematch/internal/storage"
	"github.com/ridewell/rematch/internal/workflow"
)

// appEnv bundles the session store and remote client a command needs.
type appEnv struct {
	store  service.SessionStore
	client *registry.Client
}

func newAppEnv(ctx context.Context) (*appEnv, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/rematch/session.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	client, err := registry.NewClient(config.LoadRemoteConfig())
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &appEnv{store: store, client: client}, nil
}

func (e *appEnv) Close() {
	_ = e.store.Close()
}

// workflowFor builds the workflow for one record kind, restoring its session
// state and the cached driver pool.
func (e *appEnv) workflowFor(ctx context.Context, kind workflow.SourceKind) (*workflow.Workflow, error) {
	aggregator := aggregate.New(e.client, config.ScopeID())
	prompter := cli.NewPrompter(nil, nil)
	w := workflow.New(kind, e.client, e.client, aggregator, prompter)

	data, err := e.store.LoadState(ctx, string(kind))
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	state, err := workflow.UnmarshalState(data, kind)
	if err != nil {
		return nil, err
	}
	if err := w.RestoreState(state); err != nil {
		return nil, err
	}

	drivers, err := e.store.LoadDriverPool(ctx)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	w.SetDrivers(drivers)

	return w, nil
}

// saveWorkflow persists the workflow's state value back to the session store.
func (e *appEnv) saveWorkflow(ctx context.Context, w *workflow.Workflow) error {
	data, err := workflow.MarshalState(w.State())
	if err != nil {
		return err
	}
	return e.store.SaveState(ctx, string(w.State().Kind), data)
}

// activeKind returns the record kind the operator is currently working on:
// the first stored session with a source-side selection, defaulting to leads.
func (e *appEnv) activeKind(ctx context.Context) workflow.SourceKind {
	for _, kind := range []workflow.SourceKind{workflow.KindLead, workflow.KindRegistration, workflow.KindTransaction} {
		data, err := e.store.LoadState(ctx, string(kind))
		if err != nil {
			continue
		}
		state, err := workflow.UnmarshalState(data, kind)
		if err != nil {
			continue
		}
		if state.Phase() != workflow.PhaseIdle {
			return kind
		}
	}
	return workflow.KindLead
}

func kindFromFlag(value string) (workflow.SourceKind, error) {
	switch value {
	case "lead", "leads":
		return workflow.KindLead, nil
	case "reg", "regs", "registration", "registrations":
		return workflow.KindRegistration, nil
	case "txn", "txns", "transaction", "transactions":
		return workflow.KindTransaction, nil
	case "":
		return "", nil
	}
	return "", fmt.Errorf("invalid kind %q (want lead, reg or txn)", value)
}

func parseDateFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", value, err)
	}
	return &t, nil
}

// queryFromFlags turns --search/--from/--to values into a filter query.
func queryFromFlags(search, from, to string) (filter.Query, error) {
	fromDate, err := parseDateFlag(from)
	if err != nil {
		return filter.Query{}, err
	}
	toDate, err := parseDateFlag(to)
	if err != nil {
		return filter.Query{}, err
	}
	return filter.Query{Term: search, From: fromDate, To: toDate}, nil
}
