package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ridewell/rematch/internal/aggregate"
	"github.com/ridewell/rematch/internal/common"
	"github.com/ridewell/rematch/internal/group"
	"github.com/ridewell/rematch/internal/model"
	"github.com/ridewell/rematch/internal/service"
)

// Confirmer gates destructive operations behind an explicit operator
// confirmation.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Workflow orchestrates one record kind's selection and assignment flow. It
// owns the unmatched pool, the driver pool and the state value; all mutation
// happens through its methods on a single goroutine, so no locking is needed
// by construction.
type Workflow struct {
	reconcile  service.ReconcileClient
	registry   service.RegistryClient
	aggregator *aggregate.Aggregator
	confirmer  Confirmer
	logger     *slog.Logger

	state State

	leads         []model.Lead
	registrations []model.ScoutRegistration
	transactions  []model.Transaction
	groups        []model.TransactionGroup
	drivers       []model.Driver
}

// New creates a workflow for one record kind.
func New(kind SourceKind, reconcile service.ReconcileClient, registry service.RegistryClient, aggregator *aggregate.Aggregator, confirmer Confirmer) *Workflow {
	return &Workflow{
		reconcile:  reconcile,
		registry:   registry,
		aggregator: aggregator,
		confirmer:  confirmer,
		logger:     slog.Default().With("component", "workflow", "kind", string(kind)),
		state:      NewState(kind),
	}
}

// State returns the current state value.
func (w *Workflow) State() State { return w.state }

// RestoreState replaces the state value, typically from the session store.
// The restored kind must agree with the workflow's.
func (w *Workflow) RestoreState(s State) error {
	if s.Kind != w.state.Kind {
		return fmt.Errorf("state kind %q does not match workflow kind %q", s.Kind, w.state.Kind)
	}
	w.state = s
	return nil
}

// Leads returns the unmatched lead pool.
func (w *Workflow) Leads() []model.Lead { return w.leads }

// Registrations returns the unmatched registration pool.
func (w *Workflow) Registrations() []model.ScoutRegistration { return w.registrations }

// Transactions returns the unmatched transaction pool.
func (w *Workflow) Transactions() []model.Transaction { return w.transactions }

// Groups returns the transaction groups derived from the current pool.
func (w *Workflow) Groups() []model.TransactionGroup { return w.groups }

// Drivers returns the aggregated driver pool.
func (w *Workflow) Drivers() []model.Driver { return w.drivers }

// SelectedSource returns the currently selected source record, if any.
func (w *Workflow) SelectedSource() (model.SourceRecord, bool) {
	switch w.state.Kind {
	case KindLead:
		for _, l := range w.leads {
			if l.ID == w.state.SourceID {
				return l, true
			}
		}
	case KindRegistration:
		for _, r := range w.registrations {
			if r.ID == w.state.SourceID {
				return r, true
			}
		}
	case KindTransaction:
		// Transactions carry no matchable source fields beyond the parsed
		// name; highlighting is driven by the selected records' group names
		// upstream, so there is no single source record here.
	}
	return nil, false
}

// ReloadUnmatched fetches the unmatched pool for the workflow's kind and, for
// transactions, recomputes the groups. Each load is stamped with a fresh
// generation token; a concurrent older load that resolves later is rejected
// rather than allowed to overwrite the newer pool.
func (w *Workflow) ReloadUnmatched(ctx context.Context) error {
	gen := uuid.NewString()
	w.state.PoolGeneration = gen

	switch w.state.Kind {
	case KindLead:
		leads, err := w.reconcile.UnmatchedLeads(ctx)
		if err != nil {
			return common.NewUserError("could not load unmatched leads", err)
		}
		return w.applyLeads(gen, leads)
	case KindRegistration:
		regs, err := w.reconcile.UnmatchedRegistrations(ctx)
		if err != nil {
			return common.NewUserError("could not load unmatched registrations", err)
		}
		return w.applyRegistrations(gen, regs)
	case KindTransaction:
		txns, err := w.reconcile.UnmatchedTransactions(ctx)
		if err != nil {
			return common.NewUserError("could not load unmatched transactions", err)
		}
		return w.applyTransactions(gen, txns)
	}
	return fmt.Errorf("unknown source kind: %s", w.state.Kind)
}

func (w *Workflow) applyLeads(gen string, leads []model.Lead) error {
	if gen != w.state.PoolGeneration {
		return common.ErrStaleGeneration
	}
	w.leads = leads
	return nil
}

func (w *Workflow) applyRegistrations(gen string, regs []model.ScoutRegistration) error {
	if gen != w.state.PoolGeneration {
		return common.ErrStaleGeneration
	}
	w.registrations = regs
	return nil
}

func (w *Workflow) applyTransactions(gen string, txns []model.Transaction) error {
	if gen != w.state.PoolGeneration {
		return common.ErrStaleGeneration
	}
	w.transactions = txns
	w.groups = group.Build(txns)
	return nil
}

// LoadDrivers aggregates the driver pool over [from, to]. The result is
// guarded by a generation token so a stale range's result cannot overwrite a
// fresher one.
func (w *Workflow) LoadDrivers(ctx context.Context, from, to *time.Time) error {
	gen := uuid.NewString()
	w.state.DriverGeneration = gen

	drivers, err := w.aggregator.Drivers(ctx, from, to)
	if err != nil {
		return common.NewUserError("could not load drivers", err)
	}
	if gen != w.state.DriverGeneration {
		return common.ErrStaleGeneration
	}
	w.drivers = drivers
	return nil
}

// SetDrivers replaces the driver pool directly; used when the pool was
// aggregated elsewhere (or restored from the session cache).
func (w *Workflow) SetDrivers(drivers []model.Driver) {
	w.drivers = drivers
}

// SelectSource records the operator's source-side choice.
func (w *Workflow) SelectSource(id string) {
	w.state = w.state.WithSource(id)
}

// SelectTransactions adds transaction ids to the selection set.
func (w *Workflow) SelectTransactions(ids ...int64) {
	w.state = w.state.SelectTransactions(ids...)
}

// DeselectTransactions removes transaction ids from the selection set.
func (w *Workflow) DeselectTransactions(ids ...int64) {
	w.state = w.state.DeselectTransactions(ids...)
}

// SelectGroup selects every transaction in the named group.
func (w *Workflow) SelectGroup(key string) error {
	g, ok := group.Find(w.groups, key)
	if !ok {
		return fmt.Errorf("no transaction group %q: %w", key, common.ErrNotFound)
	}
	w.state = w.state.SelectGroup(g)
	return nil
}

// DeselectGroup deselects every transaction in the named group.
func (w *Workflow) DeselectGroup(key string) error {
	g, ok := group.Find(w.groups, key)
	if !ok {
		return fmt.Errorf("no transaction group %q: %w", key, common.ErrNotFound)
	}
	w.state = w.state.DeselectGroup(g)
	return nil
}

// ToggleGroup flips a group's expand/collapse state.
func (w *Workflow) ToggleGroup(key string) {
	w.state = w.state.ToggleGroup(key)
}

// SelectDriver records the driver-side choice and caches the driver's
// milestone list for a later batch assignment. The source selection is
// untouched. A milestone fetch failure does not lose the driver selection.
func (w *Workflow) SelectDriver(ctx context.Context, driverID string) error {
	milestones, err := w.registry.DriverMilestones(ctx, driverID)
	if err != nil {
		w.logger.Warn("Milestone fetch failed, selecting driver without milestones",
			"driver_id", driverID, "error", err)
		milestones = nil
	}
	w.state = w.state.WithDriver(driverID, milestones)
	return nil
}

// ClearDriver drops the driver selection and its cached milestones.
func (w *Workflow) ClearDriver() {
	w.state = w.state.ClearDriver()
}

// ClearSource drops the source-side selection.
func (w *Workflow) ClearSource() {
	w.state = w.state.ClearSource()
}

// Assign submits the assignment for the current selections. With either side
// missing the call is a no-op, not an error: it returns false and changes
// nothing. On success both selections are cleared and the unmatched pool is
// reloaded. On failure the selections are preserved so the operator can retry
// without re-selecting, and the error slot carries the message.
func (w *Workflow) Assign(ctx context.Context) (bool, error) {
	if !w.state.CanAssign() {
		return false, nil
	}

	w.state = w.state.clearError()
	w.state.Assigning = true

	err := w.callAssign(ctx)
	if err != nil {
		w.state.Assigning = false
		w.state = w.state.withError(err.Error())
		return false, common.NewUserError("assignment failed", err)
	}

	w.state = w.state.afterAssign()

	if err := w.ReloadUnmatched(ctx); err != nil {
		// The assignment itself succeeded; surface the reload problem
		// without reinstating the cleared selections.
		return true, err
	}
	return true, nil
}

func (w *Workflow) callAssign(ctx context.Context) error {
	s := w.state
	switch s.Kind {
	case KindLead:
		w.logger.Info("Assigning lead", "lead_id", s.SourceID, "driver_id", s.DriverID)
		return w.reconcile.AssignLead(ctx, s.SourceID, s.DriverID)
	case KindRegistration:
		w.logger.Info("Assigning registration", "registration_id", s.SourceID, "driver_id", s.DriverID)
		return w.reconcile.AssignRegistration(ctx, s.SourceID, s.DriverID)
	case KindTransaction:
		var milestoneIDs []int64
		for _, m := range s.Milestones {
			milestoneIDs = append(milestoneIDs, m.ID)
		}
		w.logger.Info("Assigning transactions",
			"count", len(s.TransactionIDs),
			"driver_id", s.DriverID,
			"milestones", len(milestoneIDs))
		return w.reconcile.AssignTransactions(ctx, s.TransactionIDs, s.DriverID, milestoneIDs)
	}
	return fmt.Errorf("unknown source kind: %s", s.Kind)
}

// DiscardLead removes a lead from the unmatched pool after operator
// confirmation. A declined confirmation aborts silently: no call, no state
// change, no error.
func (w *Workflow) DiscardLead(ctx context.Context, leadID string) (bool, error) {
	ok, err := w.confirmer.Confirm(ctx, fmt.Sprintf("Discard lead %s? This cannot be undone.", leadID))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	w.state = w.state.clearError()
	if err := w.reconcile.DiscardLead(ctx, leadID); err != nil {
		w.state = w.state.withError(err.Error())
		return false, common.NewUserError("discard failed", err)
	}

	if w.state.SourceID == leadID {
		w.state = w.state.ClearSource()
	}
	return true, w.ReloadUnmatched(ctx)
}

// Reprocess re-runs the automated matcher over all unmatched transactions
// after operator confirmation, then reloads the pool.
func (w *Workflow) Reprocess(ctx context.Context) (*model.ReprocessSummary, error) {
	ok, err := w.confirmer.Confirm(ctx, "Reprocess all unmatched transactions?")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	w.state = w.state.clearError()
	summary, err := w.reconcile.ReprocessTransactions(ctx)
	if err != nil {
		w.state = w.state.withError(err.Error())
		return nil, common.NewUserError("reprocess failed", err)
	}

	w.logger.Info("Reprocessed unmatched transactions",
		"total", summary.Total, "matched", summary.Matched, "unmatched", summary.Unmatched)
	return &summary, w.ReloadUnmatched(ctx)
}

// CleanupDuplicates deletes server-side duplicate transactions after operator
// confirmation, then reloads the pool.
func (w *Workflow) CleanupDuplicates(ctx context.Context) (*model.CleanupSummary, error) {
	ok, err := w.confirmer.Confirm(ctx, "Delete duplicate transactions?")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	w.state = w.state.clearError()
	summary, err := w.reconcile.CleanupDuplicates(ctx)
	if err != nil {
		w.state = w.state.withError(err.Error())
		return nil, common.NewUserError("cleanup failed", err)
	}

	w.logger.Info("Cleaned up duplicate transactions",
		"deleted", summary.Deleted, "found", summary.DuplicatesFound)
	return &summary, w.ReloadUnmatched(ctx)
}
