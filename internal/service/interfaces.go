// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/ridewell/rematch/internal/model"
)

// RegistryClient is the read side of the canonical driver registry. Drivers
// are snapshotted per calendar day; the aggregator issues one call per day in
// a range and merges the results.
type RegistryClient interface {
	// DriversForDate returns the raw driver snapshot for a single date and
	// organizational scope. Records may arrive under alternate field
	// spellings and are canonicalized by the caller.
	DriversForDate(ctx context.Context, date time.Time, scopeID string) ([]model.RawDriver, error)
	// DriverMilestones returns the milestone instances for one driver.
	DriverMilestones(ctx context.Context, driverID string) ([]model.Milestone, error)
}

// ReconcileClient is the contract with the remote reconciliation service that
// owns the unmatched pools. Every mutation here is server-side: a record
// leaves the unmatched pool only after one of these calls succeeds and the
// pool is reloaded.
type ReconcileClient interface {
	UnmatchedLeads(ctx context.Context) ([]model.Lead, error)
	UnmatchedRegistrations(ctx context.Context) ([]model.ScoutRegistration, error)
	UnmatchedTransactions(ctx context.Context) ([]model.Transaction, error)

	// AssignLead links one lead to one driver.
	AssignLead(ctx context.Context, leadID, driverID string) error
	// AssignRegistration links one scout registration to one driver.
	AssignRegistration(ctx context.Context, registrationID, driverID string) error
	// AssignTransactions links a set of transactions to one driver as a single
	// atomic server-side operation, optionally attaching milestone instances.
	AssignTransactions(ctx context.Context, transactionIDs []int64, driverID string, milestoneIDs []int64) error

	// DiscardLead removes a lead from the unmatched pool without assignment.
	DiscardLead(ctx context.Context, leadID string) error
	// ReprocessTransactions re-runs the automated matcher over every unmatched
	// transaction and reports counts.
	ReprocessTransactions(ctx context.Context) (model.ReprocessSummary, error)
	// CleanupDuplicates deletes server-side duplicate transactions.
	CleanupDuplicates(ctx context.Context) (model.CleanupSummary, error)

	// UploadStats returns metadata about the most recent data upload.
	UploadStats(ctx context.Context) (model.UploadStats, error)
}

// SessionStore persists the operator's workflow state between CLI
// invocations: selections, expanded groups and the locally aggregated driver
// pool. It never stores unmatched records; those live on the remote service
// and are refetched on every command.
type SessionStore interface {
	SaveState(ctx context.Context, kind string, state []byte) error
	LoadState(ctx context.Context, kind string) ([]byte, error)
	SaveDriverPool(ctx context.Context, drivers []model.Driver) error
	LoadDriverPool(ctx context.Context) ([]model.Driver, error)
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
