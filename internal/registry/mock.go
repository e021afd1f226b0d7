package registry

import (
	"context"
	"time"

	"github.com/ridewell/rematch/internal/model"
)

// MockClient is a mock implementation of the registry and reconcile clients
// for testing.
type MockClient struct {
	// Functions that can be set by tests to control behavior
	DriversForDateFn          func(ctx context.Context, date time.Time, scopeID string) ([]model.RawDriver, error)
	DriverMilestonesFn        func(ctx context.Context, driverID string) ([]model.Milestone, error)
	UnmatchedLeadsFn          func(ctx context.Context) ([]model.Lead, error)
	UnmatchedRegistrationsFn  func(ctx context.Context) ([]model.ScoutRegistration, error)
	UnmatchedTransactionsFn   func(ctx context.Context) ([]model.Transaction, error)
	AssignLeadFn              func(ctx context.Context, leadID, driverID string) error
	AssignRegistrationFn      func(ctx context.Context, registrationID, driverID string) error
	AssignTransactionsFn      func(ctx context.Context, transactionIDs []int64, driverID string, milestoneIDs []int64) error
	DiscardLeadFn             func(ctx context.Context, leadID string) error
	ReprocessTransactionsFn   func(ctx context.Context) (model.ReprocessSummary, error)
	CleanupDuplicatesFn       func(ctx context.Context) (model.CleanupSummary, error)
	UploadStatsFn             func(ctx context.Context) (model.UploadStats, error)

	// Call tracking
	DriversForDateCalls     []DriversForDateCall
	AssignTransactionsCalls []AssignTransactionsCall
	AssignLeadCalls         []AssignPairCall
	AssignRegistrationCalls []AssignPairCall
	DiscardLeadCalls        []string
	UnmatchedLoadCount      int
	ReprocessCalls          int
	CleanupCalls            int
}

// DriversForDateCall records the parameters of a DriversForDate call.
type DriversForDateCall struct {
	Date    time.Time
	ScopeID string
}

// AssignPairCall records the parameters of a single-entity assignment.
type AssignPairCall struct {
	SourceID string
	DriverID string
}

// AssignTransactionsCall records the parameters of a batch assignment.
type AssignTransactionsCall struct {
	DriverID       string
	TransactionIDs []int64
	MilestoneIDs   []int64
}

// NewMockClient creates a new mock client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// DriversForDate implements service.RegistryClient.
func (m *MockClient) DriversForDate(ctx context.Context, date time.Time, scopeID string) ([]model.RawDriver, error) {
	m.DriversForDateCalls = append(m.DriversForDateCalls, DriversForDateCall{Date: date, ScopeID: scopeID})
	if m.DriversForDateFn != nil {
		return m.DriversForDateFn(ctx, date, scopeID)
	}
	return []model.RawDriver{}, nil
}

// DriverMilestones implements service.RegistryClient.
func (m *MockClient) DriverMilestones(ctx context.Context, driverID string) ([]model.Milestone, error) {
	if m.DriverMilestonesFn != nil {
		return m.DriverMilestonesFn(ctx, driverID)
	}
	return []model.Milestone{}, nil
}

// UnmatchedLeads implements service.ReconcileClient.
func (m *MockClient) UnmatchedLeads(ctx context.Context) ([]model.Lead, error) {
	m.UnmatchedLoadCount++
	if m.UnmatchedLeadsFn != nil {
		return m.UnmatchedLeadsFn(ctx)
	}
	return []model.Lead{}, nil
}

// UnmatchedRegistrations implements service.ReconcileClient.
func (m *MockClient) UnmatchedRegistrations(ctx context.Context) ([]model.ScoutRegistration, error) {
	m.UnmatchedLoadCount++
	if m.UnmatchedRegistrationsFn != nil {
		return m.UnmatchedRegistrationsFn(ctx)
	}
	return []model.ScoutRegistration{}, nil
}

// UnmatchedTransactions implements service.ReconcileClient.
func (m *MockClient) UnmatchedTransactions(ctx context.Context) ([]model.Transaction, error) {
	m.UnmatchedLoadCount++
	if m.UnmatchedTransactionsFn != nil {
		return m.UnmatchedTransactionsFn(ctx)
	}
	return []model.Transaction{}, nil
}

// AssignLead implements service.ReconcileClient.
func (m *MockClient) AssignLead(ctx context.Context, leadID, driverID string) error {
	m.AssignLeadCalls = append(m.AssignLeadCalls, AssignPairCall{SourceID: leadID, DriverID: driverID})
	if m.AssignLeadFn != nil {
		return m.AssignLeadFn(ctx, leadID, driverID)
	}
	return nil
}

// AssignRegistration implements service.ReconcileClient.
func (m *MockClient) AssignRegistration(ctx context.Context, registrationID, driverID string) error {
	m.AssignRegistrationCalls = append(m.AssignRegistrationCalls, AssignPairCall{SourceID: registrationID, DriverID: driverID})
	if m.AssignRegistrationFn != nil {
		return m.AssignRegistrationFn(ctx, registrationID, driverID)
	}
	return nil
}

// AssignTransactions implements service.ReconcileClient.
func (m *MockClient) AssignTransactions(ctx context.Context, transactionIDs []int64, driverID string, milestoneIDs []int64) error {
	m.AssignTransactionsCalls = append(m.AssignTransactionsCalls, AssignTransactionsCall{
		TransactionIDs: transactionIDs,
		DriverID:       driverID,
		MilestoneIDs:   milestoneIDs,
	})
	if m.AssignTransactionsFn != nil {
		return m.AssignTransactionsFn(ctx, transactionIDs, driverID, milestoneIDs)
	}
	return nil
}

// DiscardLead implements service.ReconcileClient.
func (m *MockClient) DiscardLead(ctx context.Context, leadID string) error {
	m.DiscardLeadCalls = append(m.DiscardLeadCalls, leadID)
	if m.DiscardLeadFn != nil {
		return m.DiscardLeadFn(ctx, leadID)
	}
	return nil
}

// ReprocessTransactions implements service.ReconcileClient.
func (m *MockClient) ReprocessTransactions(ctx context.Context) (model.ReprocessSummary, error) {
	m.ReprocessCalls++
	if m.ReprocessTransactionsFn != nil {
		return m.ReprocessTransactionsFn(ctx)
	}
	return model.ReprocessSummary{}, nil
}

// CleanupDuplicates implements service.ReconcileClient.
func (m *MockClient) CleanupDuplicates(ctx context.Context) (model.CleanupSummary, error) {
	m.CleanupCalls++
	if m.CleanupDuplicatesFn != nil {
		return m.CleanupDuplicatesFn(ctx)
	}
	return model.CleanupSummary{}, nil
}

// UploadStats implements service.ReconcileClient.
func (m *MockClient) UploadStats(ctx context.Context) (model.UploadStats, error) {
	if m.UploadStatsFn != nil {
		return m.UploadStatsFn(ctx)
	}
	return model.UploadStats{}, nil
}
