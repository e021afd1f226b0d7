package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridewell/rematch/internal/model"
)

func TestState_PhaseDerivation(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Phase
	}{
		{name: "idle", state: NewState(KindLead), want: PhaseIdle},
		{name: "source selected", state: NewState(KindLead).WithSource("L1"), want: PhaseSourceSelected},
		{name: "driver only", state: NewState(KindLead).WithDriver("D1", nil), want: PhaseDriverSelected},
		{name: "both selected", state: NewState(KindLead).WithSource("L1").WithDriver("D1", nil), want: PhaseReadyToAssign},
		{name: "transactions selected", state: NewState(KindTransaction).SelectTransactions(1, 2), want: PhaseSourceSelected},
		{
			name: "transactions ready",
			state: NewState(KindTransaction).SelectTransactions(1).WithDriver("D1", nil),
			want: PhaseReadyToAssign,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Phase())
		})
	}
}

func TestState_CanAssign(t *testing.T) {
	s := NewState(KindLead)
	assert.False(t, s.CanAssign())
	assert.False(t, s.WithSource("L1").CanAssign())
	assert.False(t, s.WithDriver("D1", nil).CanAssign())
	assert.True(t, s.WithSource("L1").WithDriver("D1", nil).CanAssign())

	txn := NewState(KindTransaction)
	assert.False(t, txn.WithDriver("D1", nil).CanAssign())
	assert.True(t, txn.SelectTransactions(7).WithDriver("D1", nil).CanAssign())
}

func TestState_GroupSelectionScopedToGroup(t *testing.T) {
	groupA := model.TransactionGroup{
		Key: "A",
		Transactions: []model.Transaction{{ID: 1}, {ID: 2}, {ID: 3}},
	}
	groupB := model.TransactionGroup{
		Key: "B",
		Transactions: []model.Transaction{{ID: 10}, {ID: 11}},
	}

	s := NewState(KindTransaction).SelectGroup(groupB)
	require.ElementsMatch(t, []int64{10, 11}, s.TransactionIDs)

	// Select three transactions in A, then deselect all of A: exactly those
	// three ids disappear, B's selections are untouched.
	s = s.SelectGroup(groupA)
	require.ElementsMatch(t, []int64{10, 11, 1, 2, 3}, s.TransactionIDs)

	s = s.DeselectGroup(groupA)
	assert.ElementsMatch(t, []int64{10, 11}, s.TransactionIDs)
}

func TestState_SelectTransactionsDeduplicates(t *testing.T) {
	s := NewState(KindTransaction).SelectTransactions(1, 2).SelectTransactions(2, 3)
	assert.Equal(t, []int64{1, 2, 3}, s.TransactionIDs)
}

func TestState_TransitionsDoNotMutateReceiver(t *testing.T) {
	base := NewState(KindTransaction).SelectTransactions(1, 2)
	_ = base.SelectTransactions(3)
	_ = base.DeselectTransactions(1)
	assert.Equal(t, []int64{1, 2}, base.TransactionIDs)

	collapsed := base.ToggleGroup("A")
	assert.True(t, base.IsExpanded("A"))
	assert.False(t, collapsed.IsExpanded("A"))
}

func TestState_GroupsDefaultExpanded(t *testing.T) {
	s := NewState(KindTransaction)
	assert.True(t, s.IsExpanded("anything"))

	s = s.ToggleGroup("A")
	assert.False(t, s.IsExpanded("A"))
	assert.True(t, s.IsExpanded("B"))

	s = s.ToggleGroup("A")
	assert.True(t, s.IsExpanded("A"))
}

func TestState_AfterAssignClearsSelectionsKeepsCollapse(t *testing.T) {
	s := NewState(KindTransaction).
		SelectTransactions(1, 2).
		WithDriver("D1", []model.Milestone{{ID: 5}}).
		ToggleGroup("A").
		withError("previous failure")

	s = s.afterAssign()

	assert.Empty(t, s.TransactionIDs)
	assert.Empty(t, s.DriverID)
	assert.Empty(t, s.Milestones)
	assert.Empty(t, s.LastError)
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.False(t, s.IsExpanded("A"))
}

func TestState_MarshalRoundTrip(t *testing.T) {
	s := NewState(KindTransaction).
		SelectTransactions(3, 1).
		WithDriver("D9", []model.Milestone{{ID: 4, Type: "trips_50", PeriodDays: 30}}).
		ToggleGroup("Juan Perez")

	data, err := MarshalState(s)
	require.NoError(t, err)

	got, err := UnmarshalState(data, KindTransaction)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestUnmarshalState_EmptyYieldsIdle(t *testing.T) {
	got, err := UnmarshalState(nil, KindRegistration)
	require.NoError(t, err)
	assert.Equal(t, NewState(KindRegistration), got)
	assert.Equal(t, PhaseIdle, got.Phase())
}
