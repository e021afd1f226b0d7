// Package workflow drives the operator's selection and assignment flow: an
// explicit serializable state value, pure transition functions, and an
// orchestrator that talks to the remote services and reloads pools after
// mutations.
package workflow

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/ridewell/rematch/internal/model"
)

// SourceKind names the unmatched-record kind a workflow instance operates on.
type SourceKind string

// Source kinds.
const (
	KindLead         SourceKind = "lead"
	KindRegistration SourceKind = "registration"
	KindTransaction  SourceKind = "transaction"
)

// Phase is the observable position in the selection/assignment state machine.
type Phase string

// Workflow phases.
const (
	PhaseIdle           Phase = "IDLE"
	PhaseSourceSelected Phase = "SOURCE_SELECTED"
	PhaseDriverSelected Phase = "DRIVER_SELECTED"
	PhaseReadyToAssign  Phase = "READY_TO_ASSIGN"
	PhaseAssigning      Phase = "ASSIGNING"
)

// State is the operator's current intent as one serializable value. All
// transitions are replace-on-write: methods return a new State and never
// mutate the receiver, so group-scoped selection changes are provably limited
// to their own ids.
//
// Groups default to expanded, so the state records the collapsed set; a
// freshly regrouped pool is therefore fully expanded without bookkeeping.
type State struct {
	Kind             SourceKind        `json:"kind"`
	SourceID         string            `json:"source_id,omitempty"`
	TransactionIDs   []int64           `json:"transaction_ids,omitempty"`
	DriverID         string            `json:"driver_id,omitempty"`
	Milestones       []model.Milestone `json:"milestones,omitempty"`
	Collapsed        []string          `json:"collapsed,omitempty"`
	LastError        string            `json:"last_error,omitempty"`
	DriverGeneration string            `json:"driver_generation,omitempty"`
	PoolGeneration   string            `json:"pool_generation,omitempty"`
	Assigning        bool              `json:"assigning,omitempty"`
}

// NewState returns the idle state for one record kind.
func NewState(kind SourceKind) State {
	return State{Kind: kind}
}

// Phase derives the machine phase from the state value.
func (s State) Phase() Phase {
	switch {
	case s.Assigning:
		return PhaseAssigning
	case s.hasSource() && s.DriverID != "":
		return PhaseReadyToAssign
	case s.DriverID != "":
		return PhaseDriverSelected
	case s.hasSource():
		return PhaseSourceSelected
	default:
		return PhaseIdle
	}
}

// CanAssign reports the observable precondition for the assign action: both
// a source selection and a driver selection are simultaneously present.
func (s State) CanAssign() bool {
	return s.hasSource() && s.DriverID != "" && !s.Assigning
}

func (s State) hasSource() bool {
	if s.Kind == KindTransaction {
		return len(s.TransactionIDs) > 0
	}
	return s.SourceID != ""
}

// WithSource selects one source record, replacing any previous selection.
func (s State) WithSource(id string) State {
	s.SourceID = id
	return s
}

// ClearSource drops the source-side selection.
func (s State) ClearSource() State {
	s.SourceID = ""
	s.TransactionIDs = nil
	return s
}

// WithDriver selects a driver and caches its milestone list.
func (s State) WithDriver(id string, milestones []model.Milestone) State {
	s.DriverID = id
	s.Milestones = slices.Clone(milestones)
	return s
}

// ClearDriver drops the driver selection and the cached milestones.
func (s State) ClearDriver() State {
	s.DriverID = ""
	s.Milestones = nil
	return s
}

// SelectTransactions adds the given ids to the selection set.
func (s State) SelectTransactions(ids ...int64) State {
	selected := slices.Clone(s.TransactionIDs)
	for _, id := range ids {
		if !slices.Contains(selected, id) {
			selected = append(selected, id)
		}
	}
	s.TransactionIDs = selected
	return s
}

// DeselectTransactions removes the given ids from the selection set. Ids not
// currently selected are ignored.
func (s State) DeselectTransactions(ids ...int64) State {
	selected := make([]int64, 0, len(s.TransactionIDs))
	for _, id := range s.TransactionIDs {
		if !slices.Contains(ids, id) {
			selected = append(selected, id)
		}
	}
	s.TransactionIDs = selected
	return s
}

// SelectGroup adds exactly the group's own transaction ids to the selection
// set, leaving selections from other groups untouched.
func (s State) SelectGroup(g model.TransactionGroup) State {
	return s.SelectTransactions(g.IDs()...)
}

// DeselectGroup removes exactly the group's own transaction ids from the
// selection set, leaving selections from other groups untouched.
func (s State) DeselectGroup(g model.TransactionGroup) State {
	return s.DeselectTransactions(g.IDs()...)
}

// IsSelected reports whether a transaction id is in the selection set.
func (s State) IsSelected(id int64) bool {
	return slices.Contains(s.TransactionIDs, id)
}

// ToggleGroup flips a group's expand/collapse presentation state.
func (s State) ToggleGroup(key string) State {
	if i := slices.Index(s.Collapsed, key); i >= 0 {
		s.Collapsed = slices.Delete(slices.Clone(s.Collapsed), i, i+1)
		return s
	}
	s.Collapsed = append(slices.Clone(s.Collapsed), key)
	return s
}

// IsExpanded reports a group's presentation state. Groups start expanded.
func (s State) IsExpanded(key string) bool {
	return !slices.Contains(s.Collapsed, key)
}

// withError records the user-visible error slot.
func (s State) withError(msg string) State {
	s.LastError = msg
	return s
}

// clearError empties the error slot; called at the start of every attempt.
func (s State) clearError() State {
	s.LastError = ""
	return s
}

// afterAssign resets the state after a successful assignment: both
// selections, the cached milestones and the error slot are cleared. The
// collapsed set survives, it is presentation state over the reloaded pool.
func (s State) afterAssign() State {
	s = s.ClearSource().ClearDriver().clearError()
	s.Assigning = false
	return s
}

// MarshalState encodes a state value for the session store.
func MarshalState(s State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode workflow state: %w", err)
	}
	return data, nil
}

// UnmarshalState decodes a state value from the session store. Empty input
// yields the idle state for the given kind.
func UnmarshalState(data []byte, kind SourceKind) (State, error) {
	if len(data) == 0 {
		return NewState(kind), nil
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("failed to decode workflow state: %w", err)
	}
	if s.Kind == "" {
		s.Kind = kind
	}
	return s, nil
}
