package model

import "time"

// Milestone is a driver's trip-count achievement record. Milestones are
// fetched when a driver is selected and optionally attached to a batch
// transaction assignment.
type Milestone struct {
	FulfilledAt time.Time
	Type        string
	ID          int64
	PeriodDays  int
}
