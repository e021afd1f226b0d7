package model

import (
	"fmt"
	"time"
)

// Transaction is a single payment-platform event awaiting reconciliation.
type Transaction struct {
	Date                  time.Time
	Comment               string
	DriverNameFromComment string // parsed upstream; empty when no name could be extracted
	MilestoneType         string
	ID                    int64
	Amount                float64
}

// GroupKey returns the key this transaction clusters under: the driver-name
// token parsed from its comment, or a synthetic singleton key when none exists.
func (t Transaction) GroupKey() string {
	if t.DriverNameFromComment != "" {
		return t.DriverNameFromComment
	}
	return fmt.Sprintf("single-%d", t.ID)
}

// TransactionGroup is a transient cluster of transactions sharing a group key.
// Groups are recomputed from scratch on every pool reload, never persisted.
type TransactionGroup struct {
	Key          string
	Transactions []Transaction
}

// Count returns the number of member transactions.
func (g TransactionGroup) Count() int { return len(g.Transactions) }

// IDs returns the member transaction ids in group order.
func (g TransactionGroup) IDs() []int64 {
	ids := make([]int64, len(g.Transactions))
	for i, t := range g.Transactions {
		ids[i] = t.ID
	}
	return ids
}
