// Package group partitions the unmatched transaction pool into
// operator-meaningful units keyed by the driver name parsed from each
// transaction's comment.
package group

import (
	"github.com/ridewell/rematch/internal/model"
)

// Build partitions a flat transaction pool into ordered groups. Transactions
// sharing a parsed driver-name token cluster together; a transaction with no
// parsed name becomes a singleton keyed by "single-<id>", so every
// transaction belongs to exactly one group. Groups appear in the order their
// first member appears in the pool; members keep pool order within a group.
//
// Build is called on every pool reload. Membership is never diffed or
// patched, only recomputed from scratch.
func Build(pool []model.Transaction) []model.TransactionGroup {
	groups := make([]model.TransactionGroup, 0)
	index := make(map[string]int)

	for _, txn := range pool {
		key := txn.GroupKey()
		if i, ok := index[key]; ok {
			groups[i].Transactions = append(groups[i].Transactions, txn)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, model.TransactionGroup{
			Key:          key,
			Transactions: []model.Transaction{txn},
		})
	}

	return groups
}

// Find returns the group with the given key, or false when absent.
func Find(groups []model.TransactionGroup, key string) (model.TransactionGroup, bool) {
	for _, g := range groups {
		if g.Key == key {
			return g, true
		}
	}
	return model.TransactionGroup{}, false
}
