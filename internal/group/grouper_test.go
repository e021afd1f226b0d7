package group

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridewell/rematch/internal/model"
)

func TestBuild_GroupsByParsedName(t *testing.T) {
	pool := []model.Transaction{
		{ID: 1, Comment: "pago Juan Perez", DriverNameFromComment: "Juan Perez"},
		{ID: 2, Comment: "pago Juan Perez", DriverNameFromComment: "Juan Perez"},
		{ID: 3, Comment: ""},
	}

	groups := Build(pool)
	require.Len(t, groups, 2)

	assert.Equal(t, "Juan Perez", groups[0].Key)
	assert.Equal(t, 2, groups[0].Count())
	assert.Equal(t, []int64{1, 2}, groups[0].IDs())

	assert.Equal(t, "single-3", groups[1].Key)
	assert.Equal(t, 1, groups[1].Count())
}

func TestBuild_EveryTransactionInExactlyOneGroup(t *testing.T) {
	pool := []model.Transaction{
		{ID: 10, DriverNameFromComment: "A"},
		{ID: 11},
		{ID: 12, DriverNameFromComment: "B"},
		{ID: 13, DriverNameFromComment: "A"},
		{ID: 14},
		{ID: 15, DriverNameFromComment: "B"},
		{ID: 16, DriverNameFromComment: "A"},
	}

	groups := Build(pool)

	seen := make(map[int64]int)
	total := 0
	for _, g := range groups {
		total += g.Count()
		for _, id := range g.IDs() {
			seen[id]++
		}
	}

	assert.Equal(t, len(pool), total)
	for _, txn := range pool {
		assert.Equal(t, 1, seen[txn.ID], "transaction %d should appear exactly once", txn.ID)
	}
}

func TestBuild_PreservesFirstAppearanceOrder(t *testing.T) {
	pool := []model.Transaction{
		{ID: 1, DriverNameFromComment: "B"},
		{ID: 2, DriverNameFromComment: "A"},
		{ID: 3, DriverNameFromComment: "B"},
	}

	groups := Build(pool)
	require.Len(t, groups, 2)
	assert.Equal(t, "B", groups[0].Key)
	assert.Equal(t, "A", groups[1].Key)
	assert.Equal(t, []int64{1, 3}, groups[0].IDs())
}

func TestBuild_EmptyPool(t *testing.T) {
	assert.Empty(t, Build(nil))
	assert.Empty(t, Build([]model.Transaction{}))
}

func TestBuild_Recompute(t *testing.T) {
	// Regrouping after a reload reflects the new pool, with no memory of
	// the previous grouping.
	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	before := Build([]model.Transaction{
		{ID: 1, DriverNameFromComment: "Juan Perez", Date: day},
		{ID: 2, DriverNameFromComment: "Juan Perez", Date: day},
	})
	require.Len(t, before, 1)

	after := Build([]model.Transaction{
		{ID: 2, DriverNameFromComment: "Juan Perez", Date: day},
	})
	require.Len(t, after, 1)
	assert.Equal(t, []int64{2}, after[0].IDs())
}

func TestFind(t *testing.T) {
	groups := Build([]model.Transaction{
		{ID: 1, DriverNameFromComment: "A"},
		{ID: 2},
	})

	g, ok := Find(groups, "A")
	assert.True(t, ok)
	assert.Equal(t, []int64{1}, g.IDs())

	g, ok = Find(groups, "single-2")
	assert.True(t, ok)
	assert.Equal(t, []int64{2}, g.IDs())

	_, ok = Find(groups, "missing")
	assert.False(t, ok)
}
