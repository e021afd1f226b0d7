package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridewell/rematch/internal/model"
)

func leadProbe(l model.Lead) Probe {
	return Probe{
		Texts: []string{l.ID, l.FirstName, l.LastName, l.Phone},
		Dates: []time.Time{l.CreatedAt},
	}
}

func date(year int, month time.Month, day, hour, minute, sec int) time.Time {
	return time.Date(year, month, day, hour, minute, sec, 0, time.UTC)
}

func datePtr(t time.Time) *time.Time { return &t }

var leads = []model.Lead{
	{ID: "L1", FirstName: "Juan", LastName: "Perez", Phone: "1155550001", CreatedAt: date(2024, 1, 10, 12, 0, 0)},
	{ID: "L2", FirstName: "Maria", LastName: "Lopez", Phone: "1155550002", CreatedAt: date(2024, 1, 15, 8, 30, 0)},
	{ID: "L3", FirstName: "Pedro", LastName: "Juarez", Phone: "1155550003", CreatedAt: date(2024, 2, 1, 0, 0, 1)},
}

func TestApply_EmptyQueryIsIdentity(t *testing.T) {
	got := Apply(leads, Query{}, leadProbe)
	assert.Equal(t, leads, got)
}

func TestApply_TextMatchesAnyField(t *testing.T) {
	tests := []struct {
		name    string
		term    string
		wantIDs []string
	}{
		{name: "first name", term: "juan", wantIDs: []string{"L1"}},
		{name: "shared prefix", term: "jua", wantIDs: []string{"L1", "L3"}},
		{name: "last name", term: "lopez", wantIDs: []string{"L2"}},
		{name: "id", term: "l3", wantIDs: []string{"L3"}},
		{name: "phone", term: "0002", wantIDs: []string{"L2"}},
		{name: "case insensitive", term: "PEREZ", wantIDs: []string{"L1"}},
		{name: "no hit", term: "zzz", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(leads, Query{Term: tt.term}, leadProbe)
			ids := make([]string, 0, len(got))
			for _, l := range got {
				ids = append(ids, l.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestApply_TextNarrowsDateResult(t *testing.T) {
	// A text-filtered result is always a subset of the date-only result.
	from := datePtr(date(2024, 1, 1, 0, 0, 0))
	dateOnly := Apply(leads, Query{From: from}, leadProbe)
	narrowed := Apply(leads, Query{Term: "maria", From: from}, leadProbe)

	require.NotEmpty(t, narrowed)
	for _, l := range narrowed {
		assert.Contains(t, dateOnly, l)
	}
	assert.LessOrEqual(t, len(narrowed), len(dateOnly))
}

func TestApply_DateFrom(t *testing.T) {
	from := datePtr(date(2024, 1, 15, 0, 0, 0))
	got := Apply(leads, Query{From: from}, leadProbe)
	require.Len(t, got, 2)
	assert.Equal(t, "L2", got[0].ID)
	assert.Equal(t, "L3", got[1].ID)
}

func TestApply_DateToIncludesWholeDay(t *testing.T) {
	to := datePtr(date(2024, 1, 31, 0, 0, 0))

	items := []model.Lead{
		{ID: "edge", CreatedAt: date(2024, 1, 31, 23, 59, 59)},
		{ID: "next-day", CreatedAt: date(2024, 2, 1, 0, 0, 1)},
	}

	got := Apply(items, Query{To: to}, leadProbe)
	require.Len(t, got, 1)
	assert.Equal(t, "edge", got[0].ID)
}

func TestApply_AllPredicatesCombine(t *testing.T) {
	q := Query{
		Term: "l",
		From: datePtr(date(2024, 1, 12, 0, 0, 0)),
		To:   datePtr(date(2024, 1, 31, 0, 0, 0)),
	}
	got := Apply(leads, q, leadProbe)
	require.Len(t, got, 1)
	assert.Equal(t, "L2", got[0].ID)
}

func TestApply_GroupPassesWhenAnyMemberDoes(t *testing.T) {
	groups := []model.TransactionGroup{
		{
			Key: "Juan Perez",
			Transactions: []model.Transaction{
				{ID: 1, Comment: "pago enero", Date: date(2024, 1, 5, 10, 0, 0)},
				{ID: 2, Comment: "pago febrero", Date: date(2024, 2, 5, 10, 0, 0)},
			},
		},
		{
			Key: "single-3",
			Transactions: []model.Transaction{
				{ID: 3, Comment: "sin nombre", Date: date(2024, 1, 20, 10, 0, 0)},
			},
		},
	}

	probe := func(g model.TransactionGroup) Probe {
		texts := []string{g.Key}
		var dates []time.Time
		for _, txn := range g.Transactions {
			texts = append(texts, txn.Comment, txn.DriverNameFromComment)
			dates = append(dates, txn.Date)
		}
		return Probe{Texts: texts, Dates: dates}
	}

	// Only the second member of the first group is in February; the group
	// still passes.
	feb := Apply(groups, Query{From: datePtr(date(2024, 2, 1, 0, 0, 0))}, probe)
	require.Len(t, feb, 1)
	assert.Equal(t, "Juan Perez", feb[0].Key)

	// Text over any member's comment.
	byComment := Apply(groups, Query{Term: "sin nombre"}, probe)
	require.Len(t, byComment, 1)
	assert.Equal(t, "single-3", byComment[0].Key)

	// Text over the parsed-name key.
	byName := Apply(groups, Query{Term: "juan"}, probe)
	require.Len(t, byName, 1)
	assert.Equal(t, "Juan Perez", byName[0].Key)
}
