// Package filter applies independent text and date-range predicates over the
// browsable pools.
package filter

import (
	"strings"
	"time"
)

// Query is one filter request: a free-text term and an optional closed date
// range. Each part is independently optional; set parts are AND-combined.
type Query struct {
	From *time.Time
	To   *time.Time
	Term string
}

// IsZero reports whether the query filters nothing.
func (q Query) IsZero() bool {
	return q.Term == "" && q.From == nil && q.To == nil
}

// Probe exposes an item's searchable text fields and its dates to the filter.
// Items with several members (transaction groups) surface every member's
// fields: the item passes a predicate when any surfaced value does.
type Probe struct {
	Texts []string
	Dates []time.Time
}

// Apply returns the items passing every set predicate, in input order.
func Apply[T any](items []T, q Query, probe func(T) Probe) []T {
	if q.IsZero() {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		p := probe(item)
		if matchesText(p.Texts, q.Term) && matchesDates(p.Dates, q.From, q.To) {
			out = append(out, item)
		}
	}
	return out
}

// matchesText is a case-insensitive substring match over any searchable
// field. An empty term always passes.
func matchesText(texts []string, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	for _, t := range texts {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// matchesDates accepts when any date falls inside [from, end-of-day(to)].
// The "to" bound covers the entire calendar day, not just midnight.
func matchesDates(dates []time.Time, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	for _, d := range dates {
		if from != nil && d.Before(*from) {
			continue
		}
		if to != nil && d.After(endOfDay(*to)) {
			continue
		}
		return true
	}
	return false
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
