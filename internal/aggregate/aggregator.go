// Package aggregate assembles the candidate driver pool from the day-granular
// registry API.
package aggregate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ridewell/rematch/internal/model"
	"github.com/ridewell/rematch/internal/service"
)

// Aggregator fetches driver snapshots day by day over a date span and merges
// them into one deduplicated pool. The loop is deliberately sequential: one
// in-flight request at a time keeps load on the registry bounded and per-day
// error accounting simple.
type Aggregator struct {
	registry service.RegistryClient
	logger   *slog.Logger
	scopeID  string

	// Progress, when set, is called after each day's fetch completes with the
	// number of days done and the total. Used to drive a progress bar.
	Progress func(done, total int)
}

// New creates an aggregator for one organizational scope.
func New(registry service.RegistryClient, scopeID string) *Aggregator {
	return &Aggregator{
		registry: registry,
		scopeID:  scopeID,
		logger:   slog.Default().With("component", "aggregate"),
	}
}

// Drivers returns the deduplicated driver pool for the closed interval
// [from, to]. With only one boundary set, a single per-date fetch is issued
// and returned verbatim. With neither set, the result is empty: the
// aggregator is idle until a range is supplied.
//
// On id collision the record fetched on the chronologically later day wins,
// modeling "most recent known state wins". A single day's fetch failure is
// logged and skipped; already-retrieved days are never discarded. The only
// errors returned are whole-operation ones (context cancellation, or the
// failure of the sole fetch in single-boundary mode).
func (a *Aggregator) Drivers(ctx context.Context, from, to *time.Time) ([]model.Driver, error) {
	switch {
	case from == nil && to == nil:
		return []model.Driver{}, nil
	case from == nil:
		return a.fetchDay(ctx, *to)
	case to == nil:
		return a.fetchDay(ctx, *from)
	}

	start := dateOnly(*from)
	end := dateOnly(*to)
	total := int(end.Sub(start).Hours()/24) + 1
	if total < 1 {
		total = 1
	}

	drivers := make([]model.Driver, 0)
	index := make(map[string]int)

	done := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := a.registry.DriversForDate(ctx, day, a.scopeID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.logger.Warn("Skipping day after fetch failure",
				"date", day.Format("2006-01-02"),
				"scope", a.scopeID,
				"error", err)
			done++
			a.reportProgress(done, total)
			continue
		}

		for _, r := range raw {
			d := Canonicalize(r)
			if d.ID == "" {
				continue
			}
			if i, ok := index[d.ID]; ok {
				// Later day overwrites earlier day in place, keeping the
				// pool order stable.
				drivers[i] = d
				continue
			}
			index[d.ID] = len(drivers)
			drivers = append(drivers, d)
		}

		done++
		a.reportProgress(done, total)
	}

	a.logger.Info("Aggregated driver pool",
		"from", start.Format("2006-01-02"),
		"to", end.Format("2006-01-02"),
		"days", total,
		"drivers", len(drivers))

	return drivers, nil
}

func (a *Aggregator) fetchDay(ctx context.Context, day time.Time) ([]model.Driver, error) {
	raw, err := a.registry.DriversForDate(ctx, dateOnly(day), a.scopeID)
	if err != nil {
		return nil, err
	}
	drivers := make([]model.Driver, 0, len(raw))
	for _, r := range raw {
		d := Canonicalize(r)
		if d.ID == "" {
			continue
		}
		drivers = append(drivers, d)
	}
	return drivers, nil
}

func (a *Aggregator) reportProgress(done, total int) {
	if a.Progress != nil {
		a.Progress(done, total)
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// hireDateLayouts are the formats observed across registry exporters.
var hireDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Canonicalize maps any accepted registry payload shape to the one internal
// Driver shape. Missing fields default to empty values; alternate field
// spellings are coalesced here and nowhere else.
func Canonicalize(r model.RawDriver) model.Driver {
	d := model.Driver{
		ID:            coalesce(r.ID, r.DriverID),
		FullName:      coalesce(r.FullName, r.Name),
		Phone:         coalesce(r.Phone, r.PhoneNumber),
		LicenseNumber: coalesce(r.LicenseNumber, r.License),
	}

	if raw := coalesce(r.HireDate, r.HiredAt); raw != "" {
		for _, layout := range hireDateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				d.HireDate = t
				break
			}
		}
	}

	return d
}

func coalesce(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
