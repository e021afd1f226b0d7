package model

import (
	"strings"
	"time"
)

// Lead is a marketing-sourced record awaiting a driver assignment.
type Lead struct {
	CreatedAt time.Time
	ID        string
	FirstName string
	LastName  string
	Phone     string
}

// FullName returns the lead's display name.
func (l Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// MatchName implements SourceRecord.
func (l Lead) MatchName() string { return l.FullName() }

// MatchPhone implements SourceRecord.
func (l Lead) MatchPhone() string { return l.Phone }

// MatchLicense implements SourceRecord. Leads carry no license field.
func (l Lead) MatchLicense() string { return "" }

// RecordID implements SourceRecord.
func (l Lead) RecordID() string { return l.ID }

// RecordDate implements SourceRecord.
func (l Lead) RecordDate() time.Time { return l.CreatedAt }

// ScoutRegistration is a scout-driven registration awaiting a driver assignment.
type ScoutRegistration struct {
	RegisteredAt  time.Time
	ID            string
	FirstName     string
	LastName      string
	Phone         string
	LicenseNumber string
}

// FullName returns the registration's display name.
func (r ScoutRegistration) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// MatchName implements SourceRecord.
func (r ScoutRegistration) MatchName() string { return r.FullName() }

// MatchPhone implements SourceRecord.
func (r ScoutRegistration) MatchPhone() string { return r.Phone }

// MatchLicense implements SourceRecord.
func (r ScoutRegistration) MatchLicense() string { return r.LicenseNumber }

// RecordID implements SourceRecord.
func (r ScoutRegistration) RecordID() string { return r.ID }

// RecordDate implements SourceRecord.
func (r ScoutRegistration) RecordDate() time.Time { return r.RegisteredAt }

// SourceRecord is the read side shared by leads and scout registrations: the
// fields the highlighter and filter engine need, independent of record kind.
type SourceRecord interface {
	RecordID() string
	RecordDate() time.Time
	MatchName() string
	MatchPhone() string
	MatchLicense() string
}
