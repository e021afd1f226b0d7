// Package match implements the likely-match heuristics that highlight
// candidate drivers against the operator's current source selection.
package match

import (
	"strings"
	"unicode"

	"github.com/ridewell/rematch/internal/model"
)

// LikelyMatch reports whether a source record and a candidate driver are
// probably the same person. Criteria are simple normalized comparisons
// OR-combined: any single criterion matching is sufficient. Criteria absent
// from the source record (a lead has no license) are excluded from the OR,
// never treated as a match. The result is advisory: it changes presentation,
// never the assignment decision.
func LikelyMatch(source model.SourceRecord, driver model.Driver) bool {
	if phonesMatch(source.MatchPhone(), driver.Phone) {
		return true
	}
	if namesMatch(source.MatchName(), driver.FullName) {
		return true
	}
	if licensesMatch(source.MatchLicense(), driver.LicenseNumber) {
		return true
	}
	return false
}

// phonesMatch strips every non-digit character from both sides and requires
// the results to be non-empty and exactly equal.
func phonesMatch(a, b string) bool {
	da := digitsOnly(a)
	db := digitsOnly(b)
	return da != "" && da == db
}

// namesMatch lower-cases and removes whitespace from both full names, then
// accepts if either is a substring of the other. Substring containment
// handles partial-name and alias entries.
func namesMatch(a, b string) bool {
	na := foldName(a)
	nb := foldName(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// licensesMatch trims and upper-cases both sides and requires exact equality
// of non-empty values.
func licensesMatch(a, b string) bool {
	la := strings.ToUpper(strings.TrimSpace(a))
	lb := strings.ToUpper(strings.TrimSpace(b))
	return la != "" && la == lb
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func foldName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
