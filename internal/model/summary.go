package model

import "time"

// ReprocessSummary reports the outcome of a bulk reprocess of unmatched
// transactions.
type ReprocessSummary struct {
	Message   string
	Total     int
	Matched   int
	Unmatched int
}

// CleanupSummary reports the outcome of a duplicate-transaction cleanup.
type CleanupSummary struct {
	Deleted         int
	DuplicatesFound int
}

// UploadStats describes the most recent upstream data upload. Read-only;
// drives the status banner.
type UploadStats struct {
	LastUploadAt time.Time
	DataFrom     time.Time
	DataTo       time.Time
	Source       string
	Total        int
	Matched      int
	Unmatched    int
}
