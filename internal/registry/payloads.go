package registry

import (
	"time"

	"github.com/ridewell/rematch/internal/model"
)

// Wire shapes for the reconciliation endpoints. Driver snapshots decode
// straight into model.RawDriver because their field aliasing is handled at
// the aggregator boundary; everything else normalizes here.

type leadPayload struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func (p leadPayload) toModel() model.Lead {
	return model.Lead{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt,
	}
}

type registrationPayload struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Phone         string    `json:"phone"`
	LicenseNumber string    `json:"license_number"`
	RegisteredAt  time.Time `json:"registered_at"`
}

func (p registrationPayload) toModel() model.ScoutRegistration {
	return model.ScoutRegistration{
		ID:            p.ID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Phone:         p.Phone,
		LicenseNumber: p.LicenseNumber,
		RegisteredAt:  p.RegisteredAt,
	}
}

type transactionPayload struct {
	ID                    int64     `json:"id"`
	Comment               string    `json:"comment"`
	DriverNameFromComment string    `json:"driver_name_from_comment"`
	Date                  time.Time `json:"date"`
	MilestoneType         string    `json:"milestone_type"`
	Amount                float64   `json:"amount"`
}

func (p transactionPayload) toModel() model.Transaction {
	return model.Transaction{
		ID:                    p.ID,
		Comment:               p.Comment,
		DriverNameFromComment: p.DriverNameFromComment,
		Date:                  p.Date,
		MilestoneType:         p.MilestoneType,
		Amount:                p.Amount,
	}
}

type milestonePayload struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	PeriodDays  int       `json:"period_days"`
	FulfilledAt time.Time `json:"fulfilled_at"`
}

func (p milestonePayload) toModel() model.Milestone {
	return model.Milestone{
		ID:          p.ID,
		Type:        p.Type,
		PeriodDays:  p.PeriodDays,
		FulfilledAt: p.FulfilledAt,
	}
}

type reprocessPayload struct {
	Message   string `json:"message"`
	Total     int    `json:"total"`
	Matched   int    `json:"matched"`
	Unmatched int    `json:"unmatched"`
}

func (p reprocessPayload) toModel() model.ReprocessSummary {
	return model.ReprocessSummary{
		Message:   p.Message,
		Total:     p.Total,
		Matched:   p.Matched,
		Unmatched: p.Unmatched,
	}
}

type cleanupPayload struct {
	Deleted         int `json:"deleted"`
	DuplicatesFound int `json:"duplicates_found"`
}

func (p cleanupPayload) toModel() model.CleanupSummary {
	return model.CleanupSummary{
		Deleted:         p.Deleted,
		DuplicatesFound: p.DuplicatesFound,
	}
}

type uploadStatsPayload struct {
	LastUploadAt time.Time `json:"last_upload_at"`
	DataFrom     time.Time `json:"data_from"`
	DataTo       time.Time `json:"data_to"`
	Source       string    `json:"source"`
	Total        int       `json:"total"`
	Matched      int       `json:"matched"`
	Unmatched    int       `json:"unmatched"`
}

func (p uploadStatsPayload) toModel() model.UploadStats {
	return model.UploadStats{
		LastUploadAt: p.LastUploadAt,
		DataFrom:     p.DataFrom,
		DataTo:       p.DataTo,
		Source:       p.Source,
		Total:        p.Total,
		Matched:      p.Matched,
		Unmatched:    p.Unmatched,
	}
}
