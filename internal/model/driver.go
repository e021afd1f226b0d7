// Package model defines the core domain models used throughout the application.
package model

import "time"

// Driver is a canonical registry member eligible for assignment.
type Driver struct {
	HireDate      time.Time
	ID            string
	FullName      string
	Phone         string
	LicenseNumber string
}

// RawDriver is the wire shape of a driver record as returned by the registry
// service. The same field may arrive under alternate spellings depending on
// which upstream exporter produced the snapshot, so every known alias is
// decoded and coalesced into one Driver at the aggregator boundary.
type RawDriver struct {
	ID            string `json:"id"`
	DriverID      string `json:"driver_id"`
	FullName      string `json:"full_name"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	PhoneNumber   string `json:"phone_number"`
	LicenseNumber string `json:"license_number"`
	License       string `json:"license"`
	HireDate      string `json:"hire_date"`
	HiredAt       string `json:"hired_at"`
}
