package domain

import "time"

// CaptainStatus represents a captain's availability for rides.
type CaptainStatus string

const (
	CaptainStatusAvailable   CaptainStatus = "available"
	CaptainStatusUnavailable CaptainStatus = "unavailable"
)

// Valid reports whether the status is a known value.
func (s CaptainStatus) Valid() bool {
	return s == CaptainStatusAvailable || s == CaptainStatusUnavailable
}

// VehicleType enumerates supported vehicle categories.
type VehicleType string

const (
	VehicleTypeMotorcycle VehicleType = "motorcycle"
	VehicleTypeCar        VehicleType = "car"
	VehicleTypeAuto       VehicleType = "auto"
)

// Vehicle describes the captain's registered vehicle. Plate is unique
// across all captains.
type Vehicle struct {
	Color    string      `json:"color"`
	Plate    string      `json:"plate"`
	Capacity int         `json:"capacity"`
	Type     VehicleType `json:"vehicle_type"`
}

// Captain is the domain model for drivers.
type Captain struct {
	ID           string        `json:"id"`
	Firstname    string        `json:"firstname"`
	Lastname     string        `json:"lastname"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Status       CaptainStatus `json:"status"`
	Vehicle      Vehicle       `json:"vehicle"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
