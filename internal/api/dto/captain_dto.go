package dto

// VehicleRequest describes the vehicle block of a captain registration.
type VehicleRequest struct {
	Color    string `json:"color" validate:"required,min=3"`
	Plate    string `json:"plate" validate:"required,min=3"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
	Type     string `json:"vehicle_type" validate:"required,oneof=motorcycle car auto"`
}

// CaptainRegisterRequest payload for new drivers.
type CaptainRegisterRequest struct {
	Firstname string         `json:"firstname" validate:"required,min=3"`
	Lastname  string         `json:"lastname"`
	Email     string         `json:"email" validate:"required,email"`
	Password  string         `json:"password" validate:"required,min=6"`
	Vehicle   VehicleRequest `json:"vehicle" validate:"required"`
}

// CaptainStatusRequest payload for availability updates.
type CaptainStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available unavailable"`
}
