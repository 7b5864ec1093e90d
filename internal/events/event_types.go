package events

import (
	"time"

	"github.com/spec-kit/ride-hail-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered    EventType = "user_registered"
	EventCaptainRegistered EventType = "captain_registered"
	EventActorLoggedIn     EventType = "actor_logged_in"
	EventActorLoggedOut    EventType = "actor_logged_out"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Role      domain.Role `json:"role"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RegisteredPayload payload for registration events.
type RegisteredPayload struct {
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
}

// LoggedInPayload payload for login events.
type LoggedInPayload struct {
	Email string `json:"email"`
}

// LoggedOutPayload payload for logout events.
type LoggedOutPayload struct {
	TokenExpiry time.Time `json:"token_expiry,omitempty"`
}
