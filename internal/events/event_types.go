package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered       EventType = "user_registered"
	EventPasswordReset        EventType = "password_reset"
	EventCategoryCreated      EventType = "category_created"
	EventCategoryRenamed      EventType = "category_renamed"
	EventProductSaved         EventType = "product_saved"
	EventProductStatusChanged EventType = "product_status_changed"
)

// Actor identifies who triggered an event. UserID is zero for anonymous flows
// such as registration and forgot-password.
type Actor struct {
	UserID   int64  `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with id and timestamp.
func NewEvent(eventType EventType, actor Actor, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PasswordResetPayload payload.
type PasswordResetPayload struct {
	Username string `json:"username"`
	// Via is "token" for the recovery flow, "authenticated" for a logged-in change.
	Via string `json:"via"`
}

// CategoryCreatedPayload payload.
type CategoryCreatedPayload struct {
	CategoryID int64  `json:"category_id"`
	ParentID   int64  `json:"parent_id"`
	Name       string `json:"name"`
}

// CategoryRenamedPayload payload.
type CategoryRenamedPayload struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}

// ProductSavedPayload payload.
type ProductSavedPayload struct {
	ProductID  int64  `json:"product_id"`
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	Created    bool   `json:"created"`
}

// ProductStatusChangedPayload payload.
type ProductStatusChangedPayload struct {
	ProductID int64 `json:"product_id"`
	Status    int   `json:"status"`
}
