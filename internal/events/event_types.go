package events

import (
	"time"

	"github.com/spec-kit/rag-chat-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated   EventType = "user_created"
	EventUserLoggedIn  EventType = "user_logged_in"
	EventTenantCreated EventType = "tenant_created"
	EventMessageAdded  EventType = "message_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id,omitempty"`
	TenantID  *string     `json:"tenant_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
}

// UserLoggedInPayload payload.
type UserLoggedInPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// TenantCreatedPayload payload.
type TenantCreatedPayload struct {
	TenantID string `json:"tenant_id"`
	Slug     string `json:"slug"`
	AdminID  string `json:"admin_id"`
}

// MessageAddedPayload payload.
type MessageAddedPayload struct {
	SessionID   string             `json:"session_id"`
	MessageID   string             `json:"message_id"`
	Role        domain.MessageRole `json:"role"`
	BodyPreview string             `json:"body_preview"`
}
