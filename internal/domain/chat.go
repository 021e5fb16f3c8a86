package domain

import "time"

// MessageRole distinguishes who authored a chat message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Chat is a tenant-owned assistant configuration.
type Chat struct {
	ID           string
	Name         string
	SystemPrompt *string
	TenantID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ChatSession is a user's conversation thread within a chat.
type ChatSession struct {
	ID        string
	Title     string
	UserID    string
	ChatID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChatMessage is a single message in a session.
type ChatMessage struct {
	ID        string
	SessionID string
	Content   string
	Role      MessageRole
	CreatedAt time.Time
}
