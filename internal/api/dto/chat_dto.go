package dto

import (
	"time"

	"github.com/spec-kit/rag-chat-service/internal/domain"
)

// ChatResponse is the wire shape of a chat.
type ChatResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SystemPrompt *string   `json:"system_prompt"`
	TenantID     string    `json:"tenant_id"`
	SessionCount int64     `json:"session_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewChatResponse maps a domain chat.
func NewChatResponse(chat *domain.Chat, sessionCount int64) ChatResponse {
	return ChatResponse{
		ID:           chat.ID,
		Name:         chat.Name,
		SystemPrompt: chat.SystemPrompt,
		TenantID:     chat.TenantID,
		SessionCount: sessionCount,
		CreatedAt:    chat.CreatedAt,
		UpdatedAt:    chat.UpdatedAt,
	}
}

// CreateChatRequest payload for chat creation.
type CreateChatRequest struct {
	Name         string  `json:"name"`
	SystemPrompt *string `json:"system_prompt"`
}

// UpdateChatRequest payload for chat updates.
type UpdateChatRequest struct {
	Name         *string `json:"name"`
	SystemPrompt *string `json:"system_prompt"`
}

// SessionResponse is the wire shape of a chat session.
type SessionResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UserID    string    `json:"user_id"`
	ChatID    string    `json:"chat_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSessionResponse maps a domain session.
func NewSessionResponse(session *domain.ChatSession) SessionResponse {
	return SessionResponse{
		ID:        session.ID,
		Title:     session.Title,
		UserID:    session.UserID,
		ChatID:    session.ChatID,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

// CreateSessionRequest payload for session creation.
type CreateSessionRequest struct {
	ChatID string `json:"chat_id"`
	Title  string `json:"title"`
}

// MessageResponse is the wire shape of a chat message.
type MessageResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessageResponse maps a domain message.
func NewMessageResponse(message *domain.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:        message.ID,
		SessionID: message.SessionID,
		Content:   message.Content,
		Role:      string(message.Role),
		Timestamp: message.CreatedAt,
	}
}

// SendMessageRequest payload for appending a message.
type SendMessageRequest struct {
	Content string `json:"content"`
}
