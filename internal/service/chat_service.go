package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/rag-chat-service/internal/domain"
	"github.com/spec-kit/rag-chat-service/internal/events"
	"github.com/spec-kit/rag-chat-service/internal/repository"
	"github.com/spec-kit/rag-chat-service/pkg/util"
)

const sessionTitleMaxLength = 50

// ChatService manages chats, sessions and the message store.
type ChatService struct {
	chats      repository.ChatRepository
	dispatcher events.Dispatcher
}

// NewChatService builds the service.
func NewChatService(chats repository.ChatRepository, dispatcher events.Dispatcher) *ChatService {
	return &ChatService{chats: chats, dispatcher: dispatcher}
}

// CreateChat creates a chat for the tenant.
func (s *ChatService) CreateChat(ctx context.Context, tenantID, name string, systemPrompt *string) (*domain.Chat, error) {
	if systemPrompt != nil && *systemPrompt == "" {
		systemPrompt = nil
	}
	chat := &domain.Chat{Name: name, SystemPrompt: systemPrompt, TenantID: tenantID}
	if err := s.chats.CreateChat(ctx, chat); err != nil {
		return nil, util.MapError(err)
	}
	return chat, nil
}

// GetChat loads a chat by id.
func (s *ChatService) GetChat(ctx context.Context, id string) (*domain.Chat, error) {
	chat, err := s.chats.GetChatByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("chat", nil)
		}
		return nil, util.MapError(err)
	}
	return chat, nil
}

// ListChats returns all chats owned by the tenant.
func (s *ChatService) ListChats(ctx context.Context, tenantID string) ([]*domain.Chat, error) {
	chats, err := s.chats.ListChatsByTenant(ctx, tenantID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return chats, nil
}

// UpdateChatInput carries optional chat updates.
type UpdateChatInput struct {
	Name         *string
	SystemPrompt *string
}

// UpdateChat updates a chat's name and system prompt. An empty prompt clears it.
func (s *ChatService) UpdateChat(ctx context.Context, id string, input UpdateChatInput) (*domain.Chat, error) {
	chat, err := s.GetChat(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		chat.Name = *input.Name
	}
	if input.SystemPrompt != nil {
		if *input.SystemPrompt == "" {
			chat.SystemPrompt = nil
		} else {
			chat.SystemPrompt = input.SystemPrompt
		}
	}

	if err := s.chats.UpdateChat(ctx, chat); err != nil {
		return nil, util.MapError(err)
	}
	return chat, nil
}

// DeleteChat removes a chat with its sessions and messages.
func (s *ChatService) DeleteChat(ctx context.Context, id string) error {
	if err := s.chats.DeleteChatCascade(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("chat", nil)
		}
		return util.MapError(err)
	}
	return nil
}

// SessionCount returns the number of sessions in a chat.
func (s *ChatService) SessionCount(ctx context.Context, chatID string) (int64, error) {
	count, err := s.chats.CountSessions(ctx, chatID)
	if err != nil {
		return 0, util.MapError(err)
	}
	return count, nil
}

// CreateSession opens a conversation thread for the user. An empty title is
// derived from the first message later.
func (s *ChatService) CreateSession(ctx context.Context, chatID, userID, title string) (*domain.ChatSession, error) {
	if title == "" {
		title = "New session"
	}
	session := &domain.ChatSession{
		Title:  util.ClampText(title, sessionTitleMaxLength, "..."),
		UserID: userID,
		ChatID: chatID,
	}
	if err := s.chats.CreateSession(ctx, session); err != nil {
		return nil, util.MapError(err)
	}
	return session, nil
}

// GetSession loads a session by id.
func (s *ChatService) GetSession(ctx context.Context, id string) (*domain.ChatSession, error) {
	session, err := s.chats.GetSessionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("session", nil)
		}
		return nil, util.MapError(err)
	}
	return session, nil
}

// ListSessions returns the user's sessions within a chat, most recent first.
func (s *ChatService) ListSessions(ctx context.Context, chatID, userID string) ([]*domain.ChatSession, error) {
	sessions, err := s.chats.ListSessionsByUser(ctx, chatID, userID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return sessions, nil
}

// DeleteSession removes a session and its messages.
func (s *ChatService) DeleteSession(ctx context.Context, id string) error {
	if err := s.chats.DeleteSessionCascade(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("session", nil)
		}
		return util.MapError(err)
	}
	return nil
}

// AppendMessage stores a message and bumps the session's updated_at so session
// listings sort by recent activity.
func (s *ChatService) AppendMessage(ctx context.Context, sessionID, content string, role domain.MessageRole) (*domain.ChatMessage, error) {
	message := &domain.ChatMessage{SessionID: sessionID, Content: content, Role: role}
	if err := s.chats.CreateMessage(ctx, message); err != nil {
		return nil, util.MapError(err)
	}
	if err := s.chats.TouchSession(ctx, sessionID); err != nil {
		return nil, util.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventMessageAdded,
			Timestamp: time.Now().UTC(),
			Payload: events.MessageAddedPayload{
				SessionID:   sessionID,
				MessageID:   message.ID,
				Role:        role,
				BodyPreview: util.ClampText(content, sessionTitleMaxLength, "..."),
			},
		})
	}

	return message, nil
}

// ListMessages returns a session's messages in chronological order.
func (s *ChatService) ListMessages(ctx context.Context, sessionID string, offset, limit int) ([]*domain.ChatMessage, error) {
	messages, err := s.chats.ListMessages(ctx, sessionID, offset, limit)
	if err != nil {
		return nil, util.MapError(err)
	}
	return messages, nil
}
