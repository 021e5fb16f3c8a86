package handlers

import (
	"bufio"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rag-chat-service/internal/api/dto"
	"github.com/spec-kit/rag-chat-service/internal/auth"
	"github.com/spec-kit/rag-chat-service/internal/domain"
	"github.com/spec-kit/rag-chat-service/internal/service"
	"github.com/spec-kit/rag-chat-service/internal/streaming"
	apperrors "github.com/spec-kit/rag-chat-service/pkg/util"
)

// SessionsHandler exposes conversation sessions and their messages,
// including the SSE endpoint for streamed assistant replies.
type SessionsHandler struct {
	chats     *service.ChatService
	responder *streaming.Responder
}

// NewSessionsHandler constructs the handler.
func NewSessionsHandler(chatService *service.ChatService, responder *streaming.Responder) *SessionsHandler {
	return &SessionsHandler{chats: chatService, responder: responder}
}

// List handles GET /api/v1/chats/:chatId/sessions. Only the caller's own
// sessions are returned.
func (h *SessionsHandler) List(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	chat, err := h.chats.GetChat(c.Context(), c.Params("chatId"))
	if err != nil {
		return err
	}
	if err := auth.CheckTenantAccess(c, chat.TenantID); err != nil {
		return err
	}

	sessions, err := h.chats.ListSessions(c.Context(), chat.ID, identity.UserID)
	if err != nil {
		return err
	}

	responses := make([]dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, dto.NewSessionResponse(session))
	}

	return c.JSON(dto.DataResponse{
		Data:    responses,
		Message: "sessions retrieved",
	})
}

// Create handles POST /api/v1/sessions.
func (h *SessionsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ChatID == "" {
		return apperrors.NewValidationError("chat_id required", nil)
	}

	chat, err := h.chats.GetChat(c.Context(), req.ChatID)
	if err != nil {
		return err
	}
	if err := auth.CheckTenantAccess(c, chat.TenantID); err != nil {
		return err
	}

	session, err := h.chats.CreateSession(c.Context(), chat.ID, identity.UserID, req.Title)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.DataResponse{
		Data:    dto.NewSessionResponse(session),
		Message: "session created",
	})
}

// Get handles GET /api/v1/sessions/:sessionId.
func (h *SessionsHandler) Get(c *fiber.Ctx) error {
	session, err := h.ownedSession(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse{
		Data:    dto.NewSessionResponse(session),
		Message: "session retrieved",
	})
}

// Delete handles DELETE /api/v1/sessions/:sessionId.
func (h *SessionsHandler) Delete(c *fiber.Ctx) error {
	session, err := h.ownedSession(c)
	if err != nil {
		return err
	}

	if err := h.chats.DeleteSession(c.Context(), session.ID); err != nil {
		return err
	}

	return c.JSON(dto.DataResponse{
		Data:    fiber.Map{},
		Message: "session deleted",
	})
}

// ListMessages handles GET /api/v1/sessions/:sessionId/messages.
func (h *SessionsHandler) ListMessages(c *fiber.Ctx) error {
	session, err := h.ownedSession(c)
	if err != nil {
		return err
	}

	offset, limit := pagination(c)
	messages, err := h.chats.ListMessages(c.Context(), session.ID, offset, limit)
	if err != nil {
		return err
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, dto.NewMessageResponse(message))
	}

	return c.JSON(dto.DataResponse{
		Data:    responses,
		Message: "messages retrieved",
	})
}

// SendMessage handles POST /api/v1/sessions/:sessionId/messages. The user
// message and the assistant reply are stored and returned together.
func (h *SessionsHandler) SendMessage(c *fiber.Ctx) error {
	session, err := h.ownedSession(c)
	if err != nil {
		return err
	}

	content, err := parseMessageContent(c)
	if err != nil {
		return err
	}

	userMessage, err := h.chats.AppendMessage(c.Context(), session.ID, content, domain.MessageRoleUser)
	if err != nil {
		return err
	}

	reply, err := h.chats.AppendMessage(c.Context(), session.ID, h.responder.Reply(content), domain.MessageRoleAssistant)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.DataResponse{
		Data: fiber.Map{
			"user_message":      dto.NewMessageResponse(userMessage),
			"assistant_message": dto.NewMessageResponse(reply),
		},
		Message: "message sent",
	})
}

// Stream handles POST /api/v1/sessions/:sessionId/stream. Both messages are
// persisted up front, then the assistant reply is replayed as SSE chunks.
func (h *SessionsHandler) Stream(c *fiber.Ctx) error {
	session, err := h.ownedSession(c)
	if err != nil {
		return err
	}

	content, err := parseMessageContent(c)
	if err != nil {
		return err
	}

	if _, err := h.chats.AppendMessage(c.Context(), session.ID, content, domain.MessageRoleUser); err != nil {
		return err
	}

	reply, err := h.chats.AppendMessage(c.Context(), session.ID, h.responder.Reply(content), domain.MessageRoleAssistant)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	// The fiber context is invalid once the stream writer runs, so only
	// captured values may be used inside.
	messageID, body := reply.ID, reply.Content
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		if err := h.responder.Stream(w, messageID, body); err != nil {
			_ = h.responder.StreamError(w, "stream interrupted")
		}
	})
	return nil
}

func parseMessageContent(c *fiber.Ctx) (string, error) {
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return "", apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Content == "" {
		return "", apperrors.NewValidationError("content required", nil)
	}
	return req.Content, nil
}

// ownedSession loads the addressed session and checks the caller owns it.
// Superadmins pass the ownership check.
func (h *SessionsHandler) ownedSession(c *fiber.Ctx) (*domain.ChatSession, error) {
	session, err := h.chats.GetSession(c.Context(), c.Params("sessionId"))
	if err != nil {
		return nil, err
	}
	if err := auth.RequireResourceOwner(c, session.UserID); err != nil {
		return nil, err
	}
	return session, nil
}
