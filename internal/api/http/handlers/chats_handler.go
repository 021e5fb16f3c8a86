package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rag-chat-service/internal/api/dto"
	"github.com/spec-kit/rag-chat-service/internal/auth"
	"github.com/spec-kit/rag-chat-service/internal/domain"
	"github.com/spec-kit/rag-chat-service/internal/service"
	apperrors "github.com/spec-kit/rag-chat-service/pkg/util"
)

// ChatsHandler exposes chat management. Chats belong to a tenant; regular
// callers operate on their own tenant while superadmins name one explicitly.
type ChatsHandler struct {
	chats *service.ChatService
}

// NewChatsHandler constructs the handler.
func NewChatsHandler(chatService *service.ChatService) *ChatsHandler {
	return &ChatsHandler{chats: chatService}
}

// callerTenant resolves the tenant a chat operation applies to. Tenant-bound
// callers always use their own tenant; superadmins pass ?tenant_id.
func callerTenant(c *fiber.Ctx) (string, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return "", apperrors.NewUnauthorized("authentication required")
	}
	if identity.TenantID != nil {
		return *identity.TenantID, nil
	}
	tenantID := c.Query("tenant_id")
	if tenantID == "" {
		return "", apperrors.NewValidationError("tenant_id query parameter required", nil)
	}
	return tenantID, nil
}

// List handles GET /api/v1/chats.
func (h *ChatsHandler) List(c *fiber.Ctx) error {
	tenantID, err := callerTenant(c)
	if err != nil {
		return err
	}

	chats, err := h.chats.ListChats(c.Context(), tenantID)
	if err != nil {
		return err
	}

	responses := make([]dto.ChatResponse, 0, len(chats))
	for _, chat := range chats {
		count, err := h.chats.SessionCount(c.Context(), chat.ID)
		if err != nil {
			return err
		}
		responses = append(responses, dto.NewChatResponse(chat, count))
	}

	return c.JSON(dto.DataResponse{
		Data:    responses,
		Message: "chats retrieved",
	})
}

// Create handles POST /api/v1/chats.
func (h *ChatsHandler) Create(c *fiber.Ctx) error {
	tenantID, err := callerTenant(c)
	if err != nil {
		return err
	}

	var req dto.CreateChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	chat, err := h.chats.CreateChat(c.Context(), tenantID, req.Name, req.SystemPrompt)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.DataResponse{
		Data:    dto.NewChatResponse(chat, 0),
		Message: "chat created",
	})
}

// Get handles GET /api/v1/chats/:chatId.
func (h *ChatsHandler) Get(c *fiber.Ctx) error {
	chat, err := h.chatForCaller(c)
	if err != nil {
		return err
	}

	count, err := h.chats.SessionCount(c.Context(), chat.ID)
	if err != nil {
		return err
	}

	return c.JSON(dto.DataResponse{
		Data:    dto.NewChatResponse(chat, count),
		Message: "chat retrieved",
	})
}

// Update handles PUT /api/v1/chats/:chatId.
func (h *ChatsHandler) Update(c *fiber.Ctx) error {
	if _, err := h.chatForCaller(c); err != nil {
		return err
	}

	var req dto.UpdateChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	chat, err := h.chats.UpdateChat(c.Context(), c.Params("chatId"), service.UpdateChatInput{
		Name:         req.Name,
		SystemPrompt: req.SystemPrompt,
	})
	if err != nil {
		return err
	}

	count, err := h.chats.SessionCount(c.Context(), chat.ID)
	if err != nil {
		return err
	}

	return c.JSON(dto.DataResponse{
		Data:    dto.NewChatResponse(chat, count),
		Message: "chat updated",
	})
}

// Delete handles DELETE /api/v1/chats/:chatId.
func (h *ChatsHandler) Delete(c *fiber.Ctx) error {
	if _, err := h.chatForCaller(c); err != nil {
		return err
	}

	if err := h.chats.DeleteChat(c.Context(), c.Params("chatId")); err != nil {
		return err
	}

	return c.JSON(dto.DataResponse{
		Data:    fiber.Map{},
		Message: "chat deleted",
	})
}

// chatForCaller loads the addressed chat and verifies the caller's tenant
// may touch it. The owning tenant is known only after the lookup, so the
// check lives here rather than in a route guard.
func (h *ChatsHandler) chatForCaller(c *fiber.Ctx) (*domain.Chat, error) {
	chat, err := h.chats.GetChat(c.Context(), c.Params("chatId"))
	if err != nil {
		return nil, err
	}
	if err := auth.CheckTenantAccess(c, chat.TenantID); err != nil {
		return nil, err
	}
	return chat, nil
}
