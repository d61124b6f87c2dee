package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/services"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
)

type ChatHandler struct {
	BaseHandler
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService, logger utils.Logger) *ChatHandler {
	return &ChatHandler{
		BaseHandler: NewBaseHandler(logger),
		chatService: chatService,
	}
}

func (h *ChatHandler) OpenThread(c *gin.Context) {
	subject := SubjectFromContext(c)
	if subject == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_required",
			Message: "authentication required",
		})
		return
	}

	var req services.ThreadCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	thread, err := h.chatService.OpenThread(c.Request.Context(), subject.ID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, thread)
}

func (h *ChatHandler) GetThread(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	subject := SubjectFromContext(c)
	if subject == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_required",
			Message: "authentication required",
		})
		return
	}

	thread, err := h.chatService.GetThread(c.Request.Context(), subject.ID, DecisionFromContext(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

func (h *ChatHandler) ListThreads(c *gin.Context) {
	filters := repositories.ChatThreadFilters{
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.ThreadStatus(raw)
		filters.Status = &status
	}
	if raw := c.Query("assigned_to"); raw != "" {
		filters.AssignedTo = &raw
	}
	if raw := c.Query("campus_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filters.CampusIDs = []uint{uint(id)}
		}
	}

	resp, err := h.chatService.ListThreads(c.Request.Context(), DecisionFromContext(c), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMyThreads returns threads the caller opened
func (h *ChatHandler) ListMyThreads(c *gin.Context) {
	subject := SubjectFromContext(c)
	if subject == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_required",
			Message: "authentication required",
		})
		return
	}

	filters := repositories.ChatThreadFilters{
		OpenedBy: &subject.ID,
		Limit:    queryInt(c, "limit", 20),
		Offset:   queryInt(c, "offset", 0),
	}
	resp, err := h.chatService.ListThreads(c.Request.Context(), DecisionFromContext(c), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) PostMessage(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	subject := SubjectFromContext(c)
	if subject == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_required",
			Message: "authentication required",
		})
		return
	}

	var req services.MessageCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	msg, err := h.chatService.PostMessage(c.Request.Context(), subject.ID, DecisionFromContext(c), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) AssignThread(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	subject := SubjectFromContext(c)
	if subject == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_required",
			Message: "authentication required",
		})
		return
	}

	thread, err := h.chatService.AssignThread(c.Request.Context(), subject.ID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

func (h *ChatHandler) CloseThread(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	resolved := c.Query("resolved") == "true"
	thread, err := h.chatService.CloseThread(c.Request.Context(), id, resolved)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}
