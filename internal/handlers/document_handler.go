package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/services"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
)

type DocumentHandler struct {
	BaseHandler
	documentService services.DocumentService
}

func NewDocumentHandler(documentService services.DocumentService, logger utils.Logger) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler:     NewBaseHandler(logger),
		documentService: documentService,
	}
}

// CreateRequest opens a paperwork request for the calling student
func (h *DocumentHandler) CreateRequest(c *gin.Context) {
	subject := SubjectFromContext(c)
	if subject == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_required",
			Message: "authentication required",
		})
		return
	}

	var req services.DocumentRequestCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	request, err := h.documentService.CreateRequest(c.Request.Context(), subject.ID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

func (h *DocumentHandler) GetRequest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	request, err := h.documentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	subject := SubjectFromContext(c)
	if subject == nil || (request.StudentID != subject.ID && !DecisionFromContext(c).PermitsCampus(request.CampusID)) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "insufficient permissions",
		})
		return
	}
	c.JSON(http.StatusOK, request)
}

func (h *DocumentHandler) ListRequests(c *gin.Context) {
	filters := repositories.DocumentRequestFilters{
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	if raw := c.Query("student_id"); raw != "" {
		filters.StudentID = &raw
	}
	if raw := c.Query("status"); raw != "" {
		status := models.DocumentRequestStatus(raw)
		filters.Status = &status
	}
	if raw := c.Query("type"); raw != "" {
		docType := models.DocumentType(raw)
		filters.Type = &docType
	}

	resp, err := h.documentService.List(c.Request.Context(), DecisionFromContext(c), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMyRequests returns the calling student's own requests
func (h *DocumentHandler) ListMyRequests(c *gin.Context) {
	subject := SubjectFromContext(c)
	if subject == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_required",
			Message: "authentication required",
		})
		return
	}

	filters := repositories.DocumentRequestFilters{
		StudentID: &subject.ID,
		Limit:     queryInt(c, "limit", 20),
		Offset:    queryInt(c, "offset", 0),
	}
	// Own requests are visible regardless of campus grants.
	resp, err := h.documentService.List(c.Request.Context(), authz.AllowEverywhere(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus moves a request through its workflow
func (h *DocumentHandler) UpdateStatus(c *gin.Context) {
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

	request, err := h.documentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if !DecisionFromContext(c).PermitsCampus(request.CampusID) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "insufficient permissions",
		})
		return
	}

	var req services.DocumentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	updated, err := h.documentService.UpdateStatus(c.Request.Context(), subject.ID, id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
