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

type AnnouncementHandler struct {
	BaseHandler
	announcementService services.AnnouncementService
}

func NewAnnouncementHandler(announcementService services.AnnouncementService, logger utils.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		BaseHandler:         NewBaseHandler(logger),
		announcementService: announcementService,
	}
}

func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	subject := SubjectFromContext(c)
	if subject == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_required",
			Message: "authentication required",
		})
		return
	}

	var req services.AnnouncementCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	// Global announcements (nil campus) require global visibility.
	decision := DecisionFromContext(c)
	if req.CampusID == nil && !decision.AllCampuses {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "insufficient permissions",
		})
		return
	}
	if req.CampusID != nil && !decision.PermitsCampus(*req.CampusID) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "insufficient permissions",
		})
		return
	}

	announcement, err := h.announcementService.Create(c.Request.Context(), subject.ID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, announcement)
}

func (h *AnnouncementHandler) GetAnnouncement(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	announcement, err := h.announcementService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, announcement)
}

// ListAnnouncements shows published announcements visible to the caller
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	filters := repositories.AnnouncementFilters{
		PublishedOnly: c.Query("include_unpublished") != "true",
		Limit:         queryInt(c, "limit", 20),
		Offset:        queryInt(c, "offset", 0),
	}
	if raw := c.Query("audience"); raw != "" {
		audience := models.AnnouncementAudience(raw)
		filters.Audience = &audience
	}
	if raw := c.Query("campus_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filters.CampusIDs = []uint{uint(id)}
		}
	}

	resp, err := h.announcementService.List(c.Request.Context(), DecisionFromContext(c), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AnnouncementHandler) UpdateAnnouncement(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	if !h.permitsAnnouncementCampus(c, id) {
		return
	}

	var req services.AnnouncementUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	announcement, err := h.announcementService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, announcement)
}

func (h *AnnouncementHandler) PublishAnnouncement(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	if !h.permitsAnnouncementCampus(c, id) {
		return
	}

	announcement, err := h.announcementService.Publish(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, announcement)
}

func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	if !h.permitsAnnouncementCampus(c, id) {
		return
	}

	if err := h.announcementService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AnnouncementHandler) permitsAnnouncementCampus(c *gin.Context, id uint) bool {
	announcement, err := h.announcementService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return false
	}

	decision := DecisionFromContext(c)
	permitted := decision.AllCampuses
	if announcement.CampusID != nil {
		permitted = decision.PermitsCampus(*announcement.CampusID)
	}
	if !permitted {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "insufficient permissions",
		})
		return false
	}
	return true
}
