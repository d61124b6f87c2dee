package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/campus-admin-service/internal/services"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
)

type CampusHandler struct {
	BaseHandler
	campusService services.CampusService
}

func NewCampusHandler(campusService services.CampusService, logger utils.Logger) *CampusHandler {
	return &CampusHandler{
		BaseHandler:   NewBaseHandler(logger),
		campusService: campusService,
	}
}

func (h *CampusHandler) CreateCampus(c *gin.Context) {
	var req services.CampusCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	campus, err := h.campusService.Create(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, campus)
}

func (h *CampusHandler) GetCampus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	campus, err := h.campusService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, campus)
}

func (h *CampusHandler) ListCampuses(c *gin.Context) {
	campuses, err := h.campusService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, campuses)
}

func (h *CampusHandler) UpdateCampus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.CampusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	campus, err := h.campusService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, campus)
}

func (h *CampusHandler) DeleteCampus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.campusService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
