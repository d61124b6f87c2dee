package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/campus-admin-service/internal/services"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
	"github.com/SAP-F-2025/campus-admin-service/internal/validator"
)

type RoleHandler struct {
	BaseHandler
	roleService services.RoleService
	validator   *validator.Validator
}

func NewRoleHandler(roleService services.RoleService, v *validator.Validator, logger utils.Logger) *RoleHandler {
	return &RoleHandler{
		BaseHandler: NewBaseHandler(logger),
		roleService: roleService,
		validator:   v,
	}
}

// ListRoles returns the seeded role reference table
// @Summary List roles
// @Tags roles
// @Produce json
// @Success 200 {array} models.Role
// @Router /roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// ListUserGrants returns a user's explicit (role, campus) pairs
// @Summary List a user's grants
// @Tags roles
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} services.GrantView
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/roles [get]
func (h *RoleHandler) ListUserGrants(c *gin.Context) {
	userID := c.Param("id")

	grants, err := h.roleService.ListUserGrants(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, grants)
}

// GrantRole attaches a (role, campus) pair to a user
// @Summary Grant role
// @Tags roles
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param grant body services.RoleGrantRequest true "Grant data"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /users/{id}/roles [post]
func (h *RoleHandler) GrantRole(c *gin.Context) {
	userID := c.Param("id")
	subject := SubjectFromContext(c)
	if subject == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_required",
			Message: "authentication required",
		})
		return
	}

	var req services.RoleGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Granting role", "target_user_id", userID, "role", req.Role)

	if err := h.roleService.Grant(c.Request.Context(), subject.ID, userID, req); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RevokeRole removes a (role, campus) pair from a user
// @Summary Revoke role
// @Tags roles
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param grant body services.RoleRevokeRequest true "Revocation data"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /users/{id}/roles [delete]
func (h *RoleHandler) RevokeRole(c *gin.Context) {
	userID := c.Param("id")
	subject := SubjectFromContext(c)
	if subject == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_required",
			Message: "authentication required",
		})
		return
	}

	var req services.RoleRevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Revoking role", "target_user_id", userID, "role", req.Role)

	if err := h.roleService.Revoke(c.Request.Context(), subject.ID, userID, req); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
