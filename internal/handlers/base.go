package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/services"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
)

// ErrorResponse is the error envelope every endpoint returns. Error is a
// stable machine-readable code; Message is for humans. Denial responses
// never reveal which roles or campuses would have been sufficient.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data interface{} `json:"data"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c.Request.Context(), h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.FromContext(c.Request.Context(), h.logger).Error(msg, args...)
}

// parseIDParam parses a numeric path parameter; on failure it writes the
// 400 itself and returns 0.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "invalid " + name + " parameter",
		})
		return 0
	}
	return uint(id)
}

// handleServiceError maps service and authorization errors onto HTTP
// status codes. Store failures during authorization are 503, never 403:
// a broken grant store must not look like a denial.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs services.ValidationErrors
	var businessErr *services.BusinessRuleError
	var permissionErr *services.PermissionError
	var deniedErr *authz.DeniedError
	var scopeErr *authz.InvalidScopeError
	var loadErr *authz.GrantLoadError

	switch {
	case errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: "request validation failed",
			Details: validationErrs,
		})

	case errors.Is(err, authz.ErrAuthenticationRequired):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_required",
			Message: "authentication required",
		})

	case errors.As(err, &deniedErr):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "insufficient permissions",
		})

	case errors.As(err, &permissionErr):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "insufficient permissions",
		})

	case errors.As(err, &scopeErr):
		h.LogError(c, err, "misdeclared authorization check")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "internal server error",
		})

	case errors.As(err, &loadErr):
		h.LogError(c, err, "grant store unavailable")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "authorization_unavailable",
			Message: "authorization temporarily unavailable",
		})

	case isNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})

	case errors.As(err, &businessErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   businessErr.Rule,
			Message: businessErr.Message,
		})

	case isConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})

	default:
		h.LogError(c, err, "unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "internal server error",
		})
	}
}

func isNotFound(err error) bool {
	for _, sentinel := range []error{
		services.ErrUserNotFound,
		services.ErrRoleNotFound,
		services.ErrCampusNotFound,
		services.ErrCourseNotFound,
		services.ErrSectionNotFound,
		services.ErrEnrollmentNotFound,
		services.ErrInvoiceNotFound,
		services.ErrDocumentNotFound,
		services.ErrAnnouncementNotFound,
		services.ErrThreadNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return repositories.IsNotFoundError(err)
}

func isConflict(err error) bool {
	for _, sentinel := range []error{
		services.ErrAlreadyEnrolled,
		services.ErrSectionFull,
		services.ErrGradeFinalized,
		services.ErrInvoiceNotPayable,
		services.ErrThreadClosed,
		services.ErrEnrollmentInactive,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
