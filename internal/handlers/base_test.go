package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/services"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, recorder
}

func campusRef(id uint) *uint { return &id }

func TestHandleServiceError(t *testing.T) {
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	h := NewBaseHandler(logger)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "AuthenticationRequired",
			err:        authz.ErrAuthenticationRequired,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "authentication_required",
		},
		{
			name: "DeniedIs403",
			err: &authz.DeniedError{
				SubjectID:    "user-1",
				Required:     []models.RoleName{models.RoleFinanceAdmin},
				TargetCampus: campusRef(3),
			},
			wantStatus: http.StatusForbidden,
			wantCode:   "forbidden",
		},
		{
			name:       "GrantLoadFailureIs503NotDeny",
			err:        &authz.GrantLoadError{SubjectID: "user-1", Err: errors.New("store down")},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "authorization_unavailable",
		},
		{
			name:       "InvalidScopeIs500",
			err:        &authz.InvalidScopeError{Required: []models.RoleName{models.RoleSuperAdmin}, TargetCampus: 3},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
		{
			name:       "NotFound",
			err:        services.ErrCourseNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "ConflictSentinel",
			err:        services.ErrAlreadyEnrolled,
			wantStatus: http.StatusConflict,
			wantCode:   "conflict",
		},
		{
			name:       "BusinessRule",
			err:        services.NewBusinessRuleError("overpayment", "payment exceeds outstanding"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "overpayment",
		},
		{
			name:       "ResourcePermission",
			err:        services.NewPermissionError("grade", "submit", "not the section teacher"),
			wantStatus: http.StatusForbidden,
			wantCode:   "forbidden",
		},
		{
			name:       "UnknownErrorIs500",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, recorder := testContext()
			h.handleServiceError(c, tt.err)

			if recorder.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}

			var resp ErrorResponse
			if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if resp.Error != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Error, tt.wantCode)
			}
		})
	}
}

// Denial bodies must not leak the required roles or the target campus.
func TestDenialResponseRevealsNothing(t *testing.T) {
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	h := NewBaseHandler(logger)

	c, recorder := testContext()
	h.handleServiceError(c, &authz.DeniedError{
		SubjectID:    "user-1",
		Required:     []models.RoleName{models.RoleFinanceAdmin, models.RoleSuperAdmin},
		TargetCampus: campusRef(42),
	})

	body := recorder.Body.String()
	for _, leaked := range []string{"finance_admin", "super_admin", "42"} {
		if strings.Contains(body, leaked) {
			t.Errorf("denial body leaks %q: %s", leaked, body)
		}
	}
}
