package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
)

type stubGrantSource struct {
	grants []authz.Grant
	err    error
}

func (s *stubGrantSource) ListGrants(_ context.Context, _ string) ([]authz.Grant, error) {
	return s.grants, s.err
}

func newAuthFixture(source authz.GrantSource) *CasdoorAuthMiddleware {
	slogLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return &CasdoorAuthMiddleware{
		evaluator: authz.NewEvaluator(source, slogLogger),
		source:    source,
		logger:    utils.NewSlogLogger(slogLogger),
	}
}

func authedContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	c, recorder := testContext()
	c.Request = httptest.NewRequest(http.MethodPost, target, nil)
	c.Set(ctxSubject, &authz.Subject{ID: "subject-1"})
	return c, recorder
}

// A stray campus_id query parameter on a route without a declared campus
// target is handler input, not authorization metadata. It must not reach
// the evaluator, where a global-only required set plus a campus target
// reads as a misdeclared check.
func TestRequireRoles_IgnoresStrayCampusQuery(t *testing.T) {
	cam := newAuthFixture(&stubGrantSource{grants: []authz.Grant{
		{Role: models.RoleSuperAdmin, Scope: authz.GlobalScope()},
	}})

	c, recorder := authedContext("/api/v1/campuses?campus_id=1")
	cam.RequireRoles(models.RoleSuperAdmin)(c)

	if c.IsAborted() {
		t.Fatalf("request aborted: status=%d body=%s", recorder.Code, recorder.Body.String())
	}
	decision := DecisionFromContext(c)
	if !decision.Allowed || !decision.AllCampuses {
		t.Errorf("expected global allow, got %+v", decision)
	}
}

func TestRequireRolesAtCampus(t *testing.T) {
	t.Run("GrantCampusMatchesTarget", func(t *testing.T) {
		cam := newAuthFixture(&stubGrantSource{grants: []authz.Grant{
			{Role: models.RoleSupportAdmin, Scope: authz.CampusScope(3)},
		}})

		c, recorder := authedContext("/api/v1/documents?campus_id=3")
		cam.RequireRolesAtCampus(models.RoleSupportAdmin, models.RoleSuperAdmin)(c)

		if c.IsAborted() {
			t.Fatalf("request aborted: status=%d body=%s", recorder.Code, recorder.Body.String())
		}
		decision := DecisionFromContext(c)
		if len(decision.CampusIDs) != 1 || decision.CampusIDs[0] != 3 {
			t.Errorf("expected campus filter [3], got %+v", decision)
		}
	})

	t.Run("ForeignCampusTargetDenied", func(t *testing.T) {
		cam := newAuthFixture(&stubGrantSource{grants: []authz.Grant{
			{Role: models.RoleSupportAdmin, Scope: authz.CampusScope(3)},
		}})

		c, recorder := authedContext("/api/v1/documents?campus_id=9")
		cam.RequireRolesAtCampus(models.RoleSupportAdmin, models.RoleSuperAdmin)(c)

		if !c.IsAborted() || recorder.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", recorder.Code)
		}
	})

	t.Run("GlobalGrantCoversAnyTarget", func(t *testing.T) {
		cam := newAuthFixture(&stubGrantSource{grants: []authz.Grant{
			{Role: models.RoleSuperAdmin, Scope: authz.GlobalScope()},
		}})

		c, recorder := authedContext("/api/v1/documents?campus_id=9")
		cam.RequireRolesAtCampus(models.RoleSupportAdmin, models.RoleSuperAdmin)(c)

		if c.IsAborted() {
			t.Fatalf("request aborted: status=%d body=%s", recorder.Code, recorder.Body.String())
		}
		if decision := DecisionFromContext(c); !decision.AllCampuses {
			t.Errorf("expected all-campus visibility, got %+v", decision)
		}
	})
}

func TestRequireRoles_GrantLoadFailureIs503(t *testing.T) {
	cam := newAuthFixture(&stubGrantSource{err: errors.New("store down")})

	c, recorder := authedContext("/api/v1/users")
	cam.RequireRoles(models.RoleSuperAdmin)(c)

	if !c.IsAborted() || recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", recorder.Code)
	}
}
