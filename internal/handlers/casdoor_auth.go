package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/config"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories/casdoor"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
)

// Context keys set by the middleware chain.
const (
	ctxSubject  = "subject"
	ctxUser     = "user"
	ctxGrants   = "grants"
	ctxDecision = "decision"
)

// CasdoorAuthMiddleware authenticates requests against Casdoor-issued
// bearer tokens and runs authorization checks through the evaluator.
// Grants are loaded once per request and memoized in the gin context, so
// a route with several checks pays for one store read.
type CasdoorAuthMiddleware struct {
	client    *casdoorsdk.Client
	directory *casdoor.Directory
	evaluator *authz.Evaluator
	source    authz.GrantSource
	logger    utils.Logger
}

func NewCasdoorAuthMiddleware(
	cfg config.CasdoorConfig,
	directory *casdoor.Directory,
	evaluator *authz.Evaluator,
	source authz.GrantSource,
	logger utils.Logger,
) *CasdoorAuthMiddleware {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)

	return &CasdoorAuthMiddleware{
		client:    client,
		directory: directory,
		evaluator: evaluator,
		source:    source,
		logger:    logger,
	}
}

// AuthMiddleware verifies the bearer token and resolves the local user
// record, syncing it from the provider on first sight.
func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			unauthorized(c, "missing or malformed authorization header")
			return
		}

		claims, err := cam.client.ParseJwtToken(token)
		if err != nil {
			unauthorized(c, "invalid token")
			return
		}
		if claims.Id == "" {
			unauthorized(c, "token carries no subject")
			return
		}

		user, err := cam.directory.SyncFromClaims(c.Request.Context(), claims)
		if err != nil {
			cam.logger.Error("identity sync failed", "subject_id", claims.Id, "error", err)
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Error:   "identity_unavailable",
				Message: "identity service temporarily unavailable",
			})
			c.Abort()
			return
		}
		if !user.IsActive() {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Error:   "account_inactive",
				Message: "account is not active",
			})
			c.Abort()
			return
		}

		subject := &authz.Subject{ID: user.ID, Email: user.Email}
		c.Set(ctxSubject, subject)
		c.Set(ctxUser, user)
		c.Set("user_id", user.ID)

		c.Next()
	}
}

// RequireRoles gates the route on the required role set (logical OR). An
// empty set means any authenticated subject with at least one grant. The
// check carries no campus target; resource-bound campus checks happen in
// the handler after the record is loaded, via the stored decision.
func (cam *CasdoorAuthMiddleware) RequireRoles(required ...models.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		cam.authorize(c, required, nil)
	}
}

// RequireRolesAtCampus is the campus-targeted variant for routes that
// declare a campus_id parameter. Only routes wired through it ever pass a
// target to the evaluator; a stray campus_id on any other route is plain
// handler input, not authorization metadata.
func (cam *CasdoorAuthMiddleware) RequireRolesAtCampus(required ...models.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		cam.authorize(c, required, campusTarget(c))
	}
}

func (cam *CasdoorAuthMiddleware) authorize(c *gin.Context, required []models.RoleName, target *uint) {
	subject := SubjectFromContext(c)
	if subject == nil {
		unauthorized(c, "authentication required")
		return
	}

	grants, err := cam.requestGrants(c, subject.ID)
	if err != nil {
		base := BaseHandler{logger: cam.logger}
		base.handleServiceError(c, &authz.GrantLoadError{SubjectID: subject.ID, Err: err})
		c.Abort()
		return
	}

	decision, err := cam.evaluator.Evaluate(subject.ID, grants, required, target)
	if err != nil {
		base := BaseHandler{logger: cam.logger}
		base.handleServiceError(c, err)
		c.Abort()
		return
	}

	c.Set(ctxDecision, decision)
	c.Next()
}

// ResolveRoles computes and stores the decision for the given role set
// without gating the route. Handlers use it on endpoints where ownership
// is an alternative to a staff role: the owner passes even when the
// decision is Deny, staff pass through the decision's campus visibility.
// Store failures still abort; a broken grant store must not degrade into
// owner-only access silently.
func (cam *CasdoorAuthMiddleware) ResolveRoles(required ...models.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := SubjectFromContext(c)
		if subject == nil {
			unauthorized(c, "authentication required")
			return
		}

		grants, err := cam.requestGrants(c, subject.ID)
		if err != nil {
			base := BaseHandler{logger: cam.logger}
			base.handleServiceError(c, &authz.GrantLoadError{SubjectID: subject.ID, Err: err})
			c.Abort()
			return
		}

		decision, err := cam.evaluator.Evaluate(subject.ID, grants, required, nil)
		if err != nil {
			var denied *authz.DeniedError
			if !errors.As(err, &denied) {
				base := BaseHandler{logger: cam.logger}
				base.handleServiceError(c, err)
				c.Abort()
				return
			}
			decision = authz.Deny()
		}

		c.Set(ctxDecision, decision)
		c.Next()
	}
}

// requestGrants loads the subject's grants, memoized per request.
func (cam *CasdoorAuthMiddleware) requestGrants(c *gin.Context, subjectID string) ([]authz.Grant, error) {
	if cached, exists := c.Get(ctxGrants); exists {
		if grants, ok := cached.([]authz.Grant); ok {
			return grants, nil
		}
	}
	grants, err := cam.source.ListGrants(c.Request.Context(), subjectID)
	if err != nil {
		return nil, err
	}
	c.Set(ctxGrants, grants)
	return grants, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// campusTarget extracts the campus the route targets, if it declares one.
func campusTarget(c *gin.Context) *uint {
	raw := c.Param("campus_id")
	if raw == "" {
		raw = c.Query("campus_id")
	}
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return nil
	}
	target := uint(id)
	return &target
}

func unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   "authentication_required",
		Message: msg,
	})
	c.Abort()
}

// SubjectFromContext returns the authenticated subject, or nil.
func SubjectFromContext(c *gin.Context) *authz.Subject {
	if v, exists := c.Get(ctxSubject); exists {
		if subject, ok := v.(*authz.Subject); ok {
			return subject
		}
	}
	return nil
}

// UserFromContext returns the synced local user record, or nil.
func UserFromContext(c *gin.Context) *models.User {
	if v, exists := c.Get(ctxUser); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// DecisionFromContext returns the decision stored by RequireRoles. The
// zero decision denies everything, so a handler reached without the gate
// fails closed.
func DecisionFromContext(c *gin.Context) authz.Decision {
	if v, exists := c.Get(ctxDecision); exists {
		if decision, ok := v.(authz.Decision); ok {
			return decision
		}
	}
	return authz.Deny()
}
