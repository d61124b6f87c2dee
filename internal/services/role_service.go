package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/cache"
	"github.com/SAP-F-2025/campus-admin-service/internal/events"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
	"github.com/SAP-F-2025/campus-admin-service/internal/validator"
)

type roleService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	validator *validator.Validator
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewRoleService(
	repo repositories.Repository,
	cacheManager *cache.CacheManager,
	v *validator.Validator,
	publisher events.EventPublisher,
	logger utils.Logger,
) RoleService {
	return &roleService{
		repo:      repo,
		cache:     cacheManager,
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *roleService) ListRoles(ctx context.Context) ([]*models.Role, error) {
	return s.repo.Role().List(ctx)
}

func (s *roleService) ListUserGrants(ctx context.Context, userID string) ([]GrantView, error) {
	if exists, err := s.repo.User().ExistsByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("checking user: %w", err)
	} else if !exists {
		return nil, ErrUserNotFound
	}

	rows, err := s.repo.UserRole().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing grants: %w", err)
	}

	views := make([]GrantView, 0, len(rows))
	for _, row := range rows {
		views = append(views, GrantView{
			Role:      row.Role.Name,
			CampusID:  row.CampusID,
			GrantedBy: row.GrantedBy,
		})
	}
	return views, nil
}

// Grant attaches one (role, campus) pair. The insert is a single atomic
// statement; granting an already-held pair is a no-op, so there is no
// read-check-write race to guard. Cache invalidation happens inside the
// repository right after the write, which bounds staleness for other
// instances to the grant cache TTL.
func (s *roleService) Grant(ctx context.Context, actorID, userID string, req RoleGrantRequest) error {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return errs
	}

	scope, err := s.resolveScope(ctx, req.Role, req.CampusID)
	if err != nil {
		return err
	}

	if exists, err := s.repo.User().ExistsByID(ctx, userID); err != nil {
		return fmt.Errorf("checking user: %w", err)
	} else if !exists {
		return ErrUserNotFound
	}

	if err := s.repo.UserRole().Grant(ctx, userID, req.Role, scope, actorID); err != nil {
		return fmt.Errorf("granting role: %w", err)
	}

	s.logger.Info("role granted",
		"user_id", userID, "role", req.Role, "scope", scope.String(), "actor_id", actorID)
	s.publishAudit(ctx, events.RoleGranted, userID, req.Role, req.CampusID, actorID)
	return nil
}

// Revoke removes one pair. Revoking a pair the user does not hold is not
// an error; the audit event is emitted either way so the intent is on
// record.
func (s *roleService) Revoke(ctx context.Context, actorID, userID string, req RoleRevokeRequest) error {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return errs
	}

	scope, err := s.resolveScope(ctx, req.Role, req.CampusID)
	if err != nil {
		return err
	}

	if err := s.repo.UserRole().Revoke(ctx, userID, req.Role, scope); err != nil {
		return fmt.Errorf("revoking role: %w", err)
	}

	s.logger.Info("role revoked",
		"user_id", userID, "role", req.Role, "scope", scope.String(), "actor_id", actorID)
	s.publishAudit(ctx, events.RoleRevoked, userID, req.Role, req.CampusID, actorID)
	return nil
}

// resolveScope maps the request's optional campus id to a scope and
// enforces the pairing rules: global-only roles never take a campus, and
// campus-scoped grants must reference an existing campus.
func (s *roleService) resolveScope(ctx context.Context, role models.RoleName, campusID *uint) (authz.Scope, error) {
	if campusID == nil {
		return authz.GlobalScope(), nil
	}
	if authz.GlobalOnlyRoles[role] {
		return authz.Scope{}, NewBusinessRuleError("global_only_role",
			fmt.Sprintf("role %s cannot be scoped to a campus", role))
	}

	exists, err := s.repo.Campus().ExistsByID(ctx, *campusID)
	if err != nil {
		return authz.Scope{}, fmt.Errorf("checking campus: %w", err)
	}
	if !exists {
		return authz.Scope{}, ErrCampusNotFound
	}
	return authz.CampusScope(*campusID), nil
}

func (s *roleService) publishAudit(ctx context.Context, action events.RoleAuditAction, userID string, role models.RoleName, campusID *uint, actorID string) {
	if s.publisher == nil {
		return
	}
	event := events.RoleAuditEvent{
		Action:    action,
		UserID:    userID,
		Role:      string(role),
		CampusID:  campusID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, events.TopicRoleAudit, event); err != nil {
		s.logger.Error("failed to publish role audit event",
			"action", action, "user_id", userID, "error", err)
	}
}
