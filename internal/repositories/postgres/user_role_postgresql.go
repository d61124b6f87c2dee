package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/cache"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
)

type userRoleRepository struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewUserRoleRepository(db *gorm.DB, cacheManager *cache.CacheManager) repositories.UserRoleRepository {
	return &userRoleRepository{db: db, cache: cacheManager}
}

// cachedGrant is the cache representation of a grant pair; the authz.Scope
// tagged value does not serialize, so the nil-campus convention reappears
// only inside this file.
type cachedGrant struct {
	Role     models.RoleName `json:"role"`
	CampusID *uint           `json:"campus_id"`
}

func toCached(grants []authz.Grant) []cachedGrant {
	out := make([]cachedGrant, len(grants))
	for i, g := range grants {
		out[i] = cachedGrant{Role: g.Role}
		if id, ok := g.Scope.CampusID(); ok {
			campusID := id
			out[i].CampusID = &campusID
		}
	}
	return out
}

func fromCached(entries []cachedGrant) []authz.Grant {
	out := make([]authz.Grant, len(entries))
	for i, e := range entries {
		scope := authz.GlobalScope()
		if e.CampusID != nil {
			scope = authz.CampusScope(*e.CampusID)
		}
		out[i] = authz.Grant{Role: e.Role, Scope: scope}
	}
	return out
}

func grantCacheKey(userID string) string {
	return fmt.Sprintf("subject:%s", userID)
}

// ===== GRANT SOURCE =====

// ListGrants returns the subject's full (role, campus) pair set. Users with
// zero explicit junction rows get the legacy single-role fallback so
// pre-RBAC accounts keep their authority; the fallback lives here, on the
// load path, not in a one-off migration.
func (r *userRoleRepository) ListGrants(ctx context.Context, subjectID string) ([]authz.Grant, error) {
	cacheKey := grantCacheKey(subjectID)
	var cached []cachedGrant
	if err := r.cache.Grants.Get(ctx, cacheKey, &cached); err == nil {
		return fromCached(cached), nil
	}

	var rows []models.UserRole
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Where("user_id = ?", subjectID).
		Find(&rows).Error; err != nil {
		return nil, handleDBError(err, "list grants")
	}

	var grants []authz.Grant
	if len(rows) > 0 {
		grants = make([]authz.Grant, 0, len(rows))
		for _, row := range rows {
			scope := authz.GlobalScope()
			if row.CampusID != nil {
				scope = authz.CampusScope(*row.CampusID)
			}
			grants = append(grants, authz.Grant{Role: row.Role.Name, Scope: scope})
		}
	} else {
		legacy, err := r.legacyFallback(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		grants = legacy
	}

	_ = r.cache.Grants.Set(ctx, cacheKey, toCached(grants), cache.GrantCacheConfig.TTL)
	return grants, nil
}

// legacyFallback materializes the implicit grant for a user whose only
// record is the legacy single-value role field: student and teacher bind to
// the home campus, admin becomes a global super_admin.
func (r *userRoleRepository) legacyFallback(ctx context.Context, userID string) ([]authz.Grant, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Select("id, role, status, home_campus_id").
		First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown subject simply has no grants; that is a Deny, not an
			// infrastructure failure.
			return nil, nil
		}
		return nil, handleDBError(err, "load user for legacy fallback")
	}

	if !user.IsActive() {
		return nil, nil
	}

	switch user.Role {
	case models.LegacyRoleAdmin:
		return []authz.Grant{{Role: models.RoleSuperAdmin, Scope: authz.GlobalScope()}}, nil
	case models.LegacyRoleTeacher:
		if user.HomeCampusID == nil {
			return nil, nil
		}
		return []authz.Grant{{Role: models.RoleTeacher, Scope: authz.CampusScope(*user.HomeCampusID)}}, nil
	case models.LegacyRoleStudent:
		if user.HomeCampusID == nil {
			return nil, nil
		}
		return []authz.Grant{{Role: models.RoleStudent, Scope: authz.CampusScope(*user.HomeCampusID)}}, nil
	default:
		return nil, nil
	}
}

// ===== GRANT MANAGEMENT =====

// Grant attaches one (role, campus) pair in a single atomic insert. The
// composite unique index makes the duplicate case a clean no-op, so
// concurrent readers either see the old set or the new one, never a
// half-written grant.
func (r *userRoleRepository) Grant(ctx context.Context, userID string, role models.RoleName, scope authz.Scope, grantedBy string) error {
	roleRow, err := r.roleByName(ctx, role)
	if err != nil {
		return err
	}

	row := models.UserRole{
		UserID:    userID,
		RoleID:    roleRow.ID,
		GrantedBy: &grantedBy,
	}
	if id, ok := scope.CampusID(); ok {
		campusID := id
		row.CampusID = &campusID
		row.CampusKey = campusID
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error; err != nil {
		return handleDBError(err, "grant role")
	}

	cache.InvalidateGrantCache(ctx, r.cache, userID)
	return nil
}

// Revoke removes one pair; a pair the user does not hold is a no-op.
func (r *userRoleRepository) Revoke(ctx context.Context, userID string, role models.RoleName, scope authz.Scope) error {
	roleRow, err := r.roleByName(ctx, role)
	if err != nil {
		return err
	}

	campusKey := uint(0)
	if id, ok := scope.CampusID(); ok {
		campusKey = id
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ? AND campus_key = ?", userID, roleRow.ID, campusKey).
		Delete(&models.UserRole{}).Error; err != nil {
		return handleDBError(err, "revoke role")
	}

	cache.InvalidateGrantCache(ctx, r.cache, userID)
	return nil
}

func (r *userRoleRepository) ListByUser(ctx context.Context, userID string) ([]*models.UserRole, error) {
	var rows []*models.UserRole
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Campus").
		Where("user_id = ?", userID).
		Order("granted_at ASC").
		Find(&rows).Error; err != nil {
		return nil, handleDBError(err, "list user roles")
	}
	return rows, nil
}

func (r *userRoleRepository) HasGrant(ctx context.Context, userID string, role models.RoleName, scope authz.Scope) (bool, error) {
	roleRow, err := r.roleByName(ctx, role)
	if err != nil {
		return false, err
	}

	campusKey := uint(0)
	if id, ok := scope.CampusID(); ok {
		campusKey = id
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ? AND role_id = ? AND campus_key = ?", userID, roleRow.ID, campusKey).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check grant")
	}
	return count > 0, nil
}

func (r *userRoleRepository) roleByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).
		First(&role, "name = ?", name).Error; err != nil {
		return nil, handleDBError(err, fmt.Sprintf("resolve role %q", name))
	}
	return &role, nil
}
