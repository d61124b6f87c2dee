package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
)

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) repositories.RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) GetByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).
		First(&role, "name = ?", name).Error; err != nil {
		return nil, handleDBError(err, "get role by name")
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&roles).Error; err != nil {
		return nil, handleDBError(err, "list roles")
	}
	return roles, nil
}

// Seed inserts the reference roles, skipping rows that already exist.
func (r *roleRepository) Seed(ctx context.Context) error {
	roles := models.SeedRoles()
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&roles).Error; err != nil {
		return handleDBError(err, "seed roles")
	}
	return nil
}
