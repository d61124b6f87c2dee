// Package casdoor adapts the Casdoor identity provider into the local user
// store. Identities originate in Casdoor; this package pulls them into the
// users table so campus scoping, status and the legacy role field have a
// local row to live on. It never validates credentials — that stays in the
// authentication middleware.
package casdoor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
)

// Config holds the configuration for Casdoor connection
type Config struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// Directory syncs provider users into the local store.
type Directory struct {
	client   *casdoorsdk.Client
	userRepo repositories.UserRepository
}

func NewDirectory(config Config, userRepo repositories.UserRepository) *Directory {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &Directory{
		client:   client,
		userRepo: userRepo,
	}
}

// SyncUser fetches one provider account and upserts the local row. Called
// on first sight of a subject id and from the admin-triggered resync.
func (d *Directory) SyncUser(ctx context.Context, subjectID string) (*models.User, error) {
	casdoorUser, err := d.client.GetUserByUserId(subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user not found in identity provider: %s", subjectID)
	}

	user := d.convertUser(casdoorUser)

	existing, err := d.userRepo.GetByID(ctx, subjectID)
	if err == nil {
		// Local fields (status, home campus, legacy role) are owned here;
		// only refresh what the provider owns.
		existing.FullName = user.FullName
		existing.Email = user.Email
		existing.AvatarURL = user.AvatarURL
		existing.EmailVerified = user.EmailVerified
		if err := d.userRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	if !repositories.IsNotFoundError(err) {
		return nil, err
	}
	if err := d.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SyncFromClaims materializes a local user from a verified token without a
// provider round trip; used when the middleware sees a subject the store
// does not know yet.
func (d *Directory) SyncFromClaims(ctx context.Context, claims *casdoorsdk.Claims) (*models.User, error) {
	if claims == nil || claims.Id == "" {
		return nil, fmt.Errorf("claims carry no subject id")
	}

	avatar := claims.User.Avatar
	user := &models.User{
		ID:            claims.Id,
		FullName:      claims.User.DisplayName,
		Email:         claims.User.Email,
		Role:          mapProviderType(claims.User.Type),
		Status:        models.UserActive,
		AvatarURL:     &avatar,
		EmailVerified: true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// convertUser converts a Casdoor user to the local model
func (d *Directory) convertUser(casdoorUser *casdoorsdk.User) *models.User {
	var createdAt, updatedAt time.Time
	if casdoorUser.CreatedTime != "" {
		createdAt, _ = time.Parse(time.RFC3339, casdoorUser.CreatedTime)
	}
	if casdoorUser.UpdatedTime != "" {
		updatedAt, _ = time.Parse(time.RFC3339, casdoorUser.UpdatedTime)
	}

	role := mapProviderType(casdoorUser.Type)
	if casdoorUser.IsAdmin {
		role = models.LegacyRoleAdmin
	}

	return &models.User{
		ID:            casdoorUser.Id,
		FullName:      casdoorUser.DisplayName,
		Email:         casdoorUser.Email,
		Role:          role,
		Status:        models.UserActive,
		AvatarURL:     &casdoorUser.Avatar,
		EmailVerified: casdoorUser.EmailVerified,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

// mapProviderType maps the provider's user type to the legacy role field.
// RBAC grants are managed locally; this only seeds the fallback.
func mapProviderType(providerType string) models.LegacyRole {
	switch strings.ToLower(providerType) {
	case "admin", "administrator":
		return models.LegacyRoleAdmin
	case "teacher", "instructor", "educator":
		return models.LegacyRoleTeacher
	default:
		return models.LegacyRoleStudent
	}
}
