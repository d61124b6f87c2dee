package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/cache"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
	"github.com/SAP-F-2025/campus-admin-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	validator *validator.Validator
	logger    utils.Logger
}

func NewUserService(repo repositories.Repository, cacheManager *cache.CacheManager, v *validator.Validator, logger utils.Logger) UserService {
	return &userService{repo: repo, cache: cacheManager, validator: v, logger: logger}
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, decision authz.Decision, filters repositories.UserFilters) (*ListResponse[*models.User], error) {
	// Home-campus narrowing: a campus-scoped decision restricts the list
	// to users homed on a permitted campus. The restriction goes into the
	// query so pagination totals count only visible rows.
	if !decision.AllCampuses {
		if filters.CampusID != nil && !decision.PermitsCampus(*filters.CampusID) {
			return &ListResponse[*models.User]{Items: []*models.User{}, Limit: filters.Limit, Offset: filters.Offset}, nil
		}
		if filters.CampusID == nil {
			filters.CampusIDs = decision.CampusIDs
		}
	}

	var (
		users []*models.User
		total int64
		err   error
	)
	if filters.Query != "" {
		users, total, err = s.repo.User().Search(ctx, filters.Query, filters)
	} else {
		users, total, err = s.repo.User().List(ctx, filters)
	}
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	return &ListResponse[*models.User]{Items: users, Total: total, Limit: filters.Limit, Offset: filters.Offset}, nil
}

func (s *userService) Update(ctx context.Context, id string, req UserUpdateRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if req.HomeCampusID != nil {
		exists, err := s.repo.Campus().ExistsByID(ctx, *req.HomeCampusID)
		if err != nil {
			return nil, fmt.Errorf("checking campus: %w", err)
		}
		if !exists {
			return nil, ErrCampusNotFound
		}
		user.HomeCampusID = req.HomeCampusID
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	cache.InvalidateUserCache(ctx, s.cache, user.ID, user.Email)
	// Moving a user's home campus changes the legacy fallback scope.
	if req.HomeCampusID != nil {
		cache.InvalidateGrantCache(ctx, s.cache, user.ID)
	}
	return user, nil
}

func (s *userService) UpdateStatus(ctx context.Context, actorID, id string, req UserStatusRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Status == req.Status {
		return user, nil
	}

	if err := s.repo.User().UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, fmt.Errorf("updating user status: %w", err)
	}
	user.Status = req.Status

	cache.InvalidateUserCache(ctx, s.cache, user.ID, user.Email)
	// Deactivation must take effect within the grant cache TTL.
	cache.InvalidateGrantCache(ctx, s.cache, user.ID)

	s.logger.Info("user status changed",
		"user_id", id, "status", req.Status, "actor_id", actorID)
	return user, nil
}
