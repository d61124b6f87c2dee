package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
	"github.com/SAP-F-2025/campus-admin-service/internal/validator"
)

type campusService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    utils.Logger
}

func NewCampusService(repo repositories.Repository, v *validator.Validator, logger utils.Logger) CampusService {
	return &campusService{repo: repo, validator: v, logger: logger}
}

func (s *campusService) Create(ctx context.Context, req CampusCreateRequest) (*models.Campus, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	code := strings.ToUpper(req.Code)
	if existing, err := s.repo.Campus().GetByCode(ctx, code); err == nil && existing != nil {
		return nil, NewBusinessRuleError("campus_code_taken",
			fmt.Sprintf("campus code %s is already in use", code))
	} else if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("checking campus code: %w", err)
	}

	campus := &models.Campus{
		Name:     req.Name,
		Code:     code,
		Address:  req.Address,
		City:     req.City,
		IsActive: true,
	}
	if err := s.repo.Campus().Create(ctx, campus); err != nil {
		return nil, fmt.Errorf("creating campus: %w", err)
	}

	s.logger.Info("campus created", "campus_id", campus.ID, "code", campus.Code)
	return campus, nil
}

func (s *campusService) GetByID(ctx context.Context, id uint) (*models.Campus, error) {
	campus, err := s.repo.Campus().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCampusNotFound
		}
		return nil, fmt.Errorf("getting campus: %w", err)
	}
	return campus, nil
}

func (s *campusService) List(ctx context.Context) ([]*models.Campus, error) {
	return s.repo.Campus().List(ctx)
}

func (s *campusService) Update(ctx context.Context, id uint, req CampusUpdateRequest) (*models.Campus, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	campus, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		campus.Name = *req.Name
	}
	if req.Address != nil {
		campus.Address = *req.Address
	}
	if req.City != nil {
		campus.City = *req.City
	}
	if req.IsActive != nil {
		campus.IsActive = *req.IsActive
	}

	if err := s.repo.Campus().Update(ctx, campus); err != nil {
		return nil, fmt.Errorf("updating campus: %w", err)
	}
	return campus, nil
}

func (s *campusService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Campus().Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting campus: %w", err)
	}
	s.logger.Info("campus deleted", "campus_id", id)
	return nil
}
