package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/cache"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
	"github.com/SAP-F-2025/campus-admin-service/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	validator *validator.Validator
	logger    utils.Logger
}

func NewCourseService(repo repositories.Repository, cacheManager *cache.CacheManager, v *validator.Validator, logger utils.Logger) CourseService {
	return &courseService{repo: repo, cache: cacheManager, validator: v, logger: logger}
}

func (s *courseService) Create(ctx context.Context, actorID string, req CourseCreateRequest) (*models.Course, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	campus, err := s.repo.Campus().GetByID(ctx, req.CampusID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCampusNotFound
		}
		return nil, fmt.Errorf("getting campus: %w", err)
	}
	if !campus.IsActive {
		return nil, ErrCampusInactive
	}

	course := &models.Course{
		Code:        strings.ToUpper(req.Code),
		Title:       req.Title,
		Description: req.Description,
		Credits:     req.Credits,
		Status:      models.CourseDraft,
		CampusID:    req.CampusID,
		CreatedBy:   actorID,
	}
	if err := s.repo.Course().Create(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("creating course: %w", err)
	}

	s.logger.Info("course created", "course_id", course.ID, "code", course.Code, "campus_id", course.CampusID)
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.repo.Course().GetByIDWithDetails(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("getting course: %w", err)
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context, decision authz.Decision, filters repositories.CourseFilters) (*ListResponse[*models.Course], error) {
	filters.CampusIDs = narrowCampuses(decision, filters.CampusIDs)

	courses, total, err := s.repo.Course().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return &ListResponse[*models.Course]{Items: courses, Total: total, Limit: filters.Limit, Offset: filters.Offset}, nil
}

func (s *courseService) Update(ctx context.Context, id uint, req CourseUpdateRequest) (*models.Course, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("getting course: %w", err)
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.Status != nil {
		course.Status = *req.Status
	}

	if err := s.repo.Course().Update(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("updating course: %w", err)
	}

	cache.InvalidateCourseCache(ctx, s.cache, course.ID, course.CampusID)
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("getting course: %w", err)
	}

	sections, err := s.repo.Course().ListSections(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("listing sections: %w", err)
	}
	for _, section := range sections {
		enrolled, err := s.repo.Course().CountEnrolled(ctx, nil, section.ID)
		if err != nil {
			return fmt.Errorf("counting enrollments: %w", err)
		}
		if enrolled > 0 {
			return NewBusinessRuleError("course_has_enrollments",
				"course cannot be deleted while sections have enrollments")
		}
	}

	if err := s.repo.Course().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}

	cache.InvalidateCourseCache(ctx, s.cache, course.ID, course.CampusID)
	s.logger.Info("course deleted", "course_id", id)
	return nil
}

func (s *courseService) CreateSection(ctx context.Context, courseID uint, req SectionCreateRequest) (*models.CourseSection, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("getting course: %w", err)
	}
	if course.Status == models.CourseArchived {
		return nil, NewBusinessRuleError("course_archived",
			"sections cannot be added to an archived course")
	}

	teacher, err := s.repo.User().GetByID(ctx, req.TeacherID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting teacher: %w", err)
	}
	if !teacher.IsActive() {
		return nil, NewBusinessRuleError("teacher_inactive",
			"sections must be assigned to an active teacher")
	}

	section := &models.CourseSection{
		CourseID:  courseID,
		Number:    req.Number,
		Semester:  req.Semester,
		Capacity:  req.Capacity,
		TeacherID: req.TeacherID,
		Schedule:  req.Schedule,
		Room:      req.Room,
	}
	if err := s.repo.Course().CreateSection(ctx, nil, section); err != nil {
		return nil, fmt.Errorf("creating section: %w", err)
	}

	s.logger.Info("section created",
		"course_id", courseID, "section_id", section.ID, "semester", section.Semester)
	return section, nil
}

func (s *courseService) ListSections(ctx context.Context, courseID uint) ([]*models.CourseSection, error) {
	if _, err := s.repo.Course().GetByID(ctx, nil, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("getting course: %w", err)
	}
	return s.repo.Course().ListSections(ctx, nil, courseID)
}

func (s *courseService) DeleteSection(ctx context.Context, courseID, sectionID uint) error {
	section, err := s.repo.Course().GetSection(ctx, nil, sectionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSectionNotFound
		}
		return fmt.Errorf("getting section: %w", err)
	}
	if section.CourseID != courseID {
		return ErrSectionNotFound
	}

	enrolled, err := s.repo.Course().CountEnrolled(ctx, nil, sectionID)
	if err != nil {
		return fmt.Errorf("counting enrollments: %w", err)
	}
	if enrolled > 0 {
		return NewBusinessRuleError("section_has_enrollments",
			"section cannot be deleted while it has enrollments")
	}

	return s.repo.Course().DeleteSection(ctx, nil, sectionID)
}
