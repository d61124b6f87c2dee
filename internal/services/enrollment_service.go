package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
	"github.com/SAP-F-2025/campus-admin-service/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    utils.Logger
}

func NewEnrollmentService(repo repositories.Repository, v *validator.Validator, logger utils.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, validator: v, logger: logger}
}

// Enroll places a student into a section. The capacity check and insert
// run inside one transaction so concurrent enrollments cannot oversubscribe
// a section past its capacity.
func (s *enrollmentService) Enroll(ctx context.Context, actorID string, req EnrollRequest) (*models.Enrollment, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	student, err := s.repo.User().GetByID(ctx, req.StudentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting student: %w", err)
	}
	if !student.IsActive() {
		return nil, NewBusinessRuleError("student_inactive",
			"inactive students cannot be enrolled")
	}

	var enrollment *models.Enrollment
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		section, err := txRepo.Course().GetSection(ctx, nil, req.SectionID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrSectionNotFound
			}
			return fmt.Errorf("getting section: %w", err)
		}

		existing, err := txRepo.Enrollment().GetByStudentAndSection(ctx, nil, req.StudentID, req.SectionID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return fmt.Errorf("checking enrollment: %w", err)
		}
		if existing != nil && existing.Status != models.EnrollmentDropped {
			return ErrAlreadyEnrolled
		}

		enrolled, err := txRepo.Course().CountEnrolled(ctx, nil, req.SectionID)
		if err != nil {
			return fmt.Errorf("counting enrollments: %w", err)
		}
		if enrolled >= int64(section.Capacity) {
			return ErrSectionFull
		}

		now := time.Now().UTC()
		if existing != nil {
			// Re-enrolling after a drop reuses the row; the student/section
			// pair is unique.
			existing.Status = models.EnrollmentEnrolled
			existing.EnrolledAt = &now
			existing.DroppedAt = nil
			if err := txRepo.Enrollment().Update(ctx, nil, existing); err != nil {
				return fmt.Errorf("re-enrolling: %w", err)
			}
			enrollment = existing
			return nil
		}

		enrollment = &models.Enrollment{
			StudentID:  req.StudentID,
			SectionID:  req.SectionID,
			Status:     models.EnrollmentEnrolled,
			EnrolledAt: &now,
		}
		return txRepo.Enrollment().Create(ctx, nil, enrollment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("student enrolled",
		"student_id", req.StudentID, "section_id", req.SectionID, "actor_id", actorID)
	return enrollment, nil
}

func (s *enrollmentService) Drop(ctx context.Context, actorID string, enrollmentID uint) (*models.Enrollment, error) {
	enrollment, err := s.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status != models.EnrollmentEnrolled && enrollment.Status != models.EnrollmentPending {
		return nil, ErrEnrollmentInactive
	}

	now := time.Now().UTC()
	enrollment.Status = models.EnrollmentDropped
	enrollment.DroppedAt = &now
	if err := s.repo.Enrollment().Update(ctx, nil, enrollment); err != nil {
		return nil, fmt.Errorf("dropping enrollment: %w", err)
	}

	s.logger.Info("enrollment dropped",
		"enrollment_id", enrollmentID, "student_id", enrollment.StudentID, "actor_id", actorID)
	return enrollment, nil
}

func (s *enrollmentService) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	enrollment, err := s.repo.Enrollment().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("getting enrollment: %w", err)
	}
	return enrollment, nil
}

func (s *enrollmentService) List(ctx context.Context, decision authz.Decision, filters repositories.EnrollmentFilters) (*ListResponse[*models.Enrollment], error) {
	filters.CampusIDs = narrowCampuses(decision, filters.CampusIDs)

	enrollments, total, err := s.repo.Enrollment().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("listing enrollments: %w", err)
	}
	return &ListResponse[*models.Enrollment]{Items: enrollments, Total: total, Limit: filters.Limit, Offset: filters.Offset}, nil
}

func (s *enrollmentService) ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	return s.repo.Enrollment().ListByStudent(ctx, nil, studentID)
}

// SubmitGrade records or updates the grade on an enrollment. Only the
// section's assigned teacher may grade it; a finalized grade is immutable.
func (s *enrollmentService) SubmitGrade(ctx context.Context, graderID string, enrollmentID uint, req GradeRequest) (*models.Grade, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	enrollment, err := s.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status != models.EnrollmentEnrolled && enrollment.Status != models.EnrollmentCompleted {
		return nil, ErrEnrollmentInactive
	}

	section, err := s.repo.Course().GetSection(ctx, nil, enrollment.SectionID)
	if err != nil {
		return nil, fmt.Errorf("getting section: %w", err)
	}
	if section.TeacherID != graderID {
		return nil, NewPermissionError("grade", "submit", "not the section teacher")
	}

	existing, err := s.repo.Enrollment().GetGrade(ctx, nil, enrollmentID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("getting grade: %w", err)
	}
	if existing != nil && existing.Finalized {
		return nil, ErrGradeFinalized
	}

	grade := &models.Grade{
		EnrollmentID: enrollmentID,
		Score:        req.Score,
		Letter:       models.LetterForScore(req.Score),
		Feedback:     req.Feedback,
		GradedBy:     graderID,
		GradedAt:     time.Now().UTC(),
		Finalized:    req.Finalize,
	}
	if err := s.repo.Enrollment().UpsertGrade(ctx, nil, grade); err != nil {
		return nil, fmt.Errorf("saving grade: %w", err)
	}

	if req.Finalize && enrollment.Status == models.EnrollmentEnrolled {
		enrollment.Status = models.EnrollmentCompleted
		if err := s.repo.Enrollment().Update(ctx, nil, enrollment); err != nil {
			return nil, fmt.Errorf("completing enrollment: %w", err)
		}
	}

	s.logger.Info("grade submitted",
		"enrollment_id", enrollmentID, "letter", grade.Letter, "finalized", grade.Finalized, "graded_by", graderID)
	return grade, nil
}

func (s *enrollmentService) GetGrade(ctx context.Context, enrollmentID uint) (*models.Grade, error) {
	grade, err := s.repo.Enrollment().GetGrade(ctx, nil, enrollmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("getting grade: %w", err)
	}
	return grade, nil
}
