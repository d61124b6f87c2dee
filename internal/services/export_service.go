package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
)

type exportService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewExportService(repo repositories.Repository, logger utils.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportSectionGrades builds a grade sheet for one section: one row per
// enrollment, graded or not.
func (s *exportService) ExportSectionGrades(ctx context.Context, sectionID uint) (*excelize.File, error) {
	section, err := s.repo.Course().GetSection(ctx, nil, sectionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("getting section: %w", err)
	}

	filters := repositories.EnrollmentFilters{SectionID: &sectionID}
	enrollments, _, err := s.repo.Enrollment().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("listing enrollments: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Grades"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Student ID", "Student Name", "Status", "Score", "Letter", "Finalized", "Graded At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, enrollment := range enrollments {
		values := []interface{}{
			enrollment.StudentID,
			enrollment.Student.FullName,
			string(enrollment.Status),
			nil, nil, nil, nil,
		}
		if grade, err := s.repo.Enrollment().GetGrade(ctx, nil, enrollment.ID); err == nil {
			values[3] = grade.Score
			values[4] = grade.Letter
			values[5] = grade.Finalized
			values[6] = grade.GradedAt.Format("2006-01-02 15:04")
		} else if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("getting grade: %w", err)
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	s.logger.Info("section grades exported",
		"section_id", sectionID, "semester", section.Semester, "rows", len(enrollments))
	return f, nil
}

// ExportStudentTranscript builds a transcript workbook: one row per
// completed enrollment with its grade.
func (s *exportService) ExportStudentTranscript(ctx context.Context, studentID string) (*excelize.File, error) {
	student, err := s.repo.User().GetByID(ctx, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting student: %w", err)
	}

	enrollments, err := s.repo.Enrollment().ListByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, fmt.Errorf("listing enrollments: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Transcript"
	f.SetSheetName(f.GetSheetName(0), sheet)

	f.SetCellValue(sheet, "A1", "Student")
	f.SetCellValue(sheet, "B1", student.FullName)
	f.SetCellValue(sheet, "A2", "Email")
	f.SetCellValue(sheet, "B2", student.Email)

	headers := []string{"Course", "Section", "Semester", "Credits", "Score", "Letter"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		f.SetCellValue(sheet, cell, h)
	}

	row := 5
	for _, enrollment := range enrollments {
		if enrollment.Status != models.EnrollmentCompleted {
			continue
		}
		grade, err := s.repo.Enrollment().GetGrade(ctx, nil, enrollment.ID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				continue
			}
			return nil, fmt.Errorf("getting grade: %w", err)
		}

		values := []interface{}{
			enrollment.Section.Course.Title,
			enrollment.Section.Number,
			enrollment.Section.Semester,
			enrollment.Section.Course.Credits,
			grade.Score,
			grade.Letter,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	s.logger.Info("transcript exported", "student_id", studentID, "rows", row-5)
	return f, nil
}
