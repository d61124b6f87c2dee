package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/campus-admin-service/internal/services"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	BaseHandler
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler:   NewBaseHandler(logger),
		exportService: exportService,
	}
}

// ExportSectionGrades streams a grade sheet for one section
func (h *ExportHandler) ExportSectionGrades(c *gin.Context) {
	sectionID := h.parseIDParam(c, "section_id")
	if sectionID == 0 {
		return
	}

	f, err := h.exportService.ExportSectionGrades(c.Request.Context(), sectionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="section-%d-grades.xlsx"`, sectionID))
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		h.LogError(c, err, "failed to stream export", "section_id", sectionID)
	}
	c.Status(http.StatusOK)
}

// ExportStudentTranscript streams a transcript workbook
func (h *ExportHandler) ExportStudentTranscript(c *gin.Context) {
	studentID := c.Param("student_id")
	if studentID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "invalid student_id parameter",
		})
		return
	}

	f, err := h.exportService.ExportStudentTranscript(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="transcript-%s.xlsx"`, studentID))
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		h.LogError(c, err, "failed to stream export", "student_id", studentID)
	}
	c.Status(http.StatusOK)
}
