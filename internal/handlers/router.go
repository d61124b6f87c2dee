package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/config"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories/casdoor"
	"github.com/SAP-F-2025/campus-admin-service/internal/services"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
	"github.com/SAP-F-2025/campus-admin-service/internal/validator"
)

type HandlerManager struct {
	userHandler         *UserHandler
	roleHandler         *RoleHandler
	campusHandler       *CampusHandler
	courseHandler       *CourseHandler
	enrollmentHandler   *EnrollmentHandler
	billingHandler      *BillingHandler
	documentHandler     *DocumentHandler
	announcementHandler *AnnouncementHandler
	chatHandler         *ChatHandler
	exportHandler       *ExportHandler
	authMiddleware      *CasdoorAuthMiddleware
	healthCheck         func() error
}

func NewHandlerManager(
	serviceManager *services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	directory *casdoor.Directory,
	evaluator *authz.Evaluator,
	source authz.GrantSource,
	healthCheck func() error,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, directory, evaluator, source, logger)

	return &HandlerManager{
		userHandler:         NewUserHandler(serviceManager.User(), validator, logger),
		roleHandler:         NewRoleHandler(serviceManager.Role(), validator, logger),
		campusHandler:       NewCampusHandler(serviceManager.Campus(), logger),
		courseHandler:       NewCourseHandler(serviceManager.Course(), logger),
		enrollmentHandler:   NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		billingHandler:      NewBillingHandler(serviceManager.Billing(), logger),
		documentHandler:     NewDocumentHandler(serviceManager.Document(), logger),
		announcementHandler: NewAnnouncementHandler(serviceManager.Announcement(), logger),
		chatHandler:         NewChatHandler(serviceManager.Chat(), logger),
		exportHandler:       NewExportHandler(serviceManager.Export(), logger),
		authMiddleware:      authMiddleware,
		healthCheck:         healthCheck,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	require := hm.authMiddleware.RequireRoles
	requireAt := hm.authMiddleware.RequireRolesAtCampus
	resolve := hm.authMiddleware.ResolveRoles

	admins := []models.RoleName{
		models.RoleSuperAdmin,
		models.RoleAcademicAdmin,
		models.RoleFinanceAdmin,
		models.RoleSupportAdmin,
		models.RoleContentAdmin,
	}

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// User routes
		users := v1.Group("/users")
		{
			users.GET("/me", hm.userHandler.GetMe)
			users.GET("", requireAt(admins...), hm.userHandler.ListUsers)
			users.GET("/:id", require(admins...), hm.userHandler.GetUser)
			users.PUT("/:id", require(models.RoleSuperAdmin, models.RoleSupportAdmin), hm.userHandler.UpdateUser)
			users.PUT("/:id/status", require(models.RoleSuperAdmin, models.RoleSupportAdmin), hm.userHandler.UpdateUserStatus)

			// Grant management - super admins only
			users.GET("/:id/roles", require(models.RoleSuperAdmin), hm.roleHandler.ListUserGrants)
			users.POST("/:id/roles", require(models.RoleSuperAdmin), hm.roleHandler.GrantRole)
			users.DELETE("/:id/roles", require(models.RoleSuperAdmin), hm.roleHandler.RevokeRole)
		}

		v1.GET("/roles", require(), hm.roleHandler.ListRoles)

		// Campus routes - reads for everyone, writes for super admins
		campuses := v1.Group("/campuses")
		{
			campuses.GET("", require(), hm.campusHandler.ListCampuses)
			campuses.GET("/:id", require(), hm.campusHandler.GetCampus)
			campuses.POST("", require(models.RoleSuperAdmin), hm.campusHandler.CreateCampus)
			campuses.PUT("/:id", require(models.RoleSuperAdmin), hm.campusHandler.UpdateCampus)
			campuses.DELETE("/:id", require(models.RoleSuperAdmin), hm.campusHandler.DeleteCampus)
		}

		// Course routes
		courses := v1.Group("/courses")
		{
			courses.GET("", require(), hm.courseHandler.ListCourses)
			courses.GET("/:id", require(), hm.courseHandler.GetCourse)
			courses.POST("", require(models.RoleAcademicAdmin, models.RoleSuperAdmin), hm.courseHandler.CreateCourse)
			courses.PUT("/:id", require(models.RoleAcademicAdmin, models.RoleSuperAdmin), hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", require(models.RoleAcademicAdmin, models.RoleSuperAdmin), hm.courseHandler.DeleteCourse)

			courses.GET("/:id/sections", require(), hm.courseHandler.ListSections)
			courses.POST("/:id/sections", require(models.RoleAcademicAdmin, models.RoleSuperAdmin), hm.courseHandler.CreateSection)
			courses.DELETE("/:id/sections/:section_id", require(models.RoleAcademicAdmin, models.RoleSuperAdmin), hm.courseHandler.DeleteSection)
		}

		// Enrollment and grading routes
		enrollments := v1.Group("/enrollments")
		{
			enrollments.GET("/me", hm.enrollmentHandler.ListMyEnrollments)
			enrollments.GET("", requireAt(models.RoleTeacher, models.RoleAcademicAdmin, models.RoleSuperAdmin), hm.enrollmentHandler.ListEnrollments)
			enrollments.GET("/:id", require(models.RoleTeacher, models.RoleAcademicAdmin, models.RoleSuperAdmin), hm.enrollmentHandler.GetEnrollment)
			enrollments.POST("", require(models.RoleAcademicAdmin, models.RoleSuperAdmin), hm.enrollmentHandler.Enroll)
			enrollments.POST("/:id/drop", require(models.RoleAcademicAdmin, models.RoleSuperAdmin), hm.enrollmentHandler.Drop)

			enrollments.PUT("/:id/grade", require(models.RoleTeacher), hm.enrollmentHandler.SubmitGrade)
			enrollments.GET("/:id/grade", require(models.RoleTeacher, models.RoleAcademicAdmin, models.RoleSuperAdmin), hm.enrollmentHandler.GetGrade)
		}

		// Billing routes
		billing := v1.Group("/billing")
		{
			billing.GET("/me/balance", hm.billingHandler.GetMyBalance)
			billing.GET("/invoices", requireAt(models.RoleFinanceAdmin, models.RoleSuperAdmin), hm.billingHandler.ListInvoices)
			billing.GET("/invoices/:id", resolve(models.RoleFinanceAdmin, models.RoleSuperAdmin), hm.billingHandler.GetInvoice)
			billing.POST("/invoices", require(models.RoleFinanceAdmin, models.RoleSuperAdmin), hm.billingHandler.CreateInvoice)
			billing.POST("/invoices/:id/issue", require(models.RoleFinanceAdmin, models.RoleSuperAdmin), hm.billingHandler.IssueInvoice)
			billing.POST("/invoices/:id/cancel", require(models.RoleFinanceAdmin, models.RoleSuperAdmin), hm.billingHandler.CancelInvoice)
			billing.POST("/invoices/:id/payments", require(models.RoleFinanceAdmin, models.RoleSuperAdmin), hm.billingHandler.RecordPayment)
		}

		// Document request routes
		documents := v1.Group("/documents")
		{
			documents.POST("", require(models.RoleStudent), hm.documentHandler.CreateRequest)
			documents.GET("/me", hm.documentHandler.ListMyRequests)
			documents.GET("", requireAt(models.RoleSupportAdmin, models.RoleSuperAdmin), hm.documentHandler.ListRequests)
			documents.GET("/:id", resolve(models.RoleSupportAdmin, models.RoleSuperAdmin), hm.documentHandler.GetRequest)
			documents.PUT("/:id/status", require(models.RoleSupportAdmin, models.RoleSuperAdmin), hm.documentHandler.UpdateStatus)
		}

		// Announcement routes
		announcements := v1.Group("/announcements")
		{
			announcements.GET("", require(), hm.announcementHandler.ListAnnouncements)
			announcements.GET("/:id", require(), hm.announcementHandler.GetAnnouncement)
			announcements.POST("", require(models.RoleContentAdmin, models.RoleSuperAdmin), hm.announcementHandler.CreateAnnouncement)
			announcements.PUT("/:id", require(models.RoleContentAdmin, models.RoleSuperAdmin), hm.announcementHandler.UpdateAnnouncement)
			announcements.POST("/:id/publish", require(models.RoleContentAdmin, models.RoleSuperAdmin), hm.announcementHandler.PublishAnnouncement)
			announcements.DELETE("/:id", require(models.RoleContentAdmin, models.RoleSuperAdmin), hm.announcementHandler.DeleteAnnouncement)
		}

		// Support chat routes
		chat := v1.Group("/chat")
		{
			chat.POST("/threads", hm.chatHandler.OpenThread)
			chat.GET("/threads/me", hm.chatHandler.ListMyThreads)
			chat.GET("/threads", requireAt(models.RoleSupportAdmin, models.RoleSuperAdmin), hm.chatHandler.ListThreads)
			chat.GET("/threads/:id", resolve(models.RoleSupportAdmin, models.RoleSuperAdmin), hm.chatHandler.GetThread)
			chat.POST("/threads/:id/messages", resolve(models.RoleSupportAdmin, models.RoleSuperAdmin), hm.chatHandler.PostMessage)
			chat.POST("/threads/:id/assign", require(models.RoleSupportAdmin, models.RoleSuperAdmin), hm.chatHandler.AssignThread)
			chat.POST("/threads/:id/close", require(models.RoleSupportAdmin, models.RoleSuperAdmin), hm.chatHandler.CloseThread)
		}

		// Export routes
		exports := v1.Group("/exports")
		{
			exports.GET("/sections/:section_id/grades", require(models.RoleTeacher, models.RoleAcademicAdmin, models.RoleSuperAdmin), hm.exportHandler.ExportSectionGrades)
			exports.GET("/students/:student_id/transcript", require(models.RoleAcademicAdmin, models.RoleSuperAdmin), hm.exportHandler.ExportStudentTranscript)
		}
	}
}

// HealthCheck reports service liveness and dependency health
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	status := http.StatusOK
	health := "healthy"
	if hm.healthCheck != nil {
		if err := hm.healthCheck(); err != nil {
			status = http.StatusServiceUnavailable
			health = "degraded"
		}
	}
	c.JSON(status, gin.H{
		"status":    health,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "campus-admin-service",
	})
}
