package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/cache"
	"github.com/SAP-F-2025/campus-admin-service/internal/events"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
	"github.com/SAP-F-2025/campus-admin-service/internal/validator"
)

// ServiceManager wires every service over one repository, cache and
// publisher. Handlers go through it instead of holding services directly.
type ServiceManager struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	validator *validator.Validator
	publisher events.EventPublisher
	logger    utils.Logger

	user         UserService
	role         RoleService
	campus       CampusService
	course       CourseService
	enrollment   EnrollmentService
	billing      BillingService
	document     DocumentService
	announcement AnnouncementService
	chat         ChatService
	export       ExportService
}

type ServiceManagerConfig struct {
	Repository repositories.Repository
	Cache      *cache.CacheManager
	Validator  *validator.Validator
	Publisher  events.EventPublisher
	Logger     utils.Logger
}

func NewServiceManager(cfg ServiceManagerConfig) *ServiceManager {
	m := &ServiceManager{
		repo:      cfg.Repository,
		cache:     cfg.Cache,
		validator: cfg.Validator,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
	}

	m.user = NewUserService(cfg.Repository, cfg.Cache, cfg.Validator, cfg.Logger)
	m.role = NewRoleService(cfg.Repository, cfg.Cache, cfg.Validator, cfg.Publisher, cfg.Logger)
	m.campus = NewCampusService(cfg.Repository, cfg.Validator, cfg.Logger)
	m.course = NewCourseService(cfg.Repository, cfg.Cache, cfg.Validator, cfg.Logger)
	m.enrollment = NewEnrollmentService(cfg.Repository, cfg.Validator, cfg.Logger)
	m.billing = NewBillingService(cfg.Repository, cfg.Validator, cfg.Publisher, cfg.Logger)
	m.document = NewDocumentService(cfg.Repository, cfg.Validator, cfg.Logger)
	m.announcement = NewAnnouncementService(cfg.Repository, cfg.Validator, cfg.Publisher, cfg.Logger)
	m.chat = NewChatService(cfg.Repository, cfg.Validator, cfg.Logger)
	m.export = NewExportService(cfg.Repository, cfg.Logger)

	return m
}

// Initialize seeds the role reference table and checks that the stored set
// matches the closed role enumeration. A mismatch aborts startup: role
// names are compile-time constants and the table must agree with them.
func (m *ServiceManager) Initialize(ctx context.Context) error {
	if err := m.repo.Role().Seed(ctx); err != nil {
		return fmt.Errorf("seeding roles: %w", err)
	}

	stored, err := m.repo.Role().List(ctx)
	if err != nil {
		return fmt.Errorf("listing seeded roles: %w", err)
	}

	known := make(map[models.RoleName]bool, len(models.AllRoleNames()))
	for _, name := range models.AllRoleNames() {
		known[name] = false
	}
	for _, role := range stored {
		if _, ok := known[role.Name]; !ok {
			return fmt.Errorf("%w: unknown role %q in store", ErrRoleSeedMismatch, role.Name)
		}
		known[role.Name] = true
	}
	for name, seen := range known {
		if !seen {
			return fmt.Errorf("%w: role %q missing from store", ErrRoleSeedMismatch, name)
		}
	}

	m.logger.Info("service manager initialized", "roles", len(stored))
	return nil
}

func (m *ServiceManager) Shutdown(ctx context.Context) error {
	if m.publisher != nil {
		if err := m.publisher.Close(); err != nil {
			m.logger.Error("failed to close event publisher", "error", err)
		}
	}
	m.logger.Info("service manager shut down")
	return nil
}

func (m *ServiceManager) User() UserService                 { return m.user }
func (m *ServiceManager) Role() RoleService                 { return m.role }
func (m *ServiceManager) Campus() CampusService             { return m.campus }
func (m *ServiceManager) Course() CourseService             { return m.course }
func (m *ServiceManager) Enrollment() EnrollmentService     { return m.enrollment }
func (m *ServiceManager) Billing() BillingService           { return m.billing }
func (m *ServiceManager) Document() DocumentService         { return m.document }
func (m *ServiceManager) Announcement() AnnouncementService { return m.announcement }
func (m *ServiceManager) Chat() ChatService                 { return m.chat }
func (m *ServiceManager) Export() ExportService             { return m.export }

// narrowCampuses folds an authorization decision into an explicit campus
// filter. The result is the campus id list queries must apply; nil means
// no narrowing (global visibility).
func narrowCampuses(decision authz.Decision, requested []uint) []uint {
	if decision.AllCampuses {
		return requested
	}
	if len(requested) == 0 {
		return decision.CampusIDs
	}
	permitted := make([]uint, 0, len(requested))
	for _, id := range requested {
		if decision.PermitsCampus(id) {
			permitted = append(permitted, id)
		}
	}
	if len(permitted) == 0 {
		// Requested campuses are all outside the decision; an impossible
		// filter keeps the query from silently widening.
		return []uint{0}
	}
	return permitted
}
