package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/events"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
	"github.com/SAP-F-2025/campus-admin-service/internal/validator"
)

// grantCall records one Grant/Revoke invocation on the mock store.
type grantCall struct {
	userID string
	role   models.RoleName
	scope  authz.Scope
}

type mockUserRoleRepo struct {
	grants  []grantCall
	revokes []grantCall
	rows    []*models.UserRole
}

func (m *mockUserRoleRepo) ListGrants(_ context.Context, _ string) ([]authz.Grant, error) {
	return nil, nil
}

func (m *mockUserRoleRepo) Grant(_ context.Context, userID string, role models.RoleName, scope authz.Scope, _ string) error {
	m.grants = append(m.grants, grantCall{userID: userID, role: role, scope: scope})
	return nil
}

func (m *mockUserRoleRepo) Revoke(_ context.Context, userID string, role models.RoleName, scope authz.Scope) error {
	m.revokes = append(m.revokes, grantCall{userID: userID, role: role, scope: scope})
	return nil
}

func (m *mockUserRoleRepo) ListByUser(_ context.Context, _ string) ([]*models.UserRole, error) {
	return m.rows, nil
}

func (m *mockUserRoleRepo) HasGrant(_ context.Context, _ string, _ models.RoleName, _ authz.Scope) (bool, error) {
	return false, nil
}

type mockUserRepo struct {
	repositories.UserRepository
	existing map[string]bool
}

func (m *mockUserRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	return m.existing[id], nil
}

type mockCampusRepo struct {
	repositories.CampusRepository
	existing map[uint]bool
}

func (m *mockCampusRepo) ExistsByID(_ context.Context, id uint) (bool, error) {
	return m.existing[id], nil
}

// mockRoleRepository wires the pieces the role service touches; everything
// else is nil.
type mockRoleRepository struct {
	userRole *mockUserRoleRepo
	user     *mockUserRepo
	campus   *mockCampusRepo
}

func (m *mockRoleRepository) User() repositories.UserRepository         { return m.user }
func (m *mockRoleRepository) Role() repositories.RoleRepository         { return nil }
func (m *mockRoleRepository) UserRole() repositories.UserRoleRepository { return m.userRole }
func (m *mockRoleRepository) Campus() repositories.CampusRepository     { return m.campus }
func (m *mockRoleRepository) Course() repositories.CourseRepository     { return nil }
func (m *mockRoleRepository) Enrollment() repositories.EnrollmentRepository {
	return nil
}
func (m *mockRoleRepository) Invoice() repositories.InvoiceRepository { return nil }
func (m *mockRoleRepository) DocumentRequest() repositories.DocumentRequestRepository {
	return nil
}
func (m *mockRoleRepository) Announcement() repositories.AnnouncementRepository { return nil }
func (m *mockRoleRepository) Chat() repositories.ChatRepository                 { return nil }
func (m *mockRoleRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRoleRepository) Ping(_ context.Context) error { return nil }
func (m *mockRoleRepository) Close() error                 { return nil }

func newRoleServiceFixture() (RoleService, *mockRoleRepository, *events.MockEventPublisher) {
	slogLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := &mockRoleRepository{
		userRole: &mockUserRoleRepo{},
		user:     &mockUserRepo{existing: map[string]bool{"user-1": true}},
		campus:   &mockCampusRepo{existing: map[uint]bool{3: true, 7: true}},
	}
	publisher := events.NewMockEventPublisher(slogLogger)
	svc := NewRoleService(repo, nil, validator.New(), publisher, utils.NewSlogLogger(slogLogger))
	return svc, repo, publisher
}

func campusRef(id uint) *uint { return &id }

func TestRoleService_Grant(t *testing.T) {
	ctx := context.Background()

	t.Run("CampusScopedGrant", func(t *testing.T) {
		svc, repo, publisher := newRoleServiceFixture()

		err := svc.Grant(ctx, "actor-1", "user-1", RoleGrantRequest{
			Role:     models.RoleTeacher,
			CampusID: campusRef(3),
		})
		if err != nil {
			t.Fatalf("Grant failed: %v", err)
		}

		if len(repo.userRole.grants) != 1 {
			t.Fatalf("expected 1 grant call, got %d", len(repo.userRole.grants))
		}
		call := repo.userRole.grants[0]
		if id, ok := call.scope.CampusID(); !ok || id != 3 {
			t.Errorf("expected campus scope 3, got %v", call.scope)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 audit event, got %d", len(published))
		}
		if published[0].Topic != events.TopicRoleAudit {
			t.Errorf("expected topic %s, got %s", events.TopicRoleAudit, published[0].Topic)
		}
		audit, ok := published[0].Event.(events.RoleAuditEvent)
		if !ok {
			t.Fatalf("unexpected event type %T", published[0].Event)
		}
		if audit.Action != events.RoleGranted || audit.UserID != "user-1" || audit.Role != "teacher" {
			t.Errorf("unexpected audit payload: %+v", audit)
		}
	})

	t.Run("NilCampusGrantsGlobally", func(t *testing.T) {
		svc, repo, _ := newRoleServiceFixture()

		err := svc.Grant(ctx, "actor-1", "user-1", RoleGrantRequest{
			Role: models.RoleFinanceAdmin,
		})
		if err != nil {
			t.Fatalf("Grant failed: %v", err)
		}
		if !repo.userRole.grants[0].scope.IsGlobal() {
			t.Error("expected global scope for nil campus id")
		}
	})

	t.Run("SuperAdminRejectsCampusScope", func(t *testing.T) {
		svc, repo, publisher := newRoleServiceFixture()

		err := svc.Grant(ctx, "actor-1", "user-1", RoleGrantRequest{
			Role:     models.RoleSuperAdmin,
			CampusID: campusRef(3),
		})
		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) || ruleErr.Rule != "global_only_role" {
			t.Fatalf("expected global_only_role rule error, got %v", err)
		}
		if len(repo.userRole.grants) != 0 {
			t.Error("no grant should be written")
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("no audit event should be published")
		}
	})

	t.Run("UnknownCampus", func(t *testing.T) {
		svc, _, _ := newRoleServiceFixture()

		err := svc.Grant(ctx, "actor-1", "user-1", RoleGrantRequest{
			Role:     models.RoleTeacher,
			CampusID: campusRef(99),
		})
		if !errors.Is(err, ErrCampusNotFound) {
			t.Fatalf("expected ErrCampusNotFound, got %v", err)
		}
	})

	t.Run("UnknownUser", func(t *testing.T) {
		svc, _, _ := newRoleServiceFixture()

		err := svc.Grant(ctx, "actor-1", "ghost", RoleGrantRequest{
			Role: models.RoleTeacher,
		})
		if !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("InvalidRoleName", func(t *testing.T) {
		svc, _, _ := newRoleServiceFixture()

		err := svc.Grant(ctx, "actor-1", "user-1", RoleGrantRequest{
			Role: models.RoleName("admin"),
		})
		var validationErrs ValidationErrors
		if !errors.As(err, &validationErrs) {
			t.Fatalf("expected validation errors, got %v", err)
		}
	})
}

func TestRoleService_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("RevokePublishesAudit", func(t *testing.T) {
		svc, repo, publisher := newRoleServiceFixture()

		err := svc.Revoke(ctx, "actor-1", "user-1", RoleRevokeRequest{
			Role:     models.RoleTeacher,
			CampusID: campusRef(7),
		})
		if err != nil {
			t.Fatalf("Revoke failed: %v", err)
		}
		if len(repo.userRole.revokes) != 1 {
			t.Fatalf("expected 1 revoke call, got %d", len(repo.userRole.revokes))
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 audit event, got %d", len(published))
		}
		audit := published[0].Event.(events.RoleAuditEvent)
		if audit.Action != events.RoleRevoked {
			t.Errorf("expected revoked action, got %s", audit.Action)
		}
		if audit.CampusID == nil || *audit.CampusID != 7 {
			t.Errorf("expected campus 7 in audit, got %v", audit.CampusID)
		}
	})

	t.Run("RevokingUnheldPairIsNotAnError", func(t *testing.T) {
		svc, _, _ := newRoleServiceFixture()

		if err := svc.Revoke(ctx, "actor-1", "user-1", RoleRevokeRequest{
			Role: models.RoleContentAdmin,
		}); err != nil {
			t.Fatalf("Revoke of unheld pair failed: %v", err)
		}
	})
}

func TestRoleService_ListUserGrants(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newRoleServiceFixture()

	actor := "actor-1"
	repo.userRole.rows = []*models.UserRole{
		{
			Role:      models.Role{Name: models.RoleTeacher},
			CampusID:  campusRef(3),
			GrantedBy: &actor,
		},
		{
			// Row predating actor tracking: granted_by is null.
			Role: models.Role{Name: models.RoleFinanceAdmin},
		},
	}

	views, err := svc.ListUserGrants(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListUserGrants failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 grant views, got %d", len(views))
	}

	if views[0].Role != models.RoleTeacher {
		t.Errorf("expected teacher role, got %s", views[0].Role)
	}
	if views[0].CampusID == nil || *views[0].CampusID != 3 {
		t.Errorf("expected campus 3, got %v", views[0].CampusID)
	}
	if views[0].GrantedBy == nil || *views[0].GrantedBy != actor {
		t.Errorf("expected granted_by %q, got %v", actor, views[0].GrantedBy)
	}

	if views[1].CampusID != nil {
		t.Errorf("expected global grant, got campus %v", *views[1].CampusID)
	}
	if views[1].GrantedBy != nil {
		t.Errorf("expected nil granted_by for legacy row, got %q", *views[1].GrantedBy)
	}

	t.Run("UnknownUser", func(t *testing.T) {
		if _, err := svc.ListUserGrants(ctx, "ghost"); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}
