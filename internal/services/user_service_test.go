package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
	"github.com/SAP-F-2025/campus-admin-service/internal/validator"
)

// listRecordingUserRepo captures the filters the service builds and plays
// back a canned page.
type listRecordingUserRepo struct {
	repositories.UserRepository
	gotFilters repositories.UserFilters
	users      []*models.User
	total      int64
}

func (m *listRecordingUserRepo) List(_ context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	m.gotFilters = filters
	return m.users, m.total, nil
}

type mockUserServiceRepo struct {
	repositories.Repository
	users *listRecordingUserRepo
}

func (m *mockUserServiceRepo) User() repositories.UserRepository { return m.users }

func newUserServiceFixture(users []*models.User, total int64) (UserService, *listRecordingUserRepo) {
	userRepo := &listRecordingUserRepo{users: users, total: total}
	repo := &mockUserServiceRepo{users: userRepo}
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	return NewUserService(repo, nil, validator.New(), logger), userRepo
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	page := []*models.User{{ID: "u-1"}, {ID: "u-2"}}

	t.Run("MultiCampusDecisionNarrowsInQuery", func(t *testing.T) {
		svc, userRepo := newUserServiceFixture(page, 25)

		resp, err := svc.List(ctx, authz.AllowCampuses(3, 7), repositories.UserFilters{Limit: 2})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}

		got := userRepo.gotFilters.CampusIDs
		if len(got) != 2 || got[0] != 3 || got[1] != 7 {
			t.Errorf("expected campus filter [3 7] in query, got %v", got)
		}
		// Total must be the store's count over visible rows, not the
		// length of the returned page.
		if resp.Total != 25 {
			t.Errorf("expected total 25, got %d", resp.Total)
		}
		if len(resp.Items) != 2 {
			t.Errorf("expected 2 items, got %d", len(resp.Items))
		}
	})

	t.Run("ExplicitPermittedCampusKept", func(t *testing.T) {
		svc, userRepo := newUserServiceFixture(page, 2)

		_, err := svc.List(ctx, authz.AllowCampuses(3, 7), repositories.UserFilters{CampusID: campusRef(7)})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if userRepo.gotFilters.CampusID == nil || *userRepo.gotFilters.CampusID != 7 {
			t.Errorf("expected campus filter 7, got %v", userRepo.gotFilters.CampusID)
		}
		if len(userRepo.gotFilters.CampusIDs) != 0 {
			t.Errorf("expected no campus set filter, got %v", userRepo.gotFilters.CampusIDs)
		}
	})

	t.Run("ExplicitForeignCampusYieldsEmptyPage", func(t *testing.T) {
		svc, userRepo := newUserServiceFixture(page, 2)

		resp, err := svc.List(ctx, authz.AllowCampuses(3), repositories.UserFilters{CampusID: campusRef(9)})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(resp.Items) != 0 || resp.Total != 0 {
			t.Errorf("expected empty response, got %+v", resp)
		}
		if userRepo.gotFilters.CampusID != nil {
			t.Error("store should not have been queried")
		}
	})

	t.Run("AllCampusesDecisionLeavesFiltersAlone", func(t *testing.T) {
		svc, userRepo := newUserServiceFixture(page, 2)

		if _, err := svc.List(ctx, authz.AllowEverywhere(), repositories.UserFilters{}); err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(userRepo.gotFilters.CampusIDs) != 0 || userRepo.gotFilters.CampusID != nil {
			t.Errorf("expected no campus narrowing, got %+v", userRepo.gotFilters)
		}
	})
}
