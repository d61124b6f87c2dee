package authz

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
)

type stubGrantSource struct {
	grants map[string][]Grant
	err    error
}

func (s *stubGrantSource) ListGrants(_ context.Context, subjectID string) ([]Grant, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.grants[subjectID], nil
}

func newTestEvaluator(grants map[string][]Grant) *Evaluator {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewEvaluator(&stubGrantSource{grants: grants}, logger)
}

func campus(id uint) *uint { return &id }

func TestEvaluator_GlobalGrantCoversAnyCampus(t *testing.T) {
	e := newTestEvaluator(map[string][]Grant{
		"fin": {{Role: models.RoleFinanceAdmin, Scope: GlobalScope()}},
	})

	for _, target := range []uint{1, 42, 9999} {
		d, err := e.Authorize(context.Background(), &Subject{ID: "fin"},
			[]models.RoleName{models.RoleFinanceAdmin}, campus(target))
		if err != nil {
			t.Fatalf("campus %d: unexpected error: %v", target, err)
		}
		if !d.Allowed || !d.AllCampuses {
			t.Errorf("campus %d: want allow-everywhere, got %+v", target, d)
		}
	}
}

func TestEvaluator_CampusGrantDoesNotCrossCampuses(t *testing.T) {
	e := newTestEvaluator(map[string][]Grant{
		"aa": {{Role: models.RoleAcademicAdmin, Scope: CampusScope(7)}},
	})

	d, err := e.Authorize(context.Background(), &Subject{ID: "aa"},
		[]models.RoleName{models.RoleAcademicAdmin}, campus(9))
	if d.Allowed {
		t.Errorf("want deny for foreign campus, got %+v", d)
	}
	if !IsDenied(err) {
		t.Errorf("want DeniedError, got %v", err)
	}

	d, err = e.Authorize(context.Background(), &Subject{ID: "aa"},
		[]models.RoleName{models.RoleAcademicAdmin}, campus(7))
	if err != nil || !d.Allowed {
		t.Fatalf("want allow on own campus, got %+v, %v", d, err)
	}
	if d.AllCampuses || len(d.CampusIDs) != 1 || d.CampusIDs[0] != 7 {
		t.Errorf("want effective campuses {7}, got %+v", d)
	}
}

func TestEvaluator_NoGrantsNeverAllows(t *testing.T) {
	e := newTestEvaluator(map[string][]Grant{})

	checks := []struct {
		required []models.RoleName
		target   *uint
	}{
		{nil, nil},
		{[]models.RoleName{models.RoleStudent}, nil},
		{[]models.RoleName{models.RoleTeacher}, campus(3)},
		{[]models.RoleName{models.RoleSuperAdmin}, nil},
	}
	for _, c := range checks {
		d, err := e.Authorize(context.Background(), &Subject{ID: "nobody"}, c.required, c.target)
		if d.Allowed {
			t.Errorf("required=%v target=%v: zero-grant subject must be denied", c.required, c.target)
		}
		if !IsDenied(err) {
			t.Errorf("required=%v: want DeniedError, got %v", c.required, err)
		}
	}
}

func TestEvaluator_DuplicateGrantsDoNotChangeDecision(t *testing.T) {
	once := newTestEvaluator(map[string][]Grant{
		"s": {{Role: models.RoleTeacher, Scope: CampusScope(3)}},
	})
	twice := newTestEvaluator(map[string][]Grant{
		"s": {
			{Role: models.RoleTeacher, Scope: CampusScope(3)},
			{Role: models.RoleTeacher, Scope: CampusScope(3)},
		},
	})

	required := []models.RoleName{models.RoleTeacher}
	d1, err1 := once.Authorize(context.Background(), &Subject{ID: "s"}, required, campus(3))
	d2, err2 := twice.Authorize(context.Background(), &Subject{ID: "s"}, required, campus(3))
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if d1.Allowed != d2.Allowed || d1.AllCampuses != d2.AllCampuses || len(d1.CampusIDs) != len(d2.CampusIDs) {
		t.Errorf("duplicate grant changed decision: %+v vs %+v", d1, d2)
	}
}

func TestEvaluator_SuperAdminRequiresGlobalGrant(t *testing.T) {
	e := newTestEvaluator(map[string][]Grant{
		"global": {{Role: models.RoleSuperAdmin, Scope: GlobalScope()}},
		"scoped": {{Role: models.RoleSuperAdmin, Scope: CampusScope(5)}},
	})
	required := []models.RoleName{models.RoleSuperAdmin}

	d, err := e.Authorize(context.Background(), &Subject{ID: "global"}, required, nil)
	if err != nil || !d.Allowed || !d.AllCampuses {
		t.Fatalf("global super_admin: want allow-everywhere, got %+v, %v", d, err)
	}

	// A campus-scoped super_admin row never satisfies a super_admin check,
	// not even for its own campus.
	d, err = e.Authorize(context.Background(), &Subject{ID: "scoped"}, required, nil)
	if d.Allowed || !IsDenied(err) {
		t.Errorf("scoped super_admin without target: want deny, got %+v, %v", d, err)
	}
}

func TestEvaluator_ConcreteTeacherScenario(t *testing.T) {
	e := newTestEvaluator(map[string][]Grant{
		"S": {{Role: models.RoleTeacher, Scope: CampusScope(3)}},
	})
	required := []models.RoleName{models.RoleTeacher, models.RoleSuperAdmin}

	d, err := e.Authorize(context.Background(), &Subject{ID: "S"}, required, campus(3))
	if err != nil || !d.Allowed {
		t.Fatalf("own campus: want allow, got %+v, %v", d, err)
	}
	if d.AllCampuses || len(d.CampusIDs) != 1 || d.CampusIDs[0] != 3 {
		t.Errorf("want effective campuses {3}, got %+v", d)
	}

	d, _ = e.Authorize(context.Background(), &Subject{ID: "S"}, required, campus(5))
	if d.Allowed {
		t.Errorf("foreign campus: want deny, got %+v", d)
	}

	d, _ = e.Authorize(context.Background(), &Subject{ID: "S"},
		[]models.RoleName{models.RoleStudent}, campus(3))
	if d.Allowed {
		t.Errorf("role outside required set: want deny, got %+v", d)
	}
}

func TestEvaluator_AuthOnlyCheck(t *testing.T) {
	e := newTestEvaluator(map[string][]Grant{
		"s": {{Role: models.RoleStudent, Scope: CampusScope(2)}},
	})

	d, err := e.Authorize(context.Background(), &Subject{ID: "s"}, nil, nil)
	if err != nil || !d.Allowed {
		t.Fatalf("subject with a role must pass auth-only check, got %+v, %v", d, err)
	}
	if !d.PermitsCampus(2) || d.PermitsCampus(3) {
		t.Errorf("auth-only decision should narrow to held campuses, got %+v", d)
	}
}

func TestEvaluator_MissingSubject(t *testing.T) {
	e := newTestEvaluator(nil)

	_, err := e.Authorize(context.Background(), nil, []models.RoleName{models.RoleStudent}, nil)
	if !errors.Is(err, ErrAuthenticationRequired) {
		t.Errorf("nil subject: want ErrAuthenticationRequired, got %v", err)
	}

	_, err = e.Authorize(context.Background(), &Subject{}, nil, nil)
	if !errors.Is(err, ErrAuthenticationRequired) {
		t.Errorf("empty subject id: want ErrAuthenticationRequired, got %v", err)
	}
}

func TestEvaluator_StoreFailureIsNotDeny(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	e := NewEvaluator(&stubGrantSource{err: errors.New("connection refused")}, logger)

	_, err := e.Authorize(context.Background(), &Subject{ID: "s"},
		[]models.RoleName{models.RoleStudent}, nil)

	var loadErr *GrantLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("want GrantLoadError, got %v", err)
	}
	if IsDenied(err) {
		t.Error("store failure must not be coerced into a denial")
	}
}

func TestEvaluator_InvalidScopeRequest(t *testing.T) {
	e := newTestEvaluator(map[string][]Grant{
		"root": {{Role: models.RoleSuperAdmin, Scope: GlobalScope()}},
	})

	// Declaring a campus target for a set containing only global-only roles
	// is a route-table bug, surfaced as its own error type.
	_, err := e.Authorize(context.Background(), &Subject{ID: "root"},
		[]models.RoleName{models.RoleSuperAdmin}, campus(4))

	var scopeErr *InvalidScopeError
	if !errors.As(err, &scopeErr) {
		t.Fatalf("want InvalidScopeError, got %v", err)
	}

	// Mixed sets are fine: the campus target applies to the non-global roles.
	d, err := e.Authorize(context.Background(), &Subject{ID: "root"},
		[]models.RoleName{models.RoleTeacher, models.RoleSuperAdmin}, campus(4))
	if err != nil || !d.Allowed {
		t.Errorf("mixed required set: want allow via global super_admin, got %+v, %v", d, err)
	}
}

func TestEvaluator_MultipleCampusGrantsUnion(t *testing.T) {
	e := newTestEvaluator(map[string][]Grant{
		"multi": {
			{Role: models.RoleAcademicAdmin, Scope: CampusScope(1)},
			{Role: models.RoleAcademicAdmin, Scope: CampusScope(2)},
			{Role: models.RoleStudent, Scope: CampusScope(9)},
		},
	})

	d, err := e.Authorize(context.Background(), &Subject{ID: "multi"},
		[]models.RoleName{models.RoleAcademicAdmin}, nil)
	if err != nil || !d.Allowed {
		t.Fatalf("want allow, got %+v, %v", d, err)
	}
	if !d.PermitsCampus(1) || !d.PermitsCampus(2) {
		t.Errorf("want campuses 1 and 2 visible, got %+v", d)
	}
	if d.PermitsCampus(9) {
		t.Errorf("student grant must not widen an academic_admin check, got %+v", d)
	}
}
