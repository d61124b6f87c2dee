package validator

import (
	"testing"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
)

func TestValidator_RoleName(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		role    models.RoleName
		wantErr bool
	}{
		{"known role", models.RoleFinanceAdmin, false},
		{"legacy-looking literal", "admin", true},
		{"typo", "finance_admn", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := RoleGrantRequest{Role: tt.role}
			errs := v.Validate(&req)
			if (errs != nil) != tt.wantErr {
				t.Errorf("Validate(%q) errs = %v, wantErr %v", tt.role, errs, tt.wantErr)
			}
		})
	}
}

func TestValidator_CampusCode(t *testing.T) {
	v := New()

	valid := CampusCreateRequest{Name: "North Campus", Code: "HN01"}
	if errs := v.Validate(&valid); errs != nil {
		t.Errorf("valid campus rejected: %v", errs)
	}

	invalid := CampusCreateRequest{Name: "North Campus", Code: "hanoi campus"}
	if errs := v.Validate(&invalid); errs == nil {
		t.Error("lowercase code with space must be rejected")
	}
}

func TestValidator_Semester(t *testing.T) {
	v := New()

	for _, semester := range []string{"2025A", "2025-FALL", "2026B"} {
		req := SectionCreateRequest{Number: "01", Semester: semester, Capacity: 40, TeacherID: "t-1"}
		if errs := v.Validate(&req); errs != nil {
			t.Errorf("semester %q rejected: %v", semester, errs)
		}
	}

	req := SectionCreateRequest{Number: "01", Semester: "fall next year", Capacity: 40, TeacherID: "t-1"}
	if errs := v.Validate(&req); errs == nil {
		t.Error("free-form semester must be rejected")
	}
}

func TestValidator_InvoiceItems(t *testing.T) {
	v := New()

	req := InvoiceCreateRequest{StudentID: "s-1", CampusID: 1}
	if errs := v.Validate(&req); errs == nil {
		t.Error("invoice without items must be rejected")
	}

	req.Items = []InvoiceItemRequest{{Label: "Tuition 2025A", Amount: 1200000, Quantity: 1}}
	if errs := v.Validate(&req); errs != nil {
		t.Errorf("valid invoice rejected: %v", errs)
	}
}
