package authz

import "testing"

func TestScopeCovers(t *testing.T) {
	seven := uint(7)
	nine := uint(9)

	tests := []struct {
		name   string
		scope  Scope
		target *uint
		want   bool
	}{
		{"global covers nil target", GlobalScope(), nil, true},
		{"global covers any campus", GlobalScope(), &seven, true},
		{"campus covers own campus", CampusScope(7), &seven, true},
		{"campus does not cover other campus", CampusScope(7), &nine, false},
		{"campus covers unscoped operation", CampusScope(7), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Covers(tt.target); got != tt.want {
				t.Errorf("Covers() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScopeCampusID(t *testing.T) {
	if _, ok := GlobalScope().CampusID(); ok {
		t.Error("global scope must not report a campus id")
	}
	id, ok := CampusScope(12).CampusID()
	if !ok || id != 12 {
		t.Errorf("CampusID() = %d, %v, want 12, true", id, ok)
	}
	if GlobalScope().String() != "global" || CampusScope(3).String() != "campus:3" {
		t.Error("unexpected scope string rendering")
	}
}
