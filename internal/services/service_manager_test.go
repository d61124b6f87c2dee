package services

import (
	"reflect"
	"testing"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
)

func TestNarrowCampuses(t *testing.T) {
	tests := []struct {
		name      string
		decision  authz.Decision
		requested []uint
		want      []uint
	}{
		{
			name:      "GlobalDecisionKeepsRequestedFilter",
			decision:  authz.AllowEverywhere(),
			requested: []uint{5},
			want:      []uint{5},
		},
		{
			name:     "GlobalDecisionNoFilter",
			decision: authz.AllowEverywhere(),
			want:     nil,
		},
		{
			name:     "CampusDecisionBecomesFilter",
			decision: authz.AllowCampuses(3, 7),
			want:     []uint{3, 7},
		},
		{
			name:      "RequestedIntersectsDecision",
			decision:  authz.AllowCampuses(3, 7),
			requested: []uint{7, 9},
			want:      []uint{7},
		},
		{
			name:      "DisjointRequestYieldsImpossibleFilter",
			decision:  authz.AllowCampuses(3),
			requested: []uint{9},
			want:      []uint{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := narrowCampuses(tt.decision, tt.requested)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("narrowCampuses() = %v, want %v", got, tt.want)
			}
		})
	}
}
