package services

import (
	"testing"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
)

func TestDocumentTransitionAllowed(t *testing.T) {
	tests := []struct {
		name string
		from models.DocumentRequestStatus
		to   models.DocumentRequestStatus
		want bool
	}{
		{"RequestedToProcessing", models.DocumentRequested, models.DocumentProcessing, true},
		{"RequestedToRejected", models.DocumentRequested, models.DocumentRejected, true},
		{"RequestedToDelivered", models.DocumentRequested, models.DocumentDelivered, false},
		{"ProcessingToReady", models.DocumentProcessing, models.DocumentReady, true},
		{"ReadyToDelivered", models.DocumentReady, models.DocumentDelivered, true},
		{"ReadyToRejected", models.DocumentReady, models.DocumentRejected, false},
		{"DeliveredIsTerminal", models.DocumentDelivered, models.DocumentProcessing, false},
		{"RejectedIsTerminal", models.DocumentRejected, models.DocumentProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := documentTransitionAllowed(tt.from, tt.to); got != tt.want {
				t.Errorf("documentTransitionAllowed(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
