package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/campus-admin-service/internal/validator"
)

// Re-export so handlers can errors.As on service results directly.
type ValidationErrors = validator.ValidationErrors

// Sentinel errors for not-found and state conflicts
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrRoleNotFound         = errors.New("role not found")
	ErrCampusNotFound       = errors.New("campus not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrSectionNotFound      = errors.New("section not found")
	ErrEnrollmentNotFound   = errors.New("enrollment not found")
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrDocumentNotFound     = errors.New("document request not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrThreadNotFound       = errors.New("chat thread not found")

	ErrSectionFull        = errors.New("section is at capacity")
	ErrAlreadyEnrolled    = errors.New("student already enrolled in section")
	ErrEnrollmentInactive = errors.New("enrollment is not active")
	ErrGradeFinalized     = errors.New("grade is finalized")
	ErrInvoiceNotPayable  = errors.New("invoice cannot accept payments")
	ErrThreadClosed       = errors.New("chat thread is closed")
	ErrCampusInactive     = errors.New("campus is inactive")
	ErrRoleSeedMismatch   = errors.New("seeded roles do not match the known role set")
)

// BusinessRuleError describes a domain rule violation with context.
type BusinessRuleError struct {
	Rule    string
	Message string
	Context map[string]interface{}
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message}
}

// PermissionError is a resource-level denial computed inside a service
// (ownership checks), distinct from the route-level authorization gate.
type PermissionError struct {
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s %s (%s)", e.Action, e.Resource, e.Reason)
}

func NewPermissionError(resource, action, reason string) *PermissionError {
	return &PermissionError{Resource: resource, Action: action, Reason: reason}
}
