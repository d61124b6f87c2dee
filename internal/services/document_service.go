package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
	"github.com/SAP-F-2025/campus-admin-service/internal/validator"
)

type documentService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    utils.Logger
}

func NewDocumentService(repo repositories.Repository, v *validator.Validator, logger utils.Logger) DocumentService {
	return &documentService{repo: repo, validator: v, logger: logger}
}

// CreateRequest opens a paperwork request for the calling student. The
// request is bound to the student's home campus; students without one
// cannot file requests.
func (s *documentService) CreateRequest(ctx context.Context, studentID string, req DocumentRequestCreate) (*models.DocumentRequest, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	student, err := s.repo.User().GetByID(ctx, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting student: %w", err)
	}
	if student.HomeCampusID == nil {
		return nil, NewBusinessRuleError("no_home_campus",
			"document requests require a home campus")
	}

	copies := req.Copies
	if copies == 0 {
		copies = 1
	}

	request := &models.DocumentRequest{
		StudentID: studentID,
		CampusID:  *student.HomeCampusID,
		Type:      req.Type,
		Status:    models.DocumentRequested,
		Copies:    copies,
		Note:      req.Note,
	}
	if err := s.repo.DocumentRequest().Create(ctx, nil, request); err != nil {
		return nil, fmt.Errorf("creating document request: %w", err)
	}

	s.logger.Info("document request created",
		"request_id", request.ID, "student_id", studentID, "type", request.Type)
	return request, nil
}

func (s *documentService) GetByID(ctx context.Context, id uint) (*models.DocumentRequest, error) {
	request, err := s.repo.DocumentRequest().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("getting document request: %w", err)
	}
	return request, nil
}

func (s *documentService) List(ctx context.Context, decision authz.Decision, filters repositories.DocumentRequestFilters) (*ListResponse[*models.DocumentRequest], error) {
	filters.CampusIDs = narrowCampuses(decision, filters.CampusIDs)

	requests, total, err := s.repo.DocumentRequest().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("listing document requests: %w", err)
	}
	return &ListResponse[*models.DocumentRequest]{Items: requests, Total: total, Limit: filters.Limit, Offset: filters.Offset}, nil
}

// validDocumentTransitions is the allowed status graph. Terminal states
// have no outgoing edges.
var validDocumentTransitions = map[models.DocumentRequestStatus][]models.DocumentRequestStatus{
	models.DocumentRequested:  {models.DocumentProcessing, models.DocumentRejected},
	models.DocumentProcessing: {models.DocumentReady, models.DocumentRejected},
	models.DocumentReady:      {models.DocumentDelivered},
}

func documentTransitionAllowed(from, to models.DocumentRequestStatus) bool {
	for _, next := range validDocumentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *documentService) UpdateStatus(ctx context.Context, handlerID string, id uint, req DocumentStatusRequest) (*models.DocumentRequest, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if req.Status == models.DocumentRejected && (req.RejectReason == nil || *req.RejectReason == "") {
		return nil, NewBusinessRuleError("reject_reason_required",
			"a rejection must carry a reason")
	}

	request, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !documentTransitionAllowed(request.Status, req.Status) {
		return nil, NewBusinessRuleError("invalid_status_transition",
			fmt.Sprintf("cannot move request from %s to %s", request.Status, req.Status))
	}

	now := time.Now().UTC()
	request.Status = req.Status
	request.RejectReason = req.RejectReason
	request.HandledBy = &handlerID
	request.HandledAt = &now

	if err := s.repo.DocumentRequest().Update(ctx, nil, request); err != nil {
		return nil, fmt.Errorf("updating document request: %w", err)
	}

	s.logger.Info("document request updated",
		"request_id", id, "status", req.Status, "handled_by", handlerID)
	return request, nil
}
