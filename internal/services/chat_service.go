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

type chatService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    utils.Logger
}

func NewChatService(repo repositories.Repository, v *validator.Validator, logger utils.Logger) ChatService {
	return &chatService{repo: repo, validator: v, logger: logger}
}

// OpenThread starts a support conversation with its first message.
func (s *chatService) OpenThread(ctx context.Context, openerID string, req ThreadCreateRequest) (*models.ChatThread, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	exists, err := s.repo.Campus().ExistsByID(ctx, req.CampusID)
	if err != nil {
		return nil, fmt.Errorf("checking campus: %w", err)
	}
	if !exists {
		return nil, ErrCampusNotFound
	}

	var thread *models.ChatThread
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		thread = &models.ChatThread{
			Subject:  req.Subject,
			OpenedBy: openerID,
			CampusID: req.CampusID,
			Status:   models.ThreadOpen,
		}
		if err := txRepo.Chat().CreateThread(ctx, nil, thread); err != nil {
			return fmt.Errorf("creating thread: %w", err)
		}
		msg := &models.ChatMessage{
			ThreadID: thread.ID,
			SenderID: openerID,
			Body:     req.Body,
		}
		return txRepo.Chat().AddMessage(ctx, nil, msg)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("chat thread opened",
		"thread_id", thread.ID, "opened_by", openerID, "campus_id", req.CampusID)
	return thread, nil
}

// GetThread returns the thread with messages. The opener always sees their
// own thread; anyone else needs campus visibility from the decision.
func (s *chatService) GetThread(ctx context.Context, requesterID string, decision authz.Decision, id uint) (*models.ChatThread, error) {
	thread, err := s.repo.Chat().GetThreadWithMessages(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrThreadNotFound
		}
		return nil, fmt.Errorf("getting thread: %w", err)
	}

	if thread.OpenedBy != requesterID && !decision.PermitsCampus(thread.CampusID) {
		return nil, NewPermissionError("thread", "read", "outside campus visibility")
	}
	return thread, nil
}

func (s *chatService) ListThreads(ctx context.Context, decision authz.Decision, filters repositories.ChatThreadFilters) (*ListResponse[*models.ChatThread], error) {
	filters.CampusIDs = narrowCampuses(decision, filters.CampusIDs)

	threads, total, err := s.repo.Chat().ListThreads(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("listing threads: %w", err)
	}
	return &ListResponse[*models.ChatThread]{Items: threads, Total: total, Limit: filters.Limit, Offset: filters.Offset}, nil
}

func (s *chatService) PostMessage(ctx context.Context, senderID string, decision authz.Decision, threadID uint, req MessageCreateRequest) (*models.ChatMessage, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	thread, err := s.repo.Chat().GetThread(ctx, nil, threadID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrThreadNotFound
		}
		return nil, fmt.Errorf("getting thread: %w", err)
	}
	if thread.Status == models.ThreadClosed {
		return nil, ErrThreadClosed
	}
	if thread.OpenedBy != senderID && !decision.PermitsCampus(thread.CampusID) {
		return nil, NewPermissionError("thread", "post", "outside campus visibility")
	}

	msg := &models.ChatMessage{
		ThreadID: threadID,
		SenderID: senderID,
		Body:     req.Body,
	}
	if err := s.repo.Chat().AddMessage(ctx, nil, msg); err != nil {
		return nil, fmt.Errorf("adding message: %w", err)
	}

	// A reply on a resolved thread reopens it.
	if thread.Status == models.ThreadResolved {
		thread.Status = models.ThreadOpen
		thread.ResolvedAt = nil
		if err := s.repo.Chat().UpdateThread(ctx, nil, thread); err != nil {
			return nil, fmt.Errorf("reopening thread: %w", err)
		}
	}
	return msg, nil
}

func (s *chatService) AssignThread(ctx context.Context, staffID string, threadID uint) (*models.ChatThread, error) {
	thread, err := s.repo.Chat().GetThread(ctx, nil, threadID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrThreadNotFound
		}
		return nil, fmt.Errorf("getting thread: %w", err)
	}
	if thread.Status == models.ThreadClosed {
		return nil, ErrThreadClosed
	}

	thread.AssignedTo = &staffID
	if err := s.repo.Chat().UpdateThread(ctx, nil, thread); err != nil {
		return nil, fmt.Errorf("assigning thread: %w", err)
	}

	s.logger.Info("chat thread assigned", "thread_id", threadID, "assigned_to", staffID)
	return thread, nil
}

func (s *chatService) CloseThread(ctx context.Context, threadID uint, resolved bool) (*models.ChatThread, error) {
	thread, err := s.repo.Chat().GetThread(ctx, nil, threadID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrThreadNotFound
		}
		return nil, fmt.Errorf("getting thread: %w", err)
	}

	now := time.Now().UTC()
	if resolved {
		thread.Status = models.ThreadResolved
		thread.ResolvedAt = &now
	} else {
		thread.Status = models.ThreadClosed
	}
	if err := s.repo.Chat().UpdateThread(ctx, nil, thread); err != nil {
		return nil, fmt.Errorf("closing thread: %w", err)
	}
	return thread, nil
}
