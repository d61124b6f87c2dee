package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/events"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
	"github.com/SAP-F-2025/campus-admin-service/internal/validator"
)

type announcementService struct {
	repo      repositories.Repository
	validator *validator.Validator
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewAnnouncementService(repo repositories.Repository, v *validator.Validator, publisher events.EventPublisher, logger utils.Logger) AnnouncementService {
	return &announcementService{repo: repo, validator: v, publisher: publisher, logger: logger}
}

func (s *announcementService) Create(ctx context.Context, actorID string, req AnnouncementCreateRequest) (*models.Announcement, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	if req.CampusID != nil {
		exists, err := s.repo.Campus().ExistsByID(ctx, *req.CampusID)
		if err != nil {
			return nil, fmt.Errorf("checking campus: %w", err)
		}
		if !exists {
			return nil, ErrCampusNotFound
		}
	}

	audience := req.Audience
	if audience == "" {
		audience = models.AudienceAll
	}

	announcement := &models.Announcement{
		Title:     req.Title,
		Body:      req.Body,
		Audience:  audience,
		CampusID:  req.CampusID,
		Pinned:    req.Pinned,
		ExpiresAt: req.ExpiresAt,
		CreatedBy: actorID,
	}
	if err := s.repo.Announcement().Create(ctx, nil, announcement); err != nil {
		return nil, fmt.Errorf("creating announcement: %w", err)
	}

	s.logger.Info("announcement created", "announcement_id", announcement.ID, "actor_id", actorID)
	return announcement, nil
}

func (s *announcementService) GetByID(ctx context.Context, id uint) (*models.Announcement, error) {
	announcement, err := s.repo.Announcement().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("getting announcement: %w", err)
	}
	return announcement, nil
}

func (s *announcementService) List(ctx context.Context, decision authz.Decision, filters repositories.AnnouncementFilters) (*ListResponse[*models.Announcement], error) {
	filters.CampusIDs = narrowCampuses(decision, filters.CampusIDs)

	announcements, total, err := s.repo.Announcement().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("listing announcements: %w", err)
	}
	return &ListResponse[*models.Announcement]{Items: announcements, Total: total, Limit: filters.Limit, Offset: filters.Offset}, nil
}

func (s *announcementService) Update(ctx context.Context, id uint, req AnnouncementUpdateRequest) (*models.Announcement, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	announcement, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		announcement.Title = *req.Title
	}
	if req.Body != nil {
		announcement.Body = *req.Body
	}
	if req.Pinned != nil {
		announcement.Pinned = *req.Pinned
	}
	if req.ExpiresAt != nil {
		announcement.ExpiresAt = req.ExpiresAt
	}

	if err := s.repo.Announcement().Update(ctx, nil, announcement); err != nil {
		return nil, fmt.Errorf("updating announcement: %w", err)
	}
	return announcement, nil
}

// Publish makes the announcement visible and notifies downstream
// consumers. Publishing an already-published announcement is a no-op.
func (s *announcementService) Publish(ctx context.Context, id uint) (*models.Announcement, error) {
	announcement, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if announcement.PublishedAt != nil && !announcement.PublishedAt.After(now) {
		return announcement, nil
	}

	announcement.PublishedAt = &now
	if err := s.repo.Announcement().Update(ctx, nil, announcement); err != nil {
		return nil, fmt.Errorf("publishing announcement: %w", err)
	}

	if s.publisher != nil {
		event := events.AnnouncementPublishedEvent{
			AnnouncementID: announcement.ID,
			Title:          announcement.Title,
			Audience:       string(announcement.Audience),
			CampusID:       announcement.CampusID,
			PublishedAt:    now,
		}
		if err := s.publisher.Publish(ctx, events.TopicAnnouncement, event); err != nil {
			s.logger.Error("failed to publish announcement event",
				"announcement_id", announcement.ID, "error", err)
		}
	}

	s.logger.Info("announcement published", "announcement_id", announcement.ID)
	return announcement, nil
}

func (s *announcementService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Announcement().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("deleting announcement: %w", err)
	}
	s.logger.Info("announcement deleted", "announcement_id", id)
	return nil
}
