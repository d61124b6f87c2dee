package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
)

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) repositories.ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateThread(ctx context.Context, tx *gorm.DB, thread *models.ChatThread) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(thread).Error; err != nil {
		return handleDBError(err, "create chat thread")
	}
	return nil
}

func (r *chatRepository) GetThread(ctx context.Context, tx *gorm.DB, id uint) (*models.ChatThread, error) {
	db := getDB(r.db, tx)
	var thread models.ChatThread
	if err := db.WithContext(ctx).
		Preload("Opener").
		Preload("Campus").
		First(&thread, id).Error; err != nil {
		return nil, handleDBError(err, "get chat thread")
	}
	return &thread, nil
}

func (r *chatRepository) GetThreadWithMessages(ctx context.Context, tx *gorm.DB, id uint) (*models.ChatThread, error) {
	db := getDB(r.db, tx)
	var thread models.ChatThread
	if err := db.WithContext(ctx).
		Preload("Opener").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("chat_messages.created_at ASC")
		}).
		Preload("Messages.Sender").
		First(&thread, id).Error; err != nil {
		return nil, handleDBError(err, "get chat thread with messages")
	}
	return &thread, nil
}

func (r *chatRepository) UpdateThread(ctx context.Context, tx *gorm.DB, thread *models.ChatThread) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(thread).Error; err != nil {
		return handleDBError(err, "update chat thread")
	}
	return nil
}

func (r *chatRepository) ListThreads(ctx context.Context, tx *gorm.DB, filters repositories.ChatThreadFilters) ([]*models.ChatThread, int64, error) {
	db := getDB(r.db, tx)
	var threads []*models.ChatThread
	var total int64

	query := db.WithContext(ctx).Model(&models.ChatThread{}).Preload("Opener")

	if filters.OpenedBy != nil {
		query = query.Where("opened_by = ?", *filters.OpenedBy)
	}
	if filters.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filters.AssignedTo)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	query = applyCampusScope(query, "campus_id", filters.CampusIDs)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count chat threads")
	}

	limit := normalizeLimit(filters.Limit)
	if err := query.
		Order("updated_at DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&threads).Error; err != nil {
		return nil, 0, handleDBError(err, "list chat threads")
	}

	return threads, total, nil
}

func (r *chatRepository) AddMessage(ctx context.Context, tx *gorm.DB, msg *models.ChatMessage) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(msg).Error; err != nil {
		return handleDBError(err, "add chat message")
	}
	// Bump the thread so inbox ordering follows activity
	if err := db.WithContext(ctx).
		Model(&models.ChatThread{}).
		Where("id = ?", msg.ThreadID).
		Update("updated_at", gorm.Expr("NOW()")).Error; err != nil {
		return handleDBError(err, "touch chat thread")
	}
	return nil
}

func (r *chatRepository) ListMessages(ctx context.Context, tx *gorm.DB, threadID uint, limit, offset int) ([]*models.ChatMessage, int64, error) {
	db := getDB(r.db, tx)
	var messages []*models.ChatMessage
	var total int64

	query := db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("thread_id = ?", threadID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count chat messages")
	}

	if err := query.
		Preload("Sender").
		Order("created_at ASC").
		Limit(normalizeLimit(limit)).
		Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, 0, handleDBError(err, "list chat messages")
	}

	return messages, total, nil
}
