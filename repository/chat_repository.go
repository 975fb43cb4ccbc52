package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/proenpoche/pro-en-poche/models"
)

type ChatRepository interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	ListByBooking(ctx context.Context, bookingID uint) ([]models.ChatMessage, error)
	// MarkRead flags every message on the booking not authored by readerID.
	MarkRead(ctx context.Context, bookingID, readerID uint) error
	CountUnread(ctx context.Context, bookingID, readerID uint) (int64, error)
	LastMessage(ctx context.Context, bookingID uint) (*models.ChatMessage, error)
}

type GormChatRepository struct {
	db *gorm.DB
}

func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	return &GormChatRepository{db: db}
}

func (r *GormChatRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *GormChatRepository) ListByBooking(ctx context.Context, bookingID uint) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := r.db.WithContext(ctx).
		Preload("Sender", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, avatar_url")
		}).
		Where("booking_id = ?", bookingID).
		Order("created_at asc").
		Find(&msgs).Error
	return msgs, err
}

func (r *GormChatRepository) MarkRead(ctx context.Context, bookingID, readerID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("booking_id = ? AND sender_id != ? AND is_read = ?", bookingID, readerID, false).
		Update("is_read", true).
		Error
}

func (r *GormChatRepository) CountUnread(ctx context.Context, bookingID, readerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("booking_id = ? AND sender_id != ? AND is_read = ?", bookingID, readerID, false).
		Count(&count).Error
	return count, err
}

func (r *GormChatRepository) LastMessage(ctx context.Context, bookingID uint) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at desc").
		First(&msg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}
