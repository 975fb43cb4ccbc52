package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/utils"
)

type AnnouncementRepository interface {
	Create(ctx context.Context, a *models.Announcement) error
	GetByID(ctx context.Context, id uint) (*models.Announcement, error)
	// Update writes the announcement only if its version matches the stored
	// one, then bumps the version.
	Update(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id uint) error
	ListByProvider(ctx context.Context, providerID uint) ([]models.Announcement, error)
	// ListActive is the public feed: active announcements from verified
	// providers only.
	ListActive(ctx context.Context, limit, offset int) ([]models.Announcement, int64, error)
}

type GormAnnouncementRepository struct {
	db *gorm.DB
}

func NewGormAnnouncementRepository(db *gorm.DB) *GormAnnouncementRepository {
	return &GormAnnouncementRepository{db: db}
}

func (r *GormAnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *GormAnnouncementRepository) GetByID(ctx context.Context, id uint) (*models.Announcement, error) {
	var a models.Announcement
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &utils.NotFoundError{Resource: "announcement"}
		}
		return nil, err
	}
	return &a, nil
}

func (r *GormAnnouncementRepository) Update(ctx context.Context, a *models.Announcement) error {
	res := r.db.WithContext(ctx).
		Model(&models.Announcement{}).
		Where("id = ? AND version = ?", a.ID, a.Version).
		Updates(map[string]any{
			"title":        a.Title,
			"description":  a.Description,
			"category":     a.Category,
			"hourly_rate":  a.HourlyRate,
			"location":     a.Location,
			"availability": a.Availability,
			"services":     a.Services,
			"is_active":    a.IsActive,
			"version":      a.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var exists int64
		r.db.WithContext(ctx).Model(&models.Announcement{}).Where("id = ?", a.ID).Count(&exists)
		if exists == 0 {
			return &utils.NotFoundError{Resource: "announcement"}
		}
		return &utils.ConcurrentModificationError{Resource: "announcement"}
	}
	a.Version++
	return nil
}

func (r *GormAnnouncementRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Announcement{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &utils.NotFoundError{Resource: "announcement"}
	}
	return nil
}

func (r *GormAnnouncementRepository) ListByProvider(ctx context.Context, providerID uint) ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&announcements).Error
	return announcements, err
}

func (r *GormAnnouncementRepository) ListActive(ctx context.Context, limit, offset int) ([]models.Announcement, int64, error) {
	var (
		announcements []models.Announcement
		total         int64
	)
	// Raw joins bypass GORM's soft-delete scoping, so rejected (soft-deleted)
	// profiles must be excluded here explicitly.
	verifiedJoin := "JOIN provider_profiles ON provider_profiles.user_id = announcements.provider_id AND provider_profiles.verified = ? AND provider_profiles.deleted_at IS NULL"
	q := r.db.WithContext(ctx).Model(&models.Announcement{}).
		Joins(verifiedJoin, true).
		Where("announcements.is_active = ?", true)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Preload("Provider", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, avatar_url")
		}).
		Joins(verifiedJoin, true).
		Where("announcements.is_active = ?", true).
		Order("announcements.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&announcements).Error
	return announcements, total, err
}
