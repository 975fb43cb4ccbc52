package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/proenpoche/pro-en-poche/models"
)

type SettingsRepository interface {
	// Get returns the singleton settings row, creating it on first access.
	Get(ctx context.Context) (*models.SiteSettings, error)
	Update(ctx context.Context, settings *models.SiteSettings) error
}

type GormSettingsRepository struct {
	db *gorm.DB
}

func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

func (r *GormSettingsRepository) Get(ctx context.Context) (*models.SiteSettings, error) {
	var s models.SiteSettings
	err := r.db.WithContext(ctx).Order("id asc").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s = models.SiteSettings{PlatformName: "Pro En Poche"}
		if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
			return nil, err
		}
		return &s, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormSettingsRepository) Update(ctx context.Context, settings *models.SiteSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
