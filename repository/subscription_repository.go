package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/utils"
)

type SubscriptionRepository interface {
	// Replace swaps the provider's subscription wholesale; no history is kept.
	Replace(ctx context.Context, sub *models.Subscription) error
	GetByProvider(ctx context.Context, providerID uint) (*models.Subscription, error)
	// DeactivateExpired flips is_active off for subscriptions past their end
	// date and returns how many rows changed.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type GormSubscriptionRepository struct {
	db *gorm.DB
}

func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

func (r *GormSubscriptionRepository) Replace(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("provider_id = ?", sub.ProviderID).
			Delete(&models.Subscription{}).Error; err != nil {
			return err
		}
		return tx.Create(sub).Error
	})
}

func (r *GormSubscriptionRepository) GetByProvider(ctx context.Context, providerID uint) (*models.Subscription, error) {
	var s models.Subscription
	if err := r.db.WithContext(ctx).Where("provider_id = ?", providerID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &utils.NotFoundError{Resource: "subscription"}
		}
		return nil, err
	}
	return &s, nil
}

func (r *GormSubscriptionRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("is_active = ? AND end_date < ?", true, now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}
