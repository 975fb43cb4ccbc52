package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/utils"
)

type ProviderRepository interface {
	Create(ctx context.Context, profile *models.ProviderProfile) error
	GetByUserID(ctx context.Context, userID uint) (*models.ProviderProfile, error)
	Update(ctx context.Context, profile *models.ProviderProfile) error
	SetVerified(ctx context.Context, userID uint, verified bool) error
	Delete(ctx context.Context, userID uint) error
	// ListVerified returns verified profiles in insertion order with their
	// rating projections filled in.
	ListVerified(ctx context.Context) ([]models.ProviderProfile, error)
	ListPending(ctx context.Context) ([]models.ProviderProfile, error)
}

type GormProviderRepository struct {
	db *gorm.DB
}

func NewGormProviderRepository(db *gorm.DB) *GormProviderRepository {
	return &GormProviderRepository{db: db}
}

func (r *GormProviderRepository) Create(ctx context.Context, profile *models.ProviderProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *GormProviderRepository) GetByUserID(ctx context.Context, userID uint) (*models.ProviderProfile, error) {
	var p models.ProviderProfile
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Subscription").
		Where("user_id = ?", userID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &utils.NotFoundError{Resource: "provider"}
		}
		return nil, err
	}
	if err := r.fillRatings(ctx, []*models.ProviderProfile{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProviderRepository) Update(ctx context.Context, profile *models.ProviderProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *GormProviderRepository) SetVerified(ctx context.Context, userID uint, verified bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.ProviderProfile{}).
		Where("user_id = ?", userID).
		Update("verified", verified)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &utils.NotFoundError{Resource: "provider"}
	}
	return nil
}

func (r *GormProviderRepository) Delete(ctx context.Context, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.ProviderProfile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &utils.NotFoundError{Resource: "provider"}
	}
	return nil
}

func (r *GormProviderRepository) ListVerified(ctx context.Context) ([]models.ProviderProfile, error) {
	return r.list(ctx, true)
}

func (r *GormProviderRepository) ListPending(ctx context.Context) ([]models.ProviderProfile, error) {
	return r.list(ctx, false)
}

func (r *GormProviderRepository) list(ctx context.Context, verified bool) ([]models.ProviderProfile, error) {
	var profiles []models.ProviderProfile
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Subscription").
		Where("verified = ?", verified).
		Order("id asc").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	refs := make([]*models.ProviderProfile, len(profiles))
	for i := range profiles {
		refs[i] = &profiles[i]
	}
	if err := r.fillRatings(ctx, refs); err != nil {
		return nil, err
	}
	return profiles, nil
}

// fillRatings computes the rating projections from the reviews table in one
// grouped query.
func (r *GormProviderRepository) fillRatings(ctx context.Context, profiles []*models.ProviderProfile) error {
	if len(profiles) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}

	var rows []struct {
		ProviderID uint
		AvgRating  float64
		Total      int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("provider_id, COALESCE(AVG(rating), 0) as avg_rating, COUNT(*) as total").
		Where("provider_id IN ?", ids).
		Group("provider_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	byProvider := make(map[uint]struct {
		avg   float64
		count int64
	}, len(rows))
	for _, row := range rows {
		byProvider[row.ProviderID] = struct {
			avg   float64
			count int64
		}{row.AvgRating, row.Total}
	}
	for _, p := range profiles {
		if agg, ok := byProvider[p.UserID]; ok {
			p.Rating = agg.avg
			p.ReviewCount = int(agg.count)
		}
	}
	return nil
}
