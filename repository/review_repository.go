package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/proenpoche/pro-en-poche/models"
)

type ReviewRepository interface {
	// CreateAndRelease inserts the review and releases the booking's held
	// payment in one transaction.
	CreateAndRelease(ctx context.Context, review *models.Review) error
	ExistsForBooking(ctx context.Context, bookingID uint) (bool, error)
	ListByProvider(ctx context.Context, providerID uint, limit, offset int) ([]models.Review, int64, error)
	// AggregateByProvider returns the arithmetic mean rating and review count.
	AggregateByProvider(ctx context.Context, providerID uint) (float64, int64, error)
}

type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) CreateAndRelease(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		// held -> released; releasing a released payment is a no-op.
		return tx.Model(&models.Booking{}).
			Where("id = ? AND payment_status IN ?", review.BookingID,
				[]models.PaymentStatus{models.PaymentPending, models.PaymentHeld}).
			Update("payment_status", models.PaymentReleased).
			Error
	})
}

func (r *GormReviewRepository) ExistsForBooking(ctx context.Context, bookingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormReviewRepository) ListByProvider(ctx context.Context, providerID uint, limit, offset int) ([]models.Review, int64, error) {
	var (
		reviews []models.Review
		total   int64
	)
	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("provider_id = ?", providerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Preload("Client", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, avatar_url, created_at")
		}).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *GormReviewRepository) AggregateByProvider(ctx context.Context, providerID uint) (float64, int64, error) {
	var result struct {
		AvgRating float64
		Total     int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg_rating, COUNT(*) as total").
		Where("provider_id = ?", providerID).
		Scan(&result).Error
	return result.AvgRating, result.Total, err
}
