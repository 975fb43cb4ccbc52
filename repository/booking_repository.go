package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/utils"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uint) (*models.Booking, error)
	Save(ctx context.Context, booking *models.Booking) error
	ListByClient(ctx context.Context, clientID uint, limit, offset int) ([]models.Booking, int64, error)
	ListByProvider(ctx context.Context, providerID uint, limit, offset int) ([]models.Booking, int64, error)
	// ListForUserWithStatus returns bookings where the user is either party,
	// restricted to the given statuses. Backs conversation derivation.
	ListForUserWithStatus(ctx context.Context, userID uint, statuses []models.BookingStatus) ([]models.Booking, error)
	CountByStatus(ctx context.Context, providerID uint, status models.BookingStatus) (int64, error)
	SumPriceByPayment(ctx context.Context, providerID uint, payment models.PaymentStatus) (float64, error)
	// ListConfirmedBetween returns confirmed bookings whose slot falls inside
	// the window. Backs the reminder cron.
	ListConfirmedBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error)
}

type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).
		Preload("Provider").
		Preload("Client").
		First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &utils.NotFoundError{Resource: "booking"}
		}
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) Save(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

func (r *GormBookingRepository) ListByClient(ctx context.Context, clientID uint, limit, offset int) ([]models.Booking, int64, error) {
	return r.listBy(ctx, "client_id = ?", clientID, limit, offset)
}

func (r *GormBookingRepository) ListByProvider(ctx context.Context, providerID uint, limit, offset int) ([]models.Booking, int64, error) {
	return r.listBy(ctx, "provider_id = ?", providerID, limit, offset)
}

func (r *GormBookingRepository) listBy(ctx context.Context, cond string, id uint, limit, offset int) ([]models.Booking, int64, error) {
	var (
		bookings []models.Booking
		total    int64
	)
	if err := r.db.WithContext(ctx).Model(&models.Booking{}).Where(cond, id).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Preload("Provider").
		Preload("Client").
		Where(cond, id).
		Order("date desc, time_slot desc").
		Limit(limit).
		Offset(offset).
		Find(&bookings).Error
	return bookings, total, err
}

func (r *GormBookingRepository) ListForUserWithStatus(ctx context.Context, userID uint, statuses []models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Provider").
		Preload("Client").
		Where("(client_id = ? OR provider_id = ?) AND status IN ?", userID, userID, statuses).
		Order("updated_at desc").
		Find(&bookings).Error
	return bookings, err
}

func (r *GormBookingRepository) CountByStatus(ctx context.Context, providerID uint, status models.BookingStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("provider_id = ? AND status = ?", providerID, status).
		Count(&count).Error
	return count, err
}

func (r *GormBookingRepository) SumPriceByPayment(ctx context.Context, providerID uint, payment models.PaymentStatus) (float64, error) {
	var result struct {
		Total float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("COALESCE(SUM(price), 0) as total").
		Where("provider_id = ? AND payment_status = ?", providerID, payment).
		Scan(&result).Error
	return result.Total, err
}

func (r *GormBookingRepository) ListConfirmedBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Provider").
		Preload("Client").
		Where("status = ? AND date BETWEEN ? AND ?", models.StatusConfirmed, from, to).
		Find(&bookings).Error
	return bookings, err
}
