package services

import (
	"context"
	"fmt"
	"time"

	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/repository"
	"github.com/proenpoche/pro-en-poche/utils"
)

type BookingInput struct {
	ProviderID  uint      `json:"provider_id"`
	ServiceType string    `json:"service_type"`
	Date        time.Time `json:"date"`
	TimeSlot    string    `json:"time_slot"`
}

type BookingService struct {
	bookings  repository.BookingRepository
	providers repository.ProviderRepository
	users     repository.UserRepository
	notifier  Notifier

	now func() time.Time
}

func NewBookingService(
	bookings repository.BookingRepository,
	providers repository.ProviderRepository,
	users repository.UserRepository,
	notifier Notifier,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		providers: providers,
		users:     users,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Create books a provider for a client. Every new booking is auto-confirmed
// with its payment held; the price is always the provider's current hourly
// rate.
func (s *BookingService) Create(ctx context.Context, clientID uint, in BookingInput) (*models.Booking, error) {
	provider, err := s.providers.GetByUserID(ctx, in.ProviderID)
	if err != nil {
		return nil, err
	}
	if !provider.HasService(in.ServiceType) {
		return nil, &utils.ValidationError{
			Message: fmt.Sprintf("provider does not offer %q", in.ServiceType),
		}
	}
	if !in.Date.After(s.now()) {
		return nil, &utils.ValidationError{Message: "booking date must be in the future"}
	}
	if !models.IsValidTimeSlot(in.TimeSlot) {
		return nil, &utils.ValidationError{
			Message: fmt.Sprintf("time slot must be one of the hourly slots %s-%s",
				models.TimeSlots[0], models.TimeSlots[len(models.TimeSlots)-1]),
		}
	}

	booking := &models.Booking{
		ProviderID:    in.ProviderID,
		ClientID:      clientID,
		ServiceType:   in.ServiceType,
		Date:          in.Date,
		TimeSlot:      in.TimeSlot,
		Price:         provider.HourlyRate,
		Status:        models.StatusConfirmed,
		PaymentStatus: models.PaymentHeld,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.notifyBookingConfirmed(booking, provider)

	return booking, nil
}

// notifyBookingConfirmed mails both parties in the background. Delivery is
// best effort; the booking is already committed.
func (s *BookingService) notifyBookingConfirmed(booking *models.Booking, provider *models.ProviderProfile) {
	when := fmt.Sprintf("%s à %s", booking.Date.Format("2006-01-02"), booking.TimeSlot)

	client, err := s.users.GetByID(context.Background(), booking.ClientID)
	if err == nil && client.Email != "" {
		go s.notifier.Notify(context.Background(), client.Email,
			"Réservation confirmée",
			fmt.Sprintf("<p>Votre réservation de %s le %s est confirmée. Le paiement est retenu jusqu'à votre évaluation.</p>",
				booking.ServiceType, when))
	}
	if provider.User.Email != "" {
		go s.notifier.Notify(context.Background(), provider.User.Email,
			"Nouvelle réservation",
			fmt.Sprintf("<p>Nouvelle réservation de %s le %s.</p>", booking.ServiceType, when))
	}
}

// MarkComplete moves a confirmed booking to completed and stamps completedAt.
// The caller must be one of the booking's parties.
func (s *BookingService) MarkComplete(ctx context.Context, bookingID, actorID uint) (*models.Booking, error) {
	return s.transition(ctx, bookingID, actorID, models.StatusCompleted, nil)
}

// Cancel moves a confirmed booking to cancelled and refunds the held payment.
func (s *BookingService) Cancel(ctx context.Context, bookingID, actorID uint) (*models.Booking, error) {
	return s.transition(ctx, bookingID, actorID, models.StatusCancelled, func(b *models.Booking) {
		b.RefundPayment()
	})
}

func (s *BookingService) transition(
	ctx context.Context,
	bookingID, actorID uint,
	target models.BookingStatus,
	after func(*models.Booking),
) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(actorID) {
		return nil, &utils.ForbiddenError{Message: "only the booking's client or provider may do this"}
	}
	if err := booking.Transition(target); err != nil {
		return nil, &utils.ValidationError{Message: err.Error()}
	}
	if after != nil {
		after(booking)
	}
	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// GetForUser fetches a booking the user is a party of.
func (s *BookingService) GetForUser(ctx context.Context, bookingID, userID uint) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(userID) {
		return nil, &utils.ForbiddenError{Message: "not a party of this booking"}
	}
	return booking, nil
}

func (s *BookingService) ListForClient(ctx context.Context, clientID uint, limit, offset int) ([]models.Booking, int64, error) {
	return s.bookings.ListByClient(ctx, clientID, limit, offset)
}

func (s *BookingService) ListForProvider(ctx context.Context, providerID uint, limit, offset int) ([]models.Booking, int64, error) {
	return s.bookings.ListByProvider(ctx, providerID, limit, offset)
}

// DashboardStats summarizes a provider's bookings and escrow totals.
type DashboardStats struct {
	ConfirmedCount  int64   `json:"confirmed_count"`
	CompletedCount  int64   `json:"completed_count"`
	CancelledCount  int64   `json:"cancelled_count"`
	DisputedCount   int64   `json:"disputed_count"`
	HeldRevenue     float64 `json:"held_revenue"`
	ReleasedRevenue float64 `json:"released_revenue"`
}

func (s *BookingService) Dashboard(ctx context.Context, providerID uint) (*DashboardStats, error) {
	var stats DashboardStats
	var err error
	if stats.ConfirmedCount, err = s.bookings.CountByStatus(ctx, providerID, models.StatusConfirmed); err != nil {
		return nil, err
	}
	if stats.CompletedCount, err = s.bookings.CountByStatus(ctx, providerID, models.StatusCompleted); err != nil {
		return nil, err
	}
	if stats.CancelledCount, err = s.bookings.CountByStatus(ctx, providerID, models.StatusCancelled); err != nil {
		return nil, err
	}
	if stats.DisputedCount, err = s.bookings.CountByStatus(ctx, providerID, models.StatusDisputed); err != nil {
		return nil, err
	}
	if stats.HeldRevenue, err = s.bookings.SumPriceByPayment(ctx, providerID, models.PaymentHeld); err != nil {
		return nil, err
	}
	if stats.ReleasedRevenue, err = s.bookings.SumPriceByPayment(ctx, providerID, models.PaymentReleased); err != nil {
		return nil, err
	}
	return &stats, nil
}
