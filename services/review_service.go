package services

import (
	"context"

	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/repository"
	"github.com/proenpoche/pro-en-poche/utils"
)

type ReviewInput struct {
	BookingID uint   `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type ReviewService struct {
	reviews   repository.ReviewRepository
	bookings  repository.BookingRepository
	discovery *DiscoveryService
}

func NewReviewService(
	reviews repository.ReviewRepository,
	bookings repository.BookingRepository,
	discovery *DiscoveryService,
) *ReviewService {
	return &ReviewService{reviews: reviews, bookings: bookings, discovery: discovery}
}

// Submit records the client's review of a booking and releases the held
// payment. A booking can be reviewed exactly once, and never after
// cancellation.
func (s *ReviewService) Submit(ctx context.Context, clientID uint, in ReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, &utils.ValidationError{Message: "rating must be between 1 and 5"}
	}

	booking, err := s.bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.ClientID != clientID {
		return nil, &utils.ForbiddenError{Message: "only the booking's client may review it"}
	}
	if booking.Status == models.StatusCancelled {
		return nil, &utils.ValidationError{Message: "cancelled bookings cannot be reviewed"}
	}

	exists, err := s.reviews.ExistsForBooking(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &utils.DuplicateReviewError{BookingID: in.BookingID}
	}

	review := &models.Review{
		BookingID:  in.BookingID,
		ProviderID: booking.ProviderID,
		ClientID:   clientID,
		Rating:     in.Rating,
		Comment:    in.Comment,
	}
	if err := s.reviews.CreateAndRelease(ctx, review); err != nil {
		return nil, err
	}

	// The cached discovery pool carries rating projections; drop it so the
	// new rating is filterable immediately.
	s.discovery.InvalidateCache(ctx)

	return review, nil
}

func (s *ReviewService) ListForProvider(ctx context.Context, providerID uint, limit, offset int) ([]models.Review, int64, error) {
	return s.reviews.ListByProvider(ctx, providerID, limit, offset)
}

// ProviderStats is the aggregate a provider card shows.
type ProviderStats struct {
	ProviderID  uint    `json:"provider_id"`
	Rating      float64 `json:"rating"`
	ReviewCount int64   `json:"review_count"`
}

func (s *ReviewService) StatsForProvider(ctx context.Context, providerID uint) (*ProviderStats, error) {
	avg, count, err := s.reviews.AggregateByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return &ProviderStats{ProviderID: providerID, Rating: avg, ReviewCount: count}, nil
}
