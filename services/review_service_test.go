package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/repository"
	"github.com/proenpoche/pro-en-poche/utils"
)

func newReviewFixture(t *testing.T) (*ReviewService, *BookingService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	bookingSvc := NewBookingService(store.Bookings(), store.Providers(), store.Users(), NopNotifier{})
	bookingSvc.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	reviewSvc := NewReviewService(store.Reviews(), store.Bookings(),
		NewDiscoveryService(store.Providers(), nil))

	profile := &models.ProviderProfile{
		UserID:     1,
		Services:   datatypes.NewJSONSlice([]string{"Plomberie"}),
		Location:   "Montréal",
		HourlyRate: 80,
		Verified:   true,
	}
	if err := store.Providers().Create(context.Background(), profile); err != nil {
		t.Fatalf("create provider: %v", err)
	}
	return reviewSvc, bookingSvc, store
}

func bookFor(t *testing.T, svc *BookingService, clientID uint, slot string) *models.Booking {
	t.Helper()
	booking, err := svc.Create(context.Background(), clientID, BookingInput{
		ProviderID:  1,
		ServiceType: "Plomberie",
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:    slot,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return booking
}

func TestSubmitReviewReleasesPayment(t *testing.T) {
	reviewSvc, bookingSvc, store := newReviewFixture(t)
	ctx := context.Background()
	booking := bookFor(t, bookingSvc, 2, "10:00")

	review, err := reviewSvc.Submit(ctx, 2, ReviewInput{
		BookingID: booking.ID,
		Rating:    5,
		Comment:   "Travail impeccable",
	})
	if err != nil {
		t.Fatalf("submit review: %v", err)
	}
	if review.ProviderID != 1 {
		t.Errorf("review provider = %d, want 1", review.ProviderID)
	}

	saved, err := store.Bookings().GetByID(ctx, booking.ID)
	if err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if saved.PaymentStatus != models.PaymentReleased {
		t.Errorf("payment status = %q, want released", saved.PaymentStatus)
	}
}

func TestSubmitReviewOncePerBooking(t *testing.T) {
	reviewSvc, bookingSvc, _ := newReviewFixture(t)
	ctx := context.Background()
	booking := bookFor(t, bookingSvc, 2, "10:00")

	if _, err := reviewSvc.Submit(ctx, 2, ReviewInput{BookingID: booking.ID, Rating: 4}); err != nil {
		t.Fatalf("first review: %v", err)
	}

	_, err := reviewSvc.Submit(ctx, 2, ReviewInput{BookingID: booking.ID, Rating: 1})
	var derr *utils.DuplicateReviewError
	if !errors.As(err, &derr) {
		t.Fatalf("err = %v, want DuplicateReviewError", err)
	}
}

func TestSubmitReviewClientOnly(t *testing.T) {
	reviewSvc, bookingSvc, _ := newReviewFixture(t)
	booking := bookFor(t, bookingSvc, 2, "10:00")

	// The provider cannot review their own booking
	_, err := reviewSvc.Submit(context.Background(), 1, ReviewInput{BookingID: booking.ID, Rating: 5})
	var ferr *utils.ForbiddenError
	if !errors.As(err, &ferr) {
		t.Fatalf("err = %v, want ForbiddenError", err)
	}
}

func TestSubmitReviewRatingBounds(t *testing.T) {
	reviewSvc, bookingSvc, _ := newReviewFixture(t)
	booking := bookFor(t, bookingSvc, 2, "10:00")

	for _, rating := range []int{0, -1, 6} {
		_, err := reviewSvc.Submit(context.Background(), 2, ReviewInput{BookingID: booking.ID, Rating: rating})
		var verr *utils.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("rating %d: err = %v, want ValidationError", rating, err)
		}
	}
}

func TestSubmitReviewCancelledBooking(t *testing.T) {
	reviewSvc, bookingSvc, store := newReviewFixture(t)
	ctx := context.Background()
	booking := bookFor(t, bookingSvc, 2, "10:00")

	if _, err := bookingSvc.Cancel(ctx, booking.ID, 2); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, err := reviewSvc.Submit(ctx, 2, ReviewInput{BookingID: booking.ID, Rating: 5})
	var verr *utils.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError on cancelled booking", err)
	}

	// The refund stays terminal
	saved, err := store.Bookings().GetByID(ctx, booking.ID)
	if err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if saved.PaymentStatus != models.PaymentRefunded {
		t.Errorf("payment status = %q, want refunded", saved.PaymentStatus)
	}
}

func TestSubmitReviewInvalidatesDiscoveryCache(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	cache := newFakeCache()
	discovery := NewDiscoveryService(store.Providers(), cache)
	bookingSvc := NewBookingService(store.Bookings(), store.Providers(), store.Users(), NopNotifier{})
	bookingSvc.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	reviewSvc := NewReviewService(store.Reviews(), store.Bookings(), discovery)

	profile := &models.ProviderProfile{
		UserID:     1,
		Services:   datatypes.NewJSONSlice([]string{"Plomberie"}),
		Location:   "Montréal",
		HourlyRate: 80,
		Verified:   true,
	}
	if err := store.Providers().Create(ctx, profile); err != nil {
		t.Fatalf("create provider: %v", err)
	}

	// Warm the cache while the provider has no reviews
	if _, err := discovery.Search(ctx, "", SearchFilters{}); err != nil {
		t.Fatalf("warm search: %v", err)
	}

	booking := bookFor(t, bookingSvc, 2, "10:00")
	if _, err := reviewSvc.Submit(ctx, 2, ReviewInput{BookingID: booking.ID, Rating: 5}); err != nil {
		t.Fatalf("submit review: %v", err)
	}

	got, err := discovery.Search(ctx, "", SearchFilters{MinRating: 4})
	if err != nil {
		t.Fatalf("search after review: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d providers with minRating 4 after a 5-star review, want 1", len(got))
	}
	if got[0].Rating != 5 {
		t.Errorf("rating served = %v, want the fresh 5", got[0].Rating)
	}
}

func TestStatsForProvider(t *testing.T) {
	reviewSvc, bookingSvc, _ := newReviewFixture(t)
	ctx := context.Background()

	first := bookFor(t, bookingSvc, 2, "10:00")
	second := bookFor(t, bookingSvc, 3, "11:00")

	if _, err := reviewSvc.Submit(ctx, 2, ReviewInput{BookingID: first.ID, Rating: 5}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := reviewSvc.Submit(ctx, 3, ReviewInput{BookingID: second.ID, Rating: 4}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	stats, err := reviewSvc.StatsForProvider(ctx, 1)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.ReviewCount != 2 {
		t.Errorf("review count = %d, want 2", stats.ReviewCount)
	}
	if stats.Rating != 4.5 {
		t.Errorf("rating = %v, want 4.5", stats.Rating)
	}
}

func TestStatsForProviderWithoutReviews(t *testing.T) {
	reviewSvc, _, _ := newReviewFixture(t)

	stats, err := reviewSvc.StatsForProvider(context.Background(), 1)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Rating != 0 || stats.ReviewCount != 0 {
		t.Errorf("stats = %+v, want zero rating and count", stats)
	}
}
