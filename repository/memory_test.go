package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/utils"
)

func TestAnnouncementVersionedUpdate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	repo := store.Announcements()

	a := &models.Announcement{ProviderID: 1, Title: "Plomberie résidentielle", IsActive: true, Version: 1}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Two editors read the same version
	first, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	second, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	first.Title = "Plomberie résidentielle et commerciale"
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if first.Version != 2 {
		t.Errorf("version after update = %d, want 2", first.Version)
	}

	second.Title = "Plomberie d'urgence"
	err = repo.Update(ctx, second)
	var cerr *utils.ConcurrentModificationError
	if !errors.As(err, &cerr) {
		t.Fatalf("stale update err = %v, want ConcurrentModificationError", err)
	}

	current, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if current.Title != "Plomberie résidentielle et commerciale" {
		t.Errorf("title = %q, stale writer overwrote the first edit", current.Title)
	}
}

func TestAnnouncementUpdateMissing(t *testing.T) {
	store := NewMemoryStore()

	err := store.Announcements().Update(context.Background(), &models.Announcement{Version: 1})
	var nerr *utils.NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestReviewCreateAndReleaseIsAtomic(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	booking := &models.Booking{ProviderID: 1, ClientID: 2, Price: 80}
	if err := store.Bookings().Create(ctx, booking); err != nil {
		t.Fatalf("create booking: %v", err)
	}

	review := &models.Review{BookingID: booking.ID, ProviderID: 1, ClientID: 2, Rating: 5}
	if err := store.Reviews().CreateAndRelease(ctx, review); err != nil {
		t.Fatalf("create review: %v", err)
	}

	saved, err := store.Bookings().GetByID(ctx, booking.ID)
	if err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if saved.PaymentStatus != models.PaymentReleased {
		t.Errorf("payment status = %q, want released", saved.PaymentStatus)
	}

	// A second review for the same booking is refused
	dup := &models.Review{BookingID: booking.ID, ProviderID: 1, ClientID: 2, Rating: 1}
	if err := store.Reviews().CreateAndRelease(ctx, dup); err == nil {
		t.Fatal("duplicate review accepted")
	}
}

func TestListActiveHidesUnverifiedProviders(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	verified := &models.ProviderProfile{UserID: 1, Verified: true}
	pending := &models.ProviderProfile{UserID: 2, Verified: false}
	for _, p := range []*models.ProviderProfile{verified, pending} {
		if err := store.Providers().Create(ctx, p); err != nil {
			t.Fatalf("create provider: %v", err)
		}
	}

	repo := store.Announcements()
	for _, a := range []*models.Announcement{
		{ProviderID: 1, Title: "Plomberie résidentielle", IsActive: true},
		{ProviderID: 1, Title: "Ancienne offre", IsActive: false},
		{ProviderID: 2, Title: "Ménage à domicile", IsActive: true},
	} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("create announcement: %v", err)
		}
	}

	feed, total, err := repo.ListActive(ctx, 10, 0)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if total != 1 || len(feed) != 1 {
		t.Fatalf("feed has %d entries (total %d), want 1", len(feed), total)
	}
	if feed[0].Title != "Plomberie résidentielle" {
		t.Errorf("feed entry = %q, want the verified provider's active listing", feed[0].Title)
	}
}

func TestListActiveHidesRejectedProviders(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	profile := &models.ProviderProfile{UserID: 1, Verified: true}
	if err := store.Providers().Create(ctx, profile); err != nil {
		t.Fatalf("create provider: %v", err)
	}

	repo := store.Announcements()
	a := &models.Announcement{ProviderID: 1, Title: "Plomberie résidentielle", IsActive: true}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create announcement: %v", err)
	}

	if _, total, err := repo.ListActive(ctx, 10, 0); err != nil || total != 1 {
		t.Fatalf("feed before rejection: total %d, err %v; want 1, nil", total, err)
	}

	// Rejection deletes the profile; its listings must drop out of the feed
	// even though the announcement rows themselves are untouched.
	if err := store.Providers().Delete(ctx, 1); err != nil {
		t.Fatalf("delete provider: %v", err)
	}

	feed, total, err := repo.ListActive(ctx, 10, 0)
	if err != nil {
		t.Fatalf("feed after rejection: %v", err)
	}
	if total != 0 || len(feed) != 0 {
		t.Fatalf("feed after rejection has %d entries (total %d), want 0", len(feed), total)
	}
}

func TestProviderRatingProjection(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	profile := &models.ProviderProfile{UserID: 1, Verified: true}
	if err := store.Providers().Create(ctx, profile); err != nil {
		t.Fatalf("create provider: %v", err)
	}

	for i, rating := range []int{5, 3} {
		booking := &models.Booking{ProviderID: 1, ClientID: uint(10 + i), Price: 80}
		if err := store.Bookings().Create(ctx, booking); err != nil {
			t.Fatalf("create booking: %v", err)
		}
		review := &models.Review{BookingID: booking.ID, ProviderID: 1, ClientID: booking.ClientID, Rating: rating}
		if err := store.Reviews().CreateAndRelease(ctx, review); err != nil {
			t.Fatalf("create review: %v", err)
		}
	}

	got, err := store.Providers().GetByUserID(ctx, 1)
	if err != nil {
		t.Fatalf("get provider: %v", err)
	}
	if got.Rating != 4 {
		t.Errorf("rating = %v, want 4", got.Rating)
	}
	if got.ReviewCount != 2 {
		t.Errorf("review count = %d, want 2", got.ReviewCount)
	}
}
