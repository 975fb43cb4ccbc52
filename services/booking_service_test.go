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

func newBookingFixture(t *testing.T) (*BookingService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := NewBookingService(store.Bookings(), store.Providers(), store.Users(), NopNotifier{})
	svc.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}

	profile := &models.ProviderProfile{
		UserID:     1,
		Services:   datatypes.NewJSONSlice([]string{"Plomberie", "Électricité"}),
		Location:   "Montréal",
		HourlyRate: 80,
		Verified:   true,
	}
	if err := store.Providers().Create(context.Background(), profile); err != nil {
		t.Fatalf("create provider: %v", err)
	}
	return svc, store
}

func TestCreateBookingDefaults(t *testing.T) {
	svc, _ := newBookingFixture(t)

	booking, err := svc.Create(context.Background(), 2, BookingInput{
		ProviderID:  1,
		ServiceType: "Plomberie",
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "10:00",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	if booking.Status != models.StatusConfirmed {
		t.Errorf("status = %q, want %q", booking.Status, models.StatusConfirmed)
	}
	if booking.PaymentStatus != models.PaymentHeld {
		t.Errorf("payment status = %q, want %q", booking.PaymentStatus, models.PaymentHeld)
	}
	if booking.Price != 80 {
		t.Errorf("price = %v, want the provider's hourly rate 80", booking.Price)
	}
	if booking.ID == 0 {
		t.Error("booking was not assigned an ID")
	}
}

func TestCreateBookingValidation(t *testing.T) {
	svc, _ := newBookingFixture(t)
	future := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		input BookingInput
	}{
		{"unknown service", BookingInput{ProviderID: 1, ServiceType: "Toiture", Date: future, TimeSlot: "10:00"}},
		{"past date", BookingInput{ProviderID: 1, ServiceType: "Plomberie", Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), TimeSlot: "10:00"}},
		{"bad slot", BookingInput{ProviderID: 1, ServiceType: "Plomberie", Date: future, TimeSlot: "10:30"}},
		{"slot outside hours", BookingInput{ProviderID: 1, ServiceType: "Plomberie", Date: future, TimeSlot: "20:00"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 2, tc.input)
			var verr *utils.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestCreateBookingUnknownProvider(t *testing.T) {
	svc, _ := newBookingFixture(t)

	_, err := svc.Create(context.Background(), 2, BookingInput{
		ProviderID:  99,
		ServiceType: "Plomberie",
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "10:00",
	})
	var nerr *utils.NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestMarkComplete(t *testing.T) {
	svc, _ := newBookingFixture(t)
	booking, err := svc.Create(context.Background(), 2, BookingInput{
		ProviderID:  1,
		ServiceType: "Plomberie",
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "10:00",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	done, err := svc.MarkComplete(context.Background(), booking.ID, 1)
	if err != nil {
		t.Fatalf("mark complete: %v", err)
	}
	if done.Status != models.StatusCompleted {
		t.Errorf("status = %q, want %q", done.Status, models.StatusCompleted)
	}
	if done.CompletedAt == nil {
		t.Error("completedAt was not stamped")
	}
	if done.PaymentStatus != models.PaymentHeld {
		t.Errorf("payment status = %q, completion must not release the payment", done.PaymentStatus)
	}

	// Completing twice is invalid
	if _, err := svc.MarkComplete(context.Background(), booking.ID, 1); err == nil {
		t.Fatal("second completion succeeded, want error")
	}
}

func TestCancelRefundsPayment(t *testing.T) {
	svc, _ := newBookingFixture(t)
	booking, err := svc.Create(context.Background(), 2, BookingInput{
		ProviderID:  1,
		ServiceType: "Plomberie",
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "10:00",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), booking.ID, 2)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Errorf("status = %q, want %q", cancelled.Status, models.StatusCancelled)
	}
	if cancelled.PaymentStatus != models.PaymentRefunded {
		t.Errorf("payment status = %q, want %q", cancelled.PaymentStatus, models.PaymentRefunded)
	}
}

func TestTransitionRequiresParty(t *testing.T) {
	svc, _ := newBookingFixture(t)
	booking, err := svc.Create(context.Background(), 2, BookingInput{
		ProviderID:  1,
		ServiceType: "Plomberie",
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "10:00",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	_, err = svc.MarkComplete(context.Background(), booking.ID, 42)
	var ferr *utils.ForbiddenError
	if !errors.As(err, &ferr) {
		t.Fatalf("err = %v, want ForbiddenError", err)
	}
}

func TestDashboard(t *testing.T) {
	svc, _ := newBookingFixture(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	first, err := svc.Create(ctx, 2, BookingInput{ProviderID: 1, ServiceType: "Plomberie", Date: date, TimeSlot: "09:00"})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	second, err := svc.Create(ctx, 3, BookingInput{ProviderID: 1, ServiceType: "Plomberie", Date: date, TimeSlot: "10:00"})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, err := svc.MarkComplete(ctx, first.ID, 1); err != nil {
		t.Fatalf("mark complete: %v", err)
	}
	if _, err := svc.Cancel(ctx, second.ID, 3); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	stats, err := svc.Dashboard(ctx, 1)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.CompletedCount != 1 || stats.CancelledCount != 1 || stats.ConfirmedCount != 0 {
		t.Errorf("counts = %+v, want 1 completed, 1 cancelled, 0 confirmed", stats)
	}
	if stats.HeldRevenue != 80 {
		t.Errorf("held revenue = %v, want 80 (the completed, unreviewed booking)", stats.HeldRevenue)
	}
	if stats.ReleasedRevenue != 0 {
		t.Errorf("released revenue = %v, want 0", stats.ReleasedRevenue)
	}
}
