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

func newChatFixture(t *testing.T) (*ChatService, *BookingService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	bookingSvc := NewBookingService(store.Bookings(), store.Providers(), store.Users(), NopNotifier{})
	bookingSvc.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	chatSvc := NewChatService(store.Chat(), store.Bookings())

	profile := &models.ProviderProfile{
		UserID:     1,
		User:       models.User{Name: "Alice Tremblay"},
		Services:   datatypes.NewJSONSlice([]string{"Plomberie"}),
		Location:   "Montréal",
		HourlyRate: 80,
		Verified:   true,
	}
	if err := store.Providers().Create(context.Background(), profile); err != nil {
		t.Fatalf("create provider: %v", err)
	}
	return chatSvc, bookingSvc, store
}

func TestSendAndReadMessages(t *testing.T) {
	chatSvc, bookingSvc, _ := newChatFixture(t)
	ctx := context.Background()
	booking := bookFor(t, bookingSvc, 2, "10:00")

	if _, err := chatSvc.Send(ctx, booking.ID, 2, "Bonjour, à quelle heure arrivez-vous ?"); err != nil {
		t.Fatalf("client send: %v", err)
	}
	if _, err := chatSvc.Send(ctx, booking.ID, 1, "Vers 10h."); err != nil {
		t.Fatalf("provider send: %v", err)
	}

	msgs, err := chatSvc.Messages(ctx, booking.ID, 2)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].SenderID != 2 || msgs[1].SenderID != 1 {
		t.Errorf("messages out of order: senders %d, %d", msgs[0].SenderID, msgs[1].SenderID)
	}
}

func TestSendRejectsOutsiders(t *testing.T) {
	chatSvc, bookingSvc, _ := newChatFixture(t)
	booking := bookFor(t, bookingSvc, 2, "10:00")

	_, err := chatSvc.Send(context.Background(), booking.ID, 42, "Bonjour")
	var ferr *utils.ForbiddenError
	if !errors.As(err, &ferr) {
		t.Fatalf("err = %v, want ForbiddenError", err)
	}
}

func TestSendRejectsEmptyBody(t *testing.T) {
	chatSvc, bookingSvc, _ := newChatFixture(t)
	booking := bookFor(t, bookingSvc, 2, "10:00")

	_, err := chatSvc.Send(context.Background(), booking.ID, 2, "   ")
	var verr *utils.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestSendClosedAfterCancellation(t *testing.T) {
	chatSvc, bookingSvc, _ := newChatFixture(t)
	ctx := context.Background()
	booking := bookFor(t, bookingSvc, 2, "10:00")

	if _, err := bookingSvc.Cancel(ctx, booking.ID, 2); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, err := chatSvc.Send(ctx, booking.ID, 2, "Toujours là ?")
	var verr *utils.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError on cancelled booking", err)
	}
}

func TestSendStaysOpenAfterCompletion(t *testing.T) {
	chatSvc, bookingSvc, _ := newChatFixture(t)
	ctx := context.Background()
	booking := bookFor(t, bookingSvc, 2, "10:00")

	if _, err := bookingSvc.MarkComplete(ctx, booking.ID, 1); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := chatSvc.Send(ctx, booking.ID, 2, "Merci pour le travail !"); err != nil {
		t.Fatalf("send on completed booking: %v", err)
	}
}

func TestConversations(t *testing.T) {
	chatSvc, bookingSvc, _ := newChatFixture(t)
	ctx := context.Background()

	booking := bookFor(t, bookingSvc, 2, "10:00")
	cancelled := bookFor(t, bookingSvc, 2, "11:00")
	if _, err := bookingSvc.Cancel(ctx, cancelled.ID, 2); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := chatSvc.Send(ctx, booking.ID, 1, "Bonjour"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := chatSvc.Send(ctx, booking.ID, 1, "Je confirme pour demain"); err != nil {
		t.Fatalf("send: %v", err)
	}

	convs, err := chatSvc.Conversations(ctx, 2)
	if err != nil {
		t.Fatalf("conversations: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("got %d conversations, want 1 (cancelled booking excluded)", len(convs))
	}

	conv := convs[0]
	if conv.BookingID != booking.ID {
		t.Errorf("conversation booking = %d, want %d", conv.BookingID, booking.ID)
	}
	if conv.OtherPartyID != 1 {
		t.Errorf("other party = %d, want the provider 1", conv.OtherPartyID)
	}
	if conv.UnreadCount != 2 {
		t.Errorf("unread = %d, want 2", conv.UnreadCount)
	}
	if conv.LastMessage != "Je confirme pour demain" {
		t.Errorf("last message = %q", conv.LastMessage)
	}

	// Reading the thread clears the unread count
	if _, err := chatSvc.Messages(ctx, booking.ID, 2); err != nil {
		t.Fatalf("messages: %v", err)
	}
	convs, err = chatSvc.Conversations(ctx, 2)
	if err != nil {
		t.Fatalf("conversations: %v", err)
	}
	if convs[0].UnreadCount != 0 {
		t.Errorf("unread after read = %d, want 0", convs[0].UnreadCount)
	}
}
