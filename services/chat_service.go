package services

import (
	"context"
	"strings"

	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/repository"
	"github.com/proenpoche/pro-en-poche/utils"
)

// Messaging is only open on bookings that are confirmed or completed.
var chattableStatuses = []models.BookingStatus{models.StatusConfirmed, models.StatusCompleted}

type ChatService struct {
	messages repository.ChatRepository
	bookings repository.BookingRepository
}

func NewChatService(messages repository.ChatRepository, bookings repository.BookingRepository) *ChatService {
	return &ChatService{messages: messages, bookings: bookings}
}

// Send posts a message on a booking's conversation. Only the two booking
// parties may write, and only while the booking is confirmed or completed.
func (s *ChatService) Send(ctx context.Context, bookingID, senderID uint, body string) (*models.ChatMessage, error) {
	if strings.TrimSpace(body) == "" {
		return nil, &utils.ValidationError{Message: "message body is required"}
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(senderID) {
		return nil, &utils.ForbiddenError{Message: "only the booking's parties may chat"}
	}
	if !isChattable(booking.Status) {
		return nil, &utils.ValidationError{Message: "messaging is only open on confirmed or completed bookings"}
	}

	msg := &models.ChatMessage{
		BookingID: bookingID,
		SenderID:  senderID,
		Body:      body,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Messages returns a booking's thread and marks it read for the caller.
func (s *ChatService) Messages(ctx context.Context, bookingID, userID uint) ([]models.ChatMessage, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(userID) {
		return nil, &utils.ForbiddenError{Message: "only the booking's parties may read this conversation"}
	}

	msgs, err := s.messages.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.messages.MarkRead(ctx, bookingID, userID); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Conversations derives the user's conversation list from their confirmed and
// completed bookings. Nothing here is persisted.
func (s *ChatService) Conversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	bookings, err := s.bookings.ListForUserWithStatus(ctx, userID, chattableStatuses)
	if err != nil {
		return nil, err
	}

	conversations := make([]models.Conversation, 0, len(bookings))
	for _, b := range bookings {
		conv := models.Conversation{
			BookingID: b.ID,
			Status:    b.Status,
		}
		if b.ClientID == userID {
			conv.OtherPartyID = b.ProviderID
			conv.OtherPartyName = b.Provider.Name
		} else {
			conv.OtherPartyID = b.ClientID
			conv.OtherPartyName = b.Client.Name
		}

		if last, err := s.messages.LastMessage(ctx, b.ID); err == nil && last != nil {
			conv.LastMessage = last.Body
			at := last.CreatedAt
			conv.LastMessageAt = &at
		}
		unread, err := s.messages.CountUnread(ctx, b.ID, userID)
		if err != nil {
			return nil, err
		}
		conv.UnreadCount = int(unread)

		conversations = append(conversations, conv)
	}
	return conversations, nil
}

func isChattable(status models.BookingStatus) bool {
	for _, st := range chattableStatuses {
		if st == status {
			return true
		}
	}
	return false
}
