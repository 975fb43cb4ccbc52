package models

import (
	"time"

	"gorm.io/gorm"
)

type ChatMessage struct {
	gorm.Model
	BookingID uint   `json:"booking_id" gorm:"index"`
	SenderID  uint   `json:"sender_id"`
	Sender    User   `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Body      string `json:"body"`
	IsRead    bool   `json:"is_read" gorm:"default:false"`
}

// Conversation is derived per booking with status confirmed/completed; it is
// never persisted.
type Conversation struct {
	BookingID      uint          `json:"booking_id"`
	Status         BookingStatus `json:"status"`
	OtherPartyID   uint          `json:"other_party_id"`
	OtherPartyName string        `json:"other_party_name"`
	LastMessage    string        `json:"last_message,omitempty"`
	LastMessageAt  *time.Time    `json:"last_message_at,omitempty"`
	UnreadCount    int           `json:"unread_count"`
}
