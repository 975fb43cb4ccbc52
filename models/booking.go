package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusDisputed  BookingStatus = "disputed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentHeld     PaymentStatus = "held"
	PaymentReleased PaymentStatus = "released"
	PaymentRefunded PaymentStatus = "refunded"
)

// TimeSlots is the fixed list of bookable hourly slots.
var TimeSlots = []string{
	"09:00", "10:00", "11:00", "12:00", "13:00",
	"14:00", "15:00", "16:00", "17:00",
}

// IsValidTimeSlot reports whether slot is one of the bookable hourly slots.
func IsValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

type Booking struct {
	gorm.Model
	ProviderID    uint          `json:"provider_id"`
	Provider      User          `json:"provider" gorm:"foreignKey:ProviderID"`
	ClientID      uint          `json:"client_id"`
	Client        User          `json:"client" gorm:"foreignKey:ClientID"`
	ServiceType   string        `json:"service_type"`
	Date          time.Time     `json:"date"`
	TimeSlot      string        `json:"time_slot"`
	Price         float64       `json:"price"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// Every new booking is auto-confirmed with its payment held in escrow.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = StatusConfirmed
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = PaymentHeld
	}
	return nil
}

// Transition validates and applies a status change. Repositories persist the
// result; the rules here are the single source of truth for the lifecycle.
func (b *Booking) Transition(newStatus BookingStatus) error {
	switch b.Status {
	case StatusPending:
		if newStatus != StatusConfirmed && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from pending to %s", newStatus)
		}
	case StatusConfirmed:
		if newStatus != StatusCompleted && newStatus != StatusCancelled && newStatus != StatusDisputed {
			return fmt.Errorf("invalid transition from confirmed to %s", newStatus)
		}
	case StatusCompleted, StatusCancelled:
		return fmt.Errorf("no transitions allowed from %s", b.Status)
	case StatusDisputed:
		if newStatus != StatusCancelled && newStatus != StatusCompleted {
			return fmt.Errorf("invalid transition from disputed to %s", newStatus)
		}
	}

	b.Status = newStatus
	if newStatus == StatusCompleted {
		now := time.Now()
		b.CompletedAt = &now
	}
	return nil
}

// ReleasePayment flips a held payment to released. Releasing an already
// released payment is a no-op.
func (b *Booking) ReleasePayment() {
	if b.PaymentStatus == PaymentHeld || b.PaymentStatus == PaymentPending {
		b.PaymentStatus = PaymentReleased
	}
}

// RefundPayment flips a held payment to refunded on the cancellation path.
func (b *Booking) RefundPayment() {
	if b.PaymentStatus == PaymentHeld || b.PaymentStatus == PaymentPending {
		b.PaymentStatus = PaymentRefunded
	}
}

// IsParty reports whether the user is the booking's client or provider.
func (b *Booking) IsParty(userID uint) bool {
	return b.ClientID == userID || b.ProviderID == userID
}

// StartsAt combines the booking date with its time slot into a concrete
// start time in the date's location.
func (b *Booking) StartsAt() time.Time {
	t, err := time.Parse("15:04", b.TimeSlot)
	if err != nil {
		return b.Date
	}
	return time.Date(b.Date.Year(), b.Date.Month(), b.Date.Day(),
		t.Hour(), t.Minute(), 0, 0, b.Date.Location())
}
