package models

import (
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	BookingID  uint    `json:"booking_id" gorm:"uniqueIndex"`
	Booking    Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	ProviderID uint    `json:"provider_id"`
	Provider   User    `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	ClientID   uint    `json:"client_id"`
	Client     User    `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Rating     int     `json:"rating" gorm:"not null"`
	Comment    string  `json:"comment"`
}

// BeforeCreate clamps the rating into the 1..5 range.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.Rating < 1 {
		r.Rating = 1
	} else if r.Rating > 5 {
		r.Rating = 5
	}
	return nil
}
