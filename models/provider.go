package models

import (
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProviderProfile holds the marketplace-facing data of a user with the
// provider role. Rating and ReviewCount are never stored: repositories fill
// them from the reviews table on read so they cannot go stale.
type ProviderProfile struct {
	gorm.Model
	UserID       uint                        `json:"user_id" gorm:"uniqueIndex"`
	User         User                        `json:"user" gorm:"foreignKey:UserID"`
	Bio          string                      `json:"bio"`
	Services     datatypes.JSONSlice[string] `json:"services"`
	Location     string                      `json:"location"`
	Availability datatypes.JSONSlice[string] `json:"availability"`
	HourlyRate   float64                     `json:"hourly_rate"`
	Verified     bool                        `json:"verified" gorm:"default:false"`
	Subscription *Subscription               `json:"subscription,omitempty" gorm:"foreignKey:ProviderID;references:UserID"`
	Rating       float64                     `json:"rating" gorm:"-"`
	ReviewCount  int                         `json:"review_count" gorm:"-"`
}

// HasService reports whether the provider declares the given service,
// case-insensitively.
func (p *ProviderProfile) HasService(name string) bool {
	for _, s := range p.Services {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}
