package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Announcement is a provider-authored service listing, independent of any
// booking. Version backs the optimistic concurrency check on updates.
type Announcement struct {
	gorm.Model
	ProviderID   uint                        `json:"provider_id"`
	Provider     User                        `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	Title        string                      `json:"title"`
	Description  string                      `json:"description"`
	Category     string                      `json:"category"`
	HourlyRate   float64                     `json:"hourly_rate"`
	Location     string                      `json:"location"`
	Availability datatypes.JSONSlice[string] `json:"availability"`
	Services     datatypes.JSONSlice[string] `json:"services"`
	IsActive     bool                        `json:"is_active" gorm:"default:true"`
	Version      int                         `json:"version" gorm:"default:1"`
}
