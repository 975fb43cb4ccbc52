package models

import (
	"time"

	"gorm.io/gorm"
)

type SubscriptionPlan string

const (
	PlanBasic      SubscriptionPlan = "basic"
	PlanPremium    SubscriptionPlan = "premium"
	PlanEnterprise SubscriptionPlan = "enterprise"
)

// Subscription is the single active plan of a provider. Activating a new plan
// replaces the row wholesale; no history is kept.
type Subscription struct {
	gorm.Model
	ProviderID uint             `json:"provider_id" gorm:"uniqueIndex"`
	Plan       SubscriptionPlan `json:"plan"`
	StartDate  time.Time        `json:"start_date"`
	EndDate    time.Time        `json:"end_date"`
	IsActive   bool             `json:"is_active"`
}

// Expired reports whether the subscription's end date has passed.
func (s *Subscription) Expired(now time.Time) bool {
	return now.After(s.EndDate)
}
