package models

import (
	"gorm.io/gorm"
)

// SiteSettings is a singleton row of platform configuration. The Stripe keys
// are stored but never used for outbound calls; payment charging goes through
// the gateway capability.
type SiteSettings struct {
	gorm.Model
	PlatformName    string `json:"platform_name" gorm:"default:'Pro En Poche'"`
	LogoURL         string `json:"logo_url"`
	SMTPHost        string `json:"smtp_host"`
	SMTPPort        int    `json:"smtp_port"`
	SMTPUser        string `json:"smtp_user"`
	SMTPPassword    string `json:"smtp_password,omitempty"`
	StripePublicKey string `json:"stripe_public_key"`
	StripeSecretKey string `json:"stripe_secret_key,omitempty"`
}
