package services

import (
	"context"
	"log"

	"github.com/proenpoche/pro-en-poche/repository"
	"github.com/proenpoche/pro-en-poche/utils"
)

// Notifier delivers fire-and-forget notifications. Failures are logged, never
// surfaced; no workflow depends on delivery.
type Notifier interface {
	Notify(ctx context.Context, to, subject, body string)
}

// EmailNotifier sends mail with the SMTP credentials from the site settings
// row, falling back to the environment when the row is empty.
type EmailNotifier struct {
	settings repository.SettingsRepository
}

func NewEmailNotifier(settings repository.SettingsRepository) *EmailNotifier {
	return &EmailNotifier{settings: settings}
}

func (n *EmailNotifier) Notify(ctx context.Context, to, subject, body string) {
	cfg := utils.SMTPFromEnv()
	if s, err := n.settings.Get(ctx); err == nil && s.SMTPHost != "" {
		cfg = utils.SMTPConfig{
			Host:     s.SMTPHost,
			Port:     s.SMTPPort,
			User:     s.SMTPUser,
			Password: s.SMTPPassword,
		}
	}
	if cfg.Host == "" {
		return
	}
	if err := utils.SendEmail(cfg, to, subject, body); err != nil {
		log.Printf("failed to send notification to %s: %v", to, err)
	}
}

// NopNotifier discards notifications; used in tests.
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, to, subject, body string) {}
