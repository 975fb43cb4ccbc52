package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/repository"
)

func newSettingsApp(role string, store *repository.MemoryStore) *fiber.App {
	app := fiber.New()
	ctl := NewSettingsController(store.Settings())
	app.Put("/admin/settings", func(c *fiber.Ctx) error {
		c.Locals("role", role)
		return c.Next()
	}, ctl.Update)
	return app
}

func putSettings(t *testing.T, app *fiber.App, payload map[string]any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPut, "/admin/settings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp
}

func seedSMTP(t *testing.T, store *repository.MemoryStore) {
	t.Helper()
	settings, err := store.Settings().Get(context.Background())
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	settings.SMTPHost = "smtp.example.com"
	settings.SMTPPort = 587
	if err := store.Settings().Update(context.Background(), settings); err != nil {
		t.Fatalf("seed settings: %v", err)
	}
}

func TestUpdateBrandingOnlyAsAdmin(t *testing.T) {
	store := repository.NewMemoryStore()
	seedSMTP(t, store)
	app := newSettingsApp(models.RoleAdmin, store)

	resp := putSettings(t, app, map[string]any{
		"platform_name": "Pro En Poche Québec",
		"logo_url":      "https://cdn.example.com/logo.png",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 for a branding-only update", resp.StatusCode)
	}

	saved, err := store.Settings().Get(context.Background())
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	if saved.PlatformName != "Pro En Poche Québec" {
		t.Errorf("platform name = %q, want the new branding", saved.PlatformName)
	}
	if saved.SMTPHost != "smtp.example.com" || saved.SMTPPort != 587 {
		t.Errorf("SMTP config changed by a branding update: %q:%d", saved.SMTPHost, saved.SMTPPort)
	}
}

func TestUpdateCredentialsRequiresSuperAdmin(t *testing.T) {
	store := repository.NewMemoryStore()
	seedSMTP(t, store)
	app := newSettingsApp(models.RoleAdmin, store)

	resp := putSettings(t, app, map[string]any{
		"platform_name": "Pro En Poche",
		"smtp_host":     "smtp.evil.example",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for an admin touching credentials", resp.StatusCode)
	}

	saved, err := store.Settings().Get(context.Background())
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	if saved.SMTPHost != "smtp.example.com" {
		t.Errorf("SMTP host = %q, credential write went through", saved.SMTPHost)
	}
}

func TestUpdateCredentialsAsSuperAdmin(t *testing.T) {
	store := repository.NewMemoryStore()
	seedSMTP(t, store)
	app := newSettingsApp(models.RoleSuperAdmin, store)

	resp := putSettings(t, app, map[string]any{
		"platform_name": "Pro En Poche",
		"smtp_host":     "smtp.new.example",
		"smtp_password": "s3cret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 for a superadmin", resp.StatusCode)
	}

	saved, err := store.Settings().Get(context.Background())
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	if saved.SMTPHost != "smtp.new.example" {
		t.Errorf("SMTP host = %q, want the new value", saved.SMTPHost)
	}
	if saved.SMTPPassword != "s3cret" {
		t.Errorf("SMTP password not applied")
	}
	if saved.SMTPPort != 587 {
		t.Errorf("SMTP port = %d, omitted field must stay untouched", saved.SMTPPort)
	}
}
