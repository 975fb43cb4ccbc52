package admin

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/repository"
	"github.com/proenpoche/pro-en-poche/utils"
)

type SettingsController struct {
	settings repository.SettingsRepository
}

func NewSettingsController(settings repository.SettingsRepository) *SettingsController {
	return &SettingsController{settings: settings}
}

// Get returns the platform settings. Credentials are blanked unless the
// caller is a superadmin.
func (ctl *SettingsController) Get(c *fiber.Ctx) error {
	settings, err := ctl.settings.Get(c.Context())
	if err != nil {
		return utils.RespondError(c, "Failed to load settings", err)
	}

	if role, _ := c.Locals("role").(string); role != models.RoleSuperAdmin {
		settings.SMTPPassword = ""
		settings.StripeSecretKey = ""
	}

	return c.JSON(settings)
}

// Credential fields are pointers so that omitting them means "leave alone";
// a branding-only payload must not count as a credential change.
type SettingsInput struct {
	PlatformName    string  `json:"platform_name"`
	LogoURL         string  `json:"logo_url"`
	SMTPHost        *string `json:"smtp_host"`
	SMTPPort        *int    `json:"smtp_port"`
	SMTPUser        *string `json:"smtp_user"`
	SMTPPassword    *string `json:"smtp_password"`
	StripePublicKey *string `json:"stripe_public_key"`
	StripeSecretKey *string `json:"stripe_secret_key"`
}

// Update edits the platform settings. Only a superadmin may touch the SMTP
// and Stripe credentials; other admins can change the branding fields.
func (ctl *SettingsController) Update(c *fiber.Ctx) error {
	input := new(SettingsInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	settings, err := ctl.settings.Get(c.Context())
	if err != nil {
		return utils.RespondError(c, "Failed to load settings", err)
	}

	role, _ := c.Locals("role").(string)
	credentialChange := input.SMTPHost != nil ||
		input.SMTPPort != nil ||
		input.SMTPUser != nil ||
		input.SMTPPassword != nil ||
		input.StripePublicKey != nil ||
		input.StripeSecretKey != nil
	if credentialChange && role != models.RoleSuperAdmin {
		return utils.RespondError(c, "Only a superadmin can change credentials",
			&utils.ForbiddenError{Message: "credential changes require superadmin"})
	}

	settings.PlatformName = input.PlatformName
	settings.LogoURL = input.LogoURL
	if input.SMTPHost != nil {
		settings.SMTPHost = *input.SMTPHost
	}
	if input.SMTPPort != nil {
		settings.SMTPPort = *input.SMTPPort
	}
	if input.SMTPUser != nil {
		settings.SMTPUser = *input.SMTPUser
	}
	if input.SMTPPassword != nil {
		settings.SMTPPassword = *input.SMTPPassword
	}
	if input.StripePublicKey != nil {
		settings.StripePublicKey = *input.StripePublicKey
	}
	if input.StripeSecretKey != nil {
		settings.StripeSecretKey = *input.StripeSecretKey
	}

	if err := ctl.settings.Update(c.Context(), settings); err != nil {
		return utils.RespondError(c, "Failed to update settings", err)
	}

	return c.JSON(settings)
}

// UploadLogo replaces the platform logo.
func (ctl *SettingsController) UploadLogo(c *fiber.Ctx) error {
	file, err := c.FormFile("logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to get logo file",
		})
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to open logo file",
		})
	}
	defer f.Close()

	publicID := fmt.Sprintf("logo_%d", time.Now().Unix())
	secureURL, err := utils.UploadImage(c.Context(), f, publicID, "branding")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload logo",
		})
	}

	settings, err := ctl.settings.Get(c.Context())
	if err != nil {
		return utils.RespondError(c, "Failed to load settings", err)
	}
	settings.LogoURL = secureURL
	if err := ctl.settings.Update(c.Context(), settings); err != nil {
		return utils.RespondError(c, "Failed to update settings", err)
	}

	return c.JSON(fiber.Map{
		"logo_url": secureURL,
	})
}
