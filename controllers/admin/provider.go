package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/proenpoche/pro-en-poche/services"
	"github.com/proenpoche/pro-en-poche/utils"
)

type ProviderController struct {
	admin *services.AdminService
}

func NewProviderController(admin *services.AdminService) *ProviderController {
	return &ProviderController{admin: admin}
}

// Pending lists provider profiles waiting for moderation.
func (ctl *ProviderController) Pending(c *fiber.Ctx) error {
	providers, err := ctl.admin.PendingProviders(c.Context())
	if err != nil {
		return utils.RespondError(c, "Failed to list pending providers", err)
	}

	return c.JSON(fiber.Map{
		"providers": providers,
		"total":     len(providers),
	})
}

// Approve verifies a provider, making it visible in discovery.
func (ctl *ProviderController) Approve(c *fiber.Ctx) error {
	providerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid provider ID",
		})
	}

	if err := ctl.admin.ApproveProvider(c.Context(), uint(providerID)); err != nil {
		return utils.RespondError(c, "Failed to approve provider", err)
	}

	return c.JSON(fiber.Map{
		"message": "Provider approved",
	})
}

// Reject removes the provider profile; it disappears from discovery
// immediately. The user account itself is kept.
func (ctl *ProviderController) Reject(c *fiber.Ctx) error {
	providerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid provider ID",
		})
	}

	if err := ctl.admin.RejectProvider(c.Context(), uint(providerID)); err != nil {
		return utils.RespondError(c, "Failed to reject provider", err)
	}

	return c.JSON(fiber.Map{
		"message": "Provider rejected",
	})
}
