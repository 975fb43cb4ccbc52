package provider

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"github.com/proenpoche/pro-en-poche/repository"
	"github.com/proenpoche/pro-en-poche/services"
	"github.com/proenpoche/pro-en-poche/utils"
)

type ProfileController struct {
	providers repository.ProviderRepository
	discovery *services.DiscoveryService
}

func NewProfileController(providers repository.ProviderRepository, discovery *services.DiscoveryService) *ProfileController {
	return &ProfileController{providers: providers, discovery: discovery}
}

// Get returns the logged-in provider's own profile, verified or not.
func (ctl *ProfileController) Get(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := ctl.providers.GetByUserID(c.Context(), userID)
	if err != nil {
		return utils.RespondError(c, "Provider profile not found", err)
	}

	return c.JSON(profile)
}

type ProfileInput struct {
	Bio          string   `json:"bio"`
	Location     string   `json:"location"`
	Services     []string `json:"services"`
	Availability []string `json:"availability"`
	HourlyRate   float64  `json:"hourly_rate"`
}

// Update edits the provider's profile. Verification status is untouched;
// only an admin can change that.
func (ctl *ProfileController) Update(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	input := new(ProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.HourlyRate < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Hourly rate cannot be negative",
		})
	}

	profile, err := ctl.providers.GetByUserID(c.Context(), userID)
	if err != nil {
		return utils.RespondError(c, "Provider profile not found", err)
	}

	profile.Bio = input.Bio
	profile.Location = input.Location
	profile.Services = datatypes.NewJSONSlice(input.Services)
	profile.Availability = datatypes.NewJSONSlice(input.Availability)
	profile.HourlyRate = input.HourlyRate

	if err := ctl.providers.Update(c.Context(), profile); err != nil {
		return utils.RespondError(c, "Failed to update profile", err)
	}

	ctl.discovery.InvalidateCache(c.Context())

	return c.JSON(profile)
}
