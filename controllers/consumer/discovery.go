package consumer

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/proenpoche/pro-en-poche/services"
	"github.com/proenpoche/pro-en-poche/utils"
)

type DiscoveryController struct {
	discovery *services.DiscoveryService
	reviews   *services.ReviewService
}

func NewDiscoveryController(discovery *services.DiscoveryService, reviews *services.ReviewService) *DiscoveryController {
	return &DiscoveryController{discovery: discovery, reviews: reviews}
}

// Search lists verified providers matching the query-string filters. Sending
// "Tous les services" / "Toutes les villes" (or nothing) disables that filter.
func (ctl *DiscoveryController) Search(c *fiber.Ctx) error {
	filters := services.SearchFilters{
		Category: c.Query("category"),
		Location: c.Query("location"),
	}
	filters.PriceMin, _ = strconv.ParseFloat(c.Query("price_min", "0"), 64)
	filters.PriceMax, _ = strconv.ParseFloat(c.Query("price_max", "0"), 64)
	filters.MinRating, _ = strconv.ParseFloat(c.Query("min_rating", "0"), 64)

	providers, err := ctl.discovery.Search(c.Context(), c.Query("q"), filters)
	if err != nil {
		return utils.RespondError(c, "Failed to search providers", err)
	}

	return c.JSON(fiber.Map{
		"providers": providers,
		"total":     len(providers),
	})
}

// GetProvider returns one provider's public profile with rating and reviews.
func (ctl *DiscoveryController) GetProvider(c *fiber.Ctx) error {
	providerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid provider ID",
		})
	}

	provider, err := ctl.discovery.GetProvider(c.Context(), uint(providerID))
	if err != nil {
		return utils.RespondError(c, "Provider not found", err)
	}

	reviews, _, err := ctl.reviews.ListForProvider(c.Context(), uint(providerID), 20, 0)
	if err != nil {
		return utils.RespondError(c, "Failed to load reviews", err)
	}

	return c.JSON(fiber.Map{
		"provider": provider,
		"reviews":  reviews,
	})
}
