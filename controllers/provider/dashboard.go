package provider

import (
	"github.com/gofiber/fiber/v2"

	"github.com/proenpoche/pro-en-poche/services"
	"github.com/proenpoche/pro-en-poche/utils"
)

type DashboardController struct {
	bookings *services.BookingService
	reviews  *services.ReviewService
}

func NewDashboardController(bookings *services.BookingService, reviews *services.ReviewService) *DashboardController {
	return &DashboardController{bookings: bookings, reviews: reviews}
}

// Overview returns booking counts, held and released revenue, and the
// provider's review stats in one payload.
func (ctl *DashboardController) Overview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	stats, err := ctl.bookings.Dashboard(c.Context(), userID)
	if err != nil {
		return utils.RespondError(c, "Failed to load dashboard", err)
	}

	reviewStats, err := ctl.reviews.StatsForProvider(c.Context(), userID)
	if err != nil {
		return utils.RespondError(c, "Failed to load review stats", err)
	}

	return c.JSON(fiber.Map{
		"bookings": stats,
		"reviews":  reviewStats,
	})
}

// Bookings returns the provider's bookings, newest first.
func (ctl *DashboardController) Bookings(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	bookings, total, err := ctl.bookings.ListForProvider(c.Context(), userID, limit, offset)
	if err != nil {
		return utils.RespondError(c, "Failed to list bookings", err)
	}

	return c.JSON(fiber.Map{
		"bookings": bookings,
		"total":    total,
	})
}
