package consumer

import (
	"github.com/gofiber/fiber/v2"

	"github.com/proenpoche/pro-en-poche/services"
	"github.com/proenpoche/pro-en-poche/utils"
)

type ReviewController struct {
	reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

// Submit posts the client's review of a booking. Submitting the review is
// what releases the held payment to the provider.
func (ctl *ReviewController) Submit(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	input := new(services.ReviewInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	review, err := ctl.reviews.Submit(c.Context(), userID, *input)
	if err != nil {
		return utils.RespondError(c, "Failed to submit review", err)
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

// ListForProvider returns a provider's reviews, newest first.
func (ctl *ReviewController) ListForProvider(c *fiber.Ctx) error {
	providerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid provider ID",
		})
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	reviews, total, err := ctl.reviews.ListForProvider(c.Context(), uint(providerID), limit, offset)
	if err != nil {
		return utils.RespondError(c, "Failed to list reviews", err)
	}

	return c.JSON(fiber.Map{
		"reviews": reviews,
		"total":   total,
	})
}

// Stats returns a provider's average rating and review count.
func (ctl *ReviewController) Stats(c *fiber.Ctx) error {
	providerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid provider ID",
		})
	}

	stats, err := ctl.reviews.StatsForProvider(c.Context(), uint(providerID))
	if err != nil {
		return utils.RespondError(c, "Failed to get review stats", err)
	}

	return c.JSON(stats)
}
