package provider

import (
	"github.com/gofiber/fiber/v2"

	"github.com/proenpoche/pro-en-poche/services"
	"github.com/proenpoche/pro-en-poche/utils"
)

type SubscriptionController struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionController(subscriptions *services.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{subscriptions: subscriptions}
}

// Plans lists the available offers.
func (ctl *SubscriptionController) Plans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"plans": services.PlanOffers,
	})
}

// Activate puts the provider on the named plan for one month, replacing any
// existing subscription. Paid plans are charged before activation.
func (ctl *SubscriptionController) Activate(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	type activateInput struct {
		Plan string `json:"plan"`
	}
	input := new(activateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	subscription, err := ctl.subscriptions.ActivatePlan(c.Context(), userID, input.Plan)
	if err != nil {
		return utils.RespondError(c, "Failed to activate plan", err)
	}

	return c.Status(fiber.StatusCreated).JSON(subscription)
}

// Current returns the provider's subscription, if any.
func (ctl *SubscriptionController) Current(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	subscription, err := ctl.subscriptions.Current(c.Context(), userID)
	if err != nil {
		return utils.RespondError(c, "Failed to get subscription", err)
	}

	return c.JSON(subscription)
}
