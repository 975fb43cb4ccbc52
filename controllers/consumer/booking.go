package consumer

import (
	"github.com/gofiber/fiber/v2"

	"github.com/proenpoche/pro-en-poche/services"
	"github.com/proenpoche/pro-en-poche/utils"
)

type BookingController struct {
	bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{bookings: bookings}
}

// Create books a provider. The booking comes back confirmed with its payment
// held; the client never picks the price.
func (ctl *BookingController) Create(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	input := new(services.BookingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	booking, err := ctl.bookings.Create(c.Context(), userID, *input)
	if err != nil {
		return utils.RespondError(c, "Failed to create booking", err)
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

// Get returns one booking, visible only to its client or provider.
func (ctl *BookingController) Get(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	bookingID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking ID",
		})
	}

	booking, err := ctl.bookings.GetForUser(c.Context(), uint(bookingID), userID)
	if err != nil {
		return utils.RespondError(c, "Failed to get booking", err)
	}

	return c.JSON(booking)
}

// List returns the current client's bookings, newest first.
func (ctl *BookingController) List(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	bookings, total, err := ctl.bookings.ListForClient(c.Context(), userID, limit, offset)
	if err != nil {
		return utils.RespondError(c, "Failed to list bookings", err)
	}

	return c.JSON(fiber.Map{
		"bookings": bookings,
		"total":    total,
	})
}

// Complete marks a confirmed booking as done. Either party may do it; the
// payment stays held until the client reviews.
func (ctl *BookingController) Complete(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	bookingID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking ID",
		})
	}

	booking, err := ctl.bookings.MarkComplete(c.Context(), uint(bookingID), userID)
	if err != nil {
		return utils.RespondError(c, "Failed to complete booking", err)
	}

	return c.JSON(booking)
}

// Cancel cancels a booking and refunds the held payment.
func (ctl *BookingController) Cancel(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	bookingID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking ID",
		})
	}

	booking, err := ctl.bookings.Cancel(c.Context(), uint(bookingID), userID)
	if err != nil {
		return utils.RespondError(c, "Failed to cancel booking", err)
	}

	return c.JSON(booking)
}
