package consumer

import (
	"github.com/gofiber/fiber/v2"

	"github.com/proenpoche/pro-en-poche/services"
	"github.com/proenpoche/pro-en-poche/utils"
)

type ChatController struct {
	chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{chat: chat}
}

// Send posts a message in a booking's conversation. Only the booking's two
// parties can write, and only while the booking is confirmed or completed.
func (ctl *ChatController) Send(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	bookingID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking ID",
		})
	}

	type sendInput struct {
		Body string `json:"body"`
	}
	input := new(sendInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	message, err := ctl.chat.Send(c.Context(), uint(bookingID), userID, input.Body)
	if err != nil {
		return utils.RespondError(c, "Failed to send message", err)
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

// Messages returns a booking's conversation and marks the other party's
// messages as read.
func (ctl *ChatController) Messages(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	bookingID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking ID",
		})
	}

	messages, err := ctl.chat.Messages(c.Context(), uint(bookingID), userID)
	if err != nil {
		return utils.RespondError(c, "Failed to load messages", err)
	}

	return c.JSON(fiber.Map{
		"messages": messages,
		"total":    len(messages),
	})
}

// Conversations lists the user's chattable bookings with unread counts.
func (ctl *ChatController) Conversations(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	conversations, err := ctl.chat.Conversations(c.Context(), userID)
	if err != nil {
		return utils.RespondError(c, "Failed to load conversations", err)
	}

	return c.JSON(fiber.Map{
		"conversations": conversations,
		"total":         len(conversations),
	})
}
