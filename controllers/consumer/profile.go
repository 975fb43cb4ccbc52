package consumer

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/proenpoche/pro-en-poche/repository"
	"github.com/proenpoche/pro-en-poche/utils"
)

type ProfileController struct {
	users repository.UserRepository
}

func NewProfileController(users repository.UserRepository) *ProfileController {
	return &ProfileController{users: users}
}

// UploadAvatar replaces the user's profile picture.
func (ctl *ProfileController) UploadAvatar(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	file, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to get avatar file",
		})
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to open avatar file",
		})
	}
	defer f.Close()

	publicID := fmt.Sprintf("user_%d_%d", userID, time.Now().Unix())

	secureURL, err := utils.UploadImage(c.Context(), f, publicID, "avatars")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload avatar",
		})
	}

	if err := ctl.users.UpdateAvatar(c.Context(), userID, secureURL); err != nil {
		return utils.RespondError(c, "Failed to update avatar", err)
	}

	return c.JSON(fiber.Map{
		"avatar_url": secureURL,
	})
}
