package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/proenpoche/pro-en-poche/services"
	"github.com/proenpoche/pro-en-poche/utils"
)

type UserController struct {
	admin *services.AdminService
}

func NewUserController(admin *services.AdminService) *UserController {
	return &UserController{admin: admin}
}

// List pages through every registered user.
func (ctl *UserController) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	users, total, err := ctl.admin.ListUsers(c.Context(), limit, offset)
	if err != nil {
		return utils.RespondError(c, "Failed to list users", err)
	}

	for i := range users {
		users[i].Password = ""
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
	})
}
