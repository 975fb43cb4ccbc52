package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/proenpoche/pro-en-poche/models"
)

// RequireRole allows the request through when the authenticated role is one
// of the given role names. Runs after Protected().
func RequireRole(roleNames ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User role not found in context",
			})
		}

		for _, name := range roleNames {
			if role == name {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have the required role to perform this action",
		})
	}
}

// RequireAdmin admits admins and superadmins.
func RequireAdmin() fiber.Handler {
	return RequireRole(models.RoleAdmin, models.RoleSuperAdmin)
}
