package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/proenpoche/pro-en-poche/controllers/admin"
	"github.com/proenpoche/pro-en-poche/middleware"
	"github.com/proenpoche/pro-en-poche/repository"
	"github.com/proenpoche/pro-en-poche/services"
)

// SetupAdminRoutes configures the moderation and platform settings screens.
func SetupAdminRoutes(
	app *fiber.App,
	adminService *services.AdminService,
	settings repository.SettingsRepository,
) {
	providerCtl := admin.NewProviderController(adminService)
	userCtl := admin.NewUserController(adminService)
	settingsCtl := admin.NewSettingsController(settings)

	adminGroup := app.Group("/admin", middleware.Protected(), middleware.RequireAdmin())

	adminGroup.Get("/providers/pending", providerCtl.Pending)
	adminGroup.Post("/providers/:id/approve", providerCtl.Approve)
	adminGroup.Post("/providers/:id/reject", providerCtl.Reject)

	adminGroup.Get("/users", userCtl.List)

	adminGroup.Get("/settings", settingsCtl.Get)
	adminGroup.Put("/settings", settingsCtl.Update)
	adminGroup.Post("/settings/logo", settingsCtl.UploadLogo)
}
