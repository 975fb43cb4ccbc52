package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/proenpoche/pro-en-poche/controllers/provider"
	"github.com/proenpoche/pro-en-poche/middleware"
	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/repository"
	"github.com/proenpoche/pro-en-poche/services"
)

// SetupProviderRoutes configures the provider-side screens: profile,
// announcements, subscription and dashboard.
func SetupProviderRoutes(
	app *fiber.App,
	providers repository.ProviderRepository,
	announcements repository.AnnouncementRepository,
	discovery *services.DiscoveryService,
	subscriptions *services.SubscriptionService,
	bookings *services.BookingService,
	reviews *services.ReviewService,
) {
	announcementCtl := provider.NewAnnouncementController(announcements)
	subscriptionCtl := provider.NewSubscriptionController(subscriptions)
	dashboardCtl := provider.NewDashboardController(bookings, reviews)
	profileCtl := provider.NewProfileController(providers, discovery)

	// Public announcement feed
	app.Get("/announcements", announcementCtl.ListActive)

	providerGroup := app.Group("/provider",
		middleware.Protected(), middleware.RequireRole(models.RoleProvider))

	providerGroup.Get("/profile", profileCtl.Get)
	providerGroup.Put("/profile", profileCtl.Update)

	providerGroup.Get("/announcements", announcementCtl.ListMine)
	providerGroup.Post("/announcements", announcementCtl.Create)
	providerGroup.Put("/announcements/:id", announcementCtl.Update)
	providerGroup.Delete("/announcements/:id", announcementCtl.Delete)

	providerGroup.Get("/subscription/plans", subscriptionCtl.Plans)
	providerGroup.Post("/subscription", subscriptionCtl.Activate)
	providerGroup.Get("/subscription", subscriptionCtl.Current)

	providerGroup.Get("/dashboard", dashboardCtl.Overview)
	providerGroup.Get("/bookings", dashboardCtl.Bookings)
}
