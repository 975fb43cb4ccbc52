package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/proenpoche/pro-en-poche/controllers/consumer"
	"github.com/proenpoche/pro-en-poche/middleware"
	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/repository"
	"github.com/proenpoche/pro-en-poche/services"
)

// SetupConsumerRoutes configures provider discovery, bookings, reviews and
// chat. Discovery is public; everything else needs a logged-in user.
func SetupConsumerRoutes(
	app *fiber.App,
	discovery *services.DiscoveryService,
	bookings *services.BookingService,
	reviews *services.ReviewService,
	chat *services.ChatService,
	users repository.UserRepository,
) {
	discoveryCtl := consumer.NewDiscoveryController(discovery, reviews)
	bookingCtl := consumer.NewBookingController(bookings)
	reviewCtl := consumer.NewReviewController(reviews)
	chatCtl := consumer.NewChatController(chat)
	profileCtl := consumer.NewProfileController(users)

	// Public discovery
	app.Get("/providers", discoveryCtl.Search)
	app.Get("/providers/:id", discoveryCtl.GetProvider)
	app.Get("/providers/:id/reviews", reviewCtl.ListForProvider)
	app.Get("/providers/:id/stats", reviewCtl.Stats)

	// Bookings: creation is client-only, the rest is open to either party
	bookingGroup := app.Group("/bookings", middleware.Protected())
	bookingGroup.Post("/", middleware.RequireRole(models.RoleClient), bookingCtl.Create)
	bookingGroup.Get("/", middleware.RequireRole(models.RoleClient), bookingCtl.List)
	bookingGroup.Get("/:id", bookingCtl.Get)
	bookingGroup.Patch("/:id/complete", bookingCtl.Complete)
	bookingGroup.Patch("/:id/cancel", bookingCtl.Cancel)

	// Chat lives on bookings
	bookingGroup.Post("/:id/messages", chatCtl.Send)
	bookingGroup.Get("/:id/messages", chatCtl.Messages)
	app.Get("/conversations", middleware.Protected(), chatCtl.Conversations)

	// Reviews
	app.Post("/reviews", middleware.Protected(), middleware.RequireRole(models.RoleClient), reviewCtl.Submit)

	// Profile
	app.Post("/profile/avatar", middleware.Protected(), profileCtl.UploadAvatar)
}
