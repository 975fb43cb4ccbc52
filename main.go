package main

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/proenpoche/pro-en-poche/cron"
	"github.com/proenpoche/pro-en-poche/db"
	"github.com/proenpoche/pro-en-poche/redis"
	"github.com/proenpoche/pro-en-poche/repository"
	"github.com/proenpoche/pro-en-poche/routes"
	"github.com/proenpoche/pro-en-poche/services"
)

func main() {
	app := fiber.New()
	db.Init()
	db.Migrate()
	redis.InitRedis()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	gormDB := db.GetDB()
	users := repository.NewGormUserRepository(gormDB)
	providers := repository.NewGormProviderRepository(gormDB)
	bookings := repository.NewGormBookingRepository(gormDB)
	reviews := repository.NewGormReviewRepository(gormDB)
	subscriptions := repository.NewGormSubscriptionRepository(gormDB)
	announcements := repository.NewGormAnnouncementRepository(gormDB)
	chatMessages := repository.NewGormChatRepository(gormDB)
	settings := repository.NewGormSettingsRepository(gormDB)

	notifier := services.NewEmailNotifier(settings)
	gateway := services.NewSimulatedGateway()

	discoveryService := services.NewDiscoveryService(providers, redis.NewCache())
	bookingService := services.NewBookingService(bookings, providers, users, notifier)
	reviewService := services.NewReviewService(reviews, bookings, discoveryService)
	chatService := services.NewChatService(chatMessages, bookings)
	subscriptionService := services.NewSubscriptionService(subscriptions, providers, gateway)
	adminService := services.NewAdminService(providers, users, discoveryService)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Pro En Poche API")
	})
	routes.SetupAuthRoutes(app)
	routes.SetupConsumerRoutes(app, discoveryService, bookingService, reviewService, chatService, users)
	routes.SetupProviderRoutes(app, providers, announcements, discoveryService, subscriptionService, bookingService, reviewService)
	routes.SetupAdminRoutes(app, adminService, settings)

	scheduler := cron.NewScheduler(bookings, subscriptionService, notifier)
	scheduler.Start()

	app.Listen(":8000")
	fmt.Println("Server started on port 8000")
}
