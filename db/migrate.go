package db

import (
	"fmt"
	"log"

	"github.com/proenpoche/pro-en-poche/models"
)

func Migrate() {
	err := DB.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.ProviderProfile{},
		&models.Subscription{},
		&models.Booking{},
		&models.Review{},
		&models.Announcement{},
		&models.ChatMessage{},
		&models.SiteSettings{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	seedRoles()

	fmt.Println("✅ Migrations applied successfully!")
}

func seedRoles() {
	roles := []models.Role{
		{Name: models.RoleClient, Description: "Client who books services"},
		{Name: models.RoleProvider, Description: "Service provider offering bookable services"},
		{Name: models.RoleAdmin, Description: "Administrator moderating providers and users"},
		{Name: models.RoleSuperAdmin, Description: "Superadmin managing platform configuration"},
	}

	for _, role := range roles {
		var existing models.Role
		if DB.Where("name = ?", role.Name).First(&existing).RowsAffected == 0 {
			DB.Create(&role)
		}
	}
}
