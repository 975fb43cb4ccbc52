package provider

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/repository"
	"github.com/proenpoche/pro-en-poche/utils"
)

type AnnouncementController struct {
	announcements repository.AnnouncementRepository
}

func NewAnnouncementController(announcements repository.AnnouncementRepository) *AnnouncementController {
	return &AnnouncementController{announcements: announcements}
}

type AnnouncementInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	HourlyRate   float64  `json:"hourly_rate"`
	Location     string   `json:"location"`
	Availability []string `json:"availability"`
	Services     []string `json:"services"`
	IsActive     *bool    `json:"is_active"`
	Version      int      `json:"version"`
}

// Create publishes a new announcement for the logged-in provider.
func (ctl *AnnouncementController) Create(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	input := new(AnnouncementInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	announcement := models.Announcement{
		ProviderID:   userID,
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		HourlyRate:   input.HourlyRate,
		Location:     input.Location,
		Availability: datatypes.NewJSONSlice(input.Availability),
		Services:     datatypes.NewJSONSlice(input.Services),
		IsActive:     true,
		Version:      1,
	}
	if err := ctl.announcements.Create(c.Context(), &announcement); err != nil {
		return utils.RespondError(c, "Failed to create announcement", err)
	}

	return c.Status(fiber.StatusCreated).JSON(announcement)
}

// Update edits an announcement. The caller must send back the version it
// read; a stale version gets a conflict instead of silently overwriting.
func (ctl *AnnouncementController) Update(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	announcementID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid announcement ID",
		})
	}

	input := new(AnnouncementInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	announcement, err := ctl.announcements.GetByID(c.Context(), uint(announcementID))
	if err != nil {
		return utils.RespondError(c, "Announcement not found", err)
	}
	if announcement.ProviderID != userID {
		return utils.RespondError(c, "Not your announcement",
			&utils.ForbiddenError{Message: "announcement belongs to another provider"})
	}

	announcement.Title = input.Title
	announcement.Description = input.Description
	announcement.Category = input.Category
	announcement.HourlyRate = input.HourlyRate
	announcement.Location = input.Location
	announcement.Availability = datatypes.NewJSONSlice(input.Availability)
	announcement.Services = datatypes.NewJSONSlice(input.Services)
	if input.IsActive != nil {
		announcement.IsActive = *input.IsActive
	}
	announcement.Version = input.Version

	if err := ctl.announcements.Update(c.Context(), announcement); err != nil {
		return utils.RespondError(c, "Failed to update announcement", err)
	}

	return c.JSON(announcement)
}

// Delete removes one of the provider's announcements.
func (ctl *AnnouncementController) Delete(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	announcementID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid announcement ID",
		})
	}

	announcement, err := ctl.announcements.GetByID(c.Context(), uint(announcementID))
	if err != nil {
		return utils.RespondError(c, "Announcement not found", err)
	}
	if announcement.ProviderID != userID {
		return utils.RespondError(c, "Not your announcement",
			&utils.ForbiddenError{Message: "announcement belongs to another provider"})
	}

	if err := ctl.announcements.Delete(c.Context(), uint(announcementID)); err != nil {
		return utils.RespondError(c, "Failed to delete announcement", err)
	}

	return c.JSON(fiber.Map{
		"message": "Announcement deleted successfully",
	})
}

// ListMine returns all of the provider's announcements, active or not.
func (ctl *AnnouncementController) ListMine(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	announcements, err := ctl.announcements.ListByProvider(c.Context(), userID)
	if err != nil {
		return utils.RespondError(c, "Failed to list announcements", err)
	}

	return c.JSON(fiber.Map{
		"announcements": announcements,
		"total":         len(announcements),
	})
}

// ListActive is the public feed of active announcements.
func (ctl *AnnouncementController) ListActive(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	announcements, total, err := ctl.announcements.ListActive(c.Context(), limit, offset)
	if err != nil {
		return utils.RespondError(c, "Failed to list announcements", err)
	}

	return c.JSON(fiber.Map{
		"announcements": announcements,
		"total":         total,
	})
}
