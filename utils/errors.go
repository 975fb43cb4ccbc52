package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ValidationError reports input the domain layer refuses to act on.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// DuplicateReviewError reports a second review submitted for the same booking.
type DuplicateReviewError struct {
	BookingID uint
}

func (e *DuplicateReviewError) Error() string {
	return fmt.Sprintf("booking %d has already been reviewed", e.BookingID)
}

// ConcurrentModificationError reports a stale-version write.
type ConcurrentModificationError struct {
	Resource string
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s was modified concurrently, reload and retry", e.Resource)
}

// ForbiddenError reports an action the authenticated user may not perform.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// StatusForError maps domain errors onto HTTP status codes.
func StatusForError(err error) int {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		duplicate  *DuplicateReviewError
		concurrent *ConcurrentModificationError
		forbidden  *ForbiddenError
	)
	switch {
	case errors.As(err, &validation):
		return fiber.StatusBadRequest
	case errors.As(err, &notFound):
		return fiber.StatusNotFound
	case errors.As(err, &duplicate), errors.As(err, &concurrent):
		return fiber.StatusConflict
	case errors.As(err, &forbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondError writes a domain error with its mapped status code.
func RespondError(c *fiber.Ctx, message string, err error) error {
	return c.Status(StatusForError(err)).JSON(ErrorResponse{
		Message: message,
		Error:   err.Error(),
	})
}
