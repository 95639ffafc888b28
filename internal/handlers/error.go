package handlers

import (
	"github.com/dialogue-eval/ratingsdb/internal/types"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler maps errors escaping handlers and middleware to the API's
// JSON error envelope. Internal details are never surfaced to callers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Server error"

	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
