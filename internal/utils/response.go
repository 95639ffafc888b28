package utils

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse sends the error envelope the deployed frontend consumes:
// {"error": "<message>"}.
func ErrorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Error string `json:"error"`
}

// TokenResponseStruct defines the schema for register/login responses
type TokenResponseStruct struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// RatingSavedStruct defines the schema for rating submission responses
type RatingSavedStruct struct {
	Message  string `json:"message"`
	RatingID uint   `json:"rating_id"`
}
