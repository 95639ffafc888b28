package handlers

import (
	"errors"
	"log"

	"github.com/dialogue-eval/ratingsdb/internal/services"
	"github.com/dialogue-eval/ratingsdb/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
}

// Register handles POST /api/register
// @Summary Register a new user
// @Description Create an account and receive a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body object true "username, email, password"
// @Success 200 {object} utils.TokenResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "All fields are required")
	}

	token, user, err := services.Register(h.DB, h.JWTSecret, body.Username, body.Email, body.Password)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, verr.Message)
		case errors.Is(err, services.ErrUserExists):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Username or email already exists")
		default:
			log.Printf("register failed: %v", err)
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error creating user")
		}
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /api/login
// @Summary Log in
// @Description Authenticate by username or email and receive a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body object true "username (or email), password"
// @Success 200 {object} utils.TokenResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Username and password are required")
	}

	token, user, err := services.Login(h.DB, h.JWTSecret, body.Username, body.Password)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, verr.Message)
		case errors.Is(err, services.ErrInvalidCredentials):
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials")
		default:
			log.Printf("login failed: %v", err)
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Database error")
		}
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}
