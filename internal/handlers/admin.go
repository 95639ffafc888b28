package handlers

import (
	"log"

	"github.com/dialogue-eval/ratingsdb/internal/services"
	"github.com/dialogue-eval/ratingsdb/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminHandler handles read-only reporting routes, all behind RequireAdmin
type AdminHandler struct {
	DB *gorm.DB
}

// Stats handles GET /api/admin/stats
// @Summary Aggregate totals and averages
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.Stats
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := services.GetStats(h.DB)
	if err != nil {
		log.Printf("admin stats failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Database error")
	}
	return c.JSON(stats)
}

// Users handles GET /api/admin/users
// @Summary All users with rating counts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.AdminUser
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/users [get]
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users, err := services.ListUsers(h.DB)
	if err != nil {
		log.Printf("admin users failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Database error")
	}
	return c.JSON(users)
}

// Ratings handles GET /api/admin/ratings?limit&offset
// @Summary Paginated ratings with author and dialogue context
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} services.AdminRating
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/ratings [get]
func (h *AdminHandler) Ratings(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)

	ratings, err := services.ListRatings(h.DB, limit, offset)
	if err != nil {
		log.Printf("admin ratings failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Database error")
	}
	return c.JSON(ratings)
}

// Dialogues handles GET /api/admin/dialogues
// @Summary All dialogues with rating counts and per-metric averages
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.AdminDialogue
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/dialogues [get]
func (h *AdminHandler) Dialogues(c *fiber.Ctx) error {
	dialogues, err := services.ListDialogues(h.DB)
	if err != nil {
		log.Printf("admin dialogues failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Database error")
	}
	return c.JSON(dialogues)
}
