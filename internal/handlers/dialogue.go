package handlers

import (
	"errors"
	"log"

	"github.com/dialogue-eval/ratingsdb/internal/middleware"
	"github.com/dialogue-eval/ratingsdb/internal/services"
	"github.com/dialogue-eval/ratingsdb/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DialogueHandler handles dialogue retrieval routes
type DialogueHandler struct {
	DB *gorm.DB
}

// Random handles GET /api/dialogue/random
// @Summary Get a random unrated dialogue
// @Description Returns a dialogue the caller has not rated yet, or all_rated when none remain
// @Tags Dialogues
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /dialogue/random [get]
func (h *DialogueHandler) Random(c *fiber.Ctx) error {
	claims, ok := middleware.UserClaims(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Access token required")
	}

	payload, allRated, err := services.RandomUnrated(h.DB, claims.UserID)
	if err != nil {
		log.Printf("random dialogue failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Database error")
	}

	if allRated {
		return c.JSON(fiber.Map{
			"all_rated": true,
			"dialogue":  nil,
			"message":   "You have rated all available dialogues",
		})
	}

	return c.JSON(payload)
}

// Get handles GET /api/dialogue/:dialogueId
// @Summary Get a dialogue by id
// @Description Returns the dialogue payload with its storage id and external identifier
// @Tags Dialogues
// @Produce json
// @Security BearerAuth
// @Param dialogueId path string true "External dialogue identifier"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /dialogue/{dialogueId} [get]
func (h *DialogueHandler) Get(c *fiber.Ctx) error {
	payload, err := services.GetByDialogueID(h.DB, c.Params("dialogueId"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Dialogue not found")
		}
		log.Printf("dialogue lookup failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Database error")
	}

	return c.JSON(payload)
}
