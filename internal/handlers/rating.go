package handlers

import (
	"errors"
	"log"

	"github.com/dialogue-eval/ratingsdb/internal/middleware"
	"github.com/dialogue-eval/ratingsdb/internal/services"
	"github.com/dialogue-eval/ratingsdb/internal/types"
	"github.com/dialogue-eval/ratingsdb/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RatingHandler handles rating submission and retrieval
type RatingHandler struct {
	DB *gorm.DB
}

// ratingBody accepts metric scores as JSON numbers or strings; star widgets
// post strings.
type ratingBody struct {
	DialogueID         string         `json:"dialogue_id"`
	Realism            *types.FlexInt `json:"realism"`
	Conciseness        *types.FlexInt `json:"conciseness"`
	Coherence          *types.FlexInt `json:"coherence"`
	OverallNaturalness *types.FlexInt `json:"overall_naturalness"`
	UtteranceRealism   *types.FlexInt `json:"utterance_realism"`
	ScriptFollowing    *types.FlexInt `json:"script_following"`
}

func toInt(f *types.FlexInt) *int {
	if f == nil {
		return nil
	}
	v := f.Int()
	return &v
}

// Submit handles POST /api/rating
// @Summary Submit a rating
// @Description Upserts the caller's rating for a dialogue; resubmission overwrites
// @Tags Ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body object true "dialogue_id plus metric scores 1-5"
// @Success 200 {object} utils.RatingSavedStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /rating [post]
func (h *RatingHandler) Submit(c *fiber.Ctx) error {
	claims, ok := middleware.UserClaims(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Access token required")
	}

	var body ratingBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input")
	}

	input := services.RatingInput{
		Realism:            toInt(body.Realism),
		Conciseness:        toInt(body.Conciseness),
		Coherence:          toInt(body.Coherence),
		OverallNaturalness: toInt(body.OverallNaturalness),
		UtteranceRealism:   toInt(body.UtteranceRealism),
		ScriptFollowing:    toInt(body.ScriptFollowing),
	}

	ratingID, err := services.SubmitRating(h.DB, claims.UserID, body.DialogueID, input)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, verr.Message)
		}
		log.Printf("rating submit failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error saving rating")
	}

	return c.JSON(fiber.Map{
		"message":   "Rating saved successfully",
		"rating_id": ratingID,
	})
}

// History handles GET /api/ratings/history
// @Summary Get the caller's rating history
// @Description Every rating the caller authored, joined with dialogue title and payload, newest first
// @Tags Ratings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.HistoryEntry
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /ratings/history [get]
func (h *RatingHandler) History(c *fiber.Ctx) error {
	claims, ok := middleware.UserClaims(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Access token required")
	}

	entries, err := services.HistoryFor(h.DB, claims.UserID)
	if err != nil {
		log.Printf("rating history failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Database error")
	}

	return c.JSON(entries)
}

// Get handles GET /api/ratings/:dialogueId
// @Summary Get the caller's rating for one dialogue
// @Tags Ratings
// @Produce json
// @Security BearerAuth
// @Param dialogueId path string true "External dialogue identifier"
// @Success 200 {object} services.UserRating
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /ratings/{dialogueId} [get]
func (h *RatingHandler) Get(c *fiber.Ctx) error {
	claims, ok := middleware.UserClaims(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Access token required")
	}

	rating, err := services.RatingFor(h.DB, claims.UserID, c.Params("dialogueId"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Rating not found")
		}
		log.Printf("rating lookup failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Database error")
	}

	return c.JSON(rating)
}
