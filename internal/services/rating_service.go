package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dialogue-eval/ratingsdb/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingInput carries the submitted metric scores. Nil means the metric was
// not provided; provided values must be in 1..5.
type RatingInput struct {
	Realism            *int
	Conciseness        *int
	Coherence          *int
	OverallNaturalness *int
	UtteranceRealism   *int
	ScriptFollowing    *int
}

// metrics returns name/value pairs in canonical order.
func (in *RatingInput) metrics() []struct {
	Name  string
	Value *int
} {
	return []struct {
		Name  string
		Value *int
	}{
		{"realism", in.Realism},
		{"conciseness", in.Conciseness},
		{"coherence", in.Coherence},
		{"overall_naturalness", in.OverallNaturalness},
		{"utterance_realism", in.UtteranceRealism},
		{"script_following", in.ScriptFollowing},
	}
}

// Validate checks every provided score is within the 1..5 scale.
func (in *RatingInput) Validate() error {
	for _, m := range in.metrics() {
		if m.Value != nil && (*m.Value < 1 || *m.Value > 5) {
			return NewValidationError(fmt.Sprintf("%s must be between 1 and 5", m.Name))
		}
	}
	return nil
}

// SubmitRating upserts the user's rating for a dialogue. The unique
// (user_id, dialogue_id) index plus ON CONFLICT replacement makes concurrent
// resubmission by the same user converge to a single row. Returns the id of
// the resulting row.
func SubmitRating(db *gorm.DB, userID uint, dialogueID string, in RatingInput) (uint, error) {
	if dialogueID == "" {
		return 0, NewValidationError("Dialogue ID is required")
	}
	if err := in.Validate(); err != nil {
		return 0, err
	}

	rating := models.Rating{
		UserID:             userID,
		DialogueID:         dialogueID,
		Realism:            in.Realism,
		Conciseness:        in.Conciseness,
		Coherence:          in.Coherence,
		OverallNaturalness: in.OverallNaturalness,
		UtteranceRealism:   in.UtteranceRealism,
		ScriptFollowing:    in.ScriptFollowing,
		CreatedAt:          time.Now().UTC(),
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "dialogue_id"}},
		UpdateAll: true,
	}).Create(&rating).Error
	if err != nil {
		return 0, fmt.Errorf("failed to save rating: %w", err)
	}

	// The replace path does not always report the surviving row's id.
	if rating.ID == 0 {
		var saved models.Rating
		if err := db.Select("id").
			Where("user_id = ? AND dialogue_id = ?", userID, dialogueID).
			First(&saved).Error; err != nil {
			return 0, fmt.Errorf("failed to read back rating: %w", err)
		}
		rating.ID = saved.ID
	}

	return rating.ID, nil
}

// HistoryEntry is one row of a user's rating history, newest first.
type HistoryEntry struct {
	ID           uint            `json:"id"`
	DialogueID   string          `json:"dialogue_id"`
	ProductTitle string          `json:"product_title"`
	Ratings      map[string]*int `json:"ratings"`
	CreatedAt    time.Time       `json:"created_at"`
	Dialogue     interface{}     `json:"dialogue"`
}

type historyRow struct {
	ID                 uint
	DialogueID         string
	ProductTitle       string
	Realism            *int
	Conciseness        *int
	Coherence          *int
	OverallNaturalness *int
	UtteranceRealism   *int
	ScriptFollowing    *int
	CreatedAt          time.Time
	DialogueData       datatypes.JSON
}

// HistoryFor returns every rating the user authored joined with its
// dialogue's title and payload, newest first. A malformed stored payload
// degrades that row's dialogue to null instead of failing the listing.
func HistoryFor(db *gorm.DB, userID uint) ([]HistoryEntry, error) {
	var rows []historyRow
	err := db.Raw(`SELECT r.id, r.dialogue_id, r.realism, r.conciseness, r.coherence,
			r.overall_naturalness, r.utterance_realism, r.script_following,
			r.created_at, d.product_title, d.dialogue_data
		FROM ratings r
		JOIN dialogues d ON r.dialogue_id = d.dialogue_id
		WHERE r.user_id = ?
		ORDER BY r.created_at DESC, r.id DESC`, userID).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load rating history: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(rows))
	for _, row := range rows {
		var dialogue interface{}
		var doc map[string]interface{}
		if err := json.Unmarshal(row.DialogueData, &doc); err == nil {
			dialogue = doc
		}

		entries = append(entries, HistoryEntry{
			ID:           row.ID,
			DialogueID:   row.DialogueID,
			ProductTitle: row.ProductTitle,
			Ratings:      scoresMap(row.Realism, row.Conciseness, row.Coherence, row.OverallNaturalness, row.UtteranceRealism, row.ScriptFollowing),
			CreatedAt:    row.CreatedAt,
			Dialogue:     dialogue,
		})
	}

	return entries, nil
}

// UserRating is the single-rating lookup result.
type UserRating struct {
	DialogueID string          `json:"dialogue_id"`
	Ratings    map[string]*int `json:"ratings"`
	CreatedAt  time.Time       `json:"created_at"`
}

// RatingFor returns the user's rating for one dialogue, or ErrNotFound when
// the pair has no rating yet.
func RatingFor(db *gorm.DB, userID uint, dialogueID string) (*UserRating, error) {
	var rating models.Rating
	err := db.Where("user_id = ? AND dialogue_id = ?", userID, dialogueID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up rating: %w", err)
	}

	return &UserRating{
		DialogueID: rating.DialogueID,
		Ratings:    rating.Scores(),
		CreatedAt:  rating.CreatedAt,
	}, nil
}

func scoresMap(realism, conciseness, coherence, overallNaturalness, utteranceRealism, scriptFollowing *int) map[string]*int {
	return map[string]*int{
		"realism":             realism,
		"conciseness":         conciseness,
		"coherence":           coherence,
		"overall_naturalness": overallNaturalness,
		"utterance_realism":   utteranceRealism,
		"script_following":    scriptFollowing,
	}
}
