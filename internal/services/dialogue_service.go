package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/dialogue-eval/ratingsdb/internal/models"
	"gorm.io/gorm"
)

// DialoguePayload is the API output for a dialogue: the stored JSON document
// spread with the row's storage id and external identifier, preserving the
// wire shape the frontend consumes.
type DialoguePayload map[string]interface{}

// SpreadDialogue merges a dialogue row's stored JSON document with its ids.
// A malformed stored document degrades to just the ids rather than failing.
func SpreadDialogue(d *models.Dialogue) DialoguePayload {
	payload := make(DialoguePayload)
	if err := json.Unmarshal(d.DialogueData, &payload); err != nil {
		log.Printf("dialogue %s: malformed stored payload: %v", d.DialogueID, err)
		payload = make(DialoguePayload)
	}
	payload["db_id"] = d.ID
	payload["dialogue_id"] = d.DialogueID
	return payload
}

// RandomUnrated selects one dialogue uniformly at random from the subset the
// user has not rated yet. When the user has rated every dialogue it reports
// allRated instead; it never falls back to re-serving a rated dialogue.
func RandomUnrated(db *gorm.DB, userID uint) (DialoguePayload, bool, error) {
	q := fmt.Sprintf(`SELECT d.* FROM dialogues d
		LEFT JOIN ratings r ON d.dialogue_id = r.dialogue_id AND r.user_id = ?
		WHERE r.id IS NULL
		ORDER BY %s
		LIMIT 1`, randomFunc(db))

	var d models.Dialogue
	if err := db.Raw(q, userID).Scan(&d).Error; err != nil {
		return nil, false, fmt.Errorf("failed to select random dialogue: %w", err)
	}

	if d.ID == 0 {
		return nil, true, nil
	}

	return SpreadDialogue(&d), false, nil
}

// GetByDialogueID looks up a dialogue by its external identifier.
func GetByDialogueID(db *gorm.DB, dialogueID string) (DialoguePayload, error) {
	var d models.Dialogue
	err := db.Where("dialogue_id = ?", dialogueID).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up dialogue: %w", err)
	}

	return SpreadDialogue(&d), nil
}

// randomFunc returns the random-ordering expression for the active dialect.
func randomFunc(db *gorm.DB) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "RAND()"
	case "sqlserver", "mssql":
		return "NEWID()"
	default:
		return "RANDOM()"
	}
}
