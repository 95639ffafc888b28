// Package loader populates the dialogue store from a directory of generated
// JSON documents at process start. Loading is idempotent: a dialogue whose
// external identifier already exists is left untouched, even if the file
// contents changed.
package loader

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dialogue-eval/ratingsdb/internal/models"
	"github.com/dialogue-eval/ratingsdb/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ManifestFile is the aggregate file in the dialogue directory that is not a
// dialogue itself and is always skipped.
const ManifestFile = "llm_generated_dialogues.json"

// dialogueDoc captures the fields the store indexes; the full document is
// persisted verbatim as the payload.
type dialogueDoc struct {
	ProductID    types.FlexInt `json:"product_id"`
	ProductTitle string        `json:"product_title"`
}

// LoadDialogues reads every JSON file in dir (except the manifest) and
// inserts each as a dialogue row if its external identifier is absent.
// Returns the number of files parsed. Unreadable or malformed files are
// logged and skipped.
func LoadDialogues(db *gorm.DB, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read dialogues directory %s: %w", dir, err)
	}

	loaded := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || name == ManifestFile {
			continue
		}

		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Skipping dialogue file %s: %v", name, err)
			continue
		}

		var doc dialogueDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			log.Printf("Skipping malformed dialogue file %s: %v", name, err)
			continue
		}

		dialogue := models.Dialogue{
			DialogueID:   ExternalID(doc.ProductID.Int()),
			ProductID:    doc.ProductID.Int(),
			ProductTitle: doc.ProductTitle,
			DialogueData: raw,
			SourceFile:   name,
		}

		// Insert-if-absent keyed on dialogue_id; restarts never duplicate
		// or update existing rows.
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dialogue_id"}},
			DoNothing: true,
		}).Create(&dialogue).Error
		if err != nil {
			return loaded, fmt.Errorf("failed to insert dialogue %s: %w", dialogue.DialogueID, err)
		}

		loaded++
	}

	log.Printf("Loaded %d dialogues into database", loaded)
	return loaded, nil
}

// ExternalID derives the stable external identifier for a product's dialogue.
func ExternalID(productID int) string {
	return fmt.Sprintf("dialogue_%d", productID)
}
