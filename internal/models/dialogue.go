package models

import (
	"time"

	"gorm.io/datatypes"
)

// Dialogue represents a generated dialogue loaded from the source directory.
// Rows are immutable after load; re-running the loader never updates them.
type Dialogue struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	DialogueID   string         `gorm:"uniqueIndex;size:255;not null" json:"dialogue_id"`
	ProductID    int            `json:"product_id"`
	ProductTitle string         `gorm:"size:512" json:"product_title"`
	DialogueData datatypes.JSON `gorm:"not null" json:"dialogue_data"`
	SourceFile   string         `gorm:"size:255" json:"source_file"`
	CreatedAt    time.Time      `json:"created_at"`
}

// TableName overrides the table name for Dialogue
func (Dialogue) TableName() string {
	return "dialogues"
}
