package models

import (
	"time"
)

// Rating holds one user's scores for one dialogue. The (user_id, dialogue_id)
// pair is unique; resubmission replaces the existing row. Metric columns are
// nullable so partially scored submissions round-trip as null, not zero.
type Rating struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             uint      `gorm:"not null;index:idx_user_dialogue,unique" json:"user_id"`
	DialogueID         string    `gorm:"size:255;not null;index:idx_user_dialogue,unique" json:"dialogue_id"`
	Realism            *int      `json:"realism"`
	Conciseness        *int      `json:"conciseness"`
	Coherence          *int      `json:"coherence"`
	OverallNaturalness *int      `json:"overall_naturalness"`
	UtteranceRealism   *int      `json:"utterance_realism"`
	ScriptFollowing    *int      `json:"script_following"`
	CreatedAt          time.Time `json:"created_at"`
}

// TableName overrides the table name for Rating
func (Rating) TableName() string {
	return "ratings"
}

// MetricNames lists the rating metric columns in their canonical order.
var MetricNames = []string{
	"realism",
	"conciseness",
	"coherence",
	"overall_naturalness",
	"utterance_realism",
	"script_following",
}

// Scores returns the metric values keyed by metric name.
func (r *Rating) Scores() map[string]*int {
	return map[string]*int{
		"realism":             r.Realism,
		"conciseness":         r.Conciseness,
		"coherence":           r.Coherence,
		"overall_naturalness": r.OverallNaturalness,
		"utterance_realism":   r.UtteranceRealism,
		"script_following":    r.ScriptFollowing,
	}
}
