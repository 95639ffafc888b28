package services

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/dialogue-eval/ratingsdb/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers     int64              `json:"totalUsers"`
	TotalRatings   int64              `json:"totalRatings"`
	TotalDialogues int64              `json:"totalDialogues"`
	AverageRatings map[string]float64 `json:"averageRatings"`
	RatingsByDate  []DateCount        `json:"ratingsByDate"`
}

// DateCount is a per-day rating count.
type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type metricAverages struct {
	Realism            *float64
	Conciseness        *float64
	Coherence          *float64
	OverallNaturalness *float64
	UtteranceRealism   *float64
	ScriptFollowing    *float64
}

func (a *metricAverages) toMap() map[string]float64 {
	out := make(map[string]float64)
	pairs := []struct {
		name  string
		value *float64
	}{
		{"realism", a.Realism},
		{"conciseness", a.Conciseness},
		{"coherence", a.Coherence},
		{"overall_naturalness", a.OverallNaturalness},
		{"utterance_realism", a.UtteranceRealism},
		{"script_following", a.ScriptFollowing},
	}
	for _, p := range pairs {
		if p.value != nil {
			out[p.name] = math.Round(*p.value*100) / 100
		}
	}
	return out
}

// GetStats returns totals, per-metric averages over all ratings (two
// decimals, empty when no ratings exist), and rating counts for the 30 most
// recent distinct days, newest first.
func GetStats(db *gorm.DB) (*Stats, error) {
	stats := &Stats{
		AverageRatings: map[string]float64{},
		RatingsByDate:  []DateCount{},
	}

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&models.Rating{}).Count(&stats.TotalRatings).Error; err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}
	if err := db.Model(&models.Dialogue{}).Count(&stats.TotalDialogues).Error; err != nil {
		return nil, fmt.Errorf("failed to count dialogues: %w", err)
	}

	if stats.TotalRatings > 0 {
		var avgs metricAverages
		err := db.Raw(`SELECT AVG(realism) AS realism, AVG(conciseness) AS conciseness,
				AVG(coherence) AS coherence, AVG(overall_naturalness) AS overall_naturalness,
				AVG(utterance_realism) AS utterance_realism, AVG(script_following) AS script_following
			FROM ratings`).Scan(&avgs).Error
		if err != nil {
			return nil, fmt.Errorf("failed to average ratings: %w", err)
		}
		stats.AverageRatings = avgs.toMap()
	}

	dateExpr := dateExpr(db)
	err := db.Raw(fmt.Sprintf(`SELECT %s AS date, COUNT(*) AS count
		FROM ratings
		GROUP BY %s
		ORDER BY date DESC
		LIMIT 30`, dateExpr, dateExpr)).Scan(&stats.RatingsByDate).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group ratings by date: %w", err)
	}

	return stats, nil
}

// AdminUser is one row of the admin user listing.
type AdminUser struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	RatingCount int64     `json:"rating_count"`
}

// ListUsers returns every user with a count of ratings authored, newest
// joined first. Password hashes never leave the store.
func ListUsers(db *gorm.DB) ([]AdminUser, error) {
	users := []AdminUser{}
	err := db.Raw(`SELECT u.id, u.username, u.email, u.is_admin, u.created_at,
			COUNT(r.id) AS rating_count
		FROM users u
		LEFT JOIN ratings r ON r.user_id = u.id
		GROUP BY u.id, u.username, u.email, u.is_admin, u.created_at
		ORDER BY u.created_at DESC, u.id DESC`).Scan(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// AdminRating is one row of the paginated admin rating listing.
type AdminRating struct {
	ID           uint            `json:"id"`
	UserID       uint            `json:"user_id"`
	Username     string          `json:"username"`
	DialogueID   string          `json:"dialogue_id"`
	ProductTitle string          `json:"product_title"`
	Ratings      map[string]*int `json:"ratings"`
	CreatedAt    time.Time       `json:"created_at"`
	Dialogue     interface{}     `json:"dialogue"`
}

type adminRatingRow struct {
	ID                 uint
	UserID             uint
	Username           string
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

// ListRatings returns ratings joined with author username and dialogue
// title/payload, newest first, paginated. Default page size is 100.
func ListRatings(db *gorm.DB, limit, offset int) ([]AdminRating, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var rows []adminRatingRow
	err := db.Raw(`SELECT r.id, r.user_id, u.username, r.dialogue_id, d.product_title,
			r.realism, r.conciseness, r.coherence, r.overall_naturalness,
			r.utterance_realism, r.script_following, r.created_at, d.dialogue_data
		FROM ratings r
		JOIN users u ON u.id = r.user_id
		JOIN dialogues d ON d.dialogue_id = r.dialogue_id
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT ? OFFSET ?`, limit, offset).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	out := make([]AdminRating, 0, len(rows))
	for _, row := range rows {
		var dialogue interface{}
		var doc map[string]interface{}
		if err := json.Unmarshal(row.DialogueData, &doc); err == nil {
			dialogue = doc
		}

		out = append(out, AdminRating{
			ID:           row.ID,
			UserID:       row.UserID,
			Username:     row.Username,
			DialogueID:   row.DialogueID,
			ProductTitle: row.ProductTitle,
			Ratings:      scoresMap(row.Realism, row.Conciseness, row.Coherence, row.OverallNaturalness, row.UtteranceRealism, row.ScriptFollowing),
			CreatedAt:    row.CreatedAt,
			Dialogue:     dialogue,
		})
	}

	return out, nil
}

// AdminDialogue is one row of the admin dialogue listing. AverageRatings is
// null when the dialogue has no ratings yet.
type AdminDialogue struct {
	ID             uint               `json:"id"`
	DialogueID     string             `json:"dialogue_id"`
	ProductTitle   string             `json:"product_title"`
	CreatedAt      time.Time          `json:"created_at"`
	RatingCount    int64              `json:"rating_count"`
	AverageRatings map[string]float64 `json:"average_ratings"`
}

type adminDialogueRow struct {
	ID                 uint
	DialogueID         string
	ProductTitle       string
	CreatedAt          time.Time
	RatingCount        int64
	Realism            *float64
	Conciseness        *float64
	Coherence          *float64
	OverallNaturalness *float64
	UtteranceRealism   *float64
	ScriptFollowing    *float64
}

// ListDialogues returns every dialogue with its rating count and per-metric
// averages, most rated first, then most recent.
func ListDialogues(db *gorm.DB) ([]AdminDialogue, error) {
	var rows []adminDialogueRow
	err := db.Raw(`SELECT d.id, d.dialogue_id, d.product_title, d.created_at,
			COUNT(r.id) AS rating_count,
			AVG(r.realism) AS realism, AVG(r.conciseness) AS conciseness,
			AVG(r.coherence) AS coherence, AVG(r.overall_naturalness) AS overall_naturalness,
			AVG(r.utterance_realism) AS utterance_realism, AVG(r.script_following) AS script_following
		FROM dialogues d
		LEFT JOIN ratings r ON r.dialogue_id = d.dialogue_id
		GROUP BY d.id, d.dialogue_id, d.product_title, d.created_at
		ORDER BY rating_count DESC, d.created_at DESC`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list dialogues: %w", err)
	}

	out := make([]AdminDialogue, 0, len(rows))
	for _, row := range rows {
		entry := AdminDialogue{
			ID:           row.ID,
			DialogueID:   row.DialogueID,
			ProductTitle: row.ProductTitle,
			CreatedAt:    row.CreatedAt,
			RatingCount:  row.RatingCount,
		}
		if row.RatingCount > 0 {
			avgs := metricAverages{
				Realism:            row.Realism,
				Conciseness:        row.Conciseness,
				Coherence:          row.Coherence,
				OverallNaturalness: row.OverallNaturalness,
				UtteranceRealism:   row.UtteranceRealism,
				ScriptFollowing:    row.ScriptFollowing,
			}
			entry.AverageRatings = avgs.toMap()
		}
		out = append(out, entry)
	}

	return out, nil
}

// dateExpr returns the calendar-day expression for the active dialect.
func dateExpr(db *gorm.DB) string {
	switch db.Dialector.Name() {
	case "sqlserver", "mssql":
		return "CONVERT(date, created_at)"
	default:
		return "DATE(created_at)"
	}
}
