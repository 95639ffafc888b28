package services_test

import (
	"errors"
	"testing"

	"github.com/dialogue-eval/ratingsdb/internal/models"
	"github.com/dialogue-eval/ratingsdb/internal/services"
	"github.com/google/uuid"
)

func TestSubmitRatingRequiresDialogueID(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user-"+uuid.New().String())

	_, err := services.SubmitRating(db, user.ID, "", services.RatingInput{Realism: intPtr(3)})
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected validation error, got %v", err)
	}
}

func TestSubmitRatingRejectsOutOfRangeScores(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user-"+uuid.New().String())
	dialogue := createTestDialogue(t, db, 7)

	for _, score := range []int{0, 6, -1} {
		_, err := services.SubmitRating(db, user.ID, dialogue.DialogueID, services.RatingInput{
			Realism: intPtr(score),
		})
		var verr *services.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Expected validation error for score %d, got %v", score, err)
		}
	}

	// No row may be written by a rejected submission
	var count int64
	db.Model(&models.Rating{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected 0 rating rows after rejected submissions, got %d", count)
	}
}

func TestSubmitRatingUpsertKeepsSingleRow(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user-"+uuid.New().String())
	dialogue := createTestDialogue(t, db, 7)

	first, err := services.SubmitRating(db, user.ID, dialogue.DialogueID, services.RatingInput{
		Realism:   intPtr(5),
		Coherence: intPtr(4),
	})
	if err != nil {
		t.Fatalf("First submission failed: %v", err)
	}
	if first == 0 {
		t.Fatal("Expected a non-zero rating id")
	}

	// Resubmit with different scores, one metric now omitted
	_, err = services.SubmitRating(db, user.ID, dialogue.DialogueID, services.RatingInput{
		Realism: intPtr(2),
	})
	if err != nil {
		t.Fatalf("Resubmission failed: %v", err)
	}

	var count int64
	db.Model(&models.Rating{}).
		Where("user_id = ? AND dialogue_id = ?", user.ID, dialogue.DialogueID).
		Count(&count)
	if count != 1 {
		t.Fatalf("Expected exactly 1 rating row after resubmission, got %d", count)
	}

	saved, err := services.RatingFor(db, user.ID, dialogue.DialogueID)
	if err != nil {
		t.Fatalf("RatingFor failed: %v", err)
	}
	if saved.Ratings["realism"] == nil || *saved.Ratings["realism"] != 2 {
		t.Errorf("Expected realism 2 after resubmission, got %v", saved.Ratings["realism"])
	}
	if saved.Ratings["coherence"] != nil {
		t.Errorf("Expected omitted coherence to be null after resubmission, got %v", *saved.Ratings["coherence"])
	}
}

func TestSubmitRatingDistinctUsersKeepDistinctRows(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice-"+uuid.New().String())
	bob := createTestUser(t, db, "bob-"+uuid.New().String())
	dialogue := createTestDialogue(t, db, 7)

	if _, err := services.SubmitRating(db, alice.ID, dialogue.DialogueID, services.RatingInput{Realism: intPtr(5)}); err != nil {
		t.Fatalf("Alice's submission failed: %v", err)
	}
	if _, err := services.SubmitRating(db, bob.ID, dialogue.DialogueID, services.RatingInput{Realism: intPtr(1)}); err != nil {
		t.Fatalf("Bob's submission failed: %v", err)
	}

	var count int64
	db.Model(&models.Rating{}).Where("dialogue_id = ?", dialogue.DialogueID).Count(&count)
	if count != 2 {
		t.Errorf("Expected 2 rating rows for 2 users, got %d", count)
	}
}

func TestHistoryForNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user-"+uuid.New().String())
	first := createTestDialogue(t, db, 1)
	second := createTestDialogue(t, db, 2)

	if _, err := services.SubmitRating(db, user.ID, first.DialogueID, services.RatingInput{Realism: intPtr(4)}); err != nil {
		t.Fatalf("Submission failed: %v", err)
	}
	if _, err := services.SubmitRating(db, user.ID, second.DialogueID, services.RatingInput{Realism: intPtr(2)}); err != nil {
		t.Fatalf("Submission failed: %v", err)
	}

	entries, err := services.HistoryFor(db, user.ID)
	if err != nil {
		t.Fatalf("HistoryFor failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(entries))
	}
	if entries[0].DialogueID != second.DialogueID {
		t.Errorf("Expected most recent rating first, got %s", entries[0].DialogueID)
	}
	if entries[0].ProductTitle != second.ProductTitle {
		t.Errorf("Expected product title %q, got %q", second.ProductTitle, entries[0].ProductTitle)
	}
	if entries[0].Dialogue == nil {
		t.Error("Expected dialogue payload to be attached to history entry")
	}
}

func TestHistoryForMalformedPayloadDegradesToNull(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user-"+uuid.New().String())

	dialogue := models.Dialogue{
		DialogueID:   "dialogue_999",
		ProductID:    999,
		ProductTitle: "Broken payload",
		DialogueData: []byte("{not valid json"),
		SourceFile:   "dialogue_999.json",
	}
	if err := db.Create(&dialogue).Error; err != nil {
		t.Fatalf("Failed to create dialogue: %v", err)
	}

	if _, err := services.SubmitRating(db, user.ID, dialogue.DialogueID, services.RatingInput{Realism: intPtr(3)}); err != nil {
		t.Fatalf("Submission failed: %v", err)
	}

	entries, err := services.HistoryFor(db, user.ID)
	if err != nil {
		t.Fatalf("HistoryFor failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(entries))
	}
	if entries[0].Dialogue != nil {
		t.Error("Expected malformed dialogue payload to degrade to null")
	}
	if entries[0].Ratings["realism"] == nil || *entries[0].Ratings["realism"] != 3 {
		t.Error("Expected rating scores to survive a malformed dialogue payload")
	}
}

func TestRatingForNotFound(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user-"+uuid.New().String())

	_, err := services.RatingFor(db, user.ID, "dialogue_404")
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
