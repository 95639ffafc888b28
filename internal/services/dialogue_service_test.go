package services_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dialogue-eval/ratingsdb/internal/services"
	"github.com/google/uuid"
)

func TestRandomUnratedFreshStoreServesDialogue(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user-"+uuid.New().String())
	createTestDialogue(t, db, 1)

	payload, allRated, err := services.RandomUnrated(db, user.ID)
	if err != nil {
		t.Fatalf("RandomUnrated failed: %v", err)
	}
	if allRated {
		t.Fatal("Fresh store with unrated dialogues must not report all rated")
	}
	if payload["dialogue_id"] != "dialogue_1" {
		t.Errorf("Expected dialogue_1, got %v", payload["dialogue_id"])
	}
	if payload["db_id"] == nil {
		t.Error("Expected db_id to be attached to the payload")
	}
	if payload["product_title"] != "Product 1" {
		t.Errorf("Expected stored document fields to be spread, got %v", payload["product_title"])
	}
}

func TestRandomUnratedNeverServesRatedDialogue(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user-"+uuid.New().String())
	rated := createTestDialogue(t, db, 1)
	createTestDialogue(t, db, 2)
	createTestDialogue(t, db, 3)

	if _, err := services.SubmitRating(db, user.ID, rated.DialogueID, services.RatingInput{Realism: intPtr(4)}); err != nil {
		t.Fatalf("Submission failed: %v", err)
	}

	// Random ordering, so sample repeatedly
	for i := 0; i < 25; i++ {
		payload, allRated, err := services.RandomUnrated(db, user.ID)
		if err != nil {
			t.Fatalf("RandomUnrated failed: %v", err)
		}
		if allRated {
			t.Fatal("Unrated dialogues remain, must not report all rated")
		}
		if payload["dialogue_id"] == rated.DialogueID {
			t.Fatal("Served a dialogue the user already rated")
		}
	}
}

func TestRandomUnratedExcludesOnlyCallersRatings(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice-"+uuid.New().String())
	bob := createTestUser(t, db, "bob-"+uuid.New().String())
	dialogue := createTestDialogue(t, db, 1)

	// Bob's rating must not hide the dialogue from Alice
	if _, err := services.SubmitRating(db, bob.ID, dialogue.DialogueID, services.RatingInput{Realism: intPtr(1)}); err != nil {
		t.Fatalf("Submission failed: %v", err)
	}

	payload, allRated, err := services.RandomUnrated(db, alice.ID)
	if err != nil {
		t.Fatalf("RandomUnrated failed: %v", err)
	}
	if allRated {
		t.Fatal("Another user's rating must not exhaust the caller's pool")
	}
	if payload["dialogue_id"] != dialogue.DialogueID {
		t.Errorf("Expected %s, got %v", dialogue.DialogueID, payload["dialogue_id"])
	}
}

func TestRandomUnratedAllRatedSentinel(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user-"+uuid.New().String())

	for i := 1; i <= 3; i++ {
		d := createTestDialogue(t, db, i)
		if _, err := services.SubmitRating(db, user.ID, d.DialogueID, services.RatingInput{Realism: intPtr(3)}); err != nil {
			t.Fatalf("Submission failed: %v", err)
		}
	}

	payload, allRated, err := services.RandomUnrated(db, user.ID)
	if err != nil {
		t.Fatalf("RandomUnrated failed: %v", err)
	}
	if !allRated {
		t.Fatal("Expected all rated after exhausting every dialogue")
	}
	if payload != nil {
		t.Errorf("Expected nil payload at exhaustion, got %v", payload)
	}
}

func TestRandomUnratedEmptyStoreReportsAllRated(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user-"+uuid.New().String())

	_, allRated, err := services.RandomUnrated(db, user.ID)
	if err != nil {
		t.Fatalf("RandomUnrated failed: %v", err)
	}
	if !allRated {
		t.Error("Empty dialogue store should report all rated")
	}
}

func TestGetByDialogueID(t *testing.T) {
	db := setupTestDB(t)
	dialogue := createTestDialogue(t, db, 42)

	payload, err := services.GetByDialogueID(db, dialogue.DialogueID)
	if err != nil {
		t.Fatalf("GetByDialogueID failed: %v", err)
	}
	if payload["dialogue_id"] != dialogue.DialogueID {
		t.Errorf("Expected %s, got %v", dialogue.DialogueID, payload["dialogue_id"])
	}
	if fmt.Sprintf("%v", payload["db_id"]) != fmt.Sprintf("%d", dialogue.ID) {
		t.Errorf("Expected db_id %d, got %v", dialogue.ID, payload["db_id"])
	}

	_, err = services.GetByDialogueID(db, "dialogue_does_not_exist")
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
