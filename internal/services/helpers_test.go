package services_test

import (
	"fmt"
	"testing"

	"github.com/dialogue-eval/ratingsdb/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// One connection keeps every statement on the same in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Dialogue{},
		&models.Rating{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// createTestUser inserts a user with a throwaway hash and returns it
func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "$2a$10$unused.hash.for.fixture.rows.only",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// createTestDialogue inserts a dialogue for the given product id
func createTestDialogue(t *testing.T, db *gorm.DB, productID int) models.Dialogue {
	t.Helper()

	payload := fmt.Sprintf(`{"product_id": %d, "product_title": "Product %d", "kind": %d, "turns": [{"speaker": "user", "text": "hello"}]}`,
		productID, productID, (productID%4)+1)

	dialogue := models.Dialogue{
		DialogueID:   fmt.Sprintf("dialogue_%d", productID),
		ProductID:    productID,
		ProductTitle: fmt.Sprintf("Product %d", productID),
		DialogueData: []byte(payload),
		SourceFile:   fmt.Sprintf("dialogue_%d.json", productID),
	}
	if err := db.Create(&dialogue).Error; err != nil {
		t.Fatalf("Failed to create test dialogue: %v", err)
	}
	return dialogue
}

func intPtr(v int) *int {
	return &v
}
