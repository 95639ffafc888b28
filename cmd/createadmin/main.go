// createadmin promotes or creates an administrator account. Admin status is
// only ever granted out of band through this tool, never through the API.
//
// Usage:
//
//	createadmin [username email password]
//
// Missing arguments are prompted for on stdin.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dialogue-eval/ratingsdb/internal/config"
	"github.com/dialogue-eval/ratingsdb/internal/database"
	"github.com/dialogue-eval/ratingsdb/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)
	username := arg(1, reader, "Enter admin username: ")
	email := arg(2, reader, "Enter admin email: ")
	password := arg(3, reader, "Enter admin password: ")

	if username == "" || email == "" || password == "" {
		log.Fatal("All fields are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// Promote an existing account when the username or email is taken,
	// otherwise create a fresh admin user.
	var user models.User
	err = db.Where("username = ? OR email = ?", username, email).First(&user).Error
	switch {
	case err == nil:
		user.Password = string(hashed)
		user.IsAdmin = true
		if err := db.Save(&user).Error; err != nil {
			log.Fatalf("Failed to update user: %v", err)
		}
		fmt.Printf("Admin user %s updated successfully\n", user.Username)

	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Username: username,
			Email:    email,
			Password: string(hashed),
			IsAdmin:  true,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
		fmt.Printf("Admin user %s created successfully\n", user.Username)

	default:
		log.Fatalf("Failed to look up user: %v", err)
	}
}

// arg returns the positional argument at i, or prompts for it.
func arg(i int, reader *bufio.Reader, prompt string) string {
	if len(os.Args) > i {
		return strings.TrimSpace(os.Args[i])
	}
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
