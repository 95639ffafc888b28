package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/dialogue-eval/ratingsdb/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// bcryptCost matches the cost the account base was hashed with.
	bcryptCost = 10

	// tokenExpiry is how long issued session tokens stay valid. There is no
	// revocation list; a token is good until it expires.
	tokenExpiry = 7 * 24 * time.Hour
)

// Claims is the session token payload. The admin flag reflects the moment of
// issuance; admin routes re-read it live (see middleware.RequireAdmin).
type Claims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Register creates a new user and returns a signed session token for it.
func Register(db *gorm.DB, secret, username, email, password string) (string, *models.User, error) {
	if username == "" || email == "" || password == "" {
		return "", nil, NewValidationError("All fields are required")
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return "", nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if count > 0 {
		return "", nil, ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		return "", nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := GenerateToken(secret, &user)
	if err != nil {
		return "", nil, err
	}

	return token, &user, nil
}

// Login authenticates a user by username or email and returns a session token.
// The single identifier string is matched against both columns.
func Login(db *gorm.DB, secret, usernameOrEmail, password string) (string, *models.User, error) {
	if usernameOrEmail == "" || password == "" {
		return "", nil, NewValidationError("Username and password are required")
	}

	var user models.User
	err := db.Where("username = ? OR email = ?", usernameOrEmail, usernameOrEmail).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateToken(secret, &user)
	if err != nil {
		return "", nil, err
	}

	return token, &user, nil
}

// GenerateToken signs a session token embedding the user's identity and
// admin flag at issuance time.
func GenerateToken(secret string, user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies a session token's signature and expiry and returns
// its claims.
func ValidateToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
