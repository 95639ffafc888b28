package middleware

import (
	"strings"

	"github.com/dialogue-eval/ratingsdb/internal/models"
	"github.com/dialogue-eval/ratingsdb/internal/services"
	"github.com/dialogue-eval/ratingsdb/internal/types"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequireUser validates the Authorization bearer token and stores its claims
// in the request context under "user".
func RequireUser(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := authenticate(c, secret)
		if err != nil {
			return err
		}
		c.Locals("user", claims)
		return c.Next()
	}
}

// RequireAdmin validates the token, then re-reads the admin flag live from
// the users table. Tokens embed the flag at issuance time; the live read
// keeps admin routes correct for tokens issued before a promotion or after
// a demotion.
func RequireAdmin(db *gorm.DB, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := authenticate(c, secret)
		if err != nil {
			return err
		}

		var user models.User
		if err := db.Select("is_admin").First(&user, claims.UserID).Error; err != nil {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Admin access required",
				Type:    "auth.admin",
			}
		}
		if !user.IsAdmin {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Admin access required",
				Type:    "auth.admin",
			}
		}

		c.Locals("user", claims)
		return c.Next()
	}
}

// authenticate extracts and validates the bearer token.
func authenticate(c *fiber.Ctx, secret string) (*services.Claims, error) {
	header := c.Get(fiber.HeaderAuthorization)
	token := ""
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 {
		token = parts[1]
	}

	if token == "" {
		return nil, &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "Access token required",
			Type:    "auth.token",
		}
	}

	claims, err := services.ValidateToken(secret, token)
	if err != nil {
		return nil, &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Invalid or expired token",
			Type:    "auth.token",
		}
	}

	return claims, nil
}

// UserClaims returns the authenticated claims placed by RequireUser or
// RequireAdmin.
func UserClaims(c *fiber.Ctx) (*services.Claims, bool) {
	claims, ok := c.Locals("user").(*services.Claims)
	return claims, ok
}
