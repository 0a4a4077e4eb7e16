package api

import (
	"strings"

	domain "github.com/abhishek-2k23/Todo-RN/domain/user"
	"github.com/abhishek-2k23/Todo-RN/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// UserContextKey holds the caller's claims in fiber locals.
const UserContextKey = "user"

const (
	msgNoToken      = "No authentication token, access denied"
	msgInvalidToken = "Token is invalid"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthMiddleware admits requests carrying a valid access token for an
// account that still exists. Every rejection is a 401, which clients treat
// as the end of the session.
func AuthMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return unauthorized(c, msgNoToken)
		}

		ctx := c.UserContext()
		claims, err := authAdapter.ValidateToken(ctx, token)
		if err != nil {
			return unauthorized(c, msgInvalidToken)
		}
		if _, err := authAdapter.GetUser(ctx, claims.UserID); err != nil {
			return unauthorized(c, msgInvalidToken)
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) (*domain.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	return claims, ok && claims != nil
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}
