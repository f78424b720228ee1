package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/essjaykay755/teachersgallery-api/internal/utils"
)

// RequireUserTypes allows the request through only when the session's user
// type is one of the listed values. A session without a user type (not yet
// onboarded) is always rejected.
func RequireUserTypes(allowed ...string) fiber.Handler {
	allowedSet := map[string]bool{}
	for _, t := range allowed {
		allowedSet[strings.ToLower(t)] = true
	}

	return func(c *fiber.Ctx) error {
		raw := c.Locals("user")
		if raw == nil {
			return fiber.ErrUnauthorized
		}

		token, ok := raw.(*jwt.Token)
		if !ok || token == nil {
			return fiber.ErrUnauthorized
		}

		claims, ok := token.Claims.(*utils.Claims)
		if !ok {
			return fiber.ErrUnauthorized
		}

		utype := strings.ToLower(strings.TrimSpace(claims.UserType))
		if !allowedSet[utype] {
			return fiber.NewError(fiber.StatusForbidden, "forbidden: insufficient role")
		}

		return c.Next()
	}
}
