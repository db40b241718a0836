package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"schoolapi/internal/auth"
)

// SubjectLocalKey holds the verified token subject in Fiber locals.
const SubjectLocalKey = "auth_subject"

// BearerAuth requires a valid "Authorization: Bearer <jwt>" header.
// A nil signer disables the check.
func BearerAuth(signer *auth.Signer) fiber.Handler {
	if signer == nil {
		return Noop()
	}
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		claims, err := signer.Verify(strings.TrimSpace(token))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		c.Locals(SubjectLocalKey, claims.Subject)
		return c.Next()
	}
}
