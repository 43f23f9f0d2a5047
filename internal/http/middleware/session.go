package middleware

import (
	"github.com/gofiber/fiber/v2"

	"evidenceapi/internal/model"
)

// UserLocalKey holds the signed-in model.User for the current request.
const UserLocalKey = "user"

// CurrentUser is the read side of the sign-in slot.
type CurrentUser interface {
	Current() (model.User, bool)
}

// RequireUser rejects requests with 401 UNAUTHENTICATED unless someone is signed in.
func RequireUser(session CurrentUser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, ok := session.Current()
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"request_id": RequestIDFromCtx(c),
				"error": fiber.Map{
					"code":    "UNAUTHENTICATED",
					"message": "sign in required",
				},
			})
		}
		c.Locals(UserLocalKey, u)
		return c.Next()
	}
}

// UserFromCtx returns the user stored by RequireUser.
func UserFromCtx(c *fiber.Ctx) (model.User, bool) {
	u, ok := c.Locals(UserLocalKey).(model.User)
	return u, ok
}
