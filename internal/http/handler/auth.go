package handler

import (
	"github.com/gofiber/fiber/v2"

	"evidenceapi/internal/auth"
)

type loginRequest struct {
	Email string `json:"email"`
}

// Login signs a user in by email.
//
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "email"
// @Success 200 {object} model.User
// @Failure 400 {object} errorPayload
// @Router /auth/login [post]
func Login(session *auth.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		u, err := session.Login(req.Email)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}

// Logout clears the current user.
//
// @Summary Sign out
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func Logout(session *auth.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session.Logout()
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Me returns the current user.
//
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} errorPayload
// @Router /auth/me [get]
func Me(session *auth.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, ok := session.Current()
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "sign in required")
		}
		return c.JSON(u)
	}
}
