package middleware

import (
	"quizmaster/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const subjectKey = "subject"

// AuthMiddleware rejects requests without a valid bearer token and stores the
// token subject (the user's email) for downstream handlers.
func AuthMiddleware(tokens *utils.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := utils.BearerToken(c)
		if err != nil {
			return err
		}

		subject, err := tokens.Verify(tokenString)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		c.Locals(subjectKey, subject)
		return c.Next()
	}
}

// CurrentSubject returns the authenticated email, or "" outside AuthMiddleware.
func CurrentSubject(c *fiber.Ctx) string {
	subject, _ := c.Locals(subjectKey).(string)
	return subject
}
