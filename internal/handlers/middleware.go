package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/services"
)

const userLocalsKey = "user"

// RequireAuth resolves the bearer token to a user. With allowQuery the
// token may also come from ?token=, for links opened directly in a browser.
func RequireAuth(users services.UserService, allowQuery bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" && allowQuery {
			token = c.Query("token")
		}
		if token == "" {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "not authenticated",
			})
		}

		user, err := users.Authenticate(token)
		if err != nil {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return respondError(c, err)
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}
