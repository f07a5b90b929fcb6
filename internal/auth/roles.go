package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/mall-service/pkg/util"
)

// RequireLogin rejects requests carrying no session user with the distinct
// NEED_LOGIN code so clients can force a login redirect.
func RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentUser(c); !ok {
			return apperrors.NewNeedLogin("not logged in, please log in first")
		}
		return c.Next()
	}
}

// RequireAdmin rejects session users without the administrator role. Must run
// after RequireLogin.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return apperrors.NewNeedLogin("not logged in, please log in first")
		}
		if !user.IsAdmin() {
			return apperrors.NewForbidden("administrator privileges required")
		}
		return c.Next()
	}
}
