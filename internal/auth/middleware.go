package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/mall-service/internal/domain"
	"github.com/spec-kit/mall-service/internal/repository"
	apperrors "github.com/spec-kit/mall-service/pkg/util"
)

const (
	principalKey  = "auth_principal"
	sessionKey    = "auth_session_token"
	sessionCookie = "mall_session"
)

// SessionMiddleware resolves the session token into the current user. It never
// rejects by itself; route-level gates decide whether a principal is required.
type SessionMiddleware struct {
	sessions *SessionManager
	users    repository.UserRepository
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(sessions *SessionManager, users repository.UserRepository) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, users: users}
}

// Handle loads the session user, if any, into request locals.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	token := sessionToken(c)
	if token == "" {
		return c.Next()
	}

	userID, ok, err := m.sessions.Resolve(c.UserContext(), token)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !ok {
		return c.Next()
	}

	user, err := m.users.GetByID(c.UserContext(), userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			// session points at a vanished account; treat as anonymous
			return c.Next()
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, user.Scrub())
	c.Locals(sessionKey, token)
	return c.Next()
}

// CurrentUser retrieves the session user for this request.
func CurrentUser(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}

// SessionTokenFromContext returns the resolved session token, if any.
func SessionTokenFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return "", false
	}
	token, ok := val.(string)
	return token, ok
}

func sessionToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	return c.Cookies(sessionCookie)
}
