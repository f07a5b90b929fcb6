package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/mall-service/internal/api/dto"
	"github.com/spec-kit/mall-service/internal/auth"
	"github.com/spec-kit/mall-service/internal/service"
	apperrors "github.com/spec-kit/mall-service/pkg/util"
)

const sessionCookieName = "mall_session"

// UsersHandler exposes the portal account endpoints.
type UsersHandler struct {
	users    *service.UserService
	sessions *auth.SessionManager
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, sessions *auth.SessionManager) *UsersHandler {
	return &UsersHandler{users: userService, sessions: sessions}
}

// Register handles POST /portal/user/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Password == "" || req.Email == "" || req.Phone == "" {
		return fiber.NewError(http.StatusBadRequest, "username, password, email, phone required")
	}

	user, err := h.users.Register(c.UserContext(), service.RegisterParams{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewUserResponse(user),
	})
}

// Login handles POST /portal/user/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username and password required")
	}

	user, err := h.users.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	token, err := h.sessions.Create(c.UserContext(), user.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	h.setSessionCookie(c, token)

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user":  dto.NewUserResponse(user),
			"token": token,
		},
	})
}

// Logout handles POST /portal/user/logout.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	if token, ok := auth.SessionTokenFromContext(c); ok {
		if err := h.sessions.Destroy(c.UserContext(), token); err != nil {
			return apperrors.MapError(err)
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "logged_out"}})
}

// CheckValid handles POST /portal/user/check-valid.
func (h *UsersHandler) CheckValid(c *fiber.Ctx) error {
	var req dto.CheckValidRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Value == "" || req.Type == "" {
		return fiber.NewError(http.StatusBadRequest, "value and type required")
	}

	if err := h.users.CheckValid(c.UserContext(), req.Value, req.Type); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "available"}})
}

// UserInfo handles GET /portal/user/info, returning the session user.
func (h *UsersHandler) UserInfo(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewNeedLogin("not logged in, cannot fetch current user")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// ForgetGetQuestion handles POST /portal/user/forget/question.
func (h *UsersHandler) ForgetGetQuestion(c *fiber.Ctx) error {
	var req dto.ForgetQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" {
		return fiber.NewError(http.StatusBadRequest, "username required")
	}

	question, err := h.users.GetQuestion(c.UserContext(), req.Username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"question": question}})
}

// ForgetCheckAnswer handles POST /portal/user/forget/answer.
func (h *UsersHandler) ForgetCheckAnswer(c *fiber.Ctx) error {
	var req dto.ForgetAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Question == "" || req.Answer == "" {
		return fiber.NewError(http.StatusBadRequest, "username, question, answer required")
	}

	token, err := h.users.CheckAnswer(c.UserContext(), req.Username, req.Question, req.Answer)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"forget_token": token}})
}

// ForgetResetPassword handles POST /portal/user/forget/reset.
func (h *UsersHandler) ForgetResetPassword(c *fiber.Ctx) error {
	var req dto.ForgetResetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "username and new password required")
	}

	if err := h.users.ForgetResetPassword(c.UserContext(), req.Username, req.NewPassword, req.ForgetToken); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_reset"}})
}

// ResetPassword handles POST /portal/user/password/reset for logged-in users.
func (h *UsersHandler) ResetPassword(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewNeedLogin("not logged in")
	}

	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "old and new password required")
	}

	if err := h.users.ResetPassword(c.UserContext(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_changed"}})
}

// UpdateInformation handles POST /portal/user/update.
func (h *UsersHandler) UpdateInformation(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewNeedLogin("not logged in")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	updated, err := h.users.UpdateInformation(c.UserContext(), user.ID, service.UpdateProfileParams{
		Email:    req.Email,
		Phone:    req.Phone,
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(updated)})
}

// GetInformation handles GET /portal/user/detail, loading a fresh copy.
func (h *UsersHandler) GetInformation(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewNeedLogin("not logged in, forced login required")
	}

	fresh, err := h.users.GetInformation(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(fresh)})
}

func (h *UsersHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
