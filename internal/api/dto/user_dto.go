package dto

import (
	"time"

	"github.com/spec-kit/mall-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CheckValidRequest probes username/email availability.
type CheckValidRequest struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// ForgetQuestionRequest asks for the account's security question.
type ForgetQuestionRequest struct {
	Username string `json:"username"`
}

// ForgetAnswerRequest answers the security challenge.
type ForgetAnswerRequest struct {
	Username string `json:"username"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ForgetResetRequest resets a password with a recovery token.
type ForgetResetRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
	ForgetToken string `json:"forget_token"`
}

// ResetPasswordRequest changes the password of the session user.
type ResetPasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UpdateProfileRequest carries the client-mutable profile fields.
type UpdateProfileRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// UserResponse is the outward account representation. The password hash never
// appears here.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Question  string    `json:"question"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		Question:  user.Question,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}
