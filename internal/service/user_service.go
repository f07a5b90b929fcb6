package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/mall-service/internal/auth"
	"github.com/spec-kit/mall-service/internal/cache"
	"github.com/spec-kit/mall-service/internal/config"
	"github.com/spec-kit/mall-service/internal/domain"
	"github.com/spec-kit/mall-service/internal/events"
	"github.com/spec-kit/mall-service/internal/repository"
	apperrors "github.com/spec-kit/mall-service/pkg/util"
)

// CheckValid value kinds.
const (
	CheckTypeUsername = "username"
	CheckTypeEmail    = "email"
)

// RegisterParams carries the registration payload. Role is not accepted;
// registration always produces a customer account.
type RegisterParams struct {
	Username string
	Password string
	Email    string
	Phone    string
	Question string
	Answer   string
}

// UpdateProfileParams carries the client-mutable profile fields. Username and
// role are deliberately absent.
type UpdateProfileParams struct {
	Email    string
	Phone    string
	Question string
	Answer   string
}

// TokenStore stages one-time reset tokens; cache.TokenCache satisfies it.
type TokenStore interface {
	Set(key, value string)
	Get(key string) (string, bool)
}

// UserService coordinates account lifecycle and recovery flows.
type UserService struct {
	users      repository.UserRepository
	tokens     TokenStore
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(cfg config.AuthConfig, users repository.UserRepository, tokens TokenStore, dispatcher events.Dispatcher) *UserService {
	return &UserService{
		users:      users,
		tokens:     tokens,
		dispatcher: dispatcher,
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a customer account. Username, email and phone uniqueness
// are checked independently; the first collision wins.
func (s *UserService) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	taken, err := s.users.UsernameExists(ctx, params.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflict("username already exists", nil)
	}

	taken, err = s.users.EmailExists(ctx, params.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflict("email already exists", nil)
	}

	taken, err = s.users.PhoneExists(ctx, params.Phone)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflict("phone already registered, please log in", nil)
	}

	hash, err := auth.HashPassword(params.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     params.Username,
		PasswordHash: hash,
		Email:        params.Email,
		Phone:        params.Phone,
		Question:     params.Question,
		Answer:       params.Answer,
		Role:         domain.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewOperationFailed("registration failed")
	}

	s.publish(ctx, events.NewEvent(events.EventUserRegistered,
		events.Actor{UserID: user.ID, Username: user.Username},
		events.UserRegisteredPayload{UserID: user.ID, Username: user.Username, Email: user.Email}))

	return user.Scrub(), nil
}

// Login authenticates by username and password. The returned user never
// carries the password hash.
func (s *UserService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewUnauthorized("username does not exist")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		// username existence already confirmed above
		return nil, apperrors.NewUnauthorized("password incorrect")
	}

	return user.Scrub(), nil
}

// CheckValid probes username or email availability; a taken value is an error.
func (s *UserService) CheckValid(ctx context.Context, value, kind string) error {
	switch kind {
	case CheckTypeUsername:
		taken, err := s.users.UsernameExists(ctx, value)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.NewConflict("username already exists", nil)
		}
	case CheckTypeEmail:
		taken, err := s.users.EmailExists(ctx, value)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.NewConflict("email already exists", nil)
		}
	default:
		return apperrors.NewValidationError("unknown check type", nil)
	}
	return nil
}

// GetQuestion returns the security question for the recovery flow.
func (s *UserService) GetQuestion(ctx context.Context, username string) (string, error) {
	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", apperrors.NewUnauthorized("user does not exist")
	}

	question, err := s.users.QuestionByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if question == "" {
		return "", apperrors.NewValidationError("no security question set for this account", nil)
	}
	return question, nil
}

// CheckAnswer validates the security challenge and, on success, mints a
// one-time reset token staged in the expiring cache. The token is a
// capability: the caller must echo it back unmodified to authorize the reset.
func (s *UserService) CheckAnswer(ctx context.Context, username, question, answer string) (string, error) {
	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", apperrors.NewUnauthorized("username does not exist")
	}

	matches, err := s.users.QuestionMatches(ctx, username, question)
	if err != nil {
		return "", err
	}
	if !matches {
		return "", apperrors.NewUnauthorized("security question incorrect")
	}

	matches, err = s.users.AnswerMatches(ctx, username, question, answer)
	if err != nil {
		return "", err
	}
	if !matches {
		return "", apperrors.NewUnauthorized("security answer incorrect")
	}

	forgetToken := uuid.NewString()
	s.tokens.Set(cache.TokenKey(username), forgetToken)
	return forgetToken, nil
}

// ForgetResetPassword resets the password for an anonymous caller holding a
// live token from CheckAnswer. Any mismatch fails without mutating the account.
func (s *UserService) ForgetResetPassword(ctx context.Context, username, newPassword, forgetToken string) error {
	if forgetToken == "" {
		return apperrors.NewValidationError("token is required", nil)
	}

	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewUnauthorized("user does not exist")
	}

	cached, ok := s.tokens.Get(cache.TokenKey(username))
	if !ok {
		return apperrors.NewUnauthorized("token invalid or expired")
	}
	if cached != forgetToken {
		return apperrors.NewUnauthorized("token mismatch, please request a new one")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordByUsername(ctx, username, hash); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewOperationFailed("password reset failed")
		}
		return err
	}

	s.publish(ctx, events.NewEvent(events.EventPasswordReset,
		events.Actor{Username: username},
		events.PasswordResetPayload{Username: username, Via: "token"}))

	return nil
}

// ResetPassword changes the password of a logged-in user. The old-password
// check is scoped to the caller's own id to prevent cross-account bypass.
func (s *UserService) ResetPassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, oldPassword); err != nil {
		return apperrors.NewUnauthorized("old password incorrect")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordByID(ctx, userID, hash); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewOperationFailed("password update failed")
		}
		return err
	}

	s.publish(ctx, events.NewEvent(events.EventPasswordReset,
		events.Actor{UserID: user.ID, Username: user.Username},
		events.PasswordResetPayload{Username: user.Username, Via: "authenticated"}))

	return nil
}

// UpdateInformation mutates the client-editable profile fields. The email
// collision check excludes the account itself.
func (s *UserService) UpdateInformation(ctx context.Context, userID int64, params UpdateProfileParams) (*domain.User, error) {
	taken, err := s.users.EmailExistsForOther(ctx, params.Email, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflict("email already in use by another account", nil)
	}

	update := &domain.User{
		ID:       userID,
		Email:    params.Email,
		Phone:    params.Phone,
		Question: params.Question,
		Answer:   params.Answer,
	}
	if err := s.users.UpdateProfile(ctx, update); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewOperationFailed("profile update failed")
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Scrub(), nil
}

// GetInformation loads a fresh copy of the account, password scrubbed.
func (s *UserService) GetInformation(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user.Scrub(), nil
}

// IsAdmin reports whether the account may pass the admin gate.
func (s *UserService) IsAdmin(user *domain.User) bool {
	return user.IsAdmin()
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
