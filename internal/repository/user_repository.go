package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/mall-service/internal/domain"
)

// UserRepository defines persistence access for shop accounts.
type UserRepository interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	// EmailExistsForOther reports whether a different account already owns the email.
	EmailExistsForOther(ctx context.Context, email string, userID int64) (bool, error)
	QuestionMatches(ctx context.Context, username, question string) (bool, error)
	AnswerMatches(ctx context.Context, username, question, answer string) (bool, error)
	Create(ctx context.Context, user *domain.User) error
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdatePasswordByUsername(ctx context.Context, username, passwordHash string) error
	UpdatePasswordByID(ctx context.Context, id int64, passwordHash string) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	QuestionByUsername(ctx context.Context, username string) (string, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(1) FROM users WHERE username=$1`, username)
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(1) FROM users WHERE email=$1`, email)
}

func (r *userRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(1) FROM users WHERE phone=$1`, phone)
}

func (r *userRepository) EmailExistsForOther(ctx context.Context, email string, userID int64) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(1) FROM users WHERE email=$1 AND id<>$2`, email, userID)
}

func (r *userRepository) QuestionMatches(ctx context.Context, username, question string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(1) FROM users WHERE username=$1 AND question=$2`, username, question)
}

func (r *userRepository) AnswerMatches(ctx context.Context, username, question, answer string) (bool, error) {
	return r.exists(ctx,
		`SELECT COUNT(1) FROM users WHERE username=$1 AND question=$2 AND answer=$3`,
		username, question, answer)
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, password_hash, email, phone, question, answer, role)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.Phone,
		user.Question,
		user.Answer,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET email=$1, phone=$2, question=$3, answer=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		user.Email,
		user.Phone,
		user.Question,
		user.Answer,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) UpdatePasswordByUsername(ctx context.Context, username, passwordHash string) error {
	const query = `UPDATE users SET password_hash=$1, updated_at=NOW() WHERE username=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, username)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) UpdatePasswordByID(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getBy(ctx, `WHERE id=$1`, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, `WHERE username=$1`, username)
}

func (r *userRepository) QuestionByUsername(ctx context.Context, username string) (string, error) {
	const query = `SELECT question FROM users WHERE username=$1`

	var question string
	if err := r.pool.QueryRow(ctx, query, username).Scan(&question); err != nil {
		return "", err
	}
	return question, nil
}

func (r *userRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) getBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `
        SELECT id, username, password_hash, email, phone, question, answer, role, created_at, updated_at
        FROM users ` + where

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&user.Phone,
		&user.Question,
		&user.Answer,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
