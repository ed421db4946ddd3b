package repositories

import (
	"context"
	"errors"
	"time"

	"rentzy/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// GetByEmail returns (nil, nil) when no account matches; callers decide
	// whether that is an error.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	// SetResetToken stores a fresh reset token alongside the bumped attempt counter.
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expires time.Time, attempts int, lastAttempt time.Time) error
	// GetByValidResetToken matches on token AND unexpired expiry in one query;
	// it returns (nil, nil) for both a wrong token and an expired one.
	GetByValidResetToken(ctx context.Context, token string) (*models.User, error)
	// UpdatePasswordAndClearReset sets the new hash and clears all reset-token
	// state (token, expiry, attempt counter) in a single statement.
	UpdatePasswordAndClearReset(ctx context.Context, id uuid.UUID, passwordHash string) error
	// ClearExpiredResetTokens nulls out tokens past their expiry; run by the
	// background scheduler.
	ClearExpiredResetTokens(ctx context.Context) (int64, error)
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, name, email, password_hash, role, is_email_verified, created_at, last_login,
		reset_password_token, reset_password_expires, password_reset_attempts, last_password_reset_attempt`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.IsEmailVerified, &user.CreatedAt, &user.LastLogin,
		&user.ResetPasswordToken, &user.ResetPasswordExpires,
		&user.PasswordResetAttempts, &user.LastPasswordResetAttempt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, is_email_verified, created_at, last_login)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.IsEmailVerified)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepo) UpdateName(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	query := `
		UPDATE users SET name = $1 WHERE id = $2
		RETURNING ` + userColumns + `
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, name, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *userRepo) SetResetToken(ctx context.Context, id uuid.UUID, token string, expires time.Time, attempts int, lastAttempt time.Time) error {
	query := `
		UPDATE users
		SET reset_password_token = $1, reset_password_expires = $2,
		    password_reset_attempts = $3, last_password_reset_attempt = $4
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, token, expires, attempts, lastAttempt, id)
	return err
}

func (r *userRepo) GetByValidResetToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE reset_password_token = $1 AND reset_password_expires > NOW()`
	user, err := scanUser(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepo) UpdatePasswordAndClearReset(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, reset_password_token = NULL, reset_password_expires = NULL,
		    password_reset_attempts = 0, last_password_reset_attempt = NULL
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, passwordHash, id)
	return err
}

func (r *userRepo) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	query := `
		UPDATE users
		SET reset_password_token = NULL, reset_password_expires = NULL, password_reset_attempts = 0
		WHERE reset_password_token IS NOT NULL AND reset_password_expires <= NOW()
	`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
