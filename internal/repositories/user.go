package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-user-registration/internal/logger"
	"github.com/sbilibin2017/gw-user-registration/internal/models"
)

// Conflict field names reported by ConflictError.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldMobile   = "mobile"
)

// ConflictError reports a storage-level uniqueness violation. It is the
// safety net for the race between the pre-check and the insert: two
// concurrent registrations for the same username, email or mobile pair both
// pass the pre-check, and the losing insert surfaces here.
type ConflictError struct {
	Field string // FieldUsername, FieldEmail or FieldMobile
}

func (e *ConflictError) Error() string {
	return e.Field + " already exists"
}

// UserReadRepository provides existence checks over the users table.
type UserReadRepository struct {
	db *sqlx.DB
}

// NewUserReadRepository creates a new UserReadRepository.
func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// ExistsByUsername reports whether a user with the given username exists.
func (r *UserReadRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	return r.exists(ctx, query, username)
}

// ExistsByEmail reports whether a user with the given email exists.
func (r *UserReadRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	return r.exists(ctx, query, email)
}

// ExistsByMobile reports whether a user with the given country code and
// mobile number pair exists. The pair is checked together; the mobile
// number alone is not unique.
func (r *UserReadRepository) ExistsByMobile(ctx context.Context, countryCode, mobileNumber string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE country_code = $1 AND mobile_number = $2)`
	return r.exists(ctx, query, countryCode, mobileNumber)
}

func (r *UserReadRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, args...)

	logger.Log.Infow("user existence check",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", exists,
		"error", err,
	)

	if err != nil {
		return false, err
	}
	return exists, nil
}

// UserWriteRepository persists new users.
type UserWriteRepository struct {
	db *sqlx.DB
}

// NewUserWriteRepository creates a new UserWriteRepository.
func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user row and returns the assigned identifier. A unique
// constraint violation is translated into *ConflictError naming the
// conflicting field.
func (r *UserWriteRepository) Save(ctx context.Context, user models.UserDB) (uuid.UUID, error) {
	const query = `
		INSERT INTO users (firstname, lastname, email, username, password_hash, country_code, mobile_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING user_id
	`
	args := []any{
		user.Firstname, user.Lastname, user.Email, user.Username,
		user.PasswordHash, user.CountryCode, user.MobileNumber,
	}

	var userID uuid.UUID
	err := r.db.GetContext(ctx, &userID, query, args...)

	logger.Log.Infow("user insert",
		"query", strings.Join(strings.Fields(query), " "),
		"username", user.Username,
		"result", userID,
		"error", err,
	)

	if err != nil {
		if field, ok := conflictField(err); ok {
			return uuid.Nil, &ConflictError{Field: field}
		}
		return uuid.Nil, err
	}

	return userID, nil
}

// conflictField maps a PostgreSQL unique violation (SQLSTATE 23505) to the
// conflicting field based on the constraint name.
func conflictField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return "", false
	}

	switch {
	case strings.Contains(pgErr.ConstraintName, "username"):
		return FieldUsername, true
	case strings.Contains(pgErr.ConstraintName, "email"):
		return FieldEmail, true
	case strings.Contains(pgErr.ConstraintName, "mobile"):
		return FieldMobile, true
	}
	// Unique violation on an unrecognized constraint: still a conflict,
	// attribute it to the username as the first field in check order.
	return FieldUsername, true
}
