package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/MdAyanBadar/mini-auth-project/internal/database"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("user already exists")

	// ErrGoogleIDTaken means the row is already linked to a different
	// Google identity; the link is one-way and never overwritten.
	ErrGoogleIDTaken = errors.New("user is linked to a different google identity")
)

// Repository handles user data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user into the database. A unique-constraint
// violation on email or google_id is reported as ErrDuplicate so that
// concurrent first-time creation surfaces as a conflict, not a crash.
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	dbUser := &database.User{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		GoogleID:     u.GoogleID,
	}

	_, err := r.db.NewInsert().
		Model(dbUser).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByEmail retrieves a user by email. Emails match exactly as stored.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByGoogleIDOrEmail retrieves a user matching either the Google
// subject or the email, in a single combined lookup.
func (r *Repository) GetByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("google_id = ?", googleID).
		WhereOr("email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by google id or email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// AttachGoogleID links a Google subject to an existing account. The
// update is guarded so it only ever fills an empty google_id (or
// re-applies the same one, making the call idempotent).
func (r *Repository) AttachGoogleID(ctx context.Context, userID int64, googleID string) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("google_id = ?", googleID).
		Where("id = ?", userID).
		Where("google_id IS NULL OR google_id = ?", googleID).
		Exec(ctx)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to attach google id: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Either the user is gone or the row holds a different google_id
		exists, err := r.db.NewSelect().
			Model((*database.User)(nil)).
			Where("id = ?", userID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check user existence: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrGoogleIDTaken
	}

	return nil
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:           dbu.ID,
		Email:        dbu.Email,
		PasswordHash: dbu.PasswordHash,
		Name:         dbu.Name,
		GoogleID:     dbu.GoogleID,
		CreatedAt:    dbu.CreatedAt,
	}
}
