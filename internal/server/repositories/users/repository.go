// Package users declares the repository contract for account rows.
package users

import (
	"context"

	"github.com/aquavo/authcore/internal/server/models"
)

// Repository defines the persistence operations the auth core needs on
// user accounts.
type Repository interface {
	// Create inserts a new user and returns it with the generated ID.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks a user up by email. Returns common.ErrorNotFound
	// when no such account exists.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdatePasswordHash replaces the stored credential for userID.
	UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error

	// UpsertAdmin inserts an admin account or, if the email is taken,
	// resets its credential and promotes it. Used by the seeding CLI.
	UpsertAdmin(ctx context.Context, email, passwordHash, fullName string) error
}
