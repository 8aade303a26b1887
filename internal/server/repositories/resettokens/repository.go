// Package resettokens declares the repository contract for single-use
// password-reset tokens. Only token hashes are stored, never raw tokens.
package resettokens

import (
	"context"

	"github.com/aquavo/authcore/internal/server/models"
)

// Repository defines operations for issuing and atomically consuming
// password-reset tokens.
type Repository interface {
	// Create stores a new token row. Multiple outstanding tokens per user
	// are permitted.
	Create(ctx context.Context, token *models.PasswordResetToken) error

	// ConsumeAndClaim deletes the row matching tokenHash, provided it has
	// not expired, and returns the owning user ID. The delete is the atomic
	// guard: under concurrent submission of the same token exactly one
	// caller gets the row. Returns common.ErrorNotFound when no valid row
	// matched (unknown, expired, or already consumed — indistinguishable
	// by design).
	ConsumeAndClaim(ctx context.Context, tokenHash string) (userID string, err error)

	// DeleteExpired removes rows whose expiry is in the past and reports
	// how many were deleted.
	DeleteExpired(ctx context.Context) (int64, error)
}
