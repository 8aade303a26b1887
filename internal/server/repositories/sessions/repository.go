// Package sessions declares the repository contract for persisted web
// session rows.
package sessions

import (
	"context"
	"time"

	"github.com/aquavo/authcore/internal/server/models"
)

// Repository defines the row-level operations backing the session store.
// Expiry policy (lazy destroy, rehydration) lives in the service layer;
// the repository only moves rows.
type Repository interface {
	// Get loads a session row by ID. Returns common.ErrorNotFound when the
	// row is absent. Expired rows are returned as-is; the caller decides
	// their fate.
	Get(ctx context.Context, id string) (*models.Session, error)

	// Upsert inserts the row or, when the ID already exists, replaces
	// payload and expiry in a single atomic statement.
	Upsert(ctx context.Context, id string, payload []byte, expiresAt time.Time) error

	// UpdateExpiry refreshes the expiry without rewriting the payload.
	// Missing rows are not an error.
	UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error

	// Delete removes a row. Missing rows are not an error.
	Delete(ctx context.Context, id string) error

	// ListUnexpired returns up to limit non-expired rows.
	ListUnexpired(ctx context.Context, limit int) ([]*models.Session, error)

	// CountUnexpired counts non-expired rows.
	CountUnexpired(ctx context.Context) (int64, error)

	// DeleteAll removes every row unconditionally.
	DeleteAll(ctx context.Context) error

	// DeleteExpired removes rows whose expiry is strictly in the past and
	// reports how many were deleted. Safe to run concurrently with any
	// other operation.
	DeleteExpired(ctx context.Context) (int64, error)
}
