package models

import "time"

// PasswordResetToken is a single-use reset token row. Only the SHA-256 hash
// of the raw token is ever persisted; consumption deletes the row, so an
// existing row is by definition not yet consumed.
type PasswordResetToken struct {
	ID        string
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
