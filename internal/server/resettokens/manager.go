// Package resettokens implements the one-time password-reset-token
// lifecycle: issuing high-entropy tokens whose hashes are persisted, and
// consuming them atomically together with the credential update.
package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aquavo/authcore/internal/common"
	"github.com/aquavo/authcore/internal/cryptox"
	"github.com/aquavo/authcore/internal/dbx"
	"github.com/aquavo/authcore/internal/logging"
	"github.com/aquavo/authcore/internal/server/config"
	"github.com/aquavo/authcore/internal/server/models"
	"github.com/aquavo/authcore/internal/server/shared/db"
	"github.com/google/uuid"
)

// rawTokenSize is the number of random bytes in a raw token. 32 bytes of
// CSPRNG output is what lets Consume get away with a fast hash.
const rawTokenSize = 32

// Manager issues and consumes single-use password-reset tokens.
type Manager struct {
	db          *sql.DB
	repomanager db.RepositoryManager
	logger      logging.Logger
	tokenTTL    time.Duration
}

func NewManager(conn *sql.DB, m db.RepositoryManager, logger logging.Logger, cfg *config.Config) *Manager {
	return &Manager{
		db:          conn,
		repomanager: m,
		logger:      logger.With("component", "resettokens"),
		tokenTTL:    cfg.ResetTokenTTL,
	}
}

// Issue creates a reset token for userID and returns the raw token for
// out-of-band delivery. Only its hash is persisted. Previously issued
// tokens for the same user stay valid until consumed or expired.
func (m *Manager) Issue(ctx context.Context, userID string) (string, error) {
	raw, err := common.MakeRandHexString(rawTokenSize)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}

	token := &models.PasswordResetToken{
		ID:        uuid.NewString(),
		TokenHash: cryptox.HashToken(raw),
		UserID:    userID,
		ExpiresAt: time.Now().Add(m.tokenTTL),
	}

	repo := m.repomanager.ResetTokens(m.db)
	if err := repo.Create(ctx, token); err != nil {
		return "", fmt.Errorf("error storing token: %w", err)
	}

	return raw, nil
}

// Consume validates raw, invalidates it, and updates the owning credential
// to the hash of newPassword — all inside one transaction, so the token can
// never be redeemed twice and a failed credential update leaves the token
// intact. The false return is uniform: wrong, expired, and already-consumed
// tokens are indistinguishable to the caller.
func (m *Manager) Consume(ctx context.Context, raw string, newPassword string) (bool, error) {
	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return false, fmt.Errorf("error hashing password: %w", err)
	}

	tokenHash := cryptox.HashToken(raw)

	matched := false
	err = dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userID, err := m.repomanager.ResetTokens(tx).ConsumeAndClaim(ctx, tokenHash)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil
			}
			return err
		}

		if err := m.repomanager.Users(tx).UpdatePasswordHash(ctx, userID, newHash); err != nil {
			return err
		}

		matched = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("error consuming token: %w", err)
	}

	return matched, nil
}

// PurgeExpired removes expired token rows. Driven alongside the session
// sweep; expired tokens already fail Consume, this just reclaims storage.
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.repomanager.ResetTokens(m.db).DeleteExpired(ctx)
}
