package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aquavo/authcore/internal/common"
	"github.com/aquavo/authcore/internal/dbx"
	"github.com/aquavo/authcore/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {

	query :=
		`INSERT INTO password_reset_tokens (id, token_hash, user_id, expires_at)
         VALUES ($1, $2, $3, $4)
		 `

	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.TokenHash, token.UserID, token.ExpiresAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ConsumeAndClaim(ctx context.Context, tokenHash string) (string, error) {

	// The guarded DELETE is the whole point: the row lock means only one of
	// two concurrent submissions of the same token sees a matching row.
	query :=
		`DELETE FROM password_reset_tokens
		 WHERE token_hash = $1 AND expires_at > now()
		 RETURNING user_id
		 `

	var userID string
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(&userID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return userID, nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context) (int64, error) {

	query :=
		`DELETE FROM password_reset_tokens
		 WHERE expires_at < now()
		 `

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return affected, nil
}
