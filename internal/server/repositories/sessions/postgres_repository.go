package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	query :=
		`SELECT sid, sess, expire FROM sessions
		 WHERE sid = $1
		 `

	s := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Payload, &s.ExpiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, id string, payload []byte, expiresAt time.Time) error {
	query :=
		`INSERT INTO sessions (sid, sess, expire)
         VALUES ($1, $2, $3)
         ON CONFLICT (sid) DO UPDATE SET sess = EXCLUDED.sess, expire = EXCLUDED.expire
		 `

	if _, err := r.db.ExecContext(ctx, query, id, payload, expiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	query :=
		`UPDATE sessions SET expire = $2
		 WHERE sid = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id, expiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM sessions
		 WHERE sid = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListUnexpired(ctx context.Context, limit int) ([]*models.Session, error) {
	query :=
		`SELECT sid, sess, expire FROM sessions
		 WHERE expire IS NOT NULL AND expire >= now()
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Session
	for rows.Next() {
		s := &models.Session{}
		if err := rows.Scan(&s.ID, &s.Payload, &s.ExpiresAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) CountUnexpired(ctx context.Context) (int64, error) {
	query :=
		`SELECT count(*) FROM sessions
		 WHERE expire IS NOT NULL AND expire >= now()
		 `

	var count int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query :=
		`DELETE FROM sessions
		 WHERE expire IS NOT NULL AND expire < now()
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
