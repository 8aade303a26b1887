package users

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

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, password_hash, full_name, role)
         VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.FullName, user.Role).Scan(&user.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, full_name, role FROM users
		 WHERE email = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error {
	query :=
		`UPDATE users SET password_hash = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) UpsertAdmin(ctx context.Context, email, passwordHash, fullName string) error {
	query :=
		`INSERT INTO users (email, password_hash, full_name, role)
         VALUES ($1, $2, $3, 'admin')
         ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, role = 'admin'
		 `

	if _, err := r.db.ExecContext(ctx, query, email, passwordHash, fullName); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
