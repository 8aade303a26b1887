// Package db owns the process-wide database handle and hands out
// repositories bound to it (or to a transaction). Components never reach
// for a global connection; everything is injected from here.
package db

import (
	"context"
	"database/sql"

	"github.com/aquavo/authcore/internal/dbx"
	"github.com/aquavo/authcore/internal/server/repositories/resettokens"
	"github.com/aquavo/authcore/internal/server/repositories/sessions"
	"github.com/aquavo/authcore/internal/server/repositories/users"
)

// RepositoryManager is the persistence entry point. Repository factories
// accept a dbx.DBTX so callers can pass either the shared handle or an
// open transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Conn() *sql.DB
	Close() error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	ResetTokens(db dbx.DBTX) resettokens.Repository
}
