// Package users implements the account-facing authentication flows:
// registration, login, and the two halves of the forgot-password exchange.
// Failure responses are deliberately uniform so callers cannot probe which
// emails have accounts or which tokens were issued; the specific cause is
// only logged server-side.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aquavo/authcore/internal/common"
	"github.com/aquavo/authcore/internal/cryptox"
	"github.com/aquavo/authcore/internal/logging"
	"github.com/aquavo/authcore/internal/server/mail"
	"github.com/aquavo/authcore/internal/server/models"
	"github.com/aquavo/authcore/internal/server/resettokens"
	"github.com/aquavo/authcore/internal/server/shared/db"
)

type Service struct {
	db          *sql.DB
	repomanager db.RepositoryManager
	tokens      *resettokens.Manager
	mailer      mail.Mailer
	logger      logging.Logger
}

func NewService(conn *sql.DB, m db.RepositoryManager, tokens *resettokens.Manager, mailer mail.Mailer, logger logging.Logger) *Service {
	return &Service{
		db:          conn,
		repomanager: m,
		tokens:      tokens,
		mailer:      mailer,
		logger:      logger.With("component", "users"),
	}
}

// Register creates a new account with a freshly hashed credential.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         "user",
	}

	user, err = s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the submitted password against the stored credential.
// Unknown email, wrong password, and a malformed stored hash all yield the
// same ErrorUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "login lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !cryptox.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// RequestPasswordReset issues a reset token and hands the raw token to the
// mail collaborator. Unknown emails succeed silently so the endpoint cannot
// be used to enumerate accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		s.logger.Error(ctx, "reset request lookup failed", "error", err)
		return common.ErrorInternal
	}

	raw, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		s.logger.Error(ctx, "reset token issue failed", "error", err)
		return common.ErrorInternal
	}

	if err := s.mailer.SendPasswordReset(ctx, email, raw); err != nil {
		s.logger.Error(ctx, "reset mail delivery failed", "error", err)
		return common.ErrorInternal
	}

	return nil
}

// ResetPassword redeems a raw reset token against a new password. The
// boolean mirrors the token manager's uniform verdict.
func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) (bool, error) {
	ok, err := s.tokens.Consume(ctx, rawToken, newPassword)
	if err != nil {
		s.logger.Error(ctx, "reset consume failed", "error", err)
		return false, common.ErrorInternal
	}
	return ok, nil
}
