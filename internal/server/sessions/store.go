package sessions

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/aquavo/authcore/internal/common"
	"github.com/aquavo/authcore/internal/logging"
	"github.com/aquavo/authcore/internal/server/config"
	sessionsrepo "github.com/aquavo/authcore/internal/server/repositories/sessions"
)

// Store provides persistent web sessions over the sessions table.
//
// Every operation first runs a time-debounced opportunistic sweep of expired
// rows, so storage is reclaimed even when the background scheduler is not
// running. Expired rows are additionally destroyed lazily on read.
type Store struct {
	repo            sessionsrepo.Repository
	logger          logging.Logger
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	listLimit       int

	// unix nanos of the last opportunistic sweep; CAS-guarded so
	// concurrent requests never run two sweeps in the same window.
	lastCleanup atomic.Int64

	now func() time.Time
}

func NewStore(repo sessionsrepo.Repository, logger logging.Logger, cfg *config.Config) *Store {
	return &Store{
		repo:            repo,
		logger:          logger.With("component", "sessions"),
		defaultTTL:      cfg.SessionTTL,
		cleanupInterval: cfg.SessionCleanupInterval,
		listLimit:       cfg.SessionListLimit,
		now:             time.Now,
	}
}

// Get loads the session payload for id. Absent rows yield (nil, nil).
// Expired rows are deleted and reported as absent. Rows whose expiry was
// lost to a once-bad write are rehydrated via Touch instead of failing the
// caller.
func (s *Store) Get(ctx context.Context, id string) (*Data, error) {
	s.maybeCleanup(ctx)

	row, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := decodeData(row.Payload)
	if err != nil {
		// Undecodable payload is unrecoverable; drop the row rather than
		// poisoning every request that carries this session ID.
		s.logger.Warn(ctx, "dropping session with corrupt payload", "sid", id, "error", err)
		if derr := s.repo.Delete(ctx, id); derr != nil {
			return nil, derr
		}
		return nil, nil
	}

	if !row.ExpiresAt.Valid || row.ExpiresAt.Time.IsZero() {
		if err := s.Touch(ctx, id, data); err != nil {
			return nil, err
		}
		return data, nil
	}

	if row.ExpiresAt.Time.Before(s.now()) {
		if err := s.repo.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return data, nil
}

// Set persists the payload under id, replacing payload and expiry in a
// single upsert.
func (s *Store) Set(ctx context.Context, id string, data *Data) error {
	s.maybeCleanup(ctx)

	payload, err := encodeData(data)
	if err != nil {
		return err
	}

	return s.repo.Upsert(ctx, id, payload, s.expireAt(data))
}

// Destroy removes the session. Destroying an absent session is not an error.
func (s *Store) Destroy(ctx context.Context, id string) error {
	s.maybeCleanup(ctx)
	return s.repo.Delete(ctx, id)
}

// Touch refreshes the expiry without rewriting the payload, implementing
// sliding expiration.
func (s *Store) Touch(ctx context.Context, id string, data *Data) error {
	s.maybeCleanup(ctx)
	return s.repo.UpdateExpiry(ctx, id, s.expireAt(data))
}

// All returns the non-expired sessions keyed by ID, capped at the
// configured list limit to bound memory on large tables.
func (s *Store) All(ctx context.Context) (map[string]*Data, error) {
	s.maybeCleanup(ctx)

	rows, err := s.repo.ListUnexpired(ctx, s.listLimit)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*Data, len(rows))
	for _, row := range rows {
		data, err := decodeData(row.Payload)
		if err != nil {
			s.logger.Warn(ctx, "skipping session with corrupt payload", "sid", row.ID, "error", err)
			continue
		}
		result[row.ID] = data
	}

	return result, nil
}

// Length counts the non-expired sessions.
func (s *Store) Length(ctx context.Context) (int64, error) {
	s.maybeCleanup(ctx)
	return s.repo.CountUnexpired(ctx)
}

// Clear deletes every session unconditionally.
func (s *Store) Clear(ctx context.Context) error {
	s.maybeCleanup(ctx)
	return s.repo.DeleteAll(ctx)
}

// Cleanup deletes all rows whose expiry is strictly in the past and reports
// how many were removed. It only touches rows that are already invalid, so
// it is safe to run concurrently with any other operation, including a
// second Cleanup in another process.
func (s *Store) Cleanup(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}

	cleanupRuns.Inc()
	cleanupDeleted.Add(float64(n))
	return n, nil
}

// maybeCleanup runs a sweep at most once per cleanup interval. Losing the
// CAS race means another request is already responsible for this window.
func (s *Store) maybeCleanup(ctx context.Context) {
	now := s.now().UnixNano()
	last := s.lastCleanup.Load()
	if now-last < s.cleanupInterval.Nanoseconds() {
		return
	}
	if !s.lastCleanup.CompareAndSwap(last, now) {
		return
	}

	if _, err := s.Cleanup(ctx); err != nil {
		s.logger.Error(ctx, "opportunistic session cleanup failed", "error", err)
	}
}

// expireAt computes the row expiry for a payload. A non-zero MaxAge wins
// (negative values intentionally produce an already-expired row); otherwise
// the default TTL applies.
func (s *Store) expireAt(data *Data) time.Time {
	if data != nil && data.MaxAge.Duration != 0 {
		return s.now().Add(data.MaxAge.Duration)
	}
	return s.now().Add(s.defaultTTL)
}
