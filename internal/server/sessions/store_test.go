package sessions

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aquavo/authcore/internal/common"
	"github.com/aquavo/authcore/internal/logging"
	"github.com/aquavo/authcore/internal/server/config"
	"github.com/aquavo/authcore/internal/server/models"
	"github.com/aquavo/authcore/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory Repository with optional error injection.
type fakeRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Session

	failGet     error
	failExpired error

	deleteExpiredCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]*models.Session{}}
}

func (f *fakeRepo) Get(ctx context.Context, id string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeRepo) Upsert(ctx context.Context, id string, payload []byte, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[id] = &models.Session{ID: id, Payload: payload, ExpiresAt: sql.NullTime{Time: expiresAt, Valid: true}}
	return nil
}

func (f *fakeRepo) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[id]; ok {
		row.ExpiresAt = sql.NullTime{Time: expiresAt, Valid: true}
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

func (f *fakeRepo) ListUnexpired(ctx context.Context, limit int) ([]*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.Session
	now := time.Now()
	for _, row := range f.rows {
		if len(result) >= limit {
			break
		}
		if row.ExpiresAt.Valid && !row.ExpiresAt.Time.Before(now) {
			cp := *row
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (f *fakeRepo) CountUnexpired(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	now := time.Now()
	for _, row := range f.rows {
		if row.ExpiresAt.Valid && !row.ExpiresAt.Time.Before(now) {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) DeleteAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = map[string]*models.Session{}
	return nil
}

func (f *fakeRepo) DeleteExpired(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteExpiredCalls++
	if f.failExpired != nil {
		return 0, f.failExpired
	}
	var n int64
	now := time.Now()
	for id, row := range f.rows {
		if row.ExpiresAt.Valid && row.ExpiresAt.Time.Before(now) {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[id]
	return ok
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func newTestStore(repo *fakeRepo) *Store {
	cfg := &config.Config{
		SessionTTL:             24 * time.Hour,
		SessionCleanupInterval: time.Hour,
		SessionListLimit:       500,
	}
	return NewStore(repo, testLogger(), cfg)
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	store := newTestStore(repo)
	ctx := context.Background()

	data := &Data{Values: map[string]any{"userId": "u-1"}}
	require.NoError(t, store.Set(ctx, "s-1", data))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.Values["userId"])
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(newFakeRepo())

	got, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_GetExpired_LazyDestroy(t *testing.T) {
	repo := newFakeRepo()
	store := newTestStore(repo)
	ctx := context.Background()

	// Negative max-age produces an already-expired row.
	data := &Data{MaxAge: timex.Duration{Duration: -time.Millisecond}}
	require.NoError(t, store.Set(ctx, "s-exp", data))
	require.True(t, repo.has("s-exp"))

	got, err := store.Get(ctx, "s-exp")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, repo.has("s-exp"), "expired row must be gone after get")
}

func TestStore_GetNullExpiry_Rehydrates(t *testing.T) {
	repo := newFakeRepo()
	store := newTestStore(repo)
	ctx := context.Background()

	// Simulate a once-bad write: payload present, expiry NULL.
	repo.rows["s-null"] = &models.Session{ID: "s-null", Payload: []byte(`{"values":{"k":"v"}}`)}

	got, err := store.Get(ctx, "s-null")
	require.NoError(t, err)
	require.NotNil(t, got, "payload must survive rehydration")
	assert.Equal(t, "v", got.Values["k"])

	row := repo.rows["s-null"]
	assert.True(t, row.ExpiresAt.Valid, "expiry must be rehydrated")
	assert.True(t, row.ExpiresAt.Time.After(time.Now()))
}

func TestStore_GetCorruptPayload_DropsRow(t *testing.T) {
	repo := newFakeRepo()
	store := newTestStore(repo)
	ctx := context.Background()

	repo.rows["s-bad"] = &models.Session{
		ID:        "s-bad",
		Payload:   []byte("{not json"),
		ExpiresAt: sql.NullTime{Time: time.Now().Add(time.Hour), Valid: true},
	}

	got, err := store.Get(ctx, "s-bad")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, repo.has("s-bad"))
}

func TestStore_GetRepoError_Propagates(t *testing.T) {
	repo := newFakeRepo()
	repo.failGet = errors.New("connection refused")
	store := newTestStore(repo)

	_, err := store.Get(context.Background(), "s-1")
	assert.Error(t, err)
}

func TestStore_SetTwice_Replaces(t *testing.T) {
	repo := newFakeRepo()
	store := newTestStore(repo)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "s-1", &Data{Values: map[string]any{"v": "one"}}))
	require.NoError(t, store.Set(ctx, "s-1", &Data{Values: map[string]any{"v": "two"}}))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "two", got.Values["v"])

	n, err := store.Length(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestStore_Destroy_MissingIsNotError(t *testing.T) {
	store := newTestStore(newFakeRepo())
	assert.NoError(t, store.Destroy(context.Background(), "never-existed"))
}

func TestStore_Touch_SlidesExpiry(t *testing.T) {
	repo := newFakeRepo()
	store := newTestStore(repo)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "s-1", &Data{MaxAge: timex.Duration{Duration: time.Minute}}))
	before := repo.rows["s-1"].ExpiresAt.Time

	require.NoError(t, store.Touch(ctx, "s-1", &Data{MaxAge: timex.Duration{Duration: time.Hour}}))
	after := repo.rows["s-1"].ExpiresAt.Time

	assert.True(t, after.After(before))
}

func TestStore_AllAndLength_SkipExpired(t *testing.T) {
	repo := newFakeRepo()
	store := newTestStore(repo)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "live-1", &Data{}))
	require.NoError(t, store.Set(ctx, "live-2", &Data{}))
	require.NoError(t, store.Set(ctx, "dead", &Data{MaxAge: timex.Duration{Duration: -time.Second}}))

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Contains(t, all, "live-1")
	assert.Contains(t, all, "live-2")

	n, err := store.Length(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestStore_Clear(t *testing.T) {
	repo := newFakeRepo()
	store := newTestStore(repo)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "s-1", &Data{}))
	require.NoError(t, store.Set(ctx, "s-2", &Data{}))
	require.NoError(t, store.Clear(ctx))

	n, err := store.Length(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestStore_Cleanup_Selectivity(t *testing.T) {
	repo := newFakeRepo()
	store := newTestStore(repo)
	ctx := context.Background()

	for _, id := range []string{"live-1", "live-2", "live-3"} {
		require.NoError(t, store.Set(ctx, id, &Data{}))
	}
	for _, id := range []string{"dead-1", "dead-2"} {
		require.NoError(t, store.Set(ctx, id, &Data{MaxAge: timex.Duration{Duration: -time.Second}}))
	}

	deleted, err := store.Cleanup(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	n, err := store.Length(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestStore_MaybeCleanup_DebouncedPerWindow(t *testing.T) {
	repo := newFakeRepo()
	store := newTestStore(repo)
	ctx := context.Background()

	// Several operations in a row: only the first may trigger a sweep.
	_, _ = store.Get(ctx, "a")
	_, _ = store.Get(ctx, "b")
	require.NoError(t, store.Set(ctx, "c", &Data{}))

	repo.mu.Lock()
	calls := repo.deleteExpiredCalls
	repo.mu.Unlock()
	assert.Equal(t, 1, calls, "only one sweep per debounce window")
}

func TestStore_MaybeCleanup_FailureDoesNotSurface(t *testing.T) {
	repo := newFakeRepo()
	repo.failExpired = errors.New("sweep failed")
	store := newTestStore(repo)
	ctx := context.Background()

	// The opportunistic sweep fails, the primary operation must not.
	require.NoError(t, store.Set(ctx, "s-1", &Data{}))
}
