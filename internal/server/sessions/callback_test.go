package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackStore_SetGetDestroy(t *testing.T) {
	store := newTestStore(newFakeRepo())
	cb := NewCallbackStore(context.Background(), store)

	setDone := make(chan error, 1)
	cb.Set("s-1", &Data{Values: map[string]any{"userId": "u-1"}}, func(err error) { setDone <- err })
	require.NoError(t, waitErr(t, setDone))

	getDone := make(chan *Data, 1)
	cb.Get("s-1", func(data *Data, err error) {
		require.NoError(t, err)
		getDone <- data
	})
	data := waitData(t, getDone)
	require.NotNil(t, data)
	assert.Equal(t, "u-1", data.Values["userId"])

	destroyDone := make(chan error, 1)
	cb.Destroy("s-1", func(err error) { destroyDone <- err })
	require.NoError(t, waitErr(t, destroyDone))

	getDone2 := make(chan *Data, 1)
	cb.Get("s-1", func(data *Data, err error) {
		require.NoError(t, err)
		getDone2 <- data
	})
	assert.Nil(t, waitData(t, getDone2))
}

func TestCallbackStore_LengthAllClear(t *testing.T) {
	store := newTestStore(newFakeRepo())
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "s-1", &Data{}))
	require.NoError(t, store.Set(ctx, "s-2", &Data{}))

	cb := NewCallbackStore(ctx, store)

	lenDone := make(chan int64, 1)
	cb.Length(func(n int64, err error) {
		require.NoError(t, err)
		lenDone <- n
	})
	assert.EqualValues(t, 2, waitVal(t, lenDone))

	allDone := make(chan map[string]*Data, 1)
	cb.All(func(all map[string]*Data, err error) {
		require.NoError(t, err)
		allDone <- all
	})
	assert.Len(t, waitVal(t, allDone), 2)

	clearDone := make(chan error, 1)
	cb.Clear(func(err error) { clearDone <- err })
	require.NoError(t, waitErr(t, clearDone))

	lenDone2 := make(chan int64, 1)
	cb.Length(func(n int64, err error) {
		require.NoError(t, err)
		lenDone2 <- n
	})
	assert.EqualValues(t, 0, waitVal(t, lenDone2))
}

func waitErr(t *testing.T, ch chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("callback not invoked")
		return nil
	}
}

func waitData(t *testing.T, ch chan *Data) *Data {
	t.Helper()
	select {
	case d := <-ch:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("callback not invoked")
		return nil
	}
}

func waitVal[T any](t *testing.T, ch chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("callback not invoked")
		var zero T
		return zero
	}
}
