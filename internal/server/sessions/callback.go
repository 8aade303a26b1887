package sessions

import "context"

// CallbackStore adapts Store to the callback-shaped contract expected by
// the host framework's session middleware. The core stays context-and-error
// based and testable; only this boundary speaks callbacks. Each operation
// runs on its own goroutine and reports through the callback, never by
// panicking into the caller.
type CallbackStore struct {
	ctx   context.Context
	store *Store
}

// NewCallbackStore wraps store. The supplied context bounds every
// dispatched operation; cancelling it fails subsequent calls.
func NewCallbackStore(ctx context.Context, store *Store) *CallbackStore {
	return &CallbackStore{ctx: ctx, store: store}
}

func (c *CallbackStore) Get(id string, cb func(*Data, error)) {
	go func() {
		data, err := c.store.Get(c.ctx, id)
		cb(data, err)
	}()
}

func (c *CallbackStore) Set(id string, data *Data, cb func(error)) {
	go func() {
		cb(c.store.Set(c.ctx, id, data))
	}()
}

func (c *CallbackStore) Destroy(id string, cb func(error)) {
	go func() {
		cb(c.store.Destroy(c.ctx, id))
	}()
}

func (c *CallbackStore) Touch(id string, data *Data, cb func(error)) {
	go func() {
		cb(c.store.Touch(c.ctx, id, data))
	}()
}

func (c *CallbackStore) All(cb func(map[string]*Data, error)) {
	go func() {
		all, err := c.store.All(c.ctx)
		cb(all, err)
	}()
}

func (c *CallbackStore) Length(cb func(int64, error)) {
	go func() {
		n, err := c.store.Length(c.ctx)
		cb(n, err)
	}()
}

func (c *CallbackStore) Clear(cb func(error)) {
	go func() {
		cb(c.store.Clear(c.ctx))
	}()
}
