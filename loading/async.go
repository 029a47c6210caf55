package loading

import (
	"context"
	"sync"
	"time"

	"github.com/samber/mo"
)

// Async tracks a single remote resource that is not paged, such as a profile or a quota.
type Async[T any] struct {
	mu          sync.RWMutex
	pristine    bool
	fetching    bool
	invalidated bool
	data        mo.Option[T]
	err         error
	updatedAt   time.Time
}

// AsyncSnapshot is a copy of an Async state.
type AsyncSnapshot[T any] struct {
	Pristine    bool
	Fetching    bool
	Invalidated bool
	Data        mo.Option[T]
	Err         error
	UpdatedAt   time.Time
}

// NewAsync returns a pristine Async.
func NewAsync[T any]() *Async[T] {
	return &Async[T]{pristine: true, data: mo.None[T]()}
}

// Request marks a fetch as started. It reports false when one is already pending.
func (a *Async[T]) Request() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.fetching {
		return false
	}
	a.pristine = false
	a.fetching = true
	return true
}

// Receive stores data from the pending fetch.
func (a *Async[T]) Receive(data T) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.fetching {
		return
	}
	a.fetching = false
	a.invalidated = false
	a.data = mo.Some(data)
	a.err = nil
	a.updatedAt = time.Now()
}

// Fail records the error of the pending fetch. Previous data is kept.
func (a *Async[T]) Fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.fetching {
		return
	}
	a.fetching = false
	a.err = err
}

// Invalidate flags the data as outdated so the next reader fetches again.
func (a *Async[T]) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.invalidated = true
}

// Stale reports whether a fetch is needed.
func (a *Async[T]) Stale() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pristine || a.invalidated || (a.err != nil && a.data.IsAbsent())
}

// Snapshot returns a copy of the current state.
func (a *Async[T]) Snapshot() AsyncSnapshot[T] {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return AsyncSnapshot[T]{
		Pristine:    a.pristine,
		Fetching:    a.fetching,
		Invalidated: a.invalidated,
		Data:        a.data,
		Err:         a.err,
		UpdatedAt:   a.updatedAt,
	}
}

// Load runs fetch between Request and Receive/Fail. It returns the resulting data, if any.
func (a *Async[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) (mo.Option[T], error) {
	if !a.Request() {
		return a.Snapshot().Data, nil
	}

	data, err := fetch(ctx)
	if err != nil {
		a.Fail(err)
		return a.Snapshot().Data, err
	}

	a.Receive(data)
	return mo.Some(data), nil
}
