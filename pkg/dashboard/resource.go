package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrSuperseded is returned when a newer request for the same resource was
// issued before this one finished; its result was dropped.
var ErrSuperseded = errors.New("dashboard: superseded by a newer request")

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is a point-in-time copy of a resource.
//
// Status Ready with Stale set means Data came from the Store and has not been
// confirmed by the server yet. Loading is true whenever a request is in flight,
// including a silent revalidation behind stale data.
type State[T any] struct {
	Data    T
	HasData bool
	Status  Status
	Loading bool
	Stale   bool
	Err     error
}

type Options struct {
	Store Store
	// Logger receives persistence failures at warn level.
	Logger zerolog.Logger
	// OnChange is called after every state transition.
	OnChange func()
	// QuietPeriod applies to debounced search; zero means DefaultQuietPeriod.
	QuietPeriod time.Duration
}

// Resource holds the fetch state of one logical resource.
type Resource[T any] struct {
	name  string
	fetch func(context.Context) (T, error)
	key   func() string
	store Store
	log   zerolog.Logger
	onChg func()

	guard requestGuard

	mu    sync.RWMutex
	state State[T]
}

func NewResource[T any](name string, fetch func(context.Context) (T, error), opts Options) *Resource[T] {
	return newResource(name, fetch, opts, nil)
}

func newResource[T any](name string, fetch func(context.Context) (T, error), opts Options, key func() string) *Resource[T] {
	if key == nil {
		key = func() string { return name }
	}
	return &Resource[T]{
		name:  name,
		fetch: fetch,
		key:   key,
		store: opts.Store,
		log:   opts.Logger.With().Str("resource", name).Logger(),
		onChg: opts.OnChange,
	}
}

func (r *Resource[T]) Name() string {
	return r.name
}

func (r *Resource[T]) State() State[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Load paints from the Store when possible, then always revalidates.
func (r *Resource[T]) Load(ctx context.Context) error {
	r.Restore(ctx)
	return r.Refresh(ctx)
}

// Restore reads the last persisted payload into an empty resource.
// Any Store problem is treated as a miss. A read that finishes after a newer
// request was issued is dropped.
func (r *Resource[T]) Restore(ctx context.Context) bool {
	if r.store == nil {
		return false
	}

	token := r.guard.peek()
	key := r.key()
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			r.log.Warn().Err(err).Str("key", key).Msg("failed to read cached resource")
		}
		return false
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("discarding unreadable cached resource")
		if err := r.store.Delete(ctx, key); err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("failed to delete cached resource")
		}
		return false
	}

	r.mu.Lock()
	if !r.guard.current(token) || r.state.HasData {
		r.mu.Unlock()
		return false
	}
	r.state = State[T]{Data: data, HasData: true, Status: StatusReady, Stale: true}
	r.mu.Unlock()

	r.changed()
	return true
}

// Refresh fetches fresh data. A response that arrives after a newer request
// was issued is dropped and ErrSuperseded returned.
func (r *Resource[T]) Refresh(ctx context.Context) error {
	token, key := r.begin()

	data, err := r.fetch(ctx)

	if !r.commit(token, func(st *State[T]) {
		st.Loading = false
		if err != nil {
			st.Status = StatusFailed
			st.Err = err
			return
		}
		*st = State[T]{Data: data, HasData: true, Status: StatusReady}
	}) {
		return ErrSuperseded
	}
	if err != nil {
		return err
	}

	r.persist(ctx, key, data)
	return nil
}

func (r *Resource[T]) begin() (uint64, string) {
	token := r.guard.next()
	key := r.key()

	r.mu.Lock()
	r.state.Loading = true
	if !(r.state.Status == StatusReady && r.state.Stale) {
		r.state.Status = StatusLoading
	}
	r.mu.Unlock()

	r.changed()
	return token, key
}

// commit applies fn only if token is still the newest request.
func (r *Resource[T]) commit(token uint64, fn func(*State[T])) bool {
	r.mu.Lock()
	if !r.guard.current(token) {
		r.mu.Unlock()
		return false
	}
	fn(&r.state)
	r.mu.Unlock()

	r.changed()
	return true
}

func (r *Resource[T]) persist(ctx context.Context, key string, data T) {
	if r.store == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("failed to encode resource for cache")
		return
	}
	// A cancelled caller should not stop the write of data it already received.
	if err := r.store.Set(context.WithoutCancel(ctx), key, raw); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("failed to persist resource")
	}
}

func (r *Resource[T]) changed() {
	if r.onChg != nil {
		r.onChg()
	}
}
