package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/ministrysync/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Fetcher loads the authoritative value of one key.
type Fetcher func(ctx context.Context) (any, error)

// State is what a reader sees for a key. Loading and Refetching are
// distinct: Loading means there is nothing to show yet.
type State struct {
	Data       any
	UpdatedAt  time.Time
	Stale      bool
	Loading    bool
	Refetching bool
	Err        error
}

// HasData reports whether a value (possibly stale) is cached.
func (s State) HasData() bool { return !s.UpdatedAt.IsZero() }

// ErrCanceled is returned to readers whose load was dropped by Cancel.
var ErrCanceled = fmt.Errorf("query canceled: %w", context.Canceled)

type flight struct {
	cancel context.CancelFunc
}

// QueryClient coordinates reads and optimistic writes over a Store.
type QueryClient struct {
	store      Store
	staleTime  time.Duration
	retries    int
	retryDelay time.Duration
	now        func() time.Time
	log        logging.Logger

	group singleflight.Group
	wg    sync.WaitGroup

	mu       sync.Mutex
	inflight map[Key]*flight
	// gens counts Cancel calls per key. A load only stores its result when
	// the generation it was scheduled under is still current.
	gens     map[Key]uint64
	fetchers map[Key]Fetcher
	errs     map[Key]error
}

type Option func(*QueryClient)

func WithStaleTime(d time.Duration) Option { return func(q *QueryClient) { q.staleTime = d } }

// WithRetries sets how many extra attempts a blocking read makes.
func WithRetries(n int, delay time.Duration) Option {
	return func(q *QueryClient) {
		q.retries = n
		q.retryDelay = delay
	}
}

func WithClock(now func() time.Time) Option { return func(q *QueryClient) { q.now = now } }

func WithLogger(l logging.Logger) Option { return func(q *QueryClient) { q.log = l } }

func NewQueryClient(store Store, opts ...Option) *QueryClient {
	q := &QueryClient{
		store:      store,
		staleTime:  5 * time.Minute,
		retries:    1,
		retryDelay: 500 * time.Millisecond,
		now:        time.Now,
		log:        logging.Nop(),
		inflight:   make(map[Key]*flight),
		gens:       make(map[Key]uint64),
		fetchers:   make(map[Key]Fetcher),
		errs:       make(map[Key]error),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *QueryClient) fresh(e Entry) bool {
	return !e.Invalidated && q.now().Sub(e.UpdatedAt) < q.staleTime
}

// Fetch returns the cached value of key when it is within the staleness
// window without touching the network. A stale value is returned at once
// and refreshed in the background. With nothing cached Fetch blocks on the
// network, retrying the configured number of times.
func (q *QueryClient) Fetch(ctx context.Context, key Key, fetch Fetcher) (State, error) {
	q.mu.Lock()
	q.fetchers[key] = fetch
	q.mu.Unlock()

	if e, ok := q.store.Get(key); ok {
		if q.fresh(e) {
			cacheHitsTotal.WithLabelValues(key.Entity, "fresh").Inc()
			return State{Data: e.Data, UpdatedAt: e.UpdatedAt}, nil
		}
		cacheHitsTotal.WithLabelValues(key.Entity, "stale").Inc()
		q.refetchAsync(ctx, key, fetch)
		return State{Data: e.Data, UpdatedAt: e.UpdatedAt, Stale: true, Refetching: true}, nil
	}

	cacheMissesTotal.WithLabelValues(key.Entity).Inc()

	var err error
	reloaded := false
	for attempt := 0; attempt <= q.retries; attempt++ {
		if attempt > 0 {
			q.log.Debug(ctx, "retrying query", "key", key.String(), "attempt", attempt, "err", err)
			if werr := sleep(ctx, q.retryDelay); werr != nil {
				return State{Err: werr}, werr
			}
		}

		var data any
		data, err = q.wait(ctx, key, fetch, q.generation(key))
		if err == nil {
			e, _ := q.store.Get(key)
			if e.UpdatedAt.IsZero() {
				e = Entry{Data: data, UpdatedAt: q.now()}
			}
			return State{Data: e.Data, UpdatedAt: e.UpdatedAt}, nil
		}
		// A load dropped by Cancel is not a failure; start over once.
		if errors.Is(err, ErrCanceled) && !reloaded && ctx.Err() == nil {
			reloaded = true
			attempt--
			q.log.Debug(ctx, "query canceled, reloading", "key", key.String())
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
	}
	return State{Err: err}, err
}

func (q *QueryClient) generation(key Key) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.gens[key]
}

// wait joins (or starts) the single in-flight load of key and waits for it
// or for ctx. gen is the generation of key when the read was requested.
func (q *QueryClient) wait(ctx context.Context, key Key, fetch Fetcher, gen uint64) (any, error) {
	ch := q.group.DoChan(key.String(), func() (any, error) {
		return q.load(ctx, key, fetch, gen)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// load performs one network fetch and stores the result unless key was
// cancelled since gen. The fetch is detached from the caller's cancellation
// so other waiters are not failed by one caller going away.
func (q *QueryClient) load(parent context.Context, key Key, fetch Fetcher, gen uint64) (any, error) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	defer cancel()

	f := &flight{cancel: cancel}
	q.mu.Lock()
	if q.gens[key] != gen {
		q.mu.Unlock()
		return nil, ErrCanceled
	}
	q.inflight[key] = f
	q.mu.Unlock()

	data, err := fetch(ctx)

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.inflight[key] == f {
		delete(q.inflight, key)
	}
	if q.gens[key] != gen {
		return nil, ErrCanceled
	}
	if err != nil {
		fetchErrorsTotal.WithLabelValues(key.Entity).Inc()
		q.errs[key] = err
		return nil, err
	}

	delete(q.errs, key)
	q.store.Set(key, Entry{Data: data, UpdatedAt: q.now()})
	return data, nil
}

// refetchAsync schedules a background load. The generation is taken before
// the goroutine starts, so a Cancel issued right after this call still
// discards the result.
func (q *QueryClient) refetchAsync(ctx context.Context, key Key, fetch Fetcher) {
	gen := q.generation(key)
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		if _, err := q.wait(context.WithoutCancel(ctx), key, fetch, gen); err != nil && !errors.Is(err, context.Canceled) {
			q.log.Warn(ctx, "background refetch failed", "key", key.String(), "err", err)
		}
	}()
}

// State reports the current view of key without fetching.
func (q *QueryClient) State(key Key) State {
	q.mu.Lock()
	_, fetching := q.inflight[key]
	err := q.errs[key]
	q.mu.Unlock()

	e, ok := q.store.Get(key)
	if !ok {
		return State{Loading: fetching, Err: err}
	}
	return State{
		Data:       e.Data,
		UpdatedAt:  e.UpdatedAt,
		Stale:      !q.fresh(e),
		Refetching: fetching,
		Err:        err,
	}
}

// Cancel aborts every read of key requested so far, including background
// refetches that have been scheduled but not started. Their results,
// should they still arrive, are discarded.
func (q *QueryClient) Cancel(key Key) {
	q.mu.Lock()
	q.gens[key]++
	if f, ok := q.inflight[key]; ok {
		f.cancel()
		delete(q.inflight, key)
	}
	q.mu.Unlock()
	q.group.Forget(key.String())
}

// Snapshot returns the raw entry of key for a later Restore.
func (q *QueryClient) Snapshot(key Key) (Entry, bool) {
	return q.store.Get(key)
}

// Restore puts back a snapshot verbatim; a key that was absent is removed.
func (q *QueryClient) Restore(key Key, e Entry, existed bool) {
	if !existed {
		q.store.Remove(key)
		return
	}
	q.store.Set(key, e)
}

// GetData returns the cached value of key regardless of freshness.
func (q *QueryClient) GetData(key Key) (any, bool) {
	e, ok := q.store.Get(key)
	if !ok {
		return nil, false
	}
	return e.Data, true
}

// SetData writes a local value for key, as an optimistic update does.
func (q *QueryClient) SetData(key Key, data any) {
	q.store.Set(key, Entry{Data: data, UpdatedAt: q.now()})
}

// Invalidate marks key stale and refetches it in the background with the
// last fetcher used for it.
func (q *QueryClient) Invalidate(ctx context.Context, key Key) {
	if e, ok := q.store.Get(key); ok {
		e.Invalidated = true
		q.store.Set(key, e)
	}

	q.mu.Lock()
	fetch := q.fetchers[key]
	q.mu.Unlock()

	if fetch != nil {
		q.refetchAsync(ctx, key, fetch)
	}
}

// InvalidateEntity invalidates every cached or previously fetched key of
// entity.
func (q *QueryClient) InvalidateEntity(ctx context.Context, entity string) {
	for _, key := range q.KeysOf(entity) {
		q.Invalidate(ctx, key)
	}
}

// KeysOf lists the known keys of entity.
func (q *QueryClient) KeysOf(entity string) []Key {
	seen := make(map[Key]struct{})
	var keys []Key
	add := func(k Key) {
		if k.Entity != entity {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	for _, k := range q.store.Keys() {
		add(k)
	}
	q.mu.Lock()
	for k := range q.fetchers {
		add(k)
	}
	q.mu.Unlock()
	return keys
}

// Wait blocks until every background refetch has finished.
func (q *QueryClient) Wait() {
	q.wg.Wait()
}

// Close cancels all pending reads and waits for background work.
func (q *QueryClient) Close() {
	q.mu.Lock()
	keys := make([]Key, 0, len(q.inflight)+len(q.fetchers))
	for k := range q.inflight {
		keys = append(keys, k)
	}
	for k := range q.fetchers {
		if _, ok := q.inflight[k]; !ok {
			keys = append(keys, k)
		}
	}
	q.mu.Unlock()

	for _, k := range keys {
		q.Cancel(k)
	}
	q.Wait()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
