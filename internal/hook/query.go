package hook

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// QueryStatus is the progress of a UseQuery fetch.
type QueryStatus int

const (
	QueryIdle QueryStatus = iota
	QueryLoading
	QueryRefreshing
	QuerySuccess
	QueryError
)

func (s QueryStatus) String() string {
	switch s {
	case QueryLoading:
		return "loading"
	case QueryRefreshing:
		return "refreshing"
	case QuerySuccess:
		return "success"
	case QueryError:
		return "error"
	default:
		return "idle"
	}
}

// Query defaults.
const (
	DefaultQueryCacheTime  = 5 * time.Minute
	DefaultQueryRetries    = 2
	DefaultQueryRetryDelay = time.Second
	maxQueryRetryDelay     = 30 * time.Second
)

// QueryCache holds the last successful result of every query key on a
// render root. Components using the same key share entries.
type QueryCache struct {
	mu      sync.Mutex
	entries map[string]cachedQuery
}

type cachedQuery struct {
	data    any
	updated time.Time
}

func newQueryCache() *QueryCache {
	return &QueryCache{entries: make(map[string]cachedQuery)}
}

func (q *QueryCache) store(key string, v any) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries[key] = cachedQuery{data: v, updated: time.Now()}
}

// lookup returns the entry for key unless it is older than cacheTime, in
// which case the entry is dropped.
func (q *QueryCache) lookup(key string, cacheTime time.Duration) (cachedQuery, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e, ok := q.entries[key]
	if !ok {
		return cachedQuery{}, false
	}
	if time.Since(e.updated) > cacheTime {
		delete(q.entries, key)
		return cachedQuery{}, false
	}
	return e, true
}

// Invalidate drops the entry for key so the next mount fetches again.
func (q *QueryCache) Invalidate(key string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.entries, key)
}

// Clear drops every entry.
func (q *QueryCache) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	clear(q.entries)
}

// Keys returns the cached keys in sorted order.
func (q *QueryCache) Keys() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	keys := make([]string, 0, len(q.entries))
	for k := range q.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// QueryOption configures UseQuery.
type QueryOption func(*queryOptions)

type queryOptions struct {
	enabled    bool
	staleTime  time.Duration
	cacheTime  time.Duration
	retries    int
	retryDelay time.Duration
}

func defaultQueryOptions() queryOptions {
	return queryOptions{
		enabled:    true,
		cacheTime:  DefaultQueryCacheTime,
		retries:    DefaultQueryRetries,
		retryDelay: DefaultQueryRetryDelay,
	}
}

// WithQueryEnabled turns fetching on or off. A disabled query stays idle.
func WithQueryEnabled(enabled bool) QueryOption {
	return func(o *queryOptions) { o.enabled = enabled }
}

// WithStaleTime sets how long a result counts as fresh. A fresh cached
// result is used without fetching, and a positive stale time also refetches
// in the background every d while mounted.
func WithStaleTime(d time.Duration) QueryOption {
	return func(o *queryOptions) { o.staleTime = max(d, 0) }
}

// WithCacheTime sets how long a cached result is kept at all.
func WithCacheTime(d time.Duration) QueryOption {
	return func(o *queryOptions) { o.cacheTime = max(d, 0) }
}

// WithRetry sets how many times a failed fetch is retried and the base
// delay, which doubles with every attempt.
func WithRetry(retries int, delay time.Duration) QueryOption {
	return func(o *queryOptions) {
		o.retries = max(retries, 0)
		o.retryDelay = clampDelay(delay)
	}
}

func (o queryOptions) backoff(attempt int) time.Duration {
	d := o.retryDelay << min(attempt, 10)
	return min(d, maxQueryRetryDelay)
}

// QueryResult is a snapshot of a query as of the current render.
type QueryResult[T any] struct {
	Status  QueryStatus
	Data    T
	HasData bool
	Err     error
	Stale   bool

	run    uint64
	runner *queryRunner[T]
}

// Loading reports whether a fetch is in flight.
func (r QueryResult[T]) Loading() bool {
	return r.Status == QueryLoading || r.Status == QueryRefreshing
}

// Refetch starts a new fetch, cancelling one in flight.
func (r QueryResult[T]) Refetch() {
	if r.runner != nil {
		r.runner.refetch()
	}
}

// Invalidate drops the cached result for the query's key and marks the
// current data stale.
func (r QueryResult[T]) Invalidate() {
	if r.runner != nil {
		r.runner.invalidate()
	}
}

type queryRunner[T any] struct {
	c     *Context
	set   Setter[QueryResult[T]]
	cache *QueryCache

	mu      sync.Mutex
	key     string
	fetch   func(ctx context.Context) (T, error)
	opts    queryOptions
	cancel  context.CancelFunc
	stopped bool
}

func (q *queryRunner[T]) refetch() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped || q.c.Disposed() {
		return
	}
	if q.cancel != nil {
		q.cancel()
	}
	key, fetch, o := q.key, q.fetch, q.opts

	var run uint64
	q.set.Update(func(r QueryResult[T]) QueryResult[T] {
		r.run++
		run = r.run
		if r.HasData {
			r.Status, r.Stale = QueryRefreshing, true
		} else {
			r.Status = QueryLoading
		}
		r.Err = nil
		return r
	})
	logger := q.c.root.logger
	q.cancel = spawn(q.c, "query", func(ctx context.Context) error {
		for attempt := 0; ; attempt++ {
			v, err := fetch(ctx)
			if ctx.Err() != nil {
				return nil
			}
			if err == nil {
				q.cache.store(key, v)
				q.settle(run, func(r QueryResult[T]) QueryResult[T] {
					r.Status, r.Data, r.HasData, r.Err, r.Stale = QuerySuccess, v, true, nil, false
					return r
				})
				return nil
			}
			if attempt >= o.retries {
				logger.Warn("query failed",
					zap.String("key", key), zap.Int("attempts", attempt+1), zap.Error(err))
				q.settle(run, func(r QueryResult[T]) QueryResult[T] {
					r.Status, r.Err, r.Stale = QueryError, err, false
					return r
				})
				return nil
			}
			logger.Debug("query retry",
				zap.String("key", key), zap.Int("attempt", attempt+1), zap.Error(err))
			if !sleep(ctx, o.backoff(attempt)) {
				return nil
			}
		}
	})
}

// settle applies f only if no newer fetch has started since run.
func (q *queryRunner[T]) settle(run uint64, f func(QueryResult[T]) QueryResult[T]) {
	q.set.Update(func(r QueryResult[T]) QueryResult[T] {
		if r.run != run {
			return r
		}
		return f(r)
	})
}

func (q *queryRunner[T]) invalidate() {
	q.mu.Lock()
	key := q.key
	q.mu.Unlock()
	q.cache.Invalidate(key)
	q.set.Update(func(r QueryResult[T]) QueryResult[T] {
		r.Stale = r.HasData
		return r
	})
}

func (q *queryRunner[T]) cancelInflight() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
}

func (q *queryRunner[T]) stop() {
	q.cancelInflight()
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()
}

// useFromCache settles the query from a fresh cache entry. It reports false
// when there is no usable entry.
func (q *queryRunner[T]) useFromCache() bool {
	q.mu.Lock()
	key, o := q.key, q.opts
	q.mu.Unlock()

	e, ok := q.cache.lookup(key, o.cacheTime)
	if !ok || time.Since(e.updated) >= o.staleTime {
		return false
	}
	v, ok := e.data.(T)
	if !ok {
		return false
	}
	q.set.Update(func(r QueryResult[T]) QueryResult[T] {
		r.run++
		r.Status, r.Data, r.HasData, r.Err, r.Stale = QuerySuccess, v, true, nil, false
		return r
	})
	return true
}

// UseQuery fetches data for key in the background on mount and whenever key
// changes. Successful results are cached on the render root and shared by
// every query with the same key. Failed fetches are retried with
// exponential backoff; the final error is stored in the result rather than
// stopping the render loop.
func UseQuery[T any](c *Context, key string, fetch func(ctx context.Context) (T, error), opts ...QueryOption) QueryResult[T] {
	o := defaultQueryOptions()
	for _, opt := range opts {
		opt(&o)
	}

	state, set := UseState(c, func() QueryResult[T] { return QueryResult[T]{} })
	q := UseRef(c, func() *queryRunner[T] {
		return &queryRunner[T]{c: c, set: set, cache: c.root.queries}
	}).Get()
	q.mu.Lock()
	q.key, q.fetch, q.opts = key, fetch, o
	q.mu.Unlock()

	UseEffect(c, func() func() { return q.stop })
	UseEffect(c, func() func() {
		if !o.enabled {
			return nil
		}
		if !q.useFromCache() {
			q.refetch()
		}
		if o.staleTime <= 0 {
			return q.cancelInflight
		}
		stopRefresh := spawn(c, "query-refresh", func(ctx context.Context) error {
			for sleep(ctx, o.staleTime) {
				q.refetch()
			}
			return nil
		})
		return func() {
			stopRefresh()
			q.cancelInflight()
		}
	}, key, o.enabled, o.staleTime)

	r := state.Get()
	r.runner = q
	return r
}

// UseQueryCache returns the query cache of the component's render root.
func UseQueryCache(c *Context) *QueryCache {
	c.checkLive(-1)
	return c.root.queries
}
