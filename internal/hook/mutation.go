package hook

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MutationStatus is the progress of a mutation.
type MutationStatus int

const (
	MutationIdle MutationStatus = iota
	MutationPending
	MutationSuccess
	MutationError
	MutationCancelled
)

func (s MutationStatus) String() string {
	switch s {
	case MutationPending:
		return "pending"
	case MutationSuccess:
		return "success"
	case MutationError:
		return "error"
	case MutationCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// MutationState is a snapshot of the latest mutation.
type MutationState[V, D any] struct {
	Status      MutationStatus
	Data        D
	Err         error
	Variables   V
	ID          string
	SubmittedAt time.Time
	Failures    int
}

// MutationOptions configures UseMutation. Callbacks run on the mutation's
// background goroutine.
type MutationOptions[V, D any] struct {
	OnMutate  func(vars V)
	OnSuccess func(data D, vars V)
	OnError   func(err error, vars V)
	OnSettled func(data D, err error, vars V)

	// Retries is how many times a failed call is retried.
	Retries       int
	RetryDelay    time.Duration
	Backoff       bool // double the delay after every attempt
	MaxRetryDelay time.Duration
}

func (o MutationOptions[V, D]) delay(attempt int) time.Duration {
	d := clampDelay(o.RetryDelay)
	if o.Backoff {
		d <<= min(attempt, 10)
	}
	if o.MaxRetryDelay > 0 {
		d = min(d, o.MaxRetryDelay)
	}
	return d
}

// Mutation runs a side-effecting call on demand. It is shared by every
// render of the component that created it.
type Mutation[V, D any] struct {
	c *Context

	mu      sync.Mutex
	fn      func(ctx context.Context, vars V) (D, error)
	opts    MutationOptions[V, D]
	state   MutationState[V, D]
	cancel  context.CancelFunc
	run     uint64
	stopped bool
}

// UseMutation returns the component's mutation handle. fn and opts are
// refreshed on every render. A pending call is cancelled at unmount.
func UseMutation[V, D any](c *Context, fn func(ctx context.Context, vars V) (D, error), opts MutationOptions[V, D]) *Mutation[V, D] {
	m := UseRef(c, func() *Mutation[V, D] { return &Mutation[V, D]{c: c} }).Get()
	m.mu.Lock()
	m.fn, m.opts = fn, opts
	m.mu.Unlock()
	UseEffect(c, func() func() { return m.stop })
	return m
}

// State returns the current snapshot.
func (m *Mutation[V, D]) State() MutationState[V, D] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Pending reports whether a call is in flight.
func (m *Mutation[V, D]) Pending() bool {
	return m.State().Status == MutationPending
}

// Mutate starts fn with vars in the background. A call already in flight
// is cancelled and its result discarded.
func (m *Mutation[V, D]) Mutate(vars V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || m.c.Disposed() {
		return
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.run++
	run, fn, o := m.run, m.fn, m.opts
	id := uuid.Must(uuid.NewV7()).String()
	m.state = MutationState[V, D]{
		Status:      MutationPending,
		Variables:   vars,
		ID:          id,
		SubmittedAt: time.Now(),
	}

	logger := m.c.root.logger.With(zap.String("mutation", id))
	m.cancel = spawn(m.c, "mutation", func(ctx context.Context) error {
		if o.OnMutate != nil {
			o.OnMutate(vars)
		}
		for attempt := 0; ; attempt++ {
			data, err := fn(ctx, vars)
			if ctx.Err() != nil {
				return nil
			}
			if err != nil && attempt < o.Retries {
				logger.Debug("mutation retry", zap.Int("attempt", attempt+1), zap.Error(err))
				if !sleep(ctx, o.delay(attempt)) {
					return nil
				}
				continue
			}
			if !m.settle(run, data, err, attempt+1) {
				return nil
			}
			if err != nil {
				logger.Warn("mutation failed", zap.Int("attempts", attempt+1), zap.Error(err))
				if o.OnError != nil {
					o.OnError(err, vars)
				}
			} else if o.OnSuccess != nil {
				o.OnSuccess(data, vars)
			}
			if o.OnSettled != nil {
				o.OnSettled(data, err, vars)
			}
			return nil
		}
	})
}

// settle records the outcome of run and reports whether it was still the
// latest call.
func (m *Mutation[V, D]) settle(run uint64, data D, err error, attempts int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.run != run {
		return false
	}
	m.cancel = nil
	if err != nil {
		var zero D
		m.state.Status, m.state.Data, m.state.Err, m.state.Failures = MutationError, zero, err, attempts
	} else {
		m.state.Status, m.state.Data, m.state.Err, m.state.Failures = MutationSuccess, data, nil, 0
	}
	return true
}

// Cancel stops a pending call. The state becomes MutationCancelled.
func (m *Mutation[V, D]) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
}

func (m *Mutation[V, D]) cancelLocked() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.cancel = nil
	m.run++
	m.state.Status = MutationCancelled
}

// Reset cancels a pending call and returns the mutation to idle.
func (m *Mutation[V, D]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
	m.state = MutationState[V, D]{}
}

func (m *Mutation[V, D]) stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
	m.stopped = true
}
