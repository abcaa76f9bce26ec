package hook

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/hookstorm/internal/renderer/backend"
	"github.com/dshills/hookstorm/internal/task"
)

// Root is the state shared by every hook scope of one render root: the
// provider stack, the current input event, the query cache and the
// background task group.
// It replaces process-wide hook globals so several roots can coexist, for
// example in tests.
type Root struct {
	id        uuid.UUID
	providers *Providers
	event     backend.Event
	hasEvent  bool
	tasks     *task.Group
	queries   *QueryCache
	logger    *zap.Logger
}

// RootOption configures a Root.
type RootOption func(*rootOptions)

type rootOptions struct {
	ctx    context.Context
	logger *zap.Logger
}

// WithContext sets the parent context of the root's background tasks.
func WithContext(ctx context.Context) RootOption {
	return func(o *rootOptions) { o.ctx = ctx }
}

// WithLogger sets the logger used by hooks on this root.
func WithLogger(l *zap.Logger) RootOption {
	return func(o *rootOptions) { o.logger = l }
}

// NewRoot creates a render root.
func NewRoot(opts ...RootOption) *Root {
	o := rootOptions{ctx: context.Background(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	id := uuid.Must(uuid.NewV7())
	logger := o.logger.With(zap.String("root", id.String()))
	return &Root{
		id:        id,
		providers: newProviders(),
		tasks:     task.NewGroup(o.ctx, logger),
		queries:   newQueryCache(),
		logger:    logger,
	}
}

// ID returns the root's unique identifier.
func (r *Root) ID() string {
	return r.id.String()
}

// Providers returns the root's provider stack.
func (r *Root) Providers() *Providers {
	return r.providers
}

// Tasks returns the root's background task group.
func (r *Root) Tasks() *task.Group {
	return r.tasks
}

// Queries returns the root's query cache.
func (r *Root) Queries() *QueryCache {
	return r.queries
}

// Logger returns the root's logger.
func (r *Root) Logger() *zap.Logger {
	return r.logger
}

// BeginPass prepares the root for a render pass: the provider stack is
// emptied and ev, when non-nil, becomes the current event.
func (r *Root) BeginPass(ev *backend.Event) {
	r.providers.Reset()
	if ev != nil {
		r.event, r.hasEvent = *ev, true
	} else {
		r.event, r.hasEvent = backend.Event{}, false
	}
}

// EndPass drops the current event. Events nobody read are lost.
func (r *Root) EndPass() {
	r.event, r.hasEvent = backend.Event{}, false
}

// Event returns the event delivered for the current pass.
func (r *Root) Event() (backend.Event, bool) {
	return r.event, r.hasEvent
}

// Clear discards all provider values and the current event.
func (r *Root) Clear() {
	r.providers.Reset()
	r.EndPass()
}

// Close clears the root and stops its background tasks, returning the
// first task failure.
func (r *Root) Close() error {
	r.Clear()
	return r.tasks.Close()
}
