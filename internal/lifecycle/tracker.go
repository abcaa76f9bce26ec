package lifecycle

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/hookstorm/internal/hook"
)

// Instance is one mounted component.
type Instance struct {
	ID    Identity
	Hooks *hook.Context

	// Component is the latest component value rendered for this identity.
	Component any

	// Last holds whatever the render pipeline caches between passes, such
	// as the element tree the component returned.
	Last any

	// Provided holds the context values the last executed render pushed,
	// replayed when a later pass skips the body.
	Provided []hook.Provided

	phase     Phase
	seen      uint64
	mountedAt time.Time
}

// Phase returns the instance's lifecycle state.
func (i *Instance) Phase() Phase {
	return i.phase
}

// MountedAt returns when the instance first rendered.
func (i *Instance) MountedAt() time.Time {
	return i.mountedAt
}

// Stats counts lifecycle transitions.
type Stats struct {
	Mounted   int // live instances
	Mounts    uint64
	Unmounts  uint64
	LastPass  uint64
	LastSweep int // instances reclaimed by the latest EndPass
}

// Tracker compares the instances rendered in this pass with the previous
// one. It is used from the render goroutine only.
type Tracker struct {
	root      *hook.Root
	instances map[string]*Instance
	pass      uint64
	inPass    bool
	stats     Stats
	logger    *zap.Logger
}

// NewTracker creates a tracker whose instances share root.
func NewTracker(root *hook.Root, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		root:      root,
		instances: make(map[string]*Instance),
		logger:    logger,
	}
}

// BeginPass starts a new render pass.
func (t *Tracker) BeginPass() {
	t.pass++
	t.inPass = true
}

// Touch records that id is rendered in the current pass and returns its
// instance. fresh is true when the instance was created by this call; the
// caller is then responsible for running its mount logic.
func (t *Tracker) Touch(id Identity) (inst *Instance, fresh bool, err error) {
	if !t.inPass {
		t.BeginPass()
	}
	key := id.String()
	if inst, ok := t.instances[key]; ok {
		if inst.seen == t.pass {
			return nil, false, fmt.Errorf("%w: %s", ErrDuplicateIdentity, key)
		}
		inst.seen = t.pass
		return inst, false, nil
	}

	inst = &Instance{
		ID:        id,
		Hooks:     hook.NewContext(t.root, key),
		phase:     Mounted,
		seen:      t.pass,
		mountedAt: time.Now(),
	}
	t.instances[key] = inst
	t.stats.Mounts++
	t.logger.Debug("mount", zap.String("component", key))
	return inst, true, nil
}

// Lookup returns the instance registered under path.
func (t *Tracker) Lookup(path string) (*Instance, bool) {
	inst, ok := t.instances[path]
	return inst, ok
}

// Len returns the number of mounted instances.
func (t *Tracker) Len() int {
	return len(t.instances)
}

// Paths returns the paths of all mounted instances, sorted.
func (t *Tracker) Paths() []string {
	paths := make([]string, 0, len(t.instances))
	for p := range t.instances {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// EndPass unmounts every instance that was not touched during the pass and
// returns their identities, deepest first.
func (t *Tracker) EndPass() []Identity {
	t.inPass = false
	var gone []*Instance
	for _, inst := range t.instances {
		if inst.seen != t.pass {
			gone = append(gone, inst)
		}
	}
	t.stats.LastPass = t.pass
	t.stats.LastSweep = len(gone)
	return t.unmount(gone)
}

// Dispose unmounts every instance. Used when the render root shuts down.
func (t *Tracker) Dispose() []Identity {
	t.inPass = false
	gone := make([]*Instance, 0, len(t.instances))
	for _, inst := range t.instances {
		gone = append(gone, inst)
	}
	return t.unmount(gone)
}

// Stats returns a snapshot of lifecycle counters.
func (t *Tracker) Stats() Stats {
	s := t.stats
	s.Mounted = len(t.instances)
	return s
}

// unmount tears instances down children before parents so a parent's
// cleanup never observes a half-unmounted child.
func (t *Tracker) unmount(gone []*Instance) []Identity {
	if len(gone) == 0 {
		return nil
	}
	sort.Slice(gone, func(i, j int) bool {
		di, dj := gone[i].ID.Depth(), gone[j].ID.Depth()
		if di != dj {
			return di > dj
		}
		return gone[i].ID.String() < gone[j].ID.String()
	})

	ids := make([]Identity, 0, len(gone))
	for _, inst := range gone {
		t.teardown(inst)
		ids = append(ids, inst.ID)
	}
	return ids
}

func (t *Tracker) teardown(inst *Instance) {
	key := inst.ID.String()
	t.logger.Debug("unmount",
		zap.String("component", key),
		zap.String("type", describe(inst.Component)),
		zap.Duration("lifetime", time.Since(inst.mountedAt)))

	inst.phase = Unmounting
	if u, ok := inst.Component.(Unmounter); ok {
		u.OnUnmount()
	}
	inst.Hooks.Dispose()
	inst.phase = Reclaimed
	inst.Component, inst.Last, inst.Provided = nil, nil, nil
	delete(t.instances, key)
	t.stats.Unmounts++
}
