// Package lifecycle tracks which component instances are rendered in each
// pass, mounting new ones and unmounting the ones that disappeared.
package lifecycle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrDuplicateIdentity is returned when two elements in the same pass
// resolve to the same identity, usually two siblings sharing a key.
var ErrDuplicateIdentity = errors.New("duplicate component identity")

// Phase is the lifecycle state of an instance.
type Phase int

const (
	Unseen Phase = iota
	Mounted
	Unmounting
	Reclaimed
)

func (p Phase) String() string {
	switch p {
	case Unseen:
		return "unseen"
	case Mounted:
		return "mounted"
	case Unmounting:
		return "unmounting"
	case Reclaimed:
		return "reclaimed"
	default:
		return "phase(" + strconv.Itoa(int(p)) + ")"
	}
}

// Identity names a component instance. Parent is the path of the enclosing
// element, Type the component's type name. Key, when set, replaces Index as
// the position among siblings, which keeps identities stable when items of a
// dynamic list move.
type Identity struct {
	Parent string
	Type   string
	Key    string
	Index  int
}

// Segment returns the last path element of the identity.
func (id Identity) Segment() string {
	if id.Key != "" {
		return id.Type + "#" + id.Key
	}
	return id.Type + "[" + strconv.Itoa(id.Index) + "]"
}

// String returns the full path of the identity.
func (id Identity) String() string {
	if id.Parent == "" {
		return id.Segment()
	}
	return id.Parent + "/" + id.Segment()
}

// JoinPath appends segment to parent using the identity path separator.
func JoinPath(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + "/" + segment
}

// Depth returns how many path segments id has.
func (id Identity) Depth() int {
	return strings.Count(id.String(), "/") + 1
}

// Optional component capabilities, detected by type assertion.
type (
	// Mounter is notified the first time an instance renders.
	Mounter interface{ OnMount() }

	// Unmounter is notified when an instance disappears from the tree,
	// before its effect cleanups run.
	Unmounter interface{ OnUnmount() }

	// Updater can veto re-rendering an already mounted instance.
	Updater interface{ ShouldUpdate() bool }

	// UpdateNotifier is notified after every re-render of a mounted
	// instance.
	UpdateNotifier interface{ OnUpdate() }
)

func describe(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", v)
}
