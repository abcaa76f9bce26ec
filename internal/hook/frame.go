package hook

import (
	"time"

	"github.com/dshills/hookstorm/internal/renderer/core"
)

// FrameInfo describes the frame being rendered. The render loop provides it
// at the start of every pass.
type FrameInfo struct {
	Count     uint64        // frames rendered before this one
	Delta     time.Duration // time since the previous frame started
	Timestamp time.Time
}

// IsFirst reports whether this is the first frame.
func (f FrameInfo) IsFirst() bool {
	return f.Count == 0
}

// FPS returns the instantaneous frame rate derived from Delta.
func (f FrameInfo) FPS() float64 {
	if f.Delta <= 0 {
		return 0
	}
	return float64(time.Second) / float64(f.Delta)
}

// Viewport is the terminal size, provided by the render loop every pass.
type Viewport struct {
	Width, Height int
}

// componentArea is pushed around each component by the render pipeline.
type componentArea core.Rect

// ProvideArea makes area the result of UseArea for the component about to
// render and its descendants.
func ProvideArea(r *Root, area core.Rect) {
	Provide(r, componentArea(area))
}

// UseFrame returns the current frame's timing. Outside the render loop it
// returns the zero FrameInfo.
func UseFrame(c *Context) FrameInfo {
	f, _ := TryUseContext[FrameInfo](c)
	return f
}

// UseTerminalDimensions returns the terminal size for this frame.
func UseTerminalDimensions(c *Context) (width, height int) {
	v, _ := TryUseContext[Viewport](c)
	return v.Width, v.Height
}

// UseArea returns the area the calling component was given. Components
// rendered directly, outside the pipeline, get the area set with SetArea.
func UseArea(c *Context) core.Rect {
	if a, ok := TryUseContext[componentArea](c); ok {
		return core.Rect(a)
	}
	return c.area
}
