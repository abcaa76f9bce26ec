// Package core provides the drawing primitives shared by the backend,
// widgets and the element tree: colors, styles, cells, rectangles and the
// per-frame cell buffer.
//
// This package has no dependencies on other hookstorm packages so it can be
// imported from anywhere without cycles.
package core
