// Package widget holds the stateless drawing primitives used by the demo
// applications: paragraphs of text, bordered blocks, stacks laid out with
// the layout package, and gauges.
//
// Widgets are values. Convert them with Element (or element.FromWidget) to
// place them in a tree:
//
//	widget.Block{Title: "Counter", Border: true, Child: widget.NewParagraph("0").Element()}.Element()
package widget
