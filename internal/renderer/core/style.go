package core

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim                     // Faint/dim text
	AttrItalic                  // Italic text
	AttrUnderline               // Underlined text
	AttrBlink                   // Blinking text (rarely supported)
	AttrReverse                 // Reverse video (swap fg/bg)
	AttrStrikethrough           // Strikethrough text
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Style represents the visual style of text.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the default terminal style.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
	}
}

// NewStyle creates a style with the given foreground color.
func NewStyle(fg Color) Style {
	return DefaultStyle().Fg(fg)
}

// Fg returns a copy of s with the given foreground color.
func (s Style) Fg(c Color) Style {
	s.Foreground = c
	return s
}

// Bg returns a copy of s with the given background color.
func (s Style) Bg(c Color) Style {
	s.Background = c
	return s
}

// Add returns a copy of s with attrs added.
func (s Style) Add(attrs Attribute) Style {
	s.Attributes |= attrs
	return s
}

func (s Style) Bold() Style      { return s.Add(AttrBold) }
func (s Style) Dim() Style       { return s.Add(AttrDim) }
func (s Style) Italic() Style    { return s.Add(AttrItalic) }
func (s Style) Underline() Style { return s.Add(AttrUnderline) }
func (s Style) Reverse() Style   { return s.Add(AttrReverse) }

// Merge overlays other on s. Default colors in other leave s untouched.
func (s Style) Merge(other Style) Style {
	if !other.Foreground.IsDefault() {
		s.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		s.Background = other.Background
	}
	s.Attributes |= other.Attributes
	return s
}

// Equals returns true if two styles are identical.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Attributes == other.Attributes
}

// IsDefault returns true if this is the default style.
func (s Style) IsDefault() bool {
	return s.Equals(DefaultStyle())
}
