package core

import "testing"

func TestBufferSetString(t *testing.T) {
	buf := NewBuffer(NewRect(0, 0, 10, 2))

	n := buf.SetString(1, 0, "hello", DefaultStyle())
	if n != 5 {
		t.Errorf("expected 5 columns written, got %d", n)
	}
	if got := buf.Line(0); got != " hello" {
		t.Errorf("expected ' hello', got %q", got)
	}
}

func TestBufferSetStringClipsAtEdge(t *testing.T) {
	buf := NewBuffer(NewRect(0, 0, 4, 1))

	n := buf.SetString(0, 0, "abcdef", DefaultStyle())
	if n != 4 {
		t.Errorf("expected 4 columns written, got %d", n)
	}
	if got := buf.String(); got != "abcd" {
		t.Errorf("expected 'abcd', got %q", got)
	}
}

func TestBufferWideGraphemes(t *testing.T) {
	buf := NewBuffer(NewRect(0, 0, 5, 1))

	n := buf.SetString(0, 0, "日本語", DefaultStyle())
	if n != 4 {
		t.Errorf("expected 4 columns (a third wide rune does not fit), got %d", n)
	}
	if !buf.Cell(1, 0).IsContinuation() {
		t.Error("expected continuation cell after wide rune")
	}
	if got := buf.String(); got != "日本" {
		t.Errorf("expected '日本', got %q", got)
	}
}

func TestBufferCombiningRunes(t *testing.T) {
	buf := NewBuffer(NewRect(0, 0, 3, 1))

	buf.SetString(0, 0, "éx", DefaultStyle())
	c := buf.Cell(0, 0)
	if c.Rune != 'e' || len(c.Combining) != 1 {
		t.Errorf("expected 'e' with one combining rune, got %q %v", c.Rune, c.Combining)
	}
	if buf.Cell(1, 0).Rune != 'x' {
		t.Errorf("expected 'x' in second column, got %q", buf.Cell(1, 0).Rune)
	}
}

func TestBufferFillAndReset(t *testing.T) {
	buf := NewBuffer(NewRect(0, 0, 3, 3))
	style := NewStyle(ColorRed)

	buf.Fill(NewRect(1, 1, 5, 5), NewCell('#', style))
	if got := buf.String(); got != "\n ##\n ##" {
		t.Errorf("unexpected fill result %q", got)
	}
	if !buf.Cell(2, 2).Style.Equals(style) {
		t.Error("expected filled cell to carry style")
	}

	buf.Reset()
	if got := buf.String(); got != "\n\n" {
		t.Errorf("expected blank buffer after reset, got %q", got)
	}
}

func TestBufferOutOfBounds(t *testing.T) {
	buf := NewBuffer(NewRect(0, 0, 2, 2))

	buf.SetCell(5, 5, NewCell('x', DefaultStyle()))
	if c := buf.Cell(5, 5); c.Rune != ' ' {
		t.Errorf("expected empty cell outside buffer, got %q", c.Rune)
	}
	if n := buf.SetString(0, 9, "x", DefaultStyle()); n != 0 {
		t.Errorf("expected nothing written outside rows, got %d", n)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 8, "…"); got != "hello w…" {
		t.Errorf("expected 'hello w…', got %q", got)
	}
	if got := Truncate("hi", 8, "…"); got != "hi" {
		t.Errorf("expected 'hi', got %q", got)
	}
	if got := StringWidth("日本"); got != 4 {
		t.Errorf("expected width 4, got %d", got)
	}
}
