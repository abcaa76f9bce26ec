package core

import "testing"

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		hex     string
		r, g, b uint8
		wantErr bool
	}{
		{"#FF8040", 255, 128, 64, false},
		{"#ff8040", 255, 128, 64, false},
		{"FF8040", 255, 128, 64, false},
		{"#FFF", 255, 255, 255, false}, // Short form
		{"#000", 0, 0, 0, false},
		{"invalid", 0, 0, 0, true},
		{"#GGG", 0, 0, 0, true},
	}

	for _, tt := range tests {
		c, err := ColorFromHex(tt.hex)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ColorFromHex(%q) expected error, got nil", tt.hex)
			}
			continue
		}
		if err != nil {
			t.Errorf("ColorFromHex(%q) unexpected error: %v", tt.hex, err)
			continue
		}
		if c.R != tt.r || c.G != tt.g || c.B != tt.b {
			t.Errorf("ColorFromHex(%q) = (%d,%d,%d), want (%d,%d,%d)",
				tt.hex, c.R, c.G, c.B, tt.r, tt.g, tt.b)
		}
	}
}

func TestColorEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b Color
		want bool
	}{
		{"default vs default", ColorDefault, ColorDefault, true},
		{"default vs rgb", ColorDefault, ColorBlack, false},
		{"same index", ColorFromIndex(4), ColorFromIndex(4), true},
		{"index vs rgb", ColorFromIndex(4), ColorFromRGB(4, 0, 0), false},
		{"same rgb", ColorFromRGB(1, 2, 3), ColorFromRGB(1, 2, 3), true},
		{"different rgb", ColorFromRGB(1, 2, 3), ColorFromRGB(1, 2, 4), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equals(tt.b); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestColorBlend(t *testing.T) {
	got := ColorBlack.Blend(ColorWhite, 0.5)
	if got.R < 127 || got.R > 128 || got.R != got.G || got.G != got.B {
		t.Errorf("expected mid gray, got %s", got)
	}

	if got := ColorBlack.Blend(ColorWhite, 0); !got.Equals(ColorBlack) {
		t.Errorf("expected black at t=0, got %s", got)
	}

	idx := ColorFromIndex(3)
	if got := idx.Blend(ColorWhite, 0.2); !got.Equals(idx) {
		t.Errorf("expected indexed color to win below 0.5, got %s", got)
	}
}

func TestColorGradient(t *testing.T) {
	g := ColorBlack.Gradient(ColorWhite, 3)
	if len(g) != 3 {
		t.Fatalf("expected 3 colors, got %d", len(g))
	}
	if !g[0].Equals(ColorBlack) || !g[2].Equals(ColorWhite) {
		t.Errorf("expected endpoints black and white, got %s and %s", g[0], g[2])
	}
	if ColorBlack.Gradient(ColorWhite, 0) != nil {
		t.Error("expected nil gradient for n=0")
	}
}

func TestColorString(t *testing.T) {
	if s := ColorDefault.String(); s != "default" {
		t.Errorf("expected 'default', got %q", s)
	}
	if s := ColorFromIndex(9).String(); s != "idx(9)" {
		t.Errorf("expected 'idx(9)', got %q", s)
	}
	if s := ColorFromRGB(255, 128, 64).String(); s != "#ff8040" {
		t.Errorf("expected '#ff8040', got %q", s)
	}
}
