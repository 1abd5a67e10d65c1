package palette

import (
	"errors"
	"math"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		hex     string
		alpha   float64
		wantErr bool
	}{
		{"#28a809", "#28a809", 1, false},
		{"#fff", "#ffffff", 1, false},
		{"#80000000", "#80000000", 128.0 / 255, false},
		{"#80ff0000", "#80ff0000", 128.0 / 255, false},
		{"#ffd17305", "#d17305", 1, false},
		{"28a809", "#28a809", 1, false},
		{" fff ", "#ffffff", 1, false},
		{"#", "", 0, true},
		{"#zz000000", "", 0, true},
		{"#12345", "", 0, true},
		{"#gggggg", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseHex(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrBadColor) {
					t.Fatalf("expected ErrBadColor, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := c.Hex(); got != tt.hex {
				t.Errorf("Hex() = %s, want %s", got, tt.hex)
			}
			if math.Abs(c.A-tt.alpha) > 1e-9 {
				t.Errorf("alpha = %f, want %f", c.A, tt.alpha)
			}
		})
	}
}

func TestParseHexAlphaLeads(t *testing.T) {
	c, err := ParseHex("#80ff0000")
	if err != nil {
		t.Fatal(err)
	}
	r, g, b := c.RGB255()
	if r != 255 || g != 0 || b != 0 {
		t.Errorf("rgb = (%d,%d,%d), want red", r, g, b)
	}
	if math.Abs(c.A-128.0/255) > 1e-9 {
		t.Errorf("alpha = %f, want half", c.A)
	}
}

func TestColorAlpha(t *testing.T) {
	c := MustHex("#ff0000")
	if got := c.WithAlpha(1.7).A; got != 1 {
		t.Errorf("WithAlpha should clamp to 1, got %f", got)
	}
	if got := c.WithAlpha(-0.2).A; got != 0 {
		t.Errorf("WithAlpha should clamp to 0, got %f", got)
	}
	if got := c.WithAlpha(0.8).Fade(0.5).A; math.Abs(got-0.4) > 1e-12 {
		t.Errorf("Fade = %f, want 0.4", got)
	}
}

func TestColorTextRoundTrip(t *testing.T) {
	in := MustHex("#d17305").WithAlpha(0.5)
	b, err := in.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var out Color
	if err := out.UnmarshalText(b); err != nil {
		t.Fatal(err)
	}
	if out.Hex() != in.Hex() {
		t.Errorf("round trip %s -> %s", in.Hex(), out.Hex())
	}
}

func TestBuiltins(t *testing.T) {
	want := map[string]string{
		"default":  "#28a809",
		"electric": "#00ffff",
		"fire":     "#ff4500",
		"arctic":   "#87ceeb",
	}
	for _, s := range Builtins() {
		if want[s.ID] != s.Primary.Hex() {
			t.Errorf("%s primary = %s, want %s", s.ID, s.Primary.Hex(), want[s.ID])
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	s, err := r.Get("Electric")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if s.Background.Hex() != "#000033" {
		t.Errorf("unexpected background %s", s.Background.Hex())
	}

	if _, err := r.Get("sepia"); !errors.Is(err, ErrUnknownScheme) {
		t.Errorf("expected ErrUnknownScheme, got %v", err)
	}

	neon, err := NewScheme("Neon Night", "#39ff14", "#ff073a", "#fe019a", "#050505")
	if err != nil {
		t.Fatal(err)
	}
	if neon.ID != "neon-night" {
		t.Errorf("slug = %s", neon.ID)
	}
	if err := r.Add(neon); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := r.Add(neon); !errors.Is(err, ErrDuplicateScheme) {
		t.Errorf("expected ErrDuplicateScheme, got %v", err)
	}
	if got := len(r.List()); got != 5 {
		t.Errorf("expected 5 schemes, got %d", got)
	}
	if next := r.Next("neon-night"); next.ID != "default" {
		t.Errorf("Next should wrap to default, got %s", next.ID)
	}
}

func TestNewSchemeRejectsBadInput(t *testing.T) {
	if _, err := NewScheme("", "#000", "#000", "#000", "#000"); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := NewScheme("x", "#000", "nope", "#000", "#000"); !errors.Is(err, ErrBadColor) {
		t.Errorf("expected ErrBadColor, got %v", err)
	}
}
