package palette

import (
	"errors"
	"image/color"
	"math/rand/v2"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"red", color.RGBA{255, 0, 0, 255}},
		{"  Green ", color.RGBA{0, 255, 0, 255}},
		{"blue", color.RGBA{0, 0, 255, 255}},
		{"black", color.RGBA{0, 0, 0, 255}},
		{"white", color.RGBA{255, 255, 255, 255}},
		{"orange", color.RGBA{255, 165, 0, 255}},
		{"#ff8000", color.RGBA{255, 128, 0, 255}},
		{"#FF8000", color.RGBA{255, 128, 0, 255}},
		{"#f80", color.RGBA{255, 136, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "nope", "#12", "#12345", "#gggggg", "#1234567"} {
		if _, err := Parse(in); !errors.Is(err, ErrUnknownColor) {
			t.Errorf("Parse(%q) error = %v, want ErrUnknownColor", in, err)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(color.RGBA{255, 128, 0, 255}); got != "#ff8000" {
		t.Errorf("Format() = %q, want #ff8000", got)
	}
	for _, sw := range Swatches {
		back, err := Parse(Format(sw.Color))
		if err != nil || back != sw.Color {
			t.Errorf("Parse(Format(%s)) = %v, %v", sw.Name, back, err)
		}
	}
}

func TestRandomIsOpaqueAndSeeded(t *testing.T) {
	a := Random(rand.New(rand.NewPCG(1, 2)))
	b := Random(rand.New(rand.NewPCG(1, 2)))
	if a != b {
		t.Errorf("same seed gave %v and %v", a, b)
	}
	for i := 0; i < 20; i++ {
		if c := Random(nil); c.A != 255 {
			t.Fatalf("Random() alpha = %d, want 255", c.A)
		}
	}
}

func TestLookup(t *testing.T) {
	sw, ok := Lookup("green")
	if !ok || sw.Color != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("Lookup(green) = %+v, %v", sw, ok)
	}
	if _, ok := Lookup("purple"); ok {
		t.Error("Lookup(purple) found a swatch")
	}
}
