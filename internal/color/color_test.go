package color_test

import (
	"errors"
	"testing"

	"tapoctl/internal/color"
	"tapoctl/internal/domain"
)

func TestResolve(t *testing.T) {
	cases := map[string]domain.Color{
		"":        {ColorTemp: 4500},
		"Blue":    {Hue: 240, Saturation: 100},
		"#ff0000": {Hue: 0, Saturation: 100},
		"#00ff00": {Hue: 120, Saturation: 100},
		"#0000ff": {Hue: 240, Saturation: 100},
		"#ff00ff": {Hue: 300, Saturation: 100},
		"#808080": {Hue: 0, Saturation: 0},
	}
	for in, want := range cases {
		got, err := color.Table{}.Resolve(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: got %+v, want %+v", in, got, want)
		}
	}
}

func TestResolve_Unknown(t *testing.T) {
	for _, in := range []string{"mauve-ish", "#12345", "#gggggg"} {
		if _, err := (color.Table{}).Resolve(in); !errors.Is(err, color.ErrUnknownColor) {
			t.Fatalf("%q: want ErrUnknownColor, got %v", in, err)
		}
	}
}
