// Package color resolves colour names and #rrggbb strings into the
// hue/saturation/temperature triple accepted by set_device_info.
package color

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"tapoctl/internal/domain"
)

// DefaultName is used when no colour is given.
const DefaultName = "white"

// ErrUnknownColor is returned for names that are neither presets nor hex.
var ErrUnknownColor = errors.New("unknown colour")

var presets = map[string]domain.Color{
	"white":         {ColorTemp: 4500},
	"warmwhite":     {ColorTemp: 2500},
	"daylightwhite": {ColorTemp: 5500},
	"red":           {Hue: 0, Saturation: 100},
	"orange":        {Hue: 30, Saturation: 100},
	"yellow":        {Hue: 60, Saturation: 100},
	"green":         {Hue: 120, Saturation: 100},
	"cyan":          {Hue: 180, Saturation: 100},
	"blue":          {Hue: 240, Saturation: 100},
	"purple":        {Hue: 277, Saturation: 86},
	"pink":          {Hue: 330, Saturation: 100},
}

// Table resolves presets and hex colours.
type Table struct{}

// Resolve returns the device parameters for name.
func (Table) Resolve(name string) (domain.Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultName
	}
	if c, ok := presets[name]; ok {
		return c, nil
	}
	if strings.HasPrefix(name, "#") {
		return fromHex(name[1:])
	}
	return domain.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, name)
}

func fromHex(h string) (domain.Color, error) {
	if len(h) != 6 {
		return domain.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, "#"+h)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return domain.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, "#"+h)
	}
	r := float64(v>>16&0xff) / 255
	g := float64(v>>8&0xff) / 255
	b := float64(v&0xff) / 255

	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	delta := hi - lo

	var hue float64
	switch {
	case delta == 0:
		hue = 0
	case hi == r:
		hue = 60 * math.Mod((g-b)/delta, 6)
	case hi == g:
		hue = 60 * ((b-r)/delta + 2)
	default:
		hue = 60 * ((r-g)/delta + 4)
	}
	if hue < 0 {
		hue += 360
	}
	var sat float64
	if hi > 0 {
		sat = delta / hi * 100
	}
	return domain.Color{Hue: int(math.Round(hue)), Saturation: int(math.Round(sat))}, nil
}

var _ domain.ColorResolver = Table{}
