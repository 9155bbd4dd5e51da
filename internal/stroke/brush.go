package stroke

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

const (
	// MinThickness is the thinnest brush.
	MinThickness = 1.0
	// MaxThickness is the widest brush.
	MaxThickness = 20.0
	// DefaultThickness is the brush width on start.
	DefaultThickness = 5.0
)

// DefaultColor is the pink the brush starts with.
var DefaultColor = color.RGBA{0xFF, 0x6B, 0x9D, 0xFF}

// DefaultHue is the hue slider position matching DefaultColor's family.
const DefaultHue = 340

// Brush holds the live colour and width applied to new strokes.
type Brush struct {
	Color     color.RGBA
	Thickness float64
}

// DefaultBrush returns the start up brush.
func DefaultBrush() Brush {
	return Brush{Color: DefaultColor, Thickness: DefaultThickness}
}

// WithThickness returns b with the width clamped into range.
func (b Brush) WithThickness(v float64) Brush {
	b.Thickness = ClampThickness(v)
	return b
}

// ClampThickness bounds v to [MinThickness, MaxThickness].
func ClampThickness(v float64) float64 {
	if math.IsNaN(v) || v < MinThickness {
		return MinThickness
	}
	if v > MaxThickness {
		return MaxThickness
	}
	return v
}

// Swatch is a named palette colour.
type Swatch struct {
	Name  string
	Color color.RGBA
}

var palette = []Swatch{
	{"black", hex(0x000000)},
	{"dim-gray", hex(0x666666)},
	{"red", hex(0xFF0000)},
	{"salmon", hex(0xFF6B6B)},
	{"orange", hex(0xFF9500)},
	{"sunflower", hex(0xFFD93D)},
	{"mint", hex(0x6BCF7F)},
	{"teal", hex(0x4ECDC4)},
	{"blue", hex(0x0066CC)},
	{"amethyst", hex(0x9B59B6)},
	{"white", hex(0xFFFFFF)},
	{"silver", hex(0xCCCCCC)},
	{"dark-red", hex(0x8B0000)},
	{"deep-pink", hex(0xFF1493)},
	{"amber", hex(0xFFA500)},
	{"yellow", hex(0xFFFF00)},
	{"lime", hex(0x32CD32)},
	{"turquoise", hex(0x00CED1)},
	{"royal-blue", hex(0x4169E1)},
	{"orchid", hex(0xDA70D6)},
	{"smoke", hex(0xF5F5F5)},
	{"gray", hex(0xA9A9A9)},
	{"crimson", hex(0xDC143C)},
	{"hot-pink", hex(0xFF69B4)},
}

// Palette returns the basic swatches in display order.
func Palette() []Swatch {
	out := make([]Swatch, len(palette))
	copy(out, palette)
	return out
}

// Preset is a named brush width.
type Preset struct {
	Name  string
	Value float64
}

// Presets returns the quick width choices.
func Presets() []Preset {
	return []Preset{{"thin", 2}, {"medium", 5}, {"thick", 10}}
}

func hex(v uint32) color.RGBA {
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xFF}
}

// HueColor converts a hue slider position in degrees to a colour at 80%
// saturation and 60% lightness.
func HueColor(h float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	const s, l = 0.8, 0.6
	a := s * math.Min(l, 1-l)
	f := func(n float64) uint8 {
		k := math.Mod(n+h/30, 12)
		v := l - a*math.Max(math.Min(math.Min(k-3, 9-k), 1), -1)
		return uint8(math.Round(255 * v))
	}
	return color.RGBA{f(0), f(8), f(4), 0xFF}
}

// ParseColor accepts #RRGGBB, #RRGGBBAA, a palette name or a CSS colour
// name.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		h := s[1:]
		switch len(h) {
		case 6:
			v, err := strconv.ParseUint(h, 16, 32)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
			}
			return hex(uint32(v)), nil
		case 8:
			v, err := strconv.ParseUint(h, 16, 32)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
			}
			return color.RGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
		}
		return color.RGBA{}, fmt.Errorf("parse color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	name := strings.ToLower(s)
	for _, sw := range palette {
		if sw.Name == name {
			return sw.Color, nil
		}
	}
	if c, ok := colornames.Map[strings.ReplaceAll(name, "-", "")]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", s)
}

// Hex formats c as #RRGGBB, or #RRGGBBAA when not opaque.
func Hex(c color.RGBA) string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
