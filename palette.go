package sixel

import colorful "github.com/lucasb-eyer/go-colorful"

// Color is one 8-bit RGB palette entry, always stored in gamma sRGB
// regardless of the Colorspace the quantizer worked in internally —
// colorspace.go's conversions happen at the boundary so every consumer
// of a Palette sees plain sRGB bytes (§3).
type Color struct {
	R, G, B uint8
}

// Palette is an ordered sequence of up to 256 colors (§3). Index 0 may be
// designated transparent via TransparentIndex (-1 when unset). Invariant:
// an indexed image's values are all < len(Colors).
type Palette struct {
	Colors           []Color
	TransparentIndex int
}

// NewPalette wraps colors with no transparent entry.
func NewPalette(colors []Color) Palette {
	return Palette{Colors: colors, TransparentIndex: -1}
}

func (p Palette) Len() int { return len(p.Colors) }

// Colorful converts a Color to go-colorful's 0..1 float representation,
// giving callers access to its perceptual distance and space-conversion
// routines (Lab, Luv, HSLuv) without this package reimplementing them.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex renders the entry as a "#rrggbb" string, handy for diagnostics.
func (c Color) Hex() string {
	return c.Colorful().Hex()
}

// HasTransparent reports whether idx names this palette's transparent entry.
func (p Palette) HasTransparent(idx int) bool {
	return p.TransparentIndex >= 0 && p.TransparentIndex == idx
}

// validate checks the §3 invariant that the palette is non-empty and
// within the 256-entry ceiling the SIXEL color-introducer field allows.
func (p Palette) validate(op string) error {
	if len(p.Colors) == 0 {
		return newError(KindBadInput, op, "palette must not be empty")
	}
	if len(p.Colors) > 256 {
		return newError(KindBadInput, op, "palette exceeds 256 entries")
	}
	return nil
}
