// Package colorx implements the §3 "Color" data model: four floats
// (r,g,b,a) in linear-ish space with additive and multiplicative
// combinators, following the channel-clamping style of the teacher's
// internal/game/palette.go RGB type, generalized to floats + alpha.
package colorx

// Color is a linear-ish RGBA color. Components are nominally in [0,1]
// but are never clamped implicitly — neither construction nor the
// combinators clamp; only an explicit Clamp call does, matching how the
// original engine lets HDR-ish blast colors exceed 1.0 before tone
// mapping.
type Color struct {
	R, G, B, A float64
}

func RGBA(r, g, b, a float64) Color { return Color{R: r, G: g, B: b, A: a} }
func RGB(r, g, b float64) Color     { return Color{R: r, G: g, B: b, A: 1} }

var (
	White       = RGB(1, 1, 1)
	Black       = RGB(0, 0, 0)
	Transparent = RGBA(0, 0, 0, 0)
)

// Mul is the multiplicative combinator: component-wise product.
func (c Color) Mul(o Color) Color {
	return Color{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B, A: c.A * o.A}
}

// MulScalar scales all channels (including alpha) by k.
func (c Color) MulScalar(k float64) Color {
	return Color{R: c.R * k, G: c.G * k, B: c.B * k, A: c.A * k}
}

// MulAlpha scales only the alpha channel, the common case when fading.
func (c Color) MulAlpha(k float64) Color {
	return Color{R: c.R, G: c.G, B: c.B, A: c.A * k}
}

// Add is the additive combinator: component-wise sum, used for tinting
// and for blast/flash overlays.
func (c Color) Add(o Color) Color {
	return Color{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B, A: c.A + o.A}
}

// Lerp interpolates from c to o by t in [0,1].
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// Clamp restricts every channel to [0,1].
func (c Color) Clamp() Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
