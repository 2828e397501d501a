// Package palette picks display colors for bodies. Colors are hex strings
// so they pass straight through the physics core to lipgloss and SVG.
package palette

import (
	"fmt"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/physics"
)

var (
	black = colorful.Color{R: 0, G: 0, B: 0}

	gradientStart = colorful.Color{R: 0.0, G: 0.8, B: 1.0}
	gradientEnd   = colorful.Color{R: 1.0, G: 0.2, B: 0.6}
)

// trailShade is how far a trail color is blended toward black.
const trailShade = 0.45

// Fixed gives every body the default colors.
type Fixed struct{}

func (Fixed) Colors(i, n int) (string, string) {
	return physics.DefaultColor, physics.DefaultTrailColor
}

// Random draws a saturated hue per body from rng.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Colors(i, n int) (string, string) {
	c := colorful.Hsv(r.rng.Float64()*360, 0.55+r.rng.Float64()*0.35, 0.8+r.rng.Float64()*0.2)
	return c.Hex(), Trail(c).Hex()
}

// Gradient spreads bodies evenly along a Lab blend between two colors.
type Gradient struct {
	From, To colorful.Color
}

func (g Gradient) Colors(i, n int) (string, string) {
	t := 0.0
	if n > 1 {
		t = float64(i) / float64(n-1)
	}
	c := g.From.BlendLab(g.To, t).Clamped()
	return c.Hex(), Trail(c).Hex()
}

// Trail darkens a body color for its trail.
func Trail(c colorful.Color) colorful.Color {
	return c.BlendRgb(black, trailShade)
}

// TrailHex is Trail for hex strings; it returns the default trail color
// when hex does not parse.
func TrailHex(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return physics.DefaultTrailColor
	}
	return Trail(c).Hex()
}

// ForMode returns the palette for a config color_mode.
func ForMode(mode string, rng *rand.Rand) (physics.Palette, error) {
	switch mode {
	case "", "fixed":
		return Fixed{}, nil
	case "random":
		return NewRandom(rng), nil
	case "gradient":
		return Gradient{From: gradientStart, To: gradientEnd}, nil
	default:
		return nil, fmt.Errorf("unknown color mode: %s", mode)
	}
}
