package viz

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Viewport maps domain coordinates onto canvas dots. Both share the same
// orientation: origin top left, y growing downwards.
type Viewport struct {
	Scale      float64
	OffX, OffY int
}

// Fit returns the largest viewport that shows the whole width x height
// domain on c, centered.
func Fit(c *Canvas, width, height float64) Viewport {
	cw, ch := c.PixelSize()
	scale := math.Min(float64(cw)/width, float64(ch)/height)
	return Viewport{
		Scale: scale,
		OffX:  (cw - int(width*scale)) / 2,
		OffY:  (ch - int(height*scale)) / 2,
	}
}

func (v Viewport) Project(p dynamo.Vec2) (int, int) {
	return v.OffX + int(math.Round(p.X*v.Scale)), v.OffY + int(math.Round(p.Y*v.Scale))
}

// DrawScene draws every trail and then every body, so bodies stay on top
// of trails regardless of registry order.
func DrawScene(c *Canvas, states []physics.BodyState, vp Viewport) {
	for _, s := range states {
		DrawTrail(c, s.Trail, s.TrailColor, vp)
	}
	for _, s := range states {
		if !s.Position.IsValid() {
			continue
		}
		x, y := vp.Project(s.Position)
		c.FillCircle(x, y, int(s.Radius*vp.Scale), s.Color)
	}
}

// DrawTrail connects consecutive present trail entries. Absent entries
// break the polyline.
func DrawTrail(c *Canvas, trail []physics.TrailPoint, color string, vp Viewport) {
	for k := 0; k+1 < len(trail); k++ {
		a, b := trail[k], trail[k+1]
		if !a.Valid || !b.Valid || !a.Pos.IsValid() || !b.Pos.IsValid() {
			continue
		}
		x0, y0 := vp.Project(a.Pos)
		x1, y1 := vp.Project(b.Pos)
		c.DrawLine(x0, y0, x1, y1, color)
	}
}
