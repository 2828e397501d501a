package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// FrameSVG draws the bodies in domain coordinates: each trail as a
// polyline broken at absent entries, then each body as a filled circle of
// its radius.
func FrameSVG(states []physics.BodyState, width, height float64) string {
	var sb strings.Builder
	header(&sb, width, height)

	for _, s := range states {
		for _, run := range trailRuns(s.Trail) {
			if len(run) < 2 {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="1" points="%s"/>
`, s.TrailColor, strings.Join(run, " ")))
		}
	}

	for _, s := range states {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, s.Position.X, s.Position.Y, s.Radius, s.Color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// trailRuns splits a trail into runs of consecutive present points.
func trailRuns(trail []physics.TrailPoint) [][]string {
	var runs [][]string
	var cur []string
	for _, p := range trail {
		if !p.Valid || !p.Pos.IsValid() {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, fmt.Sprintf("%.2f,%.2f", p.Pos.X, p.Pos.Y))
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

// TrajectoriesSVG draws the full recorded path of every body, one path
// per body in colors[i] (the stroke falls back to the default trail
// color), with a dot at the final position.
func TrajectoriesSVG(frames []sim.Frame, colors []string, width, height float64) string {
	var sb strings.Builder
	header(&sb, width, height)
	if len(frames) == 0 {
		sb.WriteString("</svg>")
		return sb.String()
	}

	n := len(frames[0].Bodies)
	for i := 0; i < n; i++ {
		stroke := physics.DefaultTrailColor
		if i < len(colors) && colors[i] != "" {
			stroke = colors[i]
		}

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke))
		for k, f := range frames {
			if i >= len(f.Bodies) {
				break
			}
			p := f.Bodies[i].Position
			if k == 0 {
				sb.WriteString(fmt.Sprintf("M%.2f,%.2f", p.X, p.Y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.2f,%.2f", p.X, p.Y))
			}
		}
		sb.WriteString("\"/>\n")

		last := frames[len(frames)-1]
		if i < len(last.Bodies) {
			p := last.Bodies[i].Position
			sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="3" fill="%s"/>
`, p.X, p.Y, stroke))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a braille canvas to SVG, one dot per set braille
// dot in its cell's color.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	cw, ch := canvas.PixelSize()
	width := float64(cw) * scale
	height := float64(ch) * scale

	var sb strings.Builder
	header(&sb, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < ch; y++ {
		for x := 0; x < cw; x++ {
			if !canvas.Lit(x, y) {
				continue
			}
			fill := canvas.Colors[y/4][x/2]
			if fill == "" {
				fill = physics.DefaultColor
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
