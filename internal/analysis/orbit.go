package analysis

import (
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// OrbitToASCII plots a path in domain orientation (y grows downwards).
// The start is marked 'o' and the end '●'.
func OrbitToASCII(points []dynamo.Vec2, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	cell := func(p dynamo.Vec2) (int, int) {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := int((p.Y - minY) / rangeY * float64(height-1))
		return row, col
	}

	for _, p := range points {
		if row, col := cell(p); row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}
	row, col := cell(points[0])
	canvas[row][col] = 'o'
	row, col = cell(points[len(points)-1])
	canvas[row][col] = '●'

	var sb strings.Builder
	for _, r := range canvas {
		sb.WriteString(string(r))
		sb.WriteRune('\n')
	}
	return sb.String()
}
