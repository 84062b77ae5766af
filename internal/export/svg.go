// Package export renders stored sweeps as standalone SVG charts.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/actuate/internal/experiment"
)

type Point struct{ X, Y float64 }

type bounds struct {
	minX, maxX, minY, maxY float64
}

func boundsOf(series ...[]Point) bounds {
	b := bounds{minX: series[0][0].X, maxX: series[0][0].X, minY: series[0][0].Y, maxY: series[0][0].Y}
	for _, pts := range series {
		for _, p := range pts {
			if p.X < b.minX {
				b.minX = p.X
			}
			if p.X > b.maxX {
				b.maxX = p.X
			}
			if p.Y < b.minY {
				b.minY = p.Y
			}
			if p.Y > b.maxY {
				b.maxY = p.Y
			}
		}
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b
}

func writePath(sb *strings.Builder, points []Point, b bounds, width, height int, attrs string) {
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY

	sb.WriteString(`<path fill="none" ` + attrs + ` d="M`)
	for i, p := range points {
		x := (p.X - b.minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-b.minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
}

// SweepToSVG draws the computed (dashed) and applied (solid) effort of
// joint j against the swept input.
func SweepToSVG(r *experiment.Result, j, width, height int) (string, error) {
	if len(r.Inputs) < 2 {
		return "", fmt.Errorf("sweep has %d points, need at least 2", len(r.Inputs))
	}
	if j < 0 || j >= len(r.Joints) {
		return "", fmt.Errorf("joint %d out of range [0, %d)", j, len(r.Joints))
	}

	computed := make([]Point, len(r.Inputs))
	applied := make([]Point, len(r.Inputs))
	for i, x := range r.Inputs {
		computed[i] = Point{X: x, Y: r.Computed[i][j]}
		applied[i] = Point{X: x, Y: r.Applied[i][j]}
	}
	b := boundsOf(computed, applied)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="8" y="16" fill="#888899" font-family="monospace" font-size="12">%s effort vs %s</text>
`, width, height, width, height, r.Joints[j], r.Axis))

	writePath(&sb, computed, b, width, height, `stroke="#666688" stroke-width="1" stroke-dasharray="4 3"`)
	writePath(&sb, applied, b, width, height, `stroke="#00ff88" stroke-width="1.5"`)

	sb.WriteString("</svg>")
	return sb.String(), nil
}

// WriteSweepSVG writes the chart of joint j to w.
func WriteSweepSVG(w io.Writer, r *experiment.Result, j, width, height int) error {
	svg, err := SweepToSVG(r, j, width, height)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, svg)
	return err
}
