package chart

import (
	"fmt"
	"html"
	"strings"
)

const (
	DefaultStroke = "#1B57F2"
	DefaultFill   = "rgba(27,87,242,0.08)"

	gridStroke  = "rgba(15,23,42,0.08)"
	axisStroke  = "rgba(15,23,42,0.10)"
	trackStroke = "rgba(15,23,42,0.08)"
)

// RenderLine генерирует самодостаточный SVG линейного графика:
// сетка, заливка под линией, линия и точки с ореолом.
func RenderLine(geo LineGeometry, stroke, fill string) string {
	if stroke == "" {
		stroke = DefaultStroke
	}
	if fill == "" {
		fill = DefaultFill
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s">`, num(geo.Width), num(geo.Height))
	b.WriteByte('\n')
	for _, y := range geo.GridY {
		fmt.Fprintf(&b, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`,
			num(linePadX), num(y), num(geo.Width-linePadX), num(y), gridStroke)
		b.WriteByte('\n')
	}
	if geo.Path != "" {
		fmt.Fprintf(&b, `  <path d="%s" fill="%s"/>`, geo.Area, attr(fill))
		b.WriteByte('\n')
		fmt.Fprintf(&b, `  <path d="%s" fill="none" stroke="%s" stroke-width="4" stroke-linejoin="round" stroke-linecap="round"/>`,
			geo.Path, attr(stroke))
		b.WriteByte('\n')
	}
	for _, p := range geo.Points {
		fmt.Fprintf(&b, `  <g><circle cx="%s" cy="%s" r="6" fill="%s" opacity="0.95"/><circle cx="%s" cy="%s" r="10" fill="%s" opacity="0.12"/></g>`,
			num(p.X), num(p.Y), attr(stroke), num(p.X), num(p.Y), attr(stroke))
		b.WriteByte('\n')
	}
	b.WriteString("</svg>")
	return b.String()
}

// RenderBar генерирует SVG столбчатого графика с базовой линией
func RenderBar(geo BarGeometry, fill string) string {
	if fill == "" {
		fill = DefaultStroke
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s">`, num(geo.Width), num(geo.Height))
	b.WriteByte('\n')
	fmt.Fprintf(&b, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`,
		num(barPadX), num(geo.Baseline), num(geo.Width-barPadX), num(geo.Baseline), axisStroke)
	b.WriteByte('\n')
	for _, r := range geo.Bars {
		fmt.Fprintf(&b, `  <g><title>%s</title><rect x="%s" y="%s" width="%s" height="%s" rx="10" fill="%s" opacity="0.92"/><rect x="%s" y="%s" width="%s" height="%s" rx="10" fill="%s" opacity="0.12"/></g>`,
			html.EscapeString(r.Label),
			num(r.X), num(r.Y), num(r.Width), num(r.Height), attr(fill),
			num(r.X), num(r.Y), num(r.Width), num(r.Height), attr(fill))
		b.WriteByte('\n')
	}
	b.WriteString("</svg>")
	return b.String()
}

// RenderDonut генерирует SVG пончика с подписями в центре
func RenderDonut(geo DonutGeometry, centerTop, centerBottom string) string {
	c := num(geo.Center)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(geo.Size), num(geo.Size), num(geo.Size), num(geo.Size))
	b.WriteByte('\n')
	fmt.Fprintf(&b, `  <circle cx="%s" cy="%s" r="%s" fill="none" stroke="%s" stroke-width="%s"/>`,
		c, c, num(geo.Radius), trackStroke, num(geo.Thickness))
	b.WriteByte('\n')
	for _, a := range geo.Arcs {
		fmt.Fprintf(&b, `  <circle cx="%s" cy="%s" r="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-dasharray="%s %s" stroke-dashoffset="%s" transform="rotate(%s %s %s)"><title>%s</title></circle>`,
			c, c, num(geo.Radius), attr(a.Color), num(geo.Thickness),
			num(a.Dash), num(a.Gap), num(a.Offset),
			num(geo.Rotation), c, c,
			html.EscapeString(a.Label))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, `  <text x="%s" y="%s" text-anchor="middle" font-size="11" fill="rgba(15,23,42,0.65)" font-weight="700">%s</text>`,
		c, num(geo.Center-6), html.EscapeString(centerTop))
	b.WriteByte('\n')
	fmt.Fprintf(&b, `  <text x="%s" y="%s" text-anchor="middle" font-size="18" fill="rgba(15,23,42,0.92)" font-weight="900">%s</text>`,
		c, num(geo.Center+16), html.EscapeString(centerBottom))
	b.WriteByte('\n')
	b.WriteString("</svg>")
	return b.String()
}

func attr(s string) string {
	return html.EscapeString(s)
}
