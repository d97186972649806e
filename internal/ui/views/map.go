package views

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"miniatlas/internal/domain"
)

// Viewport is the visible window of an equirectangular world map. At zoom 1
// the whole world fits the pane.
type Viewport struct {
	Lon  float64
	Lat  float64
	Zoom float64
}

// DefaultViewport shows the whole world
func DefaultViewport() Viewport {
	return Viewport{Zoom: 1}
}

func (v Viewport) spans() (lonSpan, latSpan float64) {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return 360 / zoom, 180 / zoom
}

// wrapLon maps a longitude difference into [-180, 180)
func wrapLon(d float64) float64 {
	d = math.Mod(d+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}

// Project returns the pane cell of p, or false when p is off-screen
func (v Viewport) Project(p domain.Point, w, h int) (x, y int, ok bool) {
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	lonSpan, latSpan := v.spans()
	fx := (wrapLon(p.Lon-v.Lon)/lonSpan + 0.5) * float64(w)
	fy := (0.5 - (p.Lat-v.Lat)/latSpan) * float64(h)

	x, y = int(math.Floor(fx)), int(math.Floor(fy))
	// the far edges belong to the last cell
	if x == w && fx == float64(w) {
		x = w - 1
	}
	if y == h && fy == float64(h) {
		y = h - 1
	}
	if x < 0 || x >= w || y < 0 || y >= h {
		return 0, 0, false
	}
	return x, y, true
}

// Unproject returns the point at the centre of a pane cell
func (v Viewport) Unproject(x, y, w, h int) domain.Point {
	lonSpan, latSpan := v.spans()
	lon := v.Lon + ((float64(x)+0.5)/float64(w)-0.5)*lonSpan
	lat := v.Lat - ((float64(y)+0.5)/float64(h)-0.5)*latSpan
	return domain.Point{Lon: wrapLon(lon), Lat: lat}
}

// Pan moves the centre by a fraction of the visible span
func (v Viewport) Pan(dx, dy float64) Viewport {
	lonSpan, latSpan := v.spans()
	v.Lon = wrapLon(v.Lon + dx*lonSpan)
	v.Lat = math.Max(-90, math.Min(90, v.Lat+dy*latSpan))
	return v
}

// WithZoom returns v at zoom z clamped to [minZoom, maxZoom]
func (v Viewport) WithZoom(z, minZoom, maxZoom float64) Viewport {
	v.Zoom = math.Max(minZoom, math.Min(maxZoom, z))
	return v
}

// CenterOn recentres on p at zoom z
func (v Viewport) CenterOn(p domain.Point, z, minZoom, maxZoom float64) Viewport {
	v.Lon = wrapLon(p.Lon)
	v.Lat = math.Max(-90, math.Min(90, p.Lat))
	return v.WithZoom(z, minZoom, maxZoom)
}

// MarkState orders how a place is drawn; higher states win a shared cell
type MarkState int

const (
	MarkInert MarkState = iota
	MarkPlain
	MarkMatch
	MarkSelected
	MarkActive
)

// Mark is a place projected onto a pane cell
type Mark struct {
	X, Y   int
	State  MarkState
	Marker bool
}

// MapView is everything needed to draw the map pane
type MapView struct {
	Width       int
	Height      int
	Marks       []Mark
	EquatorRow  int // -1 when off-screen
	MeridianCol int // -1 when off-screen
	Zoom        float64
}

type mapCell struct {
	glyph string
	style lipgloss.Style
	state MarkState
	set   bool
}

func (r *Renderer) glyphFor(m Mark) (string, lipgloss.Style) {
	glyph := "●"
	if m.Marker {
		glyph = "◆"
	}
	switch m.State {
	case MarkActive:
		return glyph, r.styles.PlaceActive
	case MarkSelected:
		return glyph, r.styles.PlaceSelected
	case MarkMatch:
		return glyph, r.styles.PlaceMatch
	case MarkPlain:
		return glyph, r.styles.Place
	default:
		return "·", r.styles.PlaceInert
	}
}

// RenderMap draws the map pane as Height lines of Width cells
func (r *Renderer) RenderMap(view MapView) string {
	if view.Width <= 0 || view.Height <= 0 {
		return ""
	}

	grid := make([][]mapCell, view.Height)
	for y := range grid {
		grid[y] = make([]mapCell, view.Width)
	}

	for _, m := range view.Marks {
		if m.X < 0 || m.X >= view.Width || m.Y < 0 || m.Y >= view.Height {
			continue
		}
		cell := &grid[m.Y][m.X]
		if cell.set && cell.state >= m.State {
			continue
		}
		glyph, style := r.glyphFor(m)
		*cell = mapCell{glyph: glyph, style: style, state: m.State, set: true}
	}

	lines := make([]string, view.Height)
	var b strings.Builder
	for y, row := range grid {
		b.Reset()
		for x, cell := range row {
			switch {
			case cell.set:
				b.WriteString(cell.style.Render(cell.glyph))
			case y == view.EquatorRow && x == view.MeridianCol:
				b.WriteString(r.styles.Graticule.Render("┼"))
			case y == view.EquatorRow:
				b.WriteString(r.styles.Graticule.Render("─"))
			case x == view.MeridianCol:
				b.WriteString(r.styles.Graticule.Render("│"))
			default:
				b.WriteByte(' ')
			}
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}
