package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"miniatlas/internal/domain"
)

// Row is one entry of the result list
type Row struct {
	Country     domain.Country
	Cursor      bool
	Selected    bool
	Highlighted bool
}

// Chip is one region filter chip
type Chip struct {
	Name   string
	Active bool
}

// Span is a half-open column range [Start, End) on a single line
type Span struct {
	Start, End int
}

// Contains reports whether column x falls inside the span
func (s Span) Contains(x int) bool {
	return x >= s.Start && x < s.End
}

// ClearChipLabel labels the chip that clears every filter
const ClearChipLabel = "c clear"

func chipLabel(i int, c Chip) string {
	if i < 9 {
		return fmt.Sprintf("%d %s", i+1, c.Name)
	}
	return c.Name
}

func (r *Renderer) renderChip(label string, active bool) string {
	if active {
		return r.styles.ChipActive.Render(label)
	}
	return r.styles.Chip.Render(label)
}

// RenderChips draws the chip bar: every region followed by the clear chip
func (r *Renderer) RenderChips(chips []Chip) string {
	parts := make([]string, 0, len(chips)+1)
	for i, c := range chips {
		parts = append(parts, r.renderChip(chipLabel(i, c), c.Active))
	}
	parts = append(parts, r.renderChip(ClearChipLabel, false))
	return strings.Join(parts, " ")
}

// ChipSpans returns the screen columns of each chip, relative to the start
// of the bar. The last span is the clear chip.
func (r *Renderer) ChipSpans(chips []Chip) []Span {
	spans := make([]Span, 0, len(chips)+1)
	x := 0
	add := func(rendered string) {
		w := lipgloss.Width(rendered)
		spans = append(spans, Span{Start: x, End: x + w})
		x += w + 1
	}
	for i, c := range chips {
		add(r.renderChip(chipLabel(i, c), c.Active))
	}
	add(r.renderChip(ClearChipLabel, false))
	return spans
}

// RenderList draws at most height rows starting at offset
func (r *Renderer) RenderList(rows []Row, offset, height, width int) string {
	if height <= 0 {
		return ""
	}
	if offset < 0 {
		offset = 0
	}

	lines := make([]string, 0, height)
	end := min(len(rows), offset+height)
	for i := offset; i < end; i++ {
		lines = append(lines, r.renderRow(rows[i], width))
	}
	if offset > 0 && len(lines) > 0 {
		lines[0] = r.styles.Scroll.Render(fmt.Sprintf("↑ %d more", offset))
	}
	if end < len(rows) && len(lines) > 0 {
		lines[len(lines)-1] = r.styles.Scroll.Render(fmt.Sprintf("↓ %d more", len(rows)-end))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderRow(row Row, width int) string {
	c := row.Country
	marker := "  "
	if row.Selected {
		marker = "▸ "
	}
	text := fmt.Sprintf("%s%-3s %s", marker, c.Code, c.Name)
	text = truncate(text, width)
	if pad := width - lipgloss.Width(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}

	style := r.styles.Row
	switch {
	case row.Selected:
		style = r.styles.RowSelected
	case row.Highlighted:
		style = r.styles.RowMatch
	}
	if row.Cursor {
		style = style.Inherit(r.styles.RowCursor)
	}
	return style.Render(text)
}
