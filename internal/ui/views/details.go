package views

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"miniatlas/internal/domain"
)

// DetailsHeight is the number of lines the details card occupies
const DetailsHeight = 8

var printer = message.NewPrinter(language.English)

// FormatPopulation renders n with thousands separators ("67,391,582")
func FormatPopulation(n int64) string {
	return printer.Sprintf("%d", n)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// RenderDetails draws the card for the active country, or a hint when
// nothing is hovered or selected
func (r *Renderer) RenderDetails(c *domain.Country, locked bool, width int) string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	card := r.styles.Card.Width(inner)

	if c == nil {
		hint := r.styles.Dim.Render("Hover or select a country")
		return card.Height(DetailsHeight - 2).Render(hint)
	}

	var b strings.Builder
	title := c.Name
	if !c.HasFlagURL() && c.Flag != "" {
		title = c.Flag + " " + title
	}
	b.WriteString(r.styles.CardTitle.Render(truncate(title, inner)))
	if locked {
		b.WriteString(r.styles.Dim.Render(" (locked)"))
	}
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(r.styles.CardLabel.Render(label))
		b.WriteString(truncate(value, inner-len(label)))
		b.WriteString("\n")
	}
	row("Code:       ", c.Code)
	row("Region:     ", orDash(c.Region))
	row("Capital:    ", orDash(c.Capital))
	row("Population: ", FormatPopulation(c.Population))
	if c.HasFlagURL() {
		row("Flag:       ", c.Flag)
	}

	return card.Height(DetailsHeight - 2).Render(strings.TrimRight(b.String(), "\n"))
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}
