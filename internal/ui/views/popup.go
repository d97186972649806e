package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay draws the popup centred over a greyed-out copy of the
// main content
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)

	modalW := lipgloss.Width(styledPopup)
	modalH := lipgloss.Height(styledPopup)
	x := max((width-modalW)/2, 0)
	y := max((height-modalH)/2, 0)

	base := strings.Split(desaturateANSI(mainContent), "\n")
	for len(base) < y+modalH {
		base = append(base, "")
	}

	for i, line := range strings.Split(styledPopup, "\n") {
		row := y + i
		plain := []rune(ansiRE.ReplaceAllString(base[row], ""))
		for len(plain) < x {
			plain = append(plain, ' ')
		}
		left := string(plain[:x])
		right := ""
		if cut := x + lipgloss.Width(line); cut < len(plain) {
			right = string(plain[cut:])
		}
		base[row] = pr.styles.Dim.Render(left) + line + pr.styles.Dim.Render(right)
	}
	return strings.Join(base, "\n")
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// desaturateANSI strips ANSI color/style codes so the popup stands out
func desaturateANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
