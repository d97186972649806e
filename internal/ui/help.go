package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"miniatlas/internal/domain"
	"miniatlas/internal/ui/views"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	keys keyMap
	help help.Model
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer(keys keyMap) *HelpRenderer {
	h := help.New()
	h.ShowAll = true
	return &HelpRenderer{keys: keys, help: h}
}

// renderHelpContent renders the help popup: key bindings plus how the map
// and the search interact
func (r *HelpRenderer) renderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("miniatlas Help"))
	b.WriteString("\n")
	b.WriteString(r.help.View(r.keys))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Map"))
	b.WriteString("\n")
	b.WriteString(descStyle.Render("  Click a country to lock it, click the sea to release."))
	b.WriteString("\n")
	b.WriteString(descStyle.Render("  ● country  ◆ small territory  · no data"))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Search"))
	b.WriteString("\n")
	b.WriteString(descStyle.Render("  Matches names, codes and capitals. A new query clears the lock."))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).Render("  Press ? or esc to close"))

	return b.String()
}

// renderCountryTable renders countries for the pager
func renderCountryTable(title string, countries []domain.Country) string {
	return fmt.Sprintf("%s (%d)\n\n%s\n", title, len(countries), views.CountryTable(countries, nil))
}

// PagerOps shows long content in the ov pager
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps(program *tea.Program) *PagerOps {
	return &PagerOps{
		program: program,
	}
}

// Show pages content with ov, handing the terminal over while it runs
func (p *PagerOps) Show(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal() // Ignore error as we're in defer context
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
