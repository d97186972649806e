package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Dim         lipgloss.Style
	Status      lipgloss.Style
	Help        lipgloss.Style
	Main        lipgloss.Style
	Scroll      lipgloss.Style
	Prompt      lipgloss.Style
	PaneTitle   lipgloss.Style
	PaneFocused lipgloss.Style
	Insights    lipgloss.Style

	Chip       lipgloss.Style
	ChipActive lipgloss.Style

	Row         lipgloss.Style
	RowCursor   lipgloss.Style
	RowSelected lipgloss.Style
	RowMatch    lipgloss.Style

	Place         lipgloss.Style
	PlaceInert    lipgloss.Style
	PlaceMatch    lipgloss.Style
	PlaceSelected lipgloss.Style
	PlaceActive   lipgloss.Style
	Graticule     lipgloss.Style

	Card      lipgloss.Style
	CardTitle lipgloss.Style
	CardLabel lipgloss.Style
	InfoBox   lipgloss.Style
	Error     lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(0, 1),
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // yellow
		PaneTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
		PaneFocused: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true), // blue
		Insights:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),

		Chip: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1),
		ChipActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("214")).
			Bold(true).
			Padding(0, 1),

		Row:         lipgloss.NewStyle(),
		RowCursor:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		RowSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true), // red
		RowMatch:    lipgloss.NewStyle().Foreground(lipgloss.Color("226")),            // yellow

		Place:         lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		PlaceInert:    lipgloss.NewStyle().Foreground(lipgloss.Color("238")), // dark gray
		PlaceMatch:    lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		PlaceSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		PlaceActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("51")).Bold(true),
		Graticule:     lipgloss.NewStyle().Foreground(lipgloss.Color("236")),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		CardTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		CardLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			BorderForeground(lipgloss.Color("241")),
		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}
