package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"miniatlas/internal/domain"
)

// Pane is the part of the screen that receives keys
type Pane int

const (
	PaneSearch Pane = iota
	PaneList
	PaneMap
)

func (p Pane) String() string {
	switch p {
	case PaneList:
		return "list"
	case PaneMap:
		return "map"
	default:
		return "search"
	}
}

// Screen geometry shared by the renderer and mouse hit-testing
const (
	PaddingLeft  = 1
	HeaderLines  = 4 // title, search, chips, blank
	FooterLines  = 2 // status, help
	SidebarWidth = 38
	minMapWidth  = 20
	minMapHeight = 5
)

// Layout is the position of every pane on screen
type Layout struct {
	MapX, MapY, MapW, MapH int
	SideX, SideW           int
	ListY, ListH           int
	ChipsY                 int
}

// ComputeLayout splits a terminal of width × height into panes
func ComputeLayout(width, height int) Layout {
	mapW := max(width-2*PaddingLeft-SidebarWidth-1, minMapWidth)
	mapH := max(height-HeaderLines-FooterLines, minMapHeight)
	listH := max(mapH-DetailsHeight-1, 3)
	return Layout{
		MapX:   PaddingLeft,
		MapY:   HeaderLines,
		MapW:   mapW,
		MapH:   mapH,
		SideX:  PaddingLeft + mapW + 1,
		SideW:  SidebarWidth,
		ListY:  HeaderLines + 1,
		ListH:  listH,
		ChipsY: 2,
	}
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width    int
	Height   int
	Focus    Pane
	Input    string
	Pending  bool
	Insights domain.Insights
	Chips    []Chip

	Rows       []Row
	ListOffset int
	Query      string

	Map    MapView
	Active *domain.Country
	Locked bool

	StatusMessage string
	HelpLine      string
	ShowHelp      bool
	HelpContent   string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		popupRender: NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	layout := ComputeLayout(state.Width, state.Height)
	var content strings.Builder

	// Title with insights right-aligned
	logo := r.styles.Title.Render("miniatlas")
	insights := r.styles.Insights.Render(fmt.Sprintf("%d countries · %d regions · pop %s · %d with capitals",
		state.Insights.Countries, state.Insights.Regions,
		FormatPopulation(state.Insights.Population), state.Insights.WithCapitals))
	available := state.Width - 2*PaddingLeft
	if pad := available - lipgloss.Width(logo) - lipgloss.Width(insights); pad > 0 {
		content.WriteString(logo + strings.Repeat(" ", pad) + insights)
	} else {
		content.WriteString(logo + "  " + insights)
	}
	content.WriteString("\n")

	prompt := r.styles.PaneTitle.Render("Search ")
	if state.Focus == PaneSearch {
		prompt = r.styles.Prompt.Render("Search ")
	}
	content.WriteString(prompt + state.Input)
	if state.Pending {
		content.WriteString(r.styles.Dim.Render("  …"))
	}
	content.WriteString("\n")

	content.WriteString(r.RenderChips(state.Chips))
	content.WriteString("\n\n")

	mapPane := r.RenderMap(state.Map)
	content.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, mapPane, " ", r.renderSidebar(state, layout)))
	content.WriteString("\n")

	status := state.StatusMessage
	if status == "" {
		status = fmt.Sprintf("zoom %.1fx · focus %s", state.Map.Zoom, state.Focus)
	}
	content.WriteString(r.styles.Status.Render(status))
	content.WriteString("\n")
	content.WriteString(r.styles.Help.Render(state.HelpLine))

	finalContent := r.styles.Main.MaxHeight(state.Height).Render(content.String())

	if state.ShowHelp && state.HelpContent != "" {
		return r.popupRender.RenderPopupOverlay(finalContent, state.HelpContent, state.Height, state.Width, r.styles.InfoBox)
	}
	return finalContent
}

func (r *Renderer) renderSidebar(state ViewState, layout Layout) string {
	titleStyle := r.styles.PaneTitle
	if state.Focus == PaneList {
		titleStyle = r.styles.PaneFocused
	}

	var title string
	switch {
	case strings.TrimSpace(state.Query) == "":
		title = "Results"
	case len(state.Rows) == 1:
		title = "1 result"
	default:
		title = fmt.Sprintf("%d results", len(state.Rows))
	}

	list := r.RenderList(state.Rows, state.ListOffset, layout.ListH, layout.SideW)
	if len(state.Rows) == 0 {
		hint := "Type to search"
		if strings.TrimSpace(state.Query) != "" {
			hint = "No matches"
		}
		list = r.styles.Dim.Render(hint) + strings.Repeat("\n", layout.ListH-1)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		list,
		r.RenderDetails(state.Active, state.Locked, layout.SideW),
	)
}
