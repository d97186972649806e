package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"miniatlas/internal/config"
	"miniatlas/internal/dataset"
	"miniatlas/internal/domain"
	"miniatlas/internal/geo"
	"miniatlas/internal/highlight"
	"miniatlas/internal/ui/views"
)

const (
	zoomStep = 0.5
	panStep  = 0.1
)

// Model is the atlas screen: search box, map, result list and details card
type Model struct {
	coord  *highlight.Coordinator
	atlas  *geo.Atlas
	config *config.Config
	logger *zap.Logger

	// UI-specific state
	width    int
	height   int
	focus    views.Pane
	input    textinput.Model
	help     help.Model
	keys     keyMap
	viewport views.Viewport
	cursor   int
	offset   int
	showHelp bool
	status   string

	inPagerMode bool // tracks if we're currently in pager mode

	index    map[string]domain.Country
	insights domain.Insights
	places   []geo.Place
	renderer *views.Renderer
	helpText *HelpRenderer
	pager    *PagerOps

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(coord *highlight.Coordinator, atlas *geo.Atlas, cfg *config.Config, logger *zap.Logger) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "country, code or capital"
	ti.CharLimit = 64
	ti.Focus()

	keys := defaultKeyMap()
	return &Model{
		coord:    coord,
		atlas:    atlas,
		config:   cfg,
		logger:   logger,
		focus:    views.PaneSearch,
		input:    ti,
		help:     help.New(),
		keys:     keys,
		viewport: views.DefaultViewport().WithZoom(cfg.Map.MinZoom, cfg.Map.MinZoom, cfg.Map.MaxZoom),
		index:    coord.Dataset().Index(),
		insights: dataset.Summarize(coord.Dataset().Countries),
		places:   atlas.Places(),
		renderer: views.NewRenderer(),
		helpText: NewHelpRenderer(keys),
		pager:    NewPagerOps(nil),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureCursorVisible()

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	default:
		cmd = m.handleNonKeyboardMsg(msg)
	}

	m.applyFocus()
	return m, cmd
}

func (m *Model) handleNonKeyboardMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case settleMsg:
		if m.coord.Settle(msg.handle) {
			m.resetList()
		}
		return nil

	case EventMsg:
		return m.handleEvent(msg.Event)

	case pagerMsg:
		if msg.err != nil {
			m.logger.Warn("pager failed", zap.String("title", msg.title), zap.Error(msg.err))
			return m.setStatus(fmt.Sprintf("Pager failed: %v", msg.err))
		}
		return nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return nil

	case clearStatusMsg:
		m.status = ""
		return nil
	}

	// Forward cursor blinks and the like to the text input
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleEvent(event domain.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case domain.RegionToggledEvent:
		if e.Active {
			return m.setStatus(fmt.Sprintf("%s: %d countries", e.Region, e.Codes))
		}
		return m.setStatus(e.Region + " cleared")
	case domain.FiltersClearedEvent:
		return m.setStatus("Filters cleared")
	case domain.ErrorEvent:
		m.logger.Error(e.Message, zap.Error(e.Err))
		return m.setStatus(fmt.Sprintf("%s: %v", e.Message, e.Err))
	}
	return nil
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.status = s
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQuit) {
		return tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
			m.showHelp = false
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.NextPane):
		m.setPane((m.focus + 1) % 3)
		return nil
	case key.Matches(msg, m.keys.PrevPane):
		m.setPane((m.focus + 2) % 3)
		return nil
	case key.Matches(msg, m.keys.Back):
		m.coord.ClickBackground()
		return nil
	}

	if m.focus == views.PaneSearch {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return nil
	case key.Matches(msg, m.keys.Table):
		return m.showTable()
	case key.Matches(msg, m.keys.Clear):
		m.coord.ClearFilters()
		return nil
	case key.Matches(msg, m.keys.Chip):
		m.toggleChip(int(msg.String()[0] - '1'))
		return nil
	}

	if m.focus == views.PaneList {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.Select):
			m.selectCursor()
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.viewport = m.viewport.Pan(0, panStep)
	case key.Matches(msg, m.keys.Down):
		m.viewport = m.viewport.Pan(0, -panStep)
	case key.Matches(msg, m.keys.Left):
		m.viewport = m.viewport.Pan(-panStep, 0)
	case key.Matches(msg, m.keys.Right):
		m.viewport = m.viewport.Pan(panStep, 0)
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoom(zoomStep)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoom(-zoomStep)
	case key.Matches(msg, m.keys.ResetView):
		m.viewport = views.DefaultViewport().WithZoom(m.config.Map.MinZoom, m.config.Map.MinZoom, m.config.Map.MaxZoom)
	}
	return nil
}

// handleSearchKey feeds the text input. Arrow keys and enter reach the
// result list so a query can be picked without leaving the box.
func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyUp:
		m.moveCursor(-1)
		return nil
	case tea.KeyDown:
		m.moveCursor(1)
		return nil
	case tea.KeyEnter:
		if m.coord.Pending() {
			m.coord.Flush()
			m.resetList()
		}
		m.selectCursor()
		return nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, m.typed(m.input.Value()))
}

// typed schedules the settle of a new query
func (m *Model) typed(query string) tea.Cmd {
	handle := m.coord.Type(query)
	delay := m.config.Search.Debounce.Duration
	if delay <= 0 {
		m.coord.Settle(handle)
		m.resetList()
		return nil
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return settleMsg{handle: handle} })
}

func (m *Model) setPane(p views.Pane) {
	m.focus = p
	if p == views.PaneSearch {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) zoom(delta float64) {
	m.viewport = m.viewport.WithZoom(m.viewport.Zoom+delta, m.config.Map.MinZoom, m.config.Map.MaxZoom)
}

func (m *Model) toggleChip(i int) {
	regions := m.coord.Regions()
	if i < 0 || i >= len(regions) {
		return
	}
	m.coord.ToggleRegion(regions[i].Name)
}

// Result list

func (m *Model) resetList() {
	m.cursor = 0
	m.offset = 0
}

func (m *Model) listHeight() int {
	return views.ComputeLayout(m.width, m.height).ListH
}

func (m *Model) moveCursor(delta int) {
	results := m.coord.Results()
	if len(results) == 0 {
		return
	}
	m.cursor = max(0, min(len(results)-1, m.cursor+delta))
	m.ensureCursorVisible()
	m.coord.Hover(results[m.cursor].Code)
}

func (m *Model) ensureCursorVisible() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

func (m *Model) selectCursor() {
	results := m.coord.Results()
	if m.cursor < 0 || m.cursor >= len(results) {
		return
	}
	m.coord.ClickRow(results[m.cursor].Code)
}

// applyFocus recentres the map on a pending focus request
func (m *Model) applyFocus() {
	f, ok := m.coord.TakeFocus()
	if !ok {
		return
	}
	p, ok := m.atlas.Centroid(f.Code)
	if !ok {
		m.logger.Debug("no centroid for focus", zap.String("code", f.Code))
		return
	}
	mc := m.config.Map
	m.viewport = m.viewport.CenterOn(p, mc.FocusZoom, mc.MinZoom, mc.MaxZoom)
}

// Mouse

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.showHelp || m.width == 0 {
		return
	}
	layout := views.ComputeLayout(m.width, m.height)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		if m.inMap(layout, msg.X, msg.Y) {
			m.zoom(zoomStep)
		} else {
			m.moveCursor(-1)
		}
		return
	case msg.Button == tea.MouseButtonWheelDown:
		if m.inMap(layout, msg.X, msg.Y) {
			m.zoom(-zoomStep)
		} else {
			m.moveCursor(1)
		}
		return
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.hoverAt(layout, msg.X, msg.Y)
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.clickAt(layout, msg.X, msg.Y)
		}
	}
}

func (m *Model) inMap(l views.Layout, x, y int) bool {
	return x >= l.MapX && x < l.MapX+l.MapW && y >= l.MapY && y < l.MapY+l.MapH
}

func (m *Model) rowAt(l views.Layout, x, y int) (int, bool) {
	if x < l.SideX || x >= l.SideX+l.SideW || y < l.ListY || y >= l.ListY+l.ListH {
		return 0, false
	}
	i := m.offset + y - l.ListY
	return i, i < len(m.coord.Results())
}

// placeAt returns the place drawn in a map cell. A drawable code wins over
// an inert region sharing the cell, then the larger region wins.
func (m *Model) placeAt(l views.Layout, x, y int) (geo.Place, bool) {
	cx, cy := x-l.MapX, y-l.MapY
	var found geo.Place
	hit, drawable := false, false
	for _, p := range m.places {
		px, py, ok := m.viewport.Project(p.Point, l.MapW, l.MapH)
		if !ok || px != cx || py != cy {
			continue
		}
		inData := p.Candidates.InDataset(m.index)
		if !hit || (inData && !drawable) || (inData == drawable && p.Area > found.Area) {
			found, hit, drawable = p, true, inData
		}
	}
	return found, hit
}

func (m *Model) hoverAt(l views.Layout, x, y int) {
	if m.inMap(l, x, y) {
		if p, ok := m.placeAt(l, x, y); ok {
			m.coord.HoverCandidates(p.Candidates)
			return
		}
	} else if i, ok := m.rowAt(l, x, y); ok {
		m.coord.Hover(m.coord.Results()[i].Code)
		return
	}
	m.coord.Hover("")
}

func (m *Model) clickAt(l views.Layout, x, y int) {
	switch {
	case m.inMap(l, x, y):
		m.setPane(views.PaneMap)
		if p, ok := m.placeAt(l, x, y); ok {
			// inert regions swallow the click
			m.coord.ClickRegion(p.Candidates)
			return
		}
		m.coord.ClickBackground()

	case y == l.ChipsY:
		m.clickChip(x - views.PaddingLeft)

	default:
		if i, ok := m.rowAt(l, x, y); ok {
			m.setPane(views.PaneList)
			m.cursor = i
			m.coord.ClickRow(m.coord.Results()[i].Code)
		}
	}
}

func (m *Model) clickChip(x int) {
	chips := m.chips()
	spans := m.renderer.ChipSpans(chips)
	for i, s := range spans {
		if !s.Contains(x) {
			continue
		}
		if i == len(chips) {
			m.coord.ClearFilters()
			return
		}
		m.coord.ToggleRegion(chips[i].Name)
		return
	}
}

// Pager

func (m *Model) showTable() tea.Cmd {
	results := m.coord.Results()
	title := fmt.Sprintf("Results for %q", m.coord.State().DebouncedQuery)
	if strings.TrimSpace(m.coord.State().DebouncedQuery) == "" {
		results = m.coord.Dataset().Countries
		title = "All countries"
	}
	return m.fetchPager(title, renderCountryTable(title, results))
}

// fetchPager returns a command that shows content using ov pager
func (m *Model) fetchPager(title, content string) tea.Cmd {
	return func() tea.Msg {
		if m.program == nil {
			return pagerMsg{title: title, err: fmt.Errorf("program not set")}
		}
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.pager.Show(content)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return pagerMsg{title: title, err: err}
	}
}

// View

func (m *Model) chips() []views.Chip {
	active := m.coord.State().ActiveRegion
	regions := m.coord.Regions()
	chips := make([]views.Chip, len(regions))
	for i, r := range regions {
		chips[i] = views.Chip{Name: r.Name, Active: r.Name == active}
	}
	return chips
}

func (m *Model) rows() []views.Row {
	st := m.coord.State()
	results := m.coord.Results()
	rows := make([]views.Row, len(results))
	for i, c := range results {
		rows[i] = views.Row{
			Country:     c,
			Cursor:      i == m.cursor && m.focus != views.PaneMap,
			Selected:    c.Code == st.SelectedCode,
			Highlighted: c.Code == st.HoverCode,
		}
	}
	return rows
}

func (m *Model) mapView(l views.Layout) views.MapView {
	active := m.coord.ActiveCode()
	marks := make([]views.Mark, 0, len(m.places))
	for _, p := range m.places {
		x, y, ok := m.viewport.Project(p.Point, l.MapW, l.MapH)
		if !ok {
			continue
		}
		state := views.MarkPlain
		switch {
		case !p.Candidates.InDataset(m.index):
			state = views.MarkInert
		case active != "" && p.Candidates.Has(active):
			state = views.MarkActive
		case m.coord.IsSelected(p.Candidates):
			state = views.MarkSelected
		case m.coord.IsHighlighted(p.Candidates):
			state = views.MarkMatch
		}
		marks = append(marks, views.Mark{X: x, Y: y, State: state, Marker: p.Marker})
	}

	view := views.MapView{
		Width:       l.MapW,
		Height:      l.MapH,
		Marks:       marks,
		EquatorRow:  -1,
		MeridianCol: -1,
		Zoom:        m.viewport.Zoom,
	}
	if _, y, ok := m.viewport.Project(domain.Point{Lon: m.viewport.Lon, Lat: 0}, l.MapW, l.MapH); ok {
		view.EquatorRow = y
	}
	if x, _, ok := m.viewport.Project(domain.Point{Lon: 0, Lat: m.viewport.Lat}, l.MapW, l.MapH); ok {
		view.MeridianCol = x
	}
	return view
}

// View renders the screen
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	layout := views.ComputeLayout(m.width, m.height)
	st := m.coord.State()

	state := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Focus:         m.focus,
		Input:         m.input.View(),
		Pending:       m.coord.Pending(),
		Insights:      m.insights,
		Chips:         m.chips(),
		Rows:          m.rows(),
		ListOffset:    m.offset,
		Query:         st.DebouncedQuery,
		Map:           m.mapView(layout),
		Locked:        st.SelectedCode != "" && st.HoverCode == "",
		StatusMessage: m.status,
		HelpLine:      m.help.View(m.keys),
		ShowHelp:      m.showHelp,
	}
	if c, ok := m.coord.Active(); ok {
		state.Active = &c
	}
	if m.showHelp {
		state.HelpContent = m.helpText.renderHelpContent()
	}
	return m.renderer.Render(state)
}
