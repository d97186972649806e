package highlight

import (
	"github.com/samber/lo"

	"miniatlas/internal/dataset"
	"miniatlas/internal/debounce"
	"miniatlas/internal/domain"
	"miniatlas/internal/eventbus"
	"miniatlas/internal/geo"
	"miniatlas/internal/search"
)

// Reasons carried by SelectionClearedEvent
const (
	ReasonBackground = "background"
	ReasonQuery      = "query"
	ReasonFilters    = "filters"
)

// Coordinator owns the session state and applies every trigger to it. It is
// driven from a single event loop and is not safe for concurrent use.
type Coordinator struct {
	data      *dataset.Dataset
	ranker    *search.Ranker
	debouncer *debounce.Debouncer
	bus       eventbus.EventBus

	regions map[string][]string
	state   State
	lock    Lock
	results []domain.Country

	focusSeq     uint64
	focusPending bool
}

// NewCoordinator creates a coordinator over a loaded dataset. A nil ranker
// uses English collation; a nil bus drops events.
func NewCoordinator(data *dataset.Dataset, ranker *search.Ranker, bus eventbus.EventBus) *Coordinator {
	if ranker == nil {
		ranker = search.NewRanker("en")
	}
	if bus == nil {
		bus = eventbus.NullBus{}
	}

	regions := make(map[string][]string)
	for _, g := range dataset.Regions(data.Countries) {
		regions[g.Name] = g.Codes
	}

	return &Coordinator{
		data:      data,
		ranker:    ranker,
		debouncer: debounce.New(),
		bus:       bus,
		regions:   regions,
		results:   []domain.Country{},
	}
}

// Type records a keystroke and returns the handle that must fire before the
// query settles
func (c *Coordinator) Type(query string) debounce.Handle {
	c.state.Query = query
	return c.debouncer.Schedule()
}

// Settle applies the pending query if h is still the live handle. A stale
// handle is ignored and reports false.
func (c *Coordinator) Settle(h debounce.Handle) bool {
	if !c.debouncer.Fire(h) {
		return false
	}
	c.settle()
	return true
}

// Flush settles the current query immediately, dropping any pending handle
func (c *Coordinator) Flush() {
	c.debouncer.Reset()
	c.settle()
}

// Pending reports whether a typed query is waiting to settle
func (c *Coordinator) Pending() bool {
	return c.debouncer.Pending()
}

func (c *Coordinator) settle() {
	if c.state.Query == c.state.DebouncedQuery {
		return
	}
	c.state.DebouncedQuery = c.state.Query
	c.state.HoverCode = ""
	c.release(ReasonQuery)

	c.results = c.ranker.Rank(c.data.Countries, c.state.DebouncedQuery)
	c.bus.Publish(domain.QuerySettledEvent{
		Query:   c.state.DebouncedQuery,
		Results: len(c.results),
	})
}

// Hover previews code. Codes outside the dataset clear the preview.
func (c *Coordinator) Hover(code string) {
	if _, ok := c.data.Lookup(code); ok {
		c.state.HoverCode = canonical(c.data, code)
		return
	}
	c.state.HoverCode = ""
}

// HoverCandidates previews the map region with the given codes
func (c *Coordinator) HoverCandidates(cands geo.Candidates) {
	c.Hover(cands.DatasetCode(c.index()))
}

// ClickRegion locks the region's dataset code. Regions without data are
// inert and report false.
func (c *Coordinator) ClickRegion(cands geo.Candidates) bool {
	code := cands.DatasetCode(c.index())
	if code == "" {
		return false
	}
	c.selectCode(code)
	return true
}

// ClickRow locks a result row and asks the map to focus on it
func (c *Coordinator) ClickRow(code string) bool {
	if _, ok := c.data.Lookup(code); !ok {
		return false
	}
	code = canonical(c.data, code)
	c.selectCode(code)
	c.requestFocus(code)
	return true
}

// ClickBackground releases the selection lock
func (c *Coordinator) ClickBackground() {
	c.release(ReasonBackground)
}

// ToggleRegion activates a region chip, or clears it when it is already
// active, and focuses the region's first code either way. Only one region is
// highlighted at a time. Unknown regions report false.
func (c *Coordinator) ToggleRegion(name string) bool {
	codes, ok := c.regions[name]
	if !ok {
		return false
	}

	if c.state.ActiveRegion == name {
		c.state.ActiveRegion = ""
		c.state.RegionHighlight = nil
		c.bus.Publish(domain.RegionToggledEvent{Region: name, Active: false})
	} else {
		c.state.ActiveRegion = name
		c.state.RegionHighlight = append([]string(nil), codes...)
		c.bus.Publish(domain.RegionToggledEvent{Region: name, Active: true, Codes: len(codes)})
	}

	// every chip click recentres, including the one that clears it
	if len(codes) > 0 {
		c.requestFocus(codes[0])
	}
	return true
}

// ClearFilters drops the region highlight and the selection lock
func (c *Coordinator) ClearFilters() {
	c.state.ActiveRegion = ""
	c.state.RegionHighlight = nil
	c.release(ReasonFilters)
	c.bus.Publish(domain.FiltersClearedEvent{})
}

// Results returns the ranked results of the settled query
func (c *Coordinator) Results() []domain.Country {
	return c.results
}

// Highlights returns the codes to tint on the map and in the list
func (c *Coordinator) Highlights() []string {
	return ComputeHighlights(c.results, c.state.DebouncedQuery, c.state.RegionHighlight)
}

// HighlightSet is Highlights as a set, for membership tests over many regions
func (c *Coordinator) HighlightSet() map[string]struct{} {
	return lo.Keyify(c.Highlights())
}

// IsHighlighted reports whether a region is tinted under either of its codes
func (c *Coordinator) IsHighlighted(cands geo.Candidates) bool {
	return cands.In(c.HighlightSet())
}

// IsSelected reports whether a region is the locked selection
func (c *Coordinator) IsSelected(cands geo.Candidates) bool {
	return c.lock.Locked() && cands.Has(c.lock.Code())
}

// ActiveCode is the code whose details are shown, or ""
func (c *Coordinator) ActiveCode() string {
	return ComputeActiveCode(c.state.HoverCode, c.lock.Code())
}

// Active returns the record behind ActiveCode
func (c *Coordinator) Active() (domain.Country, bool) {
	code := c.ActiveCode()
	if code == "" {
		return domain.Country{}, false
	}
	return c.data.Lookup(code)
}

// TakeFocus returns the pending focus request once
func (c *Coordinator) TakeFocus() (Focus, bool) {
	if !c.focusPending {
		return Focus{}, false
	}
	c.focusPending = false
	return c.state.Focus, true
}

// State returns a copy of the session state
func (c *Coordinator) State() State {
	s := c.state
	s.SelectedCode = c.lock.Code()
	s.RegionHighlight = append([]string(nil), c.state.RegionHighlight...)
	return s
}

// Regions lists the region chips in dataset order
func (c *Coordinator) Regions() []domain.RegionGroup {
	return dataset.Regions(c.data.Countries)
}

// Dataset returns the dataset the coordinator ranks against
func (c *Coordinator) Dataset() *dataset.Dataset {
	return c.data
}

func (c *Coordinator) index() map[string]domain.Country {
	return c.data.Index()
}

func (c *Coordinator) selectCode(code string) {
	prev := c.lock.Select(code)
	if prev == code {
		return
	}
	c.bus.Publish(domain.SelectionLockedEvent{Code: code, Previous: prev})
}

func (c *Coordinator) release(reason string) {
	prev := c.lock.Release()
	if prev == "" {
		return
	}
	c.bus.Publish(domain.SelectionClearedEvent{Code: prev, Reason: reason})
}

func (c *Coordinator) requestFocus(code string) {
	c.focusSeq++
	c.state.Focus = Focus{Code: code, Seq: c.focusSeq}
	c.focusPending = true
	c.bus.Publish(domain.FocusRequestedEvent{Code: code, Seq: c.focusSeq})
}

// canonical maps a lookup key to the record's stored code
func canonical(data *dataset.Dataset, code string) string {
	if rec, ok := data.Lookup(code); ok {
		return rec.Code
	}
	return code
}
