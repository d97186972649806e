// Package highlight reconciles typed search, map clicks and region chips
// into the set of highlighted codes and the single active code.
package highlight

import (
	"strings"

	"github.com/samber/lo"

	"miniatlas/internal/domain"
)

// Focus is a one-shot request to recenter the map. Seq grows on every
// request, so asking twice for the same code is still two requests.
type Focus struct {
	Code string
	Seq  uint64
}

// State is the per-session search and selection state
type State struct {
	Query           string
	DebouncedQuery  string
	SelectedCode    string
	HoverCode       string
	RegionHighlight []string
	ActiveRegion    string
	Focus           Focus
}

// ComputeHighlights returns the codes to tint: the search results while the
// settled query is non-empty, plus the region chip codes. Search order
// comes first and every code appears once.
func ComputeHighlights(searchResults []domain.Country, debouncedQuery string, regionHighlight []string) []string {
	var fromSearch []string
	if strings.TrimSpace(debouncedQuery) != "" {
		fromSearch = lo.Map(searchResults, func(c domain.Country, _ int) string {
			return c.Code
		})
	}
	if len(regionHighlight) == 0 {
		return lo.Uniq(fromSearch)
	}
	return lo.Union(fromSearch, regionHighlight)
}

// ComputeActiveCode returns the code whose details are shown: hover wins
// over the locked selection
func ComputeActiveCode(hoverCode, selectedCode string) string {
	if hoverCode != "" {
		return hoverCode
	}
	return selectedCode
}

// Lock is the selection lock: either unselected or locked on one code
type Lock struct {
	code string
}

// Locked reports whether a code is locked
func (l Lock) Locked() bool {
	return l.code != ""
}

// Code returns the locked code, or ""
func (l Lock) Code() string {
	return l.code
}

// Select locks code, replacing any previous lock, and returns the code it
// replaced
func (l *Lock) Select(code string) string {
	prev := l.code
	l.code = code
	return prev
}

// Release unlocks and returns the code that was locked
func (l *Lock) Release() string {
	prev := l.code
	l.code = ""
	return prev
}
