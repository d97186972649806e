package geo

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"miniatlas/internal/domain"
)

// Overrides are hand-placed centroids, keyed by alpha-2, for territories
// whose computed centroid is unusable or missing
var Overrides = map[string]domain.Point{
	"AD": {Lon: 1.601554, Lat: 42.546245},
	"AG": {Lon: -61.796428, Lat: 17.060816},
	"AX": {Lon: 19.91561, Lat: 60.178525},
	"AS": {Lon: -170.132217, Lat: -14.270972},
	"AI": {Lon: -63.06082, Lat: 18.2256},
}

// Region is a map region with its resolved codes
type Region struct {
	ID         int
	Candidates Candidates
	Centroid   domain.Point
	Area       float64
}

// Marker is a synthetic click target for a country the geometry cannot
// show. Forced markers are drawn even when the territory has geometry.
type Marker struct {
	Code       string
	Candidates Candidates
	Point      domain.Point
	Forced     bool
}

// Place is anything drawable on the map: a region or a marker. Markers
// have no area.
type Place struct {
	Candidates Candidates
	Point      domain.Point
	Area       float64
	Marker     bool
}

// Atlas joins geometry, the ISO table and the dataset
type Atlas struct {
	Regions []Region
	Markers []Marker

	table     *Table
	centroids map[string]domain.Point
}

// NewAtlas resolves every feature through table and adds markers for
// dataset countries that have no region of their own
func NewAtlas(table *Table, features []Feature, countries []domain.Country) *Atlas {
	a := &Atlas{
		table:     table,
		centroids: make(map[string]domain.Point),
	}

	covered := make(map[string]struct{})
	for _, f := range features {
		cands := table.Lookup(f.ID)
		a.Regions = append(a.Regions, Region{ID: f.ID, Candidates: cands, Centroid: f.Centroid, Area: f.Area})
		a.setCentroid(cands, f.Centroid)
		if cands.Alpha2 != "" {
			covered[cands.Alpha2] = struct{}{}
		}
		if cands.Alpha3 != "" {
			covered[cands.Alpha3] = struct{}{}
		}
	}

	overrideCodes := make([]string, 0, len(Overrides))
	for alpha2 := range Overrides {
		overrideCodes = append(overrideCodes, alpha2)
	}
	sort.Strings(overrideCodes)
	for _, alpha2 := range overrideCodes {
		a.setCentroid(table.Expand(alpha2), Overrides[alpha2])
	}

	marked := make(map[string]struct{})
	for _, c := range countries {
		cands := table.Expand(c.Code)
		if cands.In(covered) {
			continue
		}
		point, ok := a.fallbackPoint(cands)
		if !ok {
			continue
		}
		_, forced := Overrides[cands.Alpha2]
		a.Markers = append(a.Markers, Marker{Code: c.Code, Candidates: cands, Point: point, Forced: forced})
		a.setCentroidIfMissing(cands, point)
		marked[cands.Alpha2] = struct{}{}
		marked[cands.Alpha3] = struct{}{}
	}

	for _, alpha2 := range overrideCodes {
		cands := table.Expand(alpha2)
		code := cands.Alpha3
		if code == "" {
			code = alpha2
		}
		if cands.In(marked) {
			continue
		}
		a.Markers = append(a.Markers, Marker{Code: code, Candidates: cands, Point: Overrides[alpha2], Forced: true})
	}

	return a
}

// fallbackPoint picks the manual override, else the table's centroid
func (a *Atlas) fallbackPoint(cands Candidates) (domain.Point, bool) {
	if p, ok := Overrides[cands.Alpha2]; ok {
		return p, true
	}
	for _, code := range []string{cands.Alpha3, cands.Alpha2} {
		if code == "" {
			continue
		}
		if e, ok := a.table.Entry(code); ok {
			return e.Centroid()
		}
	}
	return domain.Point{}, false
}

func (a *Atlas) setCentroid(cands Candidates, p domain.Point) {
	if cands.Alpha2 != "" {
		a.centroids[cands.Alpha2] = p
	}
	if cands.Alpha3 != "" {
		a.centroids[cands.Alpha3] = p
	}
}

func (a *Atlas) setCentroidIfMissing(cands Candidates, p domain.Point) {
	for _, code := range []string{cands.Alpha2, cands.Alpha3} {
		if code == "" {
			continue
		}
		if _, ok := a.centroids[code]; !ok {
			a.centroids[code] = p
		}
	}
}

// Centroid returns the focus point for an alpha-2 or alpha-3 code
func (a *Atlas) Centroid(code string) (domain.Point, bool) {
	p, ok := a.centroids[strings.ToUpper(strings.TrimSpace(code))]
	return p, ok
}

// Expand returns both alpha codes of code
func (a *Atlas) Expand(code string) Candidates {
	return a.table.Expand(code)
}

// Places lists every drawable target. Regions that resolved to no code
// are included; callers treat them as inert.
func (a *Atlas) Places() []Place {
	places := make([]Place, 0, len(a.Regions)+len(a.Markers))
	for _, r := range a.Regions {
		places = append(places, Place{Candidates: r.Candidates, Point: r.Centroid, Area: r.Area})
	}
	for _, m := range a.Markers {
		places = append(places, Place{Candidates: m.Candidates, Point: m.Point, Marker: true})
	}
	return places
}

// Load builds an atlas from the bundled ISO table and the geometry at
// path, or the bundled world geometry when path is empty
func Load(path string, countries []domain.Country) (*Atlas, error) {
	table, err := DefaultTable()
	if err != nil {
		return nil, err
	}

	var features []Feature
	if path == "" {
		features, err = DefaultFeatures()
	} else {
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open geometry: %w", err)
		}
		defer f.Close()
		features, err = LoadFeatures(f)
	}
	if err != nil {
		return nil, err
	}

	return NewAtlas(table, features, countries), nil
}
