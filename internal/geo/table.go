package geo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"miniatlas/internal/domain"
)

//go:embed data/iso3166.json
var bundledTable []byte

// Candidates are the alpha codes a map region may be known by. Either may
// be empty.
type Candidates struct {
	Alpha2 string
	Alpha3 string
}

// Empty reports whether the region resolved to no code at all
func (c Candidates) Empty() bool {
	return c.Alpha2 == "" && c.Alpha3 == ""
}

// Has reports whether code names this region under either system
func (c Candidates) Has(code string) bool {
	code = strings.ToUpper(code)
	return code != "" && (code == c.Alpha2 || code == c.Alpha3)
}

// In reports whether either candidate is a member of set
func (c Candidates) In(set map[string]struct{}) bool {
	return c.Resolve(func(code string) bool {
		_, ok := set[code]
		return ok
	}) != ""
}

// InDataset reports whether either candidate is a key of the dataset index
func (c Candidates) InDataset(index map[string]domain.Country) bool {
	return c.DatasetCode(index) != ""
}

// DatasetCode returns the candidate that keys the dataset index, alpha-3
// first, or "" for an inert region
func (c Candidates) DatasetCode(index map[string]domain.Country) string {
	return c.Resolve(func(code string) bool {
		_, ok := index[code]
		return ok
	})
}

// Resolve returns the first candidate accepted by ok, alpha-3 first
func (c Candidates) Resolve(ok func(code string) bool) string {
	if c.Alpha3 != "" && ok(c.Alpha3) {
		return c.Alpha3
	}
	if c.Alpha2 != "" && ok(c.Alpha2) {
		return c.Alpha2
	}
	return ""
}

func (c Candidates) String() string {
	return c.Alpha2 + "/" + c.Alpha3
}

// Entry is one row of the ISO 3166 lookup table
type Entry struct {
	Alpha2  string    `json:"cca2"`
	Alpha3  string    `json:"cca3"`
	Numeric string    `json:"ccn3"`
	Name    string    `json:"name"`
	LatLng  []float64 `json:"latlng"`
}

// Candidates returns both alpha codes of the entry
func (e Entry) Candidates() Candidates {
	return Candidates{Alpha2: e.Alpha2, Alpha3: e.Alpha3}
}

// Centroid returns the table's own representative point, if it has one
func (e Entry) Centroid() (domain.Point, bool) {
	if len(e.LatLng) != 2 {
		return domain.Point{}, false
	}
	return domain.Point{Lon: e.LatLng[1], Lat: e.LatLng[0]}, true
}

// Table maps numeric region ids and alpha codes to ISO entries
type Table struct {
	entries   []Entry
	byNumeric map[int]Entry
	byCode    map[string]Entry
}

// LoadTable reads a JSON array of ISO entries
func LoadTable(r io.Reader) (*Table, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse iso table: %w", err)
	}
	return NewTable(entries), nil
}

// DefaultTable returns the bundled ISO table
func DefaultTable() (*Table, error) {
	return LoadTable(bytes.NewReader(bundledTable))
}

// NewTable indexes entries. Codes are upper-cased; entries without a
// numeric code are reachable only by alpha code.
func NewTable(entries []Entry) *Table {
	t := &Table{
		byNumeric: make(map[int]Entry, len(entries)),
		byCode:    make(map[string]Entry, len(entries)*2),
	}
	for _, e := range entries {
		e.Alpha2 = strings.ToUpper(strings.TrimSpace(e.Alpha2))
		e.Alpha3 = strings.ToUpper(strings.TrimSpace(e.Alpha3))
		t.entries = append(t.entries, e)

		if n, err := strconv.Atoi(strings.TrimSpace(e.Numeric)); err == nil {
			t.byNumeric[n] = e
		}
		if e.Alpha2 != "" {
			t.byCode[e.Alpha2] = e
		}
		if e.Alpha3 != "" {
			t.byCode[e.Alpha3] = e
		}
	}
	return t
}

// Lookup resolves a numeric region id. Unknown ids yield empty candidates.
func (t *Table) Lookup(id int) Candidates {
	if e, ok := t.byNumeric[id]; ok {
		return e.Candidates()
	}
	return Candidates{}
}

// Entry finds the entry for an alpha-2 or alpha-3 code
func (t *Table) Entry(code string) (Entry, bool) {
	e, ok := t.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return e, ok
}

// Expand returns both alpha codes for code. A code the table does not
// know is returned as-is in the slot matching its length.
func (t *Table) Expand(code string) Candidates {
	if e, ok := t.Entry(code); ok {
		return e.Candidates()
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) == 2 {
		return Candidates{Alpha2: code}
	}
	return Candidates{Alpha3: code}
}

// Len is the number of entries in the table
func (t *Table) Len() int {
	return len(t.entries)
}
