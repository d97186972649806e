package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"

	"miniatlas/internal/domain"
)

//go:embed data/countries.json
var bundled []byte

// BundledSource names the embedded dataset in logs and events
const BundledSource = "bundled"

// ErrNotArray is returned when the dataset document is not a JSON array
var ErrNotArray = errors.New("dataset is not a JSON array")

// Decode reads a JSON array of raw records
func Decode(r io.Reader) ([]Raw, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}

	var raw []Raw
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	return raw, nil
}

// Normalize converts raw records to countries. The resolved code is the
// upper-cased cca3, falling back to code; records without a code are
// dropped and duplicates keep their first occurrence.
func Normalize(raw []Raw) []domain.Country {
	countries := lo.Map(raw, func(r Raw, _ int) domain.Country {
		code := strings.TrimSpace(r.CCA3)
		if code == "" {
			code = strings.TrimSpace(r.Code)
		}
		return domain.Country{
			Name:       strings.TrimSpace(r.Name),
			Code:       strings.ToUpper(code),
			Capital:    strings.TrimSpace(r.Capital),
			Region:     strings.TrimSpace(r.Region),
			Population: max(r.Population, 0),
			Flag:       strings.TrimSpace(r.Flag),
		}
	})
	countries = lo.Filter(countries, func(c domain.Country, _ int) bool {
		return c.Code != ""
	})
	return lo.UniqBy(countries, func(c domain.Country) string {
		return c.Code
	})
}

// Dataset is a loaded, normalized country list with its derived index
type Dataset struct {
	Source    string
	Countries []domain.Country
	Dropped   int

	byCode map[string]domain.Country
}

// New builds a dataset from already normalized records
func New(source string, countries []domain.Country) *Dataset {
	return &Dataset{
		Source:    source,
		Countries: countries,
		byCode:    Index(countries),
	}
}

// Read decodes and normalizes a dataset document
func Read(source string, r io.Reader) (*Dataset, error) {
	raw, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	ds := New(source, Normalize(raw))
	ds.Dropped = len(raw) - len(ds.Countries)
	return ds, nil
}

// Load reads the dataset at path, or the bundled dataset when path is empty
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return Read(path, f)
}

// Default returns the bundled dataset
func Default() (*Dataset, error) {
	return Read(BundledSource, bytes.NewReader(bundled))
}

// Lookup returns the record for a code, case-insensitively
func (d *Dataset) Lookup(code string) (domain.Country, bool) {
	c, ok := d.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// Has reports whether code is a dataset key
func (d *Dataset) Has(code string) bool {
	_, ok := d.Lookup(code)
	return ok
}

// Index returns the code → record map of the dataset
func (d *Dataset) Index() map[string]domain.Country {
	return d.byCode
}

// Index builds the code → record map (details by code)
func Index(countries []domain.Country) map[string]domain.Country {
	byCode := make(map[string]domain.Country, len(countries))
	for _, c := range countries {
		key := strings.ToUpper(c.Code)
		if _, seen := byCode[key]; !seen {
			byCode[key] = c
		}
	}
	return byCode
}

// Regions lists distinct non-empty regions in first-seen order, each with
// its member codes in dataset order
func Regions(countries []domain.Country) []domain.RegionGroup {
	names := lo.Uniq(lo.FilterMap(countries, func(c domain.Country, _ int) (string, bool) {
		return c.Region, c.Region != ""
	}))
	return lo.Map(names, func(name string, _ int) domain.RegionGroup {
		return domain.RegionGroup{
			Name: name,
			Codes: lo.FilterMap(countries, func(c domain.Country, _ int) (string, bool) {
				return c.Code, c.Region == name
			}),
		}
	})
}

// Summarize computes the dataset insights shown above the map
func Summarize(countries []domain.Country) domain.Insights {
	return domain.Insights{
		Countries: len(countries),
		Regions:   len(Regions(countries)),
		Population: lo.SumBy(countries, func(c domain.Country) int64 {
			return c.Population
		}),
		WithCapitals: lo.CountBy(countries, func(c domain.Country) bool {
			return c.Capital != ""
		}),
	}
}
