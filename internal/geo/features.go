package geo

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"miniatlas/internal/domain"
)

//go:embed data/world.geojson
var bundledWorld []byte

// Feature is a renderable region reduced to what the atlas consumes
type Feature struct {
	ID       int
	Centroid domain.Point
	Area     float64
}

// LoadFeatures reads a GeoJSON FeatureCollection. Features without a
// numeric id or a geometry are skipped.
func LoadFeatures(r io.Reader) ([]Feature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read geometry: %w", err)
	}
	return parseFeatures(data)
}

// DefaultFeatures returns the bundled world geometry
func DefaultFeatures() ([]Feature, error) {
	return parseFeatures(bundledWorld)
}

func parseFeatures(data []byte) ([]Feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse geometry: %w", err)
	}

	features := make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		id, ok := featureID(f.ID)
		if !ok || f.Geometry == nil {
			continue
		}
		centroid, ok := centroidOf(f.Geometry)
		if !ok {
			continue
		}
		features = append(features, Feature{
			ID:       id,
			Centroid: centroid,
			Area:     planar.Area(f.Geometry),
		})
	}
	return features, nil
}

// featureID accepts numeric ids encoded as numbers or strings ("250")
func featureID(raw any) (int, bool) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func centroidOf(g orb.Geometry) (domain.Point, bool) {
	c, _ := planar.CentroidArea(g)
	if math.IsNaN(c[0]) || math.IsNaN(c[1]) {
		return domain.Point{}, false
	}
	return domain.Point{Lon: c[0], Lat: c[1]}, true
}
