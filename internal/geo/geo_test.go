package geo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniatlas/internal/domain"
)

func testTable() *Table {
	return NewTable([]Entry{
		{Alpha2: "fr", Alpha3: "fra", Numeric: "250", Name: "France", LatLng: []float64{46, 2}},
		{Alpha2: "DE", Alpha3: "DEU", Numeric: "276", Name: "Germany", LatLng: []float64{51, 9}},
		{Alpha2: "AD", Alpha3: "AND", Numeric: "020", Name: "Andorra", LatLng: []float64{42.5, 1.5}},
		{Alpha2: "BB", Alpha3: "BRB", Numeric: "052", Name: "Barbados", LatLng: []float64{13.17, -59.53}},
		{Alpha2: "XK", Alpha3: "UNK", Name: "Kosovo", LatLng: []float64{42.67, 21.17}},
		{Alpha2: "ZZ", Alpha3: "ZZZ", Numeric: "999", Name: "Nowhere"},
	})
}

func TestTableLookup(t *testing.T) {
	table := testTable()

	assert.Equal(t, Candidates{Alpha2: "FR", Alpha3: "FRA"}, table.Lookup(250))
	assert.Equal(t, Candidates{Alpha2: "AD", Alpha3: "AND"}, table.Lookup(20))
	assert.True(t, table.Lookup(123).Empty())

	e, ok := table.Entry("unk")
	require.True(t, ok)
	assert.Equal(t, "Kosovo", e.Name)
}

func TestTableExpand(t *testing.T) {
	table := testTable()

	assert.Equal(t, Candidates{Alpha2: "DE", Alpha3: "DEU"}, table.Expand("de"))
	assert.Equal(t, Candidates{Alpha2: "DE", Alpha3: "DEU"}, table.Expand("DEU"))
	assert.Equal(t, Candidates{Alpha2: "QQ"}, table.Expand("qq"))
	assert.Equal(t, Candidates{Alpha3: "QQQ"}, table.Expand("QQQ"))
}

func TestCandidatesDualCodeMembership(t *testing.T) {
	germany := Candidates{Alpha2: "DE", Alpha3: "DEU"}

	assert.True(t, germany.In(map[string]struct{}{"DE": {}}))
	assert.True(t, germany.In(map[string]struct{}{"DEU": {}}))
	assert.False(t, germany.In(map[string]struct{}{"FRA": {}}))
	assert.False(t, Candidates{}.In(map[string]struct{}{"": {}}))

	assert.True(t, germany.Has("deu"))
	assert.False(t, germany.Has(""))
}

func TestCandidatesDatasetCodePrefersAlpha3(t *testing.T) {
	both := map[string]domain.Country{"DE": {Code: "DE"}, "DEU": {Code: "DEU"}}
	onlyAlpha2 := map[string]domain.Country{"DE": {Code: "DE"}}
	germany := Candidates{Alpha2: "DE", Alpha3: "DEU"}

	assert.Equal(t, "DEU", germany.DatasetCode(both))
	assert.Equal(t, "DE", germany.DatasetCode(onlyAlpha2))
	assert.True(t, germany.InDataset(onlyAlpha2))
	assert.False(t, germany.InDataset(map[string]domain.Country{}))
}

func TestLoadFeaturesComputesCentroids(t *testing.T) {
	doc := `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "id": 250, "properties": {},
			 "geometry": {"type": "Polygon", "coordinates": [[[0,0],[4,0],[4,2],[0,2],[0,0]]]}},
			{"type": "Feature", "id": "276", "properties": {},
			 "geometry": {"type": "Point", "coordinates": [9, 51]}},
			{"type": "Feature", "properties": {},
			 "geometry": {"type": "Point", "coordinates": [1, 1]}},
			{"type": "Feature", "id": "abc", "properties": {},
			 "geometry": {"type": "Point", "coordinates": [1, 1]}},
			{"type": "Feature", "id": 1.5, "properties": {},
			 "geometry": {"type": "Point", "coordinates": [1, 1]}}
		]
	}`

	features, err := LoadFeatures(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, features, 2)

	assert.Equal(t, 250, features[0].ID)
	assert.InDelta(t, 2.0, features[0].Centroid.Lon, 1e-9)
	assert.InDelta(t, 1.0, features[0].Centroid.Lat, 1e-9)
	assert.InDelta(t, 8.0, features[0].Area, 1e-9)

	assert.Equal(t, 276, features[1].ID)
	assert.Equal(t, domain.Point{Lon: 9, Lat: 51}, features[1].Centroid)
}

func TestLoadFeaturesRejectsGarbage(t *testing.T) {
	_, err := LoadFeatures(strings.NewReader(`not json`))
	require.Error(t, err)
}

func TestAtlasMarkersAndOverrides(t *testing.T) {
	table := testTable()
	features := []Feature{
		{ID: 250, Centroid: domain.Point{Lon: 2, Lat: 46}},
		{ID: 276, Centroid: domain.Point{Lon: 9, Lat: 51}},
		{ID: 20, Centroid: domain.Point{Lon: 0, Lat: 0}},
		{ID: 4242, Centroid: domain.Point{Lon: 50, Lat: 50}},
	}
	countries := []domain.Country{
		{Code: "FRA"}, {Code: "DEU"}, {Code: "AND"}, {Code: "BRB"}, {Code: "UNK"}, {Code: "ZZZ"}, {Code: "QQQ"},
	}

	atlas := NewAtlas(table, features, countries)

	require.Len(t, atlas.Regions, 4)
	assert.True(t, atlas.Regions[3].Candidates.Empty(), "unknown ids stay as inert regions")

	// override beats the computed centroid
	p, ok := atlas.Centroid("AND")
	require.True(t, ok)
	assert.Equal(t, Overrides["AD"], p)
	p, ok = atlas.Centroid("ad")
	require.True(t, ok)
	assert.Equal(t, Overrides["AD"], p)

	p, ok = atlas.Centroid("DE")
	require.True(t, ok)
	assert.Equal(t, domain.Point{Lon: 9, Lat: 51}, p)

	markers := make(map[string]Marker)
	for _, m := range atlas.Markers {
		markers[m.Code] = m
	}

	// no geometry: table centroid
	require.Contains(t, markers, "BRB")
	assert.InDelta(t, -59.53, markers["BRB"].Point.Lon, 1e-9)
	assert.False(t, markers["BRB"].Forced)
	require.Contains(t, markers, "UNK")

	// no geometry and no table centroid, or unknown to the table: omitted
	assert.NotContains(t, markers, "ZZZ")
	assert.NotContains(t, markers, "QQQ")
	_, ok = atlas.Centroid("QQQ")
	assert.False(t, ok)

	// covered by geometry: no fallback marker
	assert.NotContains(t, markers, "FRA")

	// small territories always get a marker
	require.Contains(t, markers, "AND")
	assert.True(t, markers["AND"].Forced)
	assert.Equal(t, Overrides["AD"], markers["AND"].Point)

	p, ok = atlas.Centroid("BB")
	require.True(t, ok)
	assert.Equal(t, markers["BRB"].Point, p)
}

func TestAtlasPlaces(t *testing.T) {
	atlas := NewAtlas(testTable(), []Feature{{ID: 250, Area: 8}}, []domain.Country{{Code: "BRB"}})
	require.Len(t, atlas.Regions, 1)
	assert.Equal(t, 8.0, atlas.Regions[0].Area)

	places := atlas.Places()
	markers := 0
	for _, p := range places {
		if p.Marker {
			markers++
			assert.Zero(t, p.Area)
		} else {
			assert.Equal(t, 8.0, p.Area)
		}
	}
	assert.Equal(t, len(atlas.Regions)+len(atlas.Markers), len(places))
	assert.Equal(t, len(atlas.Markers), markers)
}

func TestLoadBundledAtlas(t *testing.T) {
	countries := []domain.Country{
		{Code: "FRA"}, {Code: "DEU"}, {Code: "ALA"}, {Code: "ASM"}, {Code: "UNK"},
	}

	atlas, err := Load("", countries)
	require.NoError(t, err)

	p, ok := atlas.Centroid("FRA")
	require.True(t, ok)
	assert.Equal(t, domain.Point{Lon: 2, Lat: 46}, p)

	p, ok = atlas.Centroid("ALA")
	require.True(t, ok)
	assert.Equal(t, Overrides["AX"], p)

	forced := 0
	for _, m := range atlas.Markers {
		if m.Forced {
			forced++
		}
	}
	assert.Equal(t, len(Overrides), forced)

	_, ok = atlas.Centroid("UNK")
	assert.True(t, ok, "kosovo falls back to the table centroid")
}

func TestLoadGeometryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","id":250,"properties":{},"geometry":{"type":"Point","coordinates":[3,47]}}
	]}`), 0644))

	atlas, err := Load(path, nil)
	require.NoError(t, err)
	require.Len(t, atlas.Regions, 1)
	assert.Equal(t, Candidates{Alpha2: "FR", Alpha3: "FRA"}, atlas.Regions[0].Candidates)

	_, err = Load(filepath.Join(t.TempDir(), "missing.geojson"), nil)
	require.Error(t, err)
}
