package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniatlas/internal/dataset"
	"miniatlas/internal/domain"
)

func testRouter() http.Handler {
	data := dataset.New("test", []domain.Country{
		{Name: "France", Code: "FRA", Capital: "Paris", Region: "Europe", Population: 67391582, Flag: "🇫🇷"},
		{Name: "Central African Republic", Code: "CAF", Capital: "Bangui", Region: "Africa", Population: 4829764},
		{Name: "Germany", Code: "DEU", Capital: "Berlin", Region: "Europe", Population: 83240525},
	})
	return NewRouter(NewHandlers(data, nil), nil)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestListCountries(t *testing.T) {
	rec := get(t, testRouter(), "/api/countries")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw, 3)
	assert.Equal(t, "France", raw[0]["name"])
	assert.Equal(t, "FRA", raw[0]["code"])
	assert.Equal(t, "Paris", raw[0]["capital"])
	assert.Equal(t, "Europe", raw[0]["region"])
	assert.EqualValues(t, 67391582, raw[0]["population"])
	assert.Equal(t, "🇫🇷", raw[0]["flag"])
}

func TestGetCountry(t *testing.T) {
	rec := get(t, testRouter(), "/api/countries/deu")
	require.Equal(t, http.StatusOK, rec.Code)

	var c domain.Country
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, "Germany", c.Name)
}

func TestGetCountryNotFoundUsesEnvelope(t *testing.T) {
	rec := get(t, testRouter(), "/api/countries/XXX")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "country_not_found", body["error"])
	assert.EqualValues(t, http.StatusNotFound, body["status"])
	assert.NotEmpty(t, body["request_id"])
	assert.Contains(t, body["message"], "XXX")
}

func TestSearch(t *testing.T) {
	rec := get(t, testRouter(), "/api/search?q=fr")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.Country
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "FRA", got[0].Code)
	assert.Equal(t, "CAF", got[1].Code)
}

func TestSearchBlankQueryIsEmptyArray(t *testing.T) {
	rec := get(t, testRouter(), "/api/search?q=%20%20")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRegionsAndInsights(t *testing.T) {
	router := testRouter()

	rec := get(t, router, "/api/regions")
	require.Equal(t, http.StatusOK, rec.Code)
	var regions []domain.RegionGroup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &regions))
	assert.Equal(t, []domain.RegionGroup{
		{Name: "Europe", Codes: []string{"FRA", "DEU"}},
		{Name: "Africa", Codes: []string{"CAF"}},
	}, regions)

	rec = get(t, router, "/api/insights")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"countries":3,"regions":2,"population":155461871,"with_capitals":3}`, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	rec := get(t, testRouter(), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","countries":3}`, rec.Body.String())
}

func TestUnknownRouteAndMethod(t *testing.T) {
	router := testRouter()

	rec := get(t, router, "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"not_found"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/countries", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), `"method_not_allowed"`)
}

func TestWriteErrorKeepsExplicitRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "ctx-id")
	WriteError(ctx, rec, NewError("boom\n", "multi\nline", 0).WithRequestID("given"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"boom","message":"multi line","status":500,"request_id":"given"}`, rec.Body.String())
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, testRouter(), Options{Addr: "127.0.0.1:0"}, nil)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
