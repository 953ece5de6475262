package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ihsan/internal/analytics"
	"ihsan/internal/donation"
)

func newTestServer(t *testing.T, enriched bool) *httptest.Server {
	t.Helper()

	parse := func(s string) time.Time {
		ts, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return ts
	}
	records := []donation.Enriched{
		{Record: donation.Record{DonorID: "d1", Date: parse("2024-01-10"), Amount: 100, Category: "Zakat"}},
		{Record: donation.Record{DonorID: "d2", Date: parse("2024-02-10"), Amount: 200, Category: "Zakat"}},
		{Record: donation.Record{DonorID: "d2", Date: parse("2024-03-10"), Amount: 300, Category: "Sadaqah"}},
	}
	for i := range records {
		records[i].Time = donation.TimeDimensionsOf(records[i].Date)
	}

	svc := analytics.NewService(donation.Dataset{Records: records, Enriched: enriched})
	h := New(svc, slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil)), nil)

	r := chi.NewRouter()
	h.Register(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleSummary(t *testing.T) {
	server := newTestServer(t, true)

	status, body := getJSON(t, server.URL+"/api/v1/summary")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["degraded"])
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(3), data["total_records"])
	assert.Equal(t, "2024-01-10", data["date_from"])
	assert.Equal(t, "2024-03-10", data["date_to"])
}

func TestHandleKPIs_WithFilters(t *testing.T) {
	server := newTestServer(t, true)

	status, body := getJSON(t, server.URL+"/api/v1/kpis?from=2024-02-01&to=2024-03-31&categories=Zakat")

	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["total_donations"])
	assert.Equal(t, float64(200), data["total_amount"])
}

func TestHandleKPIs_BadDate(t *testing.T) {
	server := newTestServer(t, true)

	status, body := getJSON(t, server.URL+"/api/v1/kpis?from=01-02-2024")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "bad_request", body["error"])
}

func TestHandleGrowth_BadGranularity(t *testing.T) {
	server := newTestServer(t, true)

	status, _ := getJSON(t, server.URL+"/api/v1/growth?granularity=week")

	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandleGrowth_DefaultsToMonthly(t *testing.T) {
	server := newTestServer(t, true)

	status, body := getJSON(t, server.URL+"/api/v1/growth")

	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "month", data["granularity"])
	assert.Equal(t, float64(50), data["rate"])
}

func TestHandleDonors_BadLimit(t *testing.T) {
	server := newTestServer(t, true)

	status, _ := getJSON(t, server.URL+"/api/v1/donors?limit=zero")

	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandleDonors(t *testing.T) {
	server := newTestServer(t, true)

	status, body := getJSON(t, server.URL+"/api/v1/donors?limit=1")

	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	stats := data["statistics"].(map[string]any)
	assert.Equal(t, float64(2), stats["total_donors"])
	top := data["top"].([]any)
	require.Len(t, top, 1)
	assert.Equal(t, "d2", top[0].(map[string]any)["donor_id"])
}

func TestHandleCompare(t *testing.T) {
	server := newTestServer(t, true)

	reqBody := `{
		"period_a": {"label": "Q1 start", "from": "2024-01-01", "to": "2024-01-31"},
		"period_b": {"label": "Q1 end", "from": "2024-03-01", "to": "2024-03-31"}
	}`
	resp, err := http.Post(server.URL+"/api/v1/compare", "application/json", bytes.NewBufferString(reqBody))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data := body["data"].(map[string]any)
	changes := data["changes"].(map[string]any)
	total := changes["total_amount"].(map[string]any)
	assert.Equal(t, float64(200), total["absolute"])
	assert.Equal(t, float64(200), total["percentage"])
}

func TestHandleCompare_MalformedBody(t *testing.T) {
	server := newTestServer(t, true)

	resp, err := http.Post(server.URL+"/api/v1/compare", "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDegradedFlagPropagates(t *testing.T) {
	server := newTestServer(t, false)

	status, body := getJSON(t, server.URL+"/api/v1/summary")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["degraded"])
}
