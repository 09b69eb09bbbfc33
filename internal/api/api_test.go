package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Aquagrim/internal/kv"
	"Aquagrim/internal/models"
)

func newTestServer(t *testing.T) (*httptest.Server, *kv.Store) {
	t.Helper()
	store := kv.NewStore(kv.NewMemoryKV())
	server := httptest.NewServer(NewRouter(ApiDependencies{Store: store}))
	t.Cleanup(server.Close)
	return server, store
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestGetSitesByDate(t *testing.T) {
	server, store := newTestServer(t)
	ctx := context.Background()

	_, err := store.CreateSite(ctx, &models.Site{Name: "Парк", Date: "2026-08-30"})
	require.NoError(t, err)
	_, err = store.CreateSite(ctx, &models.Site{Name: "ТЦ", Date: "2026-08-29"})
	require.NoError(t, err)

	resp, err := http.Get(server.URL + "/api/sites?date=2026-08-30")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Date  string         `json:"date"`
		Sites []*models.Site `json:"sites"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "2026-08-30", body.Date)
	require.Len(t, body.Sites, 1)
	assert.Equal(t, "Парк", body.Sites[0].Name)
}

func TestGetSiteReports(t *testing.T) {
	server, store := newTestServer(t)
	ctx := context.Background()

	site, err := store.CreateSite(ctx, &models.Site{Name: "Парк", Date: "2026-08-30"})
	require.NoError(t, err)
	_, err = store.CreateReport(ctx, &models.DailyReport{SiteID: site.ID, Date: site.Date, Lastname: "Иванов", TotalRevenue: 5000})
	require.NoError(t, err)

	resp, err := http.Get(server.URL + "/api/sites/" + site.ID + "/reports")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Reports []*models.DailyReport `json:"reports"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Reports, 1)
	assert.Equal(t, int64(5000), body.Reports[0].TotalRevenue)
}

func TestGetSiteReportsNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/sites/site_999/reports")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
