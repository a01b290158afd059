package usage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railspark/internal/apiclient"
)

func newQuietTracker(t *testing.T) (*Tracker, string) {
	t.Helper()
	dir := t.TempDir()
	tracker, err := NewTracker(dir)
	require.NoError(t, err)
	// Avoid background autosave during the test (debounce uses AfterFunc).
	tracker.dirty = true
	return tracker, dir
}

func TestTracker_RecordAggregatesAndPersists(t *testing.T) {
	tracker, dir := newQuietTracker(t)

	tracker.Record("GET", "/trains/1", 200, 40*time.Millisecond, nil)
	tracker.Record("GET", "/trains/2", 200, 20*time.Millisecond, nil)
	tracker.Record("GET", "/trains/3", 500, 30*time.Millisecond,
		&apiclient.RequestError{Kind: apiclient.KindRequestFailed, Status: 500, Message: "boom"})
	tracker.Record("POST", "/auth/login?username=a", 0, 10*time.Millisecond, errors.New("dial tcp: refused"))

	stats := tracker.Stats()
	assert.Equal(t, int64(4), stats.Total.Requests)
	assert.Equal(t, int64(2), stats.Total.Failures)
	assert.Equal(t, int64(100), stats.Total.TotalLatencyMS)

	trains := stats.ByEndpoint["GET /trains/{id}"]
	assert.Equal(t, int64(3), trains.Requests)
	assert.Equal(t, 30*time.Millisecond, trains.AvgLatency())
	assert.InDelta(t, 1.0/3, trains.FailureRate(), 0.0001)
	assert.Equal(t, int64(1), stats.ByEndpoint["POST /auth/login"].Requests)

	assert.Equal(t, int64(2), stats.ByStatus["200"].Requests)
	assert.Equal(t, int64(1), stats.ByStatus["none"].Requests)
	assert.Equal(t, map[string]int64{"request_failed": 1, "network_or_parse": 1}, stats.ByKind)

	require.NoError(t, tracker.Save())
	data, err := os.ReadFile(filepath.Join(dir, "usage.json"))
	require.NoError(t, err)
	var persisted UsageData
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, int64(4), persisted.Aggregate.Total.Requests)

	reloaded, err := NewTracker(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(3), reloaded.Stats().ByEndpoint["GET /trains/{id}"].Requests)
}

func TestTracker_StatsIsACopy(t *testing.T) {
	tracker, _ := newQuietTracker(t)
	tracker.Record("GET", "/branding/", 200, time.Millisecond, nil)

	stats := tracker.Stats()
	stats.ByEndpoint["GET /branding/"] = RequestCounts{}
	stats.ByKind["x"] = 9

	again := tracker.Stats()
	assert.Equal(t, int64(1), again.ByEndpoint["GET /branding/"].Requests)
	assert.NotContains(t, again.ByKind, "x")
}

func TestTracker_CorruptFileStartsFresh(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "usage.json"), []byte("{not json"), 0644))

	tracker, err := NewTracker(dir)
	require.NoError(t, err)
	assert.Zero(t, tracker.Stats().Total.Requests)
}

func TestTracker_Reset(t *testing.T) {
	tracker, _ := newQuietTracker(t)
	tracker.Record("GET", "/trains/", 200, time.Millisecond, nil)

	require.NoError(t, tracker.Reset())
	assert.Zero(t, tracker.Stats().Total.Requests)
	assert.NotNil(t, tracker.Stats().ByEndpoint)
}

func TestTracker_CloseFlushesPendingSave(t *testing.T) {
	dir := t.TempDir()
	tracker, err := NewTracker(dir)
	require.NoError(t, err)

	tracker.Record("GET", "/trains/", 200, time.Millisecond, nil)
	require.NoError(t, tracker.Close())

	data, err := os.ReadFile(filepath.Join(dir, "usage.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"GET /trains/"`)
}

func TestTracker_ObservesClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/job-cards/9/close" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Job card not found"}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	tracker, _ := newQuietTracker(t)
	client := apiclient.New(server.URL, nil,
		apiclient.WithHTTPClient(server.Client()),
		apiclient.WithObserver(tracker),
	)

	_, err := client.Get(context.Background(), "/induction/date/2026-10-18")
	require.NoError(t, err)
	_, err = client.Patch(context.Background(), "/job-cards/9/close", nil)
	require.Error(t, err)

	stats := tracker.Stats()
	assert.Equal(t, int64(1), stats.ByEndpoint["GET /induction/date/{date}"].Requests)
	assert.Equal(t, int64(1), stats.ByEndpoint["PATCH /job-cards/{id}/close"].Failures)
	assert.Equal(t, int64(1), stats.ByStatus["404"].Requests)
}

func TestEndpointKey(t *testing.T) {
	tests := []struct {
		method, endpoint, want string
	}{
		{"GET", "/trains/", "GET /trains/"},
		{"GET", "/trains/12", "GET /trains/{id}"},
		{"PATCH", "/trains/12/mileage?additional_mileage=5", "PATCH /trains/{id}/mileage"},
		{"GET", "/cleaning/date/2026-10-18", "GET /cleaning/date/{date}"},
		{"GET", "/upload/template/trains", "GET /upload/template/trains"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EndpointKey(tt.method, tt.endpoint), tt.endpoint)
	}
}

func TestTracker_ContextHelpers(t *testing.T) {
	tracker, _ := newQuietTracker(t)

	ctx := NewContext(context.Background(), tracker)
	assert.Same(t, tracker, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
}
