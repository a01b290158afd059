// Package usage records per-endpoint request counts, failures and latency
// for backend calls and persists them across runs.
package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"railspark/internal/apiclient"
	"railspark/internal/logging"
)

type contextKey struct{}

const autoSaveDelay = 5 * time.Second

// Tracker aggregates request usage. It implements apiclient.Observer.
type Tracker struct {
	mu            sync.Mutex
	data          UsageData
	filePath      string
	dirty         bool
	autoSaveTimer *time.Timer
	now           func() time.Time
}

var _ apiclient.Observer = (*Tracker)(nil)

// NewTracker creates a tracker persisting to <stateDir>/usage.json.
func NewTracker(stateDir string) (*Tracker, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	t := &Tracker{
		filePath: filepath.Join(stateDir, "usage.json"),
		data:     UsageData{Version: "1.0"},
		now:      time.Now,
	}
	t.data.Aggregate.ensureMaps()

	if err := t.Load(); err != nil {
		logging.UsageWarn("usage.json unreadable, starting fresh: %v", err)
	}
	return t, nil
}

func (a *AggregatedStats) ensureMaps() {
	if a.ByEndpoint == nil {
		a.ByEndpoint = make(map[string]RequestCounts)
	}
	if a.ByStatus == nil {
		a.ByStatus = make(map[string]RequestCounts)
	}
	if a.ByKind == nil {
		a.ByKind = make(map[string]int64)
	}
}

// Path returns the persistence file path.
func (t *Tracker) Path() string {
	return t.filePath
}

// Load reads the usage data from disk.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := os.ReadFile(t.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var loaded UsageData
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}
	loaded.Aggregate.ensureMaps()
	t.data = loaded
	return nil
}

// Save writes the usage data to disk.
func (t *Tracker) Save() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saveLocked()
}

func (t *Tracker) saveLocked() error {
	data, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(t.filePath, data, 0644); err != nil {
		return err
	}
	t.dirty = false
	return nil
}

// Close stops any pending auto-save and flushes to disk.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.autoSaveTimer != nil {
		t.autoSaveTimer.Stop()
		t.autoSaveTimer = nil
	}
	return t.saveLocked()
}

// RequestStarted is a no-op; usage is recorded on completion.
func (t *Tracker) RequestStarted(apiclient.RequestInfo) {}

// RequestFinished records one completed request.
func (t *Tracker) RequestFinished(info apiclient.RequestInfo, res apiclient.Result) {
	t.Record(info.Method, info.Endpoint, res.Status, res.Duration, res.Err)
}

// Record adds one request to the aggregates and schedules a debounced save.
func (t *Tracker) Record(method, endpoint string, status int, d time.Duration, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	agg := &t.data.Aggregate
	failed := err != nil
	now := t.now()
	if agg.FirstSeen.IsZero() {
		agg.FirstSeen = now
	}
	agg.LastSeen = now

	agg.Total.Add(d, failed)
	addToMap(agg.ByEndpoint, EndpointKey(method, endpoint), d, failed)
	addToMap(agg.ByStatus, statusKey(status), d, failed)
	if failed {
		agg.ByKind[apiclient.KindOf(err).String()]++
	}

	if !t.dirty {
		t.dirty = true
		t.autoSaveTimer = time.AfterFunc(autoSaveDelay, func() {
			if err := t.Save(); err != nil {
				logging.UsageWarn("auto-save failed: %v", err)
			}
		})
	}
}

// Stats returns a copy of the aggregated stats.
func (t *Tracker) Stats() AggregatedStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	stats := t.data.Aggregate
	stats.ByEndpoint = copyCountsMap(stats.ByEndpoint)
	stats.ByStatus = copyCountsMap(stats.ByStatus)
	byKind := make(map[string]int64, len(stats.ByKind))
	for k, v := range stats.ByKind {
		byKind[k] = v
	}
	stats.ByKind = byKind
	return stats
}

// Reset clears all counters in memory and on disk.
func (t *Tracker) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data = UsageData{Version: "1.0"}
	t.data.Aggregate.ensureMaps()
	logging.Usage("usage counters reset")
	return t.saveLocked()
}

// EndpointKey normalizes an endpoint into a low-cardinality key: the query
// string is dropped and numeric or date path segments become placeholders.
func EndpointKey(method, endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}
	parts := strings.Split(endpoint, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.Atoi(p); err == nil {
			parts[i] = "{id}"
		} else if _, err := time.Parse("2006-01-02", p); err == nil {
			parts[i] = "{date}"
		}
	}
	return method + " " + strings.Join(parts, "/")
}

func statusKey(status int) string {
	if status == 0 {
		return "none"
	}
	return strconv.Itoa(status)
}

func copyCountsMap(src map[string]RequestCounts) map[string]RequestCounts {
	if src == nil {
		return nil
	}
	dst := make(map[string]RequestCounts, len(src))
	for key, counts := range src {
		dst[key] = counts
	}
	return dst
}

func addToMap(m map[string]RequestCounts, key string, d time.Duration, failed bool) {
	entry := m[key]
	entry.Add(d, failed)
	m[key] = entry
}

// NewContext returns a new context carrying the tracker.
func NewContext(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext retrieves the tracker from the context.
func FromContext(ctx context.Context) *Tracker {
	t, _ := ctx.Value(contextKey{}).(*Tracker)
	return t
}
