package usage

import "time"

// UsageData is the root structure stored in usage.json.
type UsageData struct {
	Version   string          `json:"version"`
	Aggregate AggregatedStats `json:"aggregate"`
}

// AggregatedStats holds request counters broken down by dimension.
type AggregatedStats struct {
	Total      RequestCounts            `json:"total"`
	ByEndpoint map[string]RequestCounts `json:"by_endpoint"` // "GET /trains/{id}"
	ByStatus   map[string]RequestCounts `json:"by_status"`   // "200", "401", "none"
	ByKind     map[string]int64         `json:"by_kind"`     // failure kind -> count
	FirstSeen  time.Time                `json:"first_seen,omitempty"`
	LastSeen   time.Time                `json:"last_seen,omitempty"`
}

// RequestCounts holds request, failure and latency sums.
type RequestCounts struct {
	Requests       int64 `json:"requests"`
	Failures       int64 `json:"failures"`
	TotalLatencyMS int64 `json:"total_latency_ms"`
}

func (rc *RequestCounts) Add(d time.Duration, failed bool) {
	rc.Requests++
	if failed {
		rc.Failures++
	}
	rc.TotalLatencyMS += d.Milliseconds()
}

// AvgLatency is the mean request latency.
func (rc RequestCounts) AvgLatency() time.Duration {
	if rc.Requests == 0 {
		return 0
	}
	return time.Duration(rc.TotalLatencyMS/rc.Requests) * time.Millisecond
}

// FailureRate is failures/requests in [0, 1].
func (rc RequestCounts) FailureRate() float64 {
	if rc.Requests == 0 {
		return 0
	}
	return float64(rc.Failures) / float64(rc.Requests)
}
