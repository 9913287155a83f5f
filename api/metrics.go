package api

import (
	"sort"
	"sync"
	"time"
)

// RouteMetrics aggregates metrics for a specific route
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	MinTime     time.Duration `json:"minTime"`
	MaxTime     time.Duration `json:"maxTime"`
	LastRequest time.Time     `json:"lastRequest"`
}

// MetricsSummary is a point-in-time view of the collector
type MetricsSummary struct {
	Since         time.Time        `json:"since"`
	TotalRequests int64            `json:"totalRequests"`
	TotalErrors   int64            `json:"totalErrors"`
	Routes        []RouteMetrics   `json:"routes"`
	Analyses      map[string]int64 `json:"analyses"`
}

// MetricsCollector keeps per-route request stats and intake analysis
// outcomes in memory
type MetricsCollector struct {
	mu            sync.RWMutex
	since         time.Time
	routes        map[string]*RouteMetrics
	totalRequests int64
	totalErrors   int64
	analyses      map[string]int64
}

// NewMetricsCollector creates an empty collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		since:    time.Now().UTC(),
		routes:   make(map[string]*RouteMetrics),
		analyses: make(map[string]int64),
	}
}

// RecordRequest adds one finished request. path should be the route
// template so ids do not split a route into many entries.
func (mc *MetricsCollector) RecordRequest(method, path string, status int, duration time.Duration, at time.Time) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	key := method + " " + path
	m, ok := mc.routes[key]
	if !ok {
		m = &RouteMetrics{Method: method, Path: path, MinTime: duration}
		mc.routes[key] = m
	}
	m.Count++
	m.TotalTime += duration
	m.AvgTime = m.TotalTime / time.Duration(m.Count)
	m.LastRequest = at
	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}

	mc.totalRequests++
	if status >= 400 {
		m.ErrorCount++
		mc.totalErrors++
	}
}

// RecordAnalysis counts one intake analysis by outcome, e.g. "resolved" or
// a fallback reason
func (mc *MetricsCollector) RecordAnalysis(outcome string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.analyses[outcome]++
}

// Summary returns a copy of everything collected, routes sorted by path
func (mc *MetricsCollector) Summary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	out := MetricsSummary{
		Since:         mc.since,
		TotalRequests: mc.totalRequests,
		TotalErrors:   mc.totalErrors,
		Routes:        make([]RouteMetrics, 0, len(mc.routes)),
		Analyses:      make(map[string]int64, len(mc.analyses)),
	}
	for _, m := range mc.routes {
		out.Routes = append(out.Routes, *m)
	}
	sort.Slice(out.Routes, func(i, j int) bool {
		if out.Routes[i].Path == out.Routes[j].Path {
			return out.Routes[i].Method < out.Routes[j].Method
		}
		return out.Routes[i].Path < out.Routes[j].Path
	})
	for k, v := range mc.analyses {
		out.Analyses[k] = v
	}
	return out
}
