package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters over service operations.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	totalDuration map[string]time.Duration
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		totalDuration: make(map[string]time.Duration),
	}
}

// RecordRequest increments counters for a completed request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.totalDuration[key] += duration
}

// RecordError increments error counters keyed by domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RequestTotal returns the count recorded for a path/method/status triple.
func (m *Metrics) RequestTotal(path, method string, status int) int64 {
	if m == nil {
		return 0
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount[key]
}

// ErrorTotal returns the count recorded for a path/method/code triple.
func (m *Metrics) ErrorTotal(path, method, code string) int64 {
	if m == nil {
		return 0
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorCount[key]
}
