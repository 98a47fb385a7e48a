package server

import "sync"

// Metrics holds application counters. Everything here is best-effort
// observability; nothing reads these to make decisions.
type Metrics struct {
	mu sync.RWMutex

	// Upload metrics
	uploadsTotal      int64
	uploadBytesTotal  int64
	uploadErrorsTotal int64

	// Serve/delete metrics
	servesTotal       int64
	serveBytesTotal   int64
	deletesTotal      int64
	deleteErrorsTotal int64

	// System metrics
	requestsTotal    int64
	requestErrors4xx int64
	requestErrors5xx int64
}

var globalMetrics = &Metrics{}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordUpload records one successfully stored file.
func (m *Metrics) RecordUpload(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadsTotal++
	m.uploadBytesTotal += bytes
}

// RecordUploadError records a rejected or failed upload.
func (m *Metrics) RecordUploadError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadErrorsTotal++
}

// RecordServe records one static file response.
func (m *Metrics) RecordServe(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.servesTotal++
	m.serveBytesTotal += bytes
}

// RecordDelete records one removed file.
func (m *Metrics) RecordDelete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletesTotal++
}

// RecordDeleteError records a failed delete.
func (m *Metrics) RecordDeleteError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteErrorsTotal++
}

// RecordRequest records a completed HTTP request by status class.
func (m *Metrics) RecordRequest(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsTotal++
	switch {
	case status >= 500:
		m.requestErrors5xx++
	case status >= 400:
		m.requestErrors4xx++
	}
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	UploadsTotal      int64
	UploadBytesTotal  int64
	UploadErrorsTotal int64
	ServesTotal       int64
	ServeBytesTotal   int64
	DeletesTotal      int64
	DeleteErrorsTotal int64
	RequestsTotal     int64
	RequestErrors4xx  int64
	RequestErrors5xx  int64
}

// Snapshot returns a consistent copy of the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MetricsSnapshot{
		UploadsTotal:      m.uploadsTotal,
		UploadBytesTotal:  m.uploadBytesTotal,
		UploadErrorsTotal: m.uploadErrorsTotal,
		ServesTotal:       m.servesTotal,
		ServeBytesTotal:   m.serveBytesTotal,
		DeletesTotal:      m.deletesTotal,
		DeleteErrorsTotal: m.deleteErrorsTotal,
		RequestsTotal:     m.requestsTotal,
		RequestErrors4xx:  m.requestErrors4xx,
		RequestErrors5xx:  m.requestErrors5xx,
	}
}

// Reset zeroes all counters. Intended for tests.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadsTotal = 0
	m.uploadBytesTotal = 0
	m.uploadErrorsTotal = 0
	m.servesTotal = 0
	m.serveBytesTotal = 0
	m.deletesTotal = 0
	m.deleteErrorsTotal = 0
	m.requestsTotal = 0
	m.requestErrors4xx = 0
	m.requestErrors5xx = 0
}
