// prometheus.go - Prometheus text-format metrics exporter
package server

import (
	"fmt"
	"net/http"
	"strings"
)

// PrometheusExporter converts internal metrics to Prometheus format
type PrometheusExporter struct {
	version string
}

// NewPrometheusExporter creates a new Prometheus exporter
func NewPrometheusExporter(version string) *PrometheusExporter {
	if version == "" {
		version = "dev"
	}
	return &PrometheusExporter{version: version}
}

// Handler returns an HTTP handler for the /metrics endpoint
func (p *PrometheusExporter) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		snapshot := GetMetrics().Snapshot()

		var output strings.Builder

		output.WriteString("# HELP imgd_info Application version info\n")
		output.WriteString("# TYPE imgd_info gauge\n")
		output.WriteString(fmt.Sprintf("imgd_info{version=%q} 1\n\n", p.version))

		output.WriteString("# HELP imgd_requests_total Total number of HTTP requests\n")
		output.WriteString("# TYPE imgd_requests_total counter\n")
		output.WriteString(fmt.Sprintf("imgd_requests_total %d\n\n", snapshot.RequestsTotal))

		output.WriteString("# HELP imgd_request_errors_total HTTP error responses by class\n")
		output.WriteString("# TYPE imgd_request_errors_total counter\n")
		output.WriteString(fmt.Sprintf("imgd_request_errors_total{class=\"4xx\"} %d\n", snapshot.RequestErrors4xx))
		output.WriteString(fmt.Sprintf("imgd_request_errors_total{class=\"5xx\"} %d\n\n", snapshot.RequestErrors5xx))

		output.WriteString("# HELP imgd_uploads_total Total number of stored uploads\n")
		output.WriteString("# TYPE imgd_uploads_total counter\n")
		output.WriteString(fmt.Sprintf("imgd_uploads_total %d\n\n", snapshot.UploadsTotal))

		output.WriteString("# HELP imgd_upload_bytes_total Total bytes stored by uploads\n")
		output.WriteString("# TYPE imgd_upload_bytes_total counter\n")
		output.WriteString(fmt.Sprintf("imgd_upload_bytes_total %d\n\n", snapshot.UploadBytesTotal))

		output.WriteString("# HELP imgd_upload_errors_total Total rejected or failed uploads\n")
		output.WriteString("# TYPE imgd_upload_errors_total counter\n")
		output.WriteString(fmt.Sprintf("imgd_upload_errors_total %d\n\n", snapshot.UploadErrorsTotal))

		output.WriteString("# HELP imgd_serves_total Total static file responses\n")
		output.WriteString("# TYPE imgd_serves_total counter\n")
		output.WriteString(fmt.Sprintf("imgd_serves_total %d\n\n", snapshot.ServesTotal))

		output.WriteString("# HELP imgd_serve_bytes_total Total bytes served from storage\n")
		output.WriteString("# TYPE imgd_serve_bytes_total counter\n")
		output.WriteString(fmt.Sprintf("imgd_serve_bytes_total %d\n\n", snapshot.ServeBytesTotal))

		output.WriteString("# HELP imgd_deletes_total Total deleted files\n")
		output.WriteString("# TYPE imgd_deletes_total counter\n")
		output.WriteString(fmt.Sprintf("imgd_deletes_total %d\n", snapshot.DeletesTotal))

		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(output.String()))
	}
}
