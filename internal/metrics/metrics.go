package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imgvault",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "imgvault",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imgvault",
			Name:      "uploads_total",
			Help:      "Upload attempts by declared content type and outcome",
		},
		[]string{"content_type", "status"},
	)

	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imgvault",
			Name:      "upload_bytes_total",
			Help:      "Total bytes accepted",
		},
		[]string{"content_type"},
	)

	// UntrackedAssetsTotal counts uploads stored by the media store whose
	// registry write failed, so they are missing from history.
	UntrackedAssetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "imgvault",
			Name:      "untracked_assets_total",
			Help:      "Stored uploads that could not be indexed in the registry",
		},
	)

	StoreUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "imgvault",
			Name:      "store_up",
			Help:      "Result of the last scheduled store probe (1 up, 0 down)",
		},
		[]string{"store"},
	)

	CorruptRecordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "imgvault",
			Name:      "corrupt_records_total",
			Help:      "Registry records dropped because they failed to decode",
		},
	)
)

func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

func RecordUpload(contentType, status string, bytes int) {
	UploadsTotal.WithLabelValues(contentType, status).Inc()
	if status == "success" {
		UploadBytesTotal.WithLabelValues(contentType).Add(float64(bytes))
	}
}

func RecordStoreProbe(store string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	StoreUp.WithLabelValues(store).Set(v)
}
