package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	InspirationOps    *prometheus.CounterVec
	PointsAwarded     prometheus.Counter
	AchievementsCount prometheus.Counter

	// Storage metrics
	StorageWrites *prometheus.CounterVec

	// AI metrics
	ImageRequests *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry under namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		InspirationOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inspiration_operations_total",
				Help:      "Total number of inspiration mutations",
			},
			[]string{"operation"},
		),
		PointsAwarded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "points_awarded_total",
				Help:      "Total points added to the profile",
			},
		),
		AchievementsCount: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "achievements_unlocked_total",
				Help:      "Total number of achievements unlocked",
			},
		),
		StorageWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "storage_writes_total",
				Help:      "Durable storage write outcomes",
			},
			[]string{"store", "status"},
		),
		ImageRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "image_requests_total",
				Help:      "Image generation requests by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.InspirationOps,
		c.PointsAwarded,
		c.AchievementsCount,
		c.StorageWrites,
		c.ImageRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request
func (c *Collector) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordInspirationOp records a successful inspiration mutation and whether
// it reached durable storage
func (c *Collector) RecordInspirationOp(operation, writeStatus string) {
	c.InspirationOps.WithLabelValues(operation).Inc()
	c.StorageWrites.WithLabelValues("content", writeStatus).Inc()
}

// RecordPreferencesWrite records a preferences write outcome
func (c *Collector) RecordPreferencesWrite(writeStatus string) {
	c.StorageWrites.WithLabelValues("profile", writeStatus).Inc()
}

// RecordPoints records points added to the profile
func (c *Collector) RecordPoints(amount int) {
	if amount > 0 {
		c.PointsAwarded.Add(float64(amount))
	}
}

// RecordAchievement records a first-time unlock
func (c *Collector) RecordAchievement() {
	c.AchievementsCount.Inc()
}

// RecordImageRequest records an image generation attempt
func (c *Collector) RecordImageRequest(result string) {
	c.ImageRequests.WithLabelValues(result).Inc()
}
