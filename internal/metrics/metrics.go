// Package metrics exposes Prometheus gauges for the thermostat loop and
// request counters for the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"office_climate/internal/models"
)

// Metrics owns its registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	targetTemp        prometheus.Gauge
	currentTemp       prometheus.Gauge
	powerState        prometheus.Gauge
	publishErrors     prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		targetTemp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "climate_target_temperature_celsius",
			Help: "Effective target temperature at the last publisher tick.",
		}),
		currentTemp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "climate_current_temperature_celsius",
			Help: "Latest measured indoor temperature.",
		}),
		powerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "climate_power_state",
			Help: "Recommended socket state (1 on, 0 off, -1 unknown).",
		}),
		publishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "climate_publish_errors_total",
			Help: "Total failed recommendation publishes.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.targetTemp,
		m.currentTemp,
		m.powerState,
		m.publishErrors,
	)
	m.powerState.Set(-1)
	return m
}

// ObserveRecommendation implements service.Recorder.
func (m *Metrics) ObserveRecommendation(rec models.PowerRecommendation) {
	if m == nil {
		return
	}
	m.targetTemp.Set(rec.Target.Temperature)
	if rec.Reading != nil {
		m.currentTemp.Set(rec.Reading.Temperature)
	}
	if rec.State == nil {
		m.powerState.Set(-1)
		return
	}
	m.powerState.Set(float64(*rec.State))
}

// ObservePublishError implements service.Recorder.
func (m *Metrics) ObservePublishError() {
	if m == nil {
		return
	}
	m.publishErrors.Inc()
}

// Middleware counts requests by matched route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
