package observability

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec

	cacheLookups *prometheus.CounterVec
	persistWrite *prometheus.CounterVec
	usageDenied  *prometheus.CounterVec
	rateLimited  prometheus.Counter
}

var (
	currentMu sync.RWMutex
	current   *Metrics
)

// Current returns the process-wide metrics set, or nil before Init. All
// methods are safe to call on a nil *Metrics.
func Current() *Metrics {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

func Init(log *logger.Logger) *Metrics {
	m := New()
	currentMu.Lock()
	current = m
	currentMu.Unlock()
	if log != nil {
		log.Info("prometheus metrics initialized")
	}
	return m
}

// New builds an isolated metrics set on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edubox_api_requests_total",
			Help: "HTTP API requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "edubox_api_request_duration_seconds",
			Help:    "HTTP API request latency.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "edubox_api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edubox_llm_requests_total",
			Help: "Upstream model calls by route, engine, model and outcome.",
		}, []string{"route", "engine", "model", "status"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "edubox_llm_request_duration_seconds",
			Help:    "Upstream model call latency, including the full stream.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80, 120},
		}, []string{"route", "engine", "status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edubox_suggestion_cache_lookups_total",
			Help: "Suggestion cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
		persistWrite: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edubox_generation_persist_total",
			Help: "Background generation record writes by outcome.",
		}, []string{"status"}),
		usageDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edubox_entitlement_denied_total",
			Help: "Requests rejected by the plan gate, by feature.",
		}, []string{"feature"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "edubox_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}
	reg.MustRegister(
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.llmRequests, m.llmLatency,
		m.cacheLookups, m.persistWrite, m.usageDenied, m.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveLLMRequest(route, engineName, model, status string, dur time.Duration) {
	if m == nil {
		return
	}
	route = orUnknown(route)
	engineName = orUnknown(engineName)
	model = orUnknown(model)
	status = orUnknown(status)
	m.llmRequests.WithLabelValues(route, engineName, model, status).Inc()
	if dur > 0 {
		m.llmLatency.WithLabelValues(route, engineName, status).Observe(dur.Seconds())
	}
}

func (m *Metrics) IncCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(orUnknown(result)).Inc()
}

func (m *Metrics) IncPersist(status string) {
	if m == nil {
		return
	}
	m.persistWrite.WithLabelValues(orUnknown(status)).Inc()
}

func (m *Metrics) IncEntitlementDenied(feature string) {
	if m == nil {
		return
	}
	m.usageDenied.WithLabelValues(orUnknown(feature)).Inc()
}

func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
