package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/apiview/pkg/observability"
)

// Metrics holds Prometheus metrics for the server and the render core. It
// implements the observability hook interfaces.
//
// Metrics:
//   - apiview_documents_loaded_total{result} - envelopes decoded
//   - apiview_document_tokens - token count of decoded envelopes
//   - apiview_leaf_sections - leaf sections extracted per fold
//   - apiview_renders_total{mode} - renders performed
//   - apiview_render_duration_seconds{mode} - render latency
//   - apiview_render_cache_total{mode,result} - hit, miss, bypass, set
//   - apiview_http_requests_total{method,route,status} - HTTP responses
//   - apiview_http_request_duration_seconds{method,route} - HTTP latency
//   - apiview_documents_stored - documents held in memory
type Metrics struct {
	registry *prometheus.Registry

	DocumentsLoaded *prometheus.CounterVec
	DocumentTokens  prometheus.Histogram
	LeafSections    prometheus.Histogram
	Renders         *prometheus.CounterVec
	RenderDuration  *prometheus.HistogramVec
	RenderCache     *prometheus.CounterVec
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	DocumentsStored prometheus.Gauge
}

// NewMetrics registers the metrics on a fresh registry, so servers in the
// same process never collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		DocumentsLoaded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "apiview_documents_loaded_total",
			Help: "Total number of document envelopes decoded",
		}, []string{"result"}),
		DocumentTokens: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "apiview_document_tokens",
			Help:    "Token count of decoded documents",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		}),
		LeafSections: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "apiview_leaf_sections",
			Help:    "Leaf sections extracted per folding pass",
			Buckets: prometheus.ExponentialBuckets(1, 4, 7),
		}),
		Renders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "apiview_renders_total",
			Help: "Total number of renders performed",
		}, []string{"mode"}),
		RenderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "apiview_render_duration_seconds",
			Help:    "Duration of renders in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"mode"}),
		RenderCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "apiview_render_cache_total",
			Help: "Render cache events by result",
		}, []string{"mode", "result"}),
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "apiview_http_requests_total",
			Help: "Total number of HTTP responses",
		}, []string{"method", "route", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "apiview_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DocumentsStored: f.NewGauge(prometheus.GaugeOpts{
			Name: "apiview_documents_stored",
			Help: "Number of documents held in memory",
		}),
	}
}

// Install registers m as the process-wide observability hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) OnLoadStart(context.Context, string) {}

func (m *Metrics) OnLoadComplete(_ context.Context, _ string, tokens int, _ time.Duration, err error) {
	if err != nil {
		m.DocumentsLoaded.WithLabelValues("error").Inc()
		return
	}
	m.DocumentsLoaded.WithLabelValues("ok").Inc()
	m.DocumentTokens.Observe(float64(tokens))
}

func (m *Metrics) OnFold(_ context.Context, leaves int, _ time.Duration) {
	m.LeafSections.Observe(float64(leaves))
}

func (m *Metrics) OnRenderStart(context.Context, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, mode string, _ int, d time.Duration) {
	m.Renders.WithLabelValues(mode).Inc()
	m.RenderDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.RenderCache.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.RenderCache.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheBypass(_ context.Context, keyType string) {
	m.RenderCache.WithLabelValues(keyType, "bypass").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.RenderCache.WithLabelValues(keyType, "set").Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
