package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexisbeaulieu97/hivelab/internal/engine"
	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

const namespace = "hivelab"

// Execution status label values.
const (
	StatusOK        = "ok"
	StatusCycle     = "cycle"
	StatusInvalid   = "invalid"
	StatusDuplicate = "duplicate_target"
	StatusError     = "error"
)

// Recorder owns a Prometheus registry and the engine and HTTP metrics
// registered on it. It implements engine.Observer.
type Recorder struct {
	registry *prometheus.Registry

	executions   *prometheus.CounterVec
	duration     prometheus.Histogram
	connections  *prometheus.CounterVec
	unknownTypes prometheus.Counter
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// NewRecorder creates a recorder with its own registry, including Go runtime
// and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "executions_total",
			Help:      "Composition executions by outcome.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "execution_duration_seconds",
			Help:      "Time spent ordering and resolving one composition.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		connections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Connections processed by result (delivered or skip reason).",
		}, []string{"result"}),
		unknownTypes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_element_instances_total",
			Help:      "Instances skipped because their element type is not registered.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	r.registry.MustRegister(
		r.executions,
		r.duration,
		r.connections,
		r.unknownTypes,
		r.requests,
		r.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry returns the underlying Prometheus registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveExecution implements engine.Observer.
func (r *Recorder) ObserveExecution(stats engine.Stats) {
	r.executions.WithLabelValues(Status(stats.Err)).Inc()
	r.duration.Observe(stats.Duration.Seconds())

	if stats.Err != nil {
		return
	}
	if stats.Delivered > 0 {
		r.connections.WithLabelValues("delivered").Add(float64(stats.Delivered))
	}
	for reason, n := range stats.Skipped {
		r.connections.WithLabelValues(string(reason)).Add(float64(n))
	}
	if stats.UnknownTypes > 0 {
		r.unknownTypes.Add(float64(stats.UnknownTypes))
	}
}

// ObserveRequest records one served HTTP request.
func (r *Recorder) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	r.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Status maps an execution error to its status label.
func Status(err error) string {
	if err == nil {
		return StatusOK
	}
	var cycleErr *hiveerrors.CycleError
	if errors.As(err, &cycleErr) {
		return StatusCycle
	}
	var dupErr *hiveerrors.DuplicateTargetError
	if errors.As(err, &dupErr) {
		return StatusDuplicate
	}
	var validationErr *hiveerrors.ValidationError
	if errors.As(err, &validationErr) {
		return StatusInvalid
	}
	return StatusError
}

var _ engine.Observer = (*Recorder)(nil)
