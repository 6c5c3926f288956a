package observability

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation names recorded by the services.
const (
	OperationPropose = "propose"
	OperationAccept  = "accept"
	OperationCapture = "capture"
)

// Metrics collects per-operation metrics. Every recording updates both the
// Prometheus collectors and the in-process counters behind Snapshot.
//
// Prometheus metrics:
//   - flowstate_operation_requests_total{operation,outcome}
//   - flowstate_operation_duration_seconds{operation}
//   - flowstate_proposals_returned - proposals per successful propose call
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	operations map[string]*OperationMetrics

	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	proposals prometheus.Histogram
}

// OperationMetrics represents metrics for a specific operation.
type OperationMetrics struct {
	executionCount atomic.Int64
	totalDuration  atomic.Int64 // milliseconds
	errorCount     atomic.Int64
}

// NewMetrics creates a collector registered with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		operations: make(map[string]*OperationMetrics),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowstate_operation_requests_total",
				Help: "Total number of service operations by outcome",
			},
			[]string{"operation", "outcome"}, // outcome: "ok" or "error"
		),
		durations: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flowstate_operation_duration_seconds",
				Help:    "Duration of service operations in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"operation"},
		),
		proposals: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flowstate_proposals_returned",
				Help:    "Number of proposals returned per propose call",
				Buckets: []float64{0, 1, 2, 3},
			},
		),
	}
}

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// GlobalMetrics returns the process-wide collector registered with the
// default Prometheus registry.
func GlobalMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return globalMetrics
}

// RecordRequest records the outcome and duration of an operation.
func (m *Metrics) RecordRequest(operation string, duration time.Duration, err error) {
	m.requestTotal.Add(1)
	om := m.getOperationMetrics(operation)
	om.executionCount.Add(1)
	om.totalDuration.Add(duration.Milliseconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
		m.requestFailed.Add(1)
		om.errorCount.Add(1)
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
	m.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordProposals records how many proposals a propose call returned.
func (m *Metrics) RecordProposals(n int) {
	m.proposals.Observe(float64(n))
}

func (m *Metrics) getOperationMetrics(operation string) *OperationMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	om, ok := m.operations[operation]
	if !ok {
		om = &OperationMetrics{}
		m.operations[operation] = om
	}
	return om
}

// Snapshot returns a snapshot of the in-process counters.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	ops := make(map[string]*OperationMetricsSnapshot, len(m.operations))
	for name, om := range m.operations {
		count := om.executionCount.Load()
		snap := &OperationMetricsSnapshot{
			ExecutionCount: count,
			TotalDuration:  om.totalDuration.Load(),
			ErrorCount:     om.errorCount.Load(),
		}
		if count > 0 {
			snap.AverageDuration = snap.TotalDuration / count
		}
		ops[name] = snap
	}

	return &MetricsSnapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		Operations:    ops,
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	RequestTotal  int64
	RequestFailed int64
	Operations    map[string]*OperationMetricsSnapshot
}

// OperationMetricsSnapshot represents metrics for a specific operation.
type OperationMetricsSnapshot struct {
	ExecutionCount  int64
	TotalDuration   int64
	ErrorCount      int64
	AverageDuration int64
}

// SuccessRate returns the success rate as a percentage (0-100).
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}
