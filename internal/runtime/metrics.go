package runtime

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/drblury/dispatchbench/internal/runtime/invoke"
)

// DispatchMetrics tracks dispatch statistics per strategy.
type DispatchMetrics struct {
	mu sync.RWMutex

	strategies map[invoke.Strategy]*StrategyMetrics

	dispatchTotal *prometheus.CounterVec
	durationHist  *prometheus.HistogramVec
	fallbackTotal *prometheus.CounterVec

	registerer prometheus.Registerer
	registered bool
}

// StrategyMetrics holds the counters for one strategy.
type StrategyMetrics struct {
	Dispatches      uint64        `json:"dispatches"`
	Errors          uint64        `json:"errors"`
	UnwrapFallbacks uint64        `json:"unwrap_fallbacks"`
	TotalDuration   time.Duration `json:"total_duration"`
	LastUpdatedAt   time.Time     `json:"last_updated_at"`
}

// AvgDuration is the mean duration of recorded dispatches.
func (s StrategyMetrics) AvgDuration() time.Duration {
	if s.Dispatches == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Dispatches)
}

// DispatchMetricsSnapshot is a point-in-time copy of all counters.
type DispatchMetricsSnapshot struct {
	TotalDispatches uint64                     `json:"total_dispatches"`
	TotalErrors     uint64                     `json:"total_errors"`
	Strategies      map[string]StrategyMetrics `json:"strategies"`
	CollectedAt     time.Time                  `json:"collected_at"`
}

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// dispatchDurationBuckets span 100ns to 1ms.
var dispatchDurationBuckets = []float64{1e-7, 2.5e-7, 5e-7, 1e-6, 2.5e-6, 5e-6, 1e-5, 5e-5, 1e-4, 1e-3}

func newDispatchCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dispatchbench",
			Subsystem: "dispatch",
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func newDispatchHistogramVec(name, help string, buckets []float64, labels []string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dispatchbench",
			Subsystem: "dispatch",
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}

// NewDispatchMetrics creates the collectors. A nil registerer means
// prometheus.DefaultRegisterer.
func NewDispatchMetrics(registerer prometheus.Registerer) *DispatchMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &DispatchMetrics{
		strategies:    make(map[invoke.Strategy]*StrategyMetrics),
		registerer:    registerer,
		dispatchTotal: newDispatchCounterVec("total", "Total number of dispatches by strategy and outcome", []string{"strategy", "outcome"}),
		durationHist:  newDispatchHistogramVec("duration_seconds", "Duration of a full decode, invoke, unwrap and encode iteration", dispatchDurationBuckets, []string{"strategy"}),
		fallbackTotal: newDispatchCounterVec("unwrap_fallback_total", "Number of dispatches that used the fallback response", []string{"strategy"}),
	}
}

// Register registers the Prometheus collectors. Safe to call multiple times.
func (m *DispatchMetrics) Register() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered {
		return nil
	}

	for _, c := range []prometheus.Collector{m.dispatchTotal, m.durationHist, m.fallbackTotal} {
		if err := m.registerer.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}

	m.registered = true
	return nil
}

// ObserveDispatch records one dispatch and its outcome.
func (m *DispatchMetrics) ObserveDispatch(strategy invoke.Strategy, d time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.getOrCreate(strategy)
	stats.Dispatches++
	stats.TotalDuration += d
	stats.LastUpdatedAt = time.Now()

	outcome := OutcomeSuccess
	if err != nil {
		stats.Errors++
		outcome = OutcomeError
	}

	m.dispatchTotal.WithLabelValues(strategy.String(), outcome).Inc()
	m.durationHist.WithLabelValues(strategy.String()).Observe(d.Seconds())
}

// RecordUnwrapFallback counts a dispatch that substituted the fallback response.
func (m *DispatchMetrics) RecordUnwrapFallback(strategy invoke.Strategy) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.getOrCreate(strategy)
	stats.UnwrapFallbacks++
	stats.LastUpdatedAt = time.Now()

	m.fallbackTotal.WithLabelValues(strategy.String()).Inc()
}

// GetStrategyMetrics returns a copy of the counters for strategy, or nil.
func (m *DispatchMetrics) GetStrategyMetrics(strategy invoke.Strategy) *StrategyMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if stats, ok := m.strategies[strategy]; ok {
		copied := *stats
		return &copied
	}
	return nil
}

// GetSnapshot returns a point-in-time snapshot of all counters.
func (m *DispatchMetrics) GetSnapshot() DispatchMetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := DispatchMetricsSnapshot{
		Strategies:  make(map[string]StrategyMetrics, len(m.strategies)),
		CollectedAt: time.Now(),
	}
	for strategy, stats := range m.strategies {
		snapshot.Strategies[strategy.String()] = *stats
		snapshot.TotalDispatches += stats.Dispatches
		snapshot.TotalErrors += stats.Errors
	}
	return snapshot
}

// Reset clears every counter.
func (m *DispatchMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.strategies = make(map[invoke.Strategy]*StrategyMetrics)
	m.dispatchTotal.Reset()
	m.durationHist.Reset()
	m.fallbackTotal.Reset()
}

func (m *DispatchMetrics) getOrCreate(strategy invoke.Strategy) *StrategyMetrics {
	if stats, ok := m.strategies[strategy]; ok {
		return stats
	}
	stats := &StrategyMetrics{}
	m.strategies[strategy] = stats
	return stats
}
