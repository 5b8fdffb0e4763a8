package aegis

import "sync/atomic"

// MetricID defines a public type used by aegis APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricRegisterSuccess is an exported constant or variable used by the authentication engine.
	MetricRegisterSuccess MetricID = iota
	// MetricRegisterDuplicate is an exported constant or variable used by the authentication engine.
	MetricRegisterDuplicate
	// MetricRegisterFailure is an exported constant or variable used by the authentication engine.
	MetricRegisterFailure
	// MetricLoginSuccess is an exported constant or variable used by the authentication engine.
	MetricLoginSuccess
	// MetricLoginFailure is an exported constant or variable used by the authentication engine.
	MetricLoginFailure
	// MetricTokenIssued is an exported constant or variable used by the authentication engine.
	MetricTokenIssued
	// MetricTokenRejected is an exported constant or variable used by the authentication engine.
	MetricTokenRejected
	// MetricVerifyOTPSent is an exported constant or variable used by the authentication engine.
	MetricVerifyOTPSent
	// MetricVerifySuccess is an exported constant or variable used by the authentication engine.
	MetricVerifySuccess
	// MetricVerifyFailure is an exported constant or variable used by the authentication engine.
	MetricVerifyFailure
	// MetricResetOTPSent is an exported constant or variable used by the authentication engine.
	MetricResetOTPSent
	// MetricResetSuccess is an exported constant or variable used by the authentication engine.
	MetricResetSuccess
	// MetricResetFailure is an exported constant or variable used by the authentication engine.
	MetricResetFailure
	// MetricWelcomeMailDropped is an exported constant or variable used by the authentication engine.
	MetricWelcomeMailDropped
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is the engine's in-process counter block. Counters are padded to
// avoid false sharing on the hot login/validate paths.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// NewMetrics describes the newmetrics operation and its observable behavior.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc describes the inc operation and its observable behavior.
//
// Inc does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value describes the value operation and its observable behavior.
//
// Value does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || !m.enabled || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// MetricsSnapshot is a point-in-time copy of every counter, keyed by
// [MetricID]. Exporters consume it without touching the live counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricIDCount)}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return snap
}
