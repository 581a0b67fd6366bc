// Package monitor collects latency and throughput statistics for Argon2
// derivations and verifications and exports them as a JSON report.
package monitor

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/opd-ai/argon2/core"
	"github.com/opd-ai/argon2/phc"
	"github.com/sirupsen/logrus"
)

const (
	// maxLatencySamples bounds the retained latency distribution.
	maxLatencySamples = 1000
	// latencySmoothing is the weight of a new sample in the moving average.
	latencySmoothing = 0.1
)

// Monitor tracks derivation and verification performance. It is safe for
// concurrent use.
type Monitor struct {
	mu            sync.RWMutex
	derivations   *DerivationMetrics
	verifications *VerificationMetrics
	system        *SystemMetrics
	thresholds    Thresholds
	startTime     time.Time
	timeProvider  TimeProvider
}

// DerivationMetrics tracks completed and failed derivations.
type DerivationMetrics struct {
	Total               uint64            `json:"total"`
	Failed              uint64            `json:"failed"`
	Aborted             uint64            `json:"aborted"`
	AverageLatency      float64           `json:"average_latency_ms"`
	MinLatency          float64           `json:"min_latency_ms"`
	MaxLatency          float64           `json:"max_latency_ms"`
	MemoryProcessed     uint64            `json:"memory_processed_bytes"`
	ThroughputBytesPerS float64           `json:"throughput_bytes_per_sec"`
	ByVariant           map[string]uint64 `json:"by_variant"`
	LastDerivation      time.Time         `json:"last_derivation"`
	LatencyDistribution []float64         `json:"latency_distribution"`

	busy time.Duration
}

// VerificationMetrics tracks encoded-hash verifications.
type VerificationMetrics struct {
	Total        uint64 `json:"total"`
	Matches      uint64 `json:"matches"`
	Mismatches   uint64 `json:"mismatches"`
	FormatErrors uint64 `json:"format_errors"`
	OtherErrors  uint64 `json:"other_errors"`
}

// SystemMetrics tracks process resource usage.
type SystemMetrics struct {
	HeapSize       uint64  `json:"heap_size_bytes"`
	GoroutineCount int     `json:"goroutine_count"`
	NumCPU         int     `json:"num_cpu"`
	LastGCPause    float64 `json:"last_gc_pause_ms"`
}

// Thresholds configure when CheckAlerts reports a problem.
type Thresholds struct {
	// MaxAverageLatency is the moving-average latency above which
	// derivations are reported as slow. Zero disables the check.
	MaxAverageLatency time.Duration
	// MaxFailureRate is the fraction of failed derivations tolerated.
	MaxFailureRate float64
}

// DefaultThresholds returns one second and five percent.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxAverageLatency: time.Second,
		MaxFailureRate:    0.05,
	}
}

// New creates a monitor with DefaultThresholds.
func New() *Monitor {
	return NewWithTimeProvider(DefaultTimeProvider{})
}

// NewWithTimeProvider creates a monitor reading time from tp.
func NewWithTimeProvider(tp TimeProvider) *Monitor {
	if tp == nil {
		tp = DefaultTimeProvider{}
	}
	return &Monitor{
		derivations: &DerivationMetrics{
			ByVariant:           make(map[string]uint64),
			LatencyDistribution: make([]float64, 0, maxLatencySamples),
		},
		verifications: &VerificationMetrics{},
		system:        &SystemMetrics{},
		thresholds:    DefaultThresholds(),
		startTime:     tp.Now(),
		timeProvider:  tp,
	}
}

// SetThresholds replaces the alert thresholds.
func (m *Monitor) SetThresholds(t Thresholds) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.thresholds = t
}

// Start returns the current time for a later RecordDerivation call.
func (m *Monitor) Start() time.Time {
	return m.timeProvider.Now()
}

// RecordDerivation records one derivation of c that began at start and
// ended with err.
func (m *Monitor) RecordDerivation(c *core.Context, start time.Time, err error) {
	duration := m.timeProvider.Since(start)

	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.derivations
	d.Total++
	d.LastDerivation = m.timeProvider.Now()
	switch {
	case errors.Is(err, core.ErrAborted):
		d.Aborted++
		return
	case err != nil:
		d.Failed++
		return
	}

	latencyMs := float64(duration.Nanoseconds()) / 1e6
	succeeded := d.Total - d.Failed - d.Aborted
	if succeeded == 1 || latencyMs < d.MinLatency {
		d.MinLatency = latencyMs
	}
	if latencyMs > d.MaxLatency {
		d.MaxLatency = latencyMs
	}
	if succeeded == 1 {
		d.AverageLatency = latencyMs
	} else {
		d.AverageLatency = (1-latencySmoothing)*d.AverageLatency + latencySmoothing*latencyMs
	}

	d.LatencyDistribution = append(d.LatencyDistribution, latencyMs)
	if len(d.LatencyDistribution) > maxLatencySamples {
		d.LatencyDistribution = d.LatencyDistribution[1:]
	}

	d.ByVariant[c.Variant.Name()]++
	d.MemoryProcessed += uint64(c.MemoryBlocks()) * 1024 * uint64(c.Time)
	d.busy += duration
	if d.busy > 0 {
		d.ThroughputBytesPerS = float64(d.MemoryProcessed) / d.busy.Seconds()
	}
}

// RecordVerification records the outcome of one verification.
func (m *Monitor) RecordVerification(matched bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := m.verifications
	v.Total++
	switch {
	case errors.Is(err, phc.ErrFormat):
		v.FormatErrors++
	case err != nil:
		v.OtherErrors++
	case matched:
		v.Matches++
	default:
		v.Mismatches++
	}
}

// UpdateSystemMetrics samples the Go runtime.
func (m *Monitor) UpdateSystemMetrics() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.system.HeapSize = ms.HeapAlloc
	m.system.GoroutineCount = runtime.NumGoroutine()
	m.system.NumCPU = runtime.NumCPU()
	if ms.NumGC > 0 {
		m.system.LastGCPause = float64(ms.PauseNs[(ms.NumGC+255)%256]) / 1e6
	}
}

// GetMetrics returns copies of all metrics.
func (m *Monitor) GetMetrics() (derivations *DerivationMetrics, verifications *VerificationMetrics, system *SystemMetrics) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.copyMetrics()
}

func (m *Monitor) copyMetrics() (*DerivationMetrics, *VerificationMetrics, *SystemMetrics) {
	d := *m.derivations
	d.ByVariant = make(map[string]uint64, len(m.derivations.ByVariant))
	for k, v := range m.derivations.ByVariant {
		d.ByVariant[k] = v
	}
	d.LatencyDistribution = append([]float64(nil), m.derivations.LatencyDistribution...)
	v := *m.verifications
	s := *m.system
	return &d, &v, &s
}

// AlertType categorizes performance alerts.
type AlertType int

const (
	AlertHighLatency AlertType = iota
	AlertHighFailureRate
)

func (t AlertType) String() string {
	switch t {
	case AlertHighLatency:
		return "high_latency"
	case AlertHighFailureRate:
		return "high_failure_rate"
	default:
		return fmt.Sprintf("AlertType(%d)", int(t))
	}
}

// Alert is a threshold violation found by CheckAlerts.
type Alert struct {
	Type      AlertType `json:"alert_type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
}

// CheckAlerts compares the current metrics with the thresholds.
func (m *Monitor) CheckAlerts() []Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.checkAlerts()
}

func (m *Monitor) checkAlerts() []Alert {
	var alerts []Alert
	now := m.timeProvider.Now()
	d := m.derivations

	limitMs := float64(m.thresholds.MaxAverageLatency.Nanoseconds()) / 1e6
	if limitMs > 0 && d.AverageLatency > limitMs {
		alerts = append(alerts, Alert{
			Type:      AlertHighLatency,
			Message:   fmt.Sprintf("High derivation latency: %.2fms", d.AverageLatency),
			Timestamp: now,
			Value:     d.AverageLatency,
			Threshold: limitMs,
		})
	}

	if d.Total > 0 {
		rate := float64(d.Failed) / float64(d.Total)
		if rate > m.thresholds.MaxFailureRate {
			alerts = append(alerts, Alert{
				Type:      AlertHighFailureRate,
				Message:   fmt.Sprintf("High derivation failure rate: %.2f%%", rate*100),
				Timestamp: now,
				Value:     rate,
				Threshold: m.thresholds.MaxFailureRate,
			})
		}
	}

	for _, a := range alerts {
		logrus.WithFields(logrus.Fields{
			"function":   "CheckAlerts",
			"alert_type": a.Type.String(),
			"value":      a.Value,
			"threshold":  a.Threshold,
		}).Warn(a.Message)
	}
	return alerts
}

// Report is a point-in-time snapshot of a Monitor.
type Report struct {
	GeneratedAt   time.Time            `json:"generated_at"`
	Uptime        time.Duration        `json:"uptime"`
	Derivations   *DerivationMetrics   `json:"derivations"`
	Verifications *VerificationMetrics `json:"verifications"`
	System        *SystemMetrics       `json:"system"`
	Alerts        []Alert              `json:"current_alerts"`
}

// Report samples the runtime and returns a snapshot including alerts.
func (m *Monitor) Report() *Report {
	m.UpdateSystemMetrics()

	m.mu.RLock()
	defer m.mu.RUnlock()

	d, v, s := m.copyMetrics()
	return &Report{
		GeneratedAt:   m.timeProvider.Now(),
		Uptime:        m.timeProvider.Since(m.startTime),
		Derivations:   d,
		Verifications: v,
		System:        s,
		Alerts:        m.checkAlerts(),
	}
}

// ExportJSON renders the report as indented JSON.
func (r *Report) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
