package telemetry

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Telemetry provides monitoring for pipeline runs: per-stage counters kept
// in memory for periodic logs plus prometheus instruments for scraping.
type Telemetry struct {
	logger *log.Logger

	mu                sync.RWMutex
	totalRequests     int64
	okRequests        int64
	failedRequests    int64
	stageExecutions   map[string]int64
	fallbackUses      map[string]int64
	extractionMisses  map[string]int64
	stageAverageTimes map[string]time.Duration

	stageRuns       *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	extractFailures *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// Metrics is a point-in-time copy of the aggregate pipeline metrics.
type Metrics struct {
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64

	StageExecutions   map[string]int64
	FallbackUses      map[string]int64
	ExtractionMisses  map[string]int64
	StageAverageTimes map[string]time.Duration
}

// New creates a telemetry instance and registers its prometheus collectors
// on the given registerer (prometheus.DefaultRegisterer in production, nil
// or a fresh registry in tests).
func New(reg prometheus.Registerer) *Telemetry {
	t := &Telemetry{
		logger:            log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		stageExecutions:   make(map[string]int64),
		fallbackUses:      make(map[string]int64),
		extractionMisses:  make(map[string]int64),
		stageAverageTimes: make(map[string]time.Duration),
		stageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripplanner_stage_runs_total",
			Help: "Pipeline stage executions by stage and text source",
		}, []string{"stage", "source"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "tripplanner_stage_duration_seconds",
			Help: "Duration of pipeline stage executions",
		}, []string{"stage"}),
		extractFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripplanner_extraction_failures_total",
			Help: "Responses from which no structured payload could be extracted",
		}, []string{"stage"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripplanner_plan_requests_total",
			Help: "Trip planning requests by outcome",
		}, []string{"outcome"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "tripplanner_plan_duration_seconds",
			Help: "End-to-end duration of trip planning runs",
		}),
	}
	if reg != nil {
		reg.MustRegister(t.stageRuns, t.stageDuration, t.extractFailures, t.requests, t.requestDuration)
	}
	return t
}

// RecordStage records one stage execution. source is "model" when the
// external response passed the quality gate, "fallback" otherwise.
func (t *Telemetry) RecordStage(stage, source string, duration time.Duration) {
	t.stageRuns.WithLabelValues(stage, source).Inc()
	t.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())

	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.stageExecutions[stage]
	avg := t.stageAverageTimes[stage]
	t.stageAverageTimes[stage] = (avg*time.Duration(n) + duration) / time.Duration(n+1)
	t.stageExecutions[stage] = n + 1
	if source == "fallback" {
		t.fallbackUses[stage]++
	}
}

// RecordExtractionMiss records a response in which no structured payload was
// found and the stage fell through to its empty default.
func (t *Telemetry) RecordExtractionMiss(stage string) {
	t.extractFailures.WithLabelValues(stage).Inc()

	t.mu.Lock()
	t.extractionMisses[stage]++
	t.mu.Unlock()
}

// RecordRequest records one complete planning run.
func (t *Telemetry) RecordRequest(success bool, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	t.requests.WithLabelValues(outcome).Inc()
	t.requestDuration.Observe(duration.Seconds())

	t.mu.Lock()
	t.totalRequests++
	if success {
		t.okRequests++
	} else {
		t.failedRequests++
	}
	t.mu.Unlock()
}

// Snapshot returns a copy of the aggregate metrics.
func (t *Telemetry) Snapshot() Metrics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := Metrics{
		TotalRequests:      t.totalRequests,
		SuccessfulRequests: t.okRequests,
		FailedRequests:     t.failedRequests,
		StageExecutions:    make(map[string]int64, len(t.stageExecutions)),
		FallbackUses:       make(map[string]int64, len(t.fallbackUses)),
		ExtractionMisses:   make(map[string]int64, len(t.extractionMisses)),
		StageAverageTimes:  make(map[string]time.Duration, len(t.stageAverageTimes)),
	}
	for k, v := range t.stageExecutions {
		snap.StageExecutions[k] = v
	}
	for k, v := range t.fallbackUses {
		snap.FallbackUses[k] = v
	}
	for k, v := range t.extractionMisses {
		snap.ExtractionMisses[k] = v
	}
	for k, v := range t.stageAverageTimes {
		snap.StageAverageTimes[k] = v
	}
	return snap
}

// LogSummary writes a one-line summary of the aggregate metrics.
func (t *Telemetry) LogSummary() {
	snap := t.Snapshot()
	t.logger.Printf("requests=%d ok=%d failed=%d stages=%v fallbacks=%v",
		snap.TotalRequests, snap.SuccessfulRequests, snap.FailedRequests,
		snap.StageExecutions, snap.FallbackUses)
}
