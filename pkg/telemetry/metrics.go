// Package telemetry holds the Prometheus metrics and OpenTelemetry tracing
// helpers for the analysis pipeline.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AnalysisMetrics holds all Prometheus metrics for the analysis pipeline.
// A nil *AnalysisMetrics is valid and records nothing.
type AnalysisMetrics struct {
	// Agent metrics
	AgentRunsTotal      *prometheus.CounterVec
	AgentLatencySeconds *prometheus.HistogramVec
	OrchestrationsTotal *prometheus.CounterVec

	// Rule/distiller strategy metrics
	StrategyOutcomesTotal   *prometheus.CounterVec
	DistillerLatencySeconds *prometheus.HistogramVec
	DistillerCacheTotal     *prometheus.CounterVec

	// Diagnostics
	DroppedUtterancesTotal prometheus.Counter
}

// DefaultAnalysisMetrics creates metrics registered on the default registry.
func DefaultAnalysisMetrics() *AnalysisMetrics {
	return NewAnalysisMetrics(prometheus.DefaultRegisterer)
}

// NewAnalysisMetrics creates a new set of analysis metrics.
func NewAnalysisMetrics(reg prometheus.Registerer) *AnalysisMetrics {
	factory := promauto.With(reg)

	return &AnalysisMetrics{
		AgentRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_analysis_agent_runs_total",
				Help: "Total agent executions by outcome",
			},
			[]string{"agent", "status"},
		),
		AgentLatencySeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meeting_analysis_agent_latency_seconds",
				Help:    "Agent execution latency",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 15, 30, 60},
			},
			[]string{"agent"},
		),
		OrchestrationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_analysis_orchestrations_total",
				Help: "Total orchestrations by final state",
			},
			[]string{"state"},
		),
		StrategyOutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_analysis_strategy_outcomes_total",
				Help: "Strategy chain attempts by operation, strategy and outcome",
			},
			[]string{"operation", "strategy", "outcome"},
		),
		DistillerLatencySeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meeting_analysis_distiller_latency_seconds",
				Help:    "Distillation backend call latency",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 15, 30},
			},
			[]string{"backend", "model"},
		),
		DistillerCacheTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_analysis_distiller_cache_total",
				Help: "Distillation reply cache lookups",
			},
			[]string{"result"},
		),
		DroppedUtterancesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "meeting_analysis_dropped_utterances_total",
				Help: "Utterances that matched no topic",
			},
		),
	}
}

// RecordAgentRun records one agent execution.
func (m *AnalysisMetrics) RecordAgentRun(agent, status string, seconds float64) {
	if m == nil {
		return
	}
	m.AgentRunsTotal.WithLabelValues(agent, status).Inc()
	m.AgentLatencySeconds.WithLabelValues(agent).Observe(seconds)
}

// RecordOrchestration records the final state of an orchestration.
func (m *AnalysisMetrics) RecordOrchestration(state string) {
	if m == nil {
		return
	}
	m.OrchestrationsTotal.WithLabelValues(state).Inc()
}

// RecordStrategyOutcome records one attempt in a strategy chain.
func (m *AnalysisMetrics) RecordStrategyOutcome(operation, strategy, outcome string) {
	if m == nil {
		return
	}
	m.StrategyOutcomesTotal.WithLabelValues(operation, strategy, outcome).Inc()
}

// RecordDistillerLatency records a distillation backend call.
func (m *AnalysisMetrics) RecordDistillerLatency(backend, model string, seconds float64) {
	if m == nil {
		return
	}
	m.DistillerLatencySeconds.WithLabelValues(backend, model).Observe(seconds)
}

// RecordCacheLookup records a reply cache hit or miss.
func (m *AnalysisMetrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.DistillerCacheTotal.WithLabelValues(result).Inc()
}

// RecordDroppedUtterances adds to the dropped utterance counter.
func (m *AnalysisMetrics) RecordDroppedUtterances(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.DroppedUtterancesTotal.Add(float64(n))
}
