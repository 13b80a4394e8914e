// Package analysis implements the meeting analysis pipeline: the speaker
// profiler, the agenda analyzer and the orchestrator that runs both.
package analysis

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/pkg/ai"
	"github.com/johnquangdev/meeting-insights/pkg/lexicon"
	"github.com/johnquangdev/meeting-insights/pkg/telemetry"
	"github.com/johnquangdev/meeting-insights/pkg/textsim"
	"github.com/johnquangdev/meeting-insights/pkg/validator"
)

// Resources is built once per process and shared by every agent. Agents only
// read it; Close releases what it holds.
type Resources struct {
	Lexicon    *lexicon.Lexicon
	Normalizer *textsim.Normalizer
	Validator  *validator.CustomValidator
	Logger     *zap.Logger
	Metrics    *telemetry.AnalysisMetrics
	Tracer     *telemetry.Tracer

	DecisionStrategies     []DecisionStrategy
	OpinionStrategies      []OpinionStrategy
	DisagreementStrategies []DisagreementStrategy

	closers []func() error
}

type resourceOptions struct {
	lex        *lexicon.Lexicon
	distillers []ai.Distiller
	logger     *zap.Logger
	metrics    *telemetry.AnalysisMetrics
	tracer     *telemetry.Tracer
	closers    []func() error
}

// Option configures NewResources
type Option func(*resourceOptions)

// WithLexicon selects the rule tables. English is used when unset.
func WithLexicon(l *lexicon.Lexicon) Option {
	return func(o *resourceOptions) { o.lex = l }
}

// WithDistillers puts distillation backends in front of the rule strategies,
// tried in the given order.
func WithDistillers(ds ...ai.Distiller) Option {
	return func(o *resourceOptions) {
		for _, d := range ds {
			if d != nil {
				o.distillers = append(o.distillers, d)
			}
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *resourceOptions) { o.logger = l }
}

// WithMetrics sets the metrics sink
func WithMetrics(m *telemetry.AnalysisMetrics) Option {
	return func(o *resourceOptions) { o.metrics = m }
}

// WithTracer sets the tracer
func WithTracer(t *telemetry.Tracer) Option {
	return func(o *resourceOptions) { o.tracer = t }
}

// WithCloser registers a release hook run by Close, e.g. a cache connection
func WithCloser(fn func() error) Option {
	return func(o *resourceOptions) {
		if fn != nil {
			o.closers = append(o.closers, fn)
		}
	}
}

// NewResources validates the lexicon and builds the strategy chains
func NewResources(opts ...Option) (*Resources, error) {
	o := &resourceOptions{}
	for _, opt := range opts {
		opt(o)
	}

	lex := o.lex
	if lex == nil {
		lex = lexicon.English()
	}
	if err := lex.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lexicon: %w", err)
	}

	logger := o.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Resources{
		Lexicon:    lex,
		Normalizer: textsim.NewNormalizer(lex.Stopwords, lex.StemSuffixes, lex.MinStemRunes),
		Validator:  validator.New(),
		Logger:     logger,
		Metrics:    o.metrics,
		Tracer:     o.tracer,
		closers:    o.closers,
	}

	for _, d := range o.distillers {
		r.DecisionStrategies = append(r.DecisionStrategies, &distillerDecisionStrategy{d: d, lex: lex})
		r.OpinionStrategies = append(r.OpinionStrategies, &distillerOpinionStrategy{d: d, lex: lex})
		r.DisagreementStrategies = append(r.DisagreementStrategies, &distillerDisagreementStrategy{d: d, lex: lex})
	}
	r.DecisionStrategies = append(r.DecisionStrategies, &ruleDecisionStrategy{lex: lex})
	r.OpinionStrategies = append(r.OpinionStrategies, &ruleOpinionStrategy{lex: lex})
	r.DisagreementStrategies = append(r.DisagreementStrategies, &ruleDisagreementStrategy{lex: lex})

	return r, nil
}

// Close runs the registered release hooks in reverse order
func (r *Resources) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
