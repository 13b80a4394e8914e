package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/ai"
	"github.com/johnquangdev/meeting-insights/pkg/lexicon"
	"github.com/johnquangdev/meeting-insights/pkg/telemetry"
)

// ErrTryNext tells the chain to move on without treating it as a failure
var ErrTryNext = errors.New("strategy: try next")

// Strategy operation names, used in logs and metrics
const (
	OpExtractDecision  = "extract_decision"
	OpClassifyOpinions = "classify_opinions"
	OpDisagreement     = "summarize_disagreement"
)

// RuleStrategyName names the deterministic local strategies
const RuleStrategyName = "rules"

// Strategy outcome labels
const (
	outcomeSuccess     = "success"
	outcomeFallthrough = "fallthrough"
)

type namedStrategy interface {
	Name() string
	// Source is entities.SourceRules or entities.SourceDistilled
	Source() string
}

// DecisionStrategy extracts the core decision phrase of an utterance.
// An empty string with a nil error means the utterance holds no decision.
type DecisionStrategy interface {
	namedStrategy
	ExtractDecision(ctx context.Context, text string) (string, error)
}

// OpinionStrategy assigns a polarity to every opinion. The returned slice
// has the same length and order as the input.
type OpinionStrategy interface {
	namedStrategy
	Classify(ctx context.Context, opinions []entities.OpinionRecord) ([]entities.OpinionRecord, error)
}

// DisagreementStrategy describes the dissent behind a topic's negative opinions
type DisagreementStrategy interface {
	namedStrategy
	Summarize(ctx context.Context, topic string, negatives []entities.OpinionRecord) (*entities.DisagreementDetails, error)
}

// runChain tries each strategy in order and returns the first result. Any
// error moves on to the next strategy; the rule strategies at the end of
// every chain never fail.
func runChain[S namedStrategy, T any](ctx context.Context, r *Resources, operation string, chain []S, call func(context.Context, S) (T, error)) (T, S, error) {
	var (
		zero    T
		none    S
		lastErr error
	)
	for _, s := range chain {
		sctx, span := r.Tracer.StartStrategySpan(ctx, operation, s.Name())
		out, err := call(sctx, s)
		telemetry.EndSpan(span, err)
		if err == nil {
			r.Metrics.RecordStrategyOutcome(operation, s.Name(), outcomeSuccess)
			return out, s, nil
		}

		lastErr = err
		r.Metrics.RecordStrategyOutcome(operation, s.Name(), outcomeFallthrough)
		if !errors.Is(err, ErrTryNext) {
			r.Logger.Warn("strategy failed, falling back",
				zap.String("operation", operation),
				zap.String("strategy", s.Name()),
				zap.Error(err),
			)
		}
	}
	if lastErr == nil {
		lastErr = errors.New("empty strategy chain")
	}
	return zero, none, fmt.Errorf("%s: %w", operation, lastErr)
}

func distillerName(d ai.Distiller) string {
	return "distiller:" + d.Name()
}

type distillerDecisionStrategy struct {
	d   ai.Distiller
	lex *lexicon.Lexicon
}

func (s *distillerDecisionStrategy) Name() string   { return distillerName(s.d) }
func (s *distillerDecisionStrategy) Source() string { return entities.SourceDistilled }

func (s *distillerDecisionStrategy) ExtractDecision(ctx context.Context, text string) (string, error) {
	reply, err := s.d.ExtractDecision(ctx, text, s.lex.Language)
	if err != nil {
		if errors.Is(err, ai.ErrNoInput) {
			return "", ErrTryNext
		}
		return "", err
	}
	if s.lex.IsNoDecision(reply) {
		return "", nil
	}
	return cleanDecision(s.lex, reply), nil
}

type ruleDecisionStrategy struct {
	lex *lexicon.Lexicon
}

func (s *ruleDecisionStrategy) Name() string   { return RuleStrategyName }
func (s *ruleDecisionStrategy) Source() string { return entities.SourceRules }

func (s *ruleDecisionStrategy) ExtractDecision(_ context.Context, text string) (string, error) {
	return extractRuleDecision(s.lex, text), nil
}

type distillerOpinionStrategy struct {
	d   ai.Distiller
	lex *lexicon.Lexicon
}

func (s *distillerOpinionStrategy) Name() string   { return distillerName(s.d) }
func (s *distillerOpinionStrategy) Source() string { return entities.SourceDistilled }

func (s *distillerOpinionStrategy) Classify(ctx context.Context, opinions []entities.OpinionRecord) ([]entities.OpinionRecord, error) {
	labels, err := s.d.ClassifyOpinions(ctx, toOpinionInputs(opinions), s.lex.Language)
	if err != nil {
		if errors.Is(err, ai.ErrNoInput) {
			return nil, ErrTryNext
		}
		return nil, err
	}
	if len(labels) != len(opinions) {
		return nil, fmt.Errorf("distiller returned %d labels for %d opinions", len(labels), len(opinions))
	}

	out := make([]entities.OpinionRecord, len(opinions))
	for i, op := range opinions {
		op.Polarity = entities.Polarity(labels[i].Polarity)
		op.Confidence = labels[i].Confidence
		op.Reason = labels[i].Reason
		out[i] = op
	}
	return out, nil
}

type ruleOpinionStrategy struct {
	lex *lexicon.Lexicon
}

func (s *ruleOpinionStrategy) Name() string   { return RuleStrategyName }
func (s *ruleOpinionStrategy) Source() string { return entities.SourceRules }

func (s *ruleOpinionStrategy) Classify(_ context.Context, opinions []entities.OpinionRecord) ([]entities.OpinionRecord, error) {
	out := make([]entities.OpinionRecord, len(opinions))
	for i, op := range opinions {
		op.Polarity, op.Reason = classifyPolarity(s.lex, op.Text)
		op.Confidence = ruleOpinionConfidence
		out[i] = op
	}
	return out, nil
}

type distillerDisagreementStrategy struct {
	d   ai.Distiller
	lex *lexicon.Lexicon
}

func (s *distillerDisagreementStrategy) Name() string   { return distillerName(s.d) }
func (s *distillerDisagreementStrategy) Source() string { return entities.SourceDistilled }

func (s *distillerDisagreementStrategy) Summarize(ctx context.Context, topic string, negatives []entities.OpinionRecord) (*entities.DisagreementDetails, error) {
	summary, err := s.d.SummarizeDisagreement(ctx, topic, toOpinionInputs(negatives), s.lex.Language)
	if err != nil {
		if errors.Is(err, ai.ErrNoInput) {
			return nil, ErrTryNext
		}
		return nil, err
	}

	reasonText := strings.Join(append(opinionTexts(negatives), summary.Reasons...), " ") + " " + summary.DisputedContent
	return &entities.DisagreementDetails{
		Dissenters:      dissenters(negatives),
		DisputedContent: strings.TrimSpace(summary.DisputedContent),
		Reasons:         matchReasons(s.lex, reasonText),
		Suggestions:     strings.TrimSpace(summary.Suggestions),
		AnalysisQuality: entities.SourceDistilled,
	}, nil
}

type ruleDisagreementStrategy struct {
	lex *lexicon.Lexicon
}

func (s *ruleDisagreementStrategy) Name() string   { return RuleStrategyName }
func (s *ruleDisagreementStrategy) Source() string { return entities.SourceRules }

func (s *ruleDisagreementStrategy) Summarize(_ context.Context, _ string, negatives []entities.OpinionRecord) (*entities.DisagreementDetails, error) {
	content := strings.Join(opinionTexts(negatives), " ")
	return &entities.DisagreementDetails{
		Dissenters:      dissenters(negatives),
		DisputedContent: content,
		Reasons:         matchReasons(s.lex, content),
		AnalysisQuality: entities.SourceRules,
	}, nil
}

func toOpinionInputs(opinions []entities.OpinionRecord) []ai.OpinionInput {
	out := make([]ai.OpinionInput, len(opinions))
	for i, op := range opinions {
		out[i] = ai.OpinionInput{Speaker: op.Speaker, Text: op.Text, Polarity: string(op.Polarity)}
	}
	return out
}

func opinionTexts(opinions []entities.OpinionRecord) []string {
	out := make([]string, 0, len(opinions))
	for _, op := range opinions {
		out = append(out, op.Text)
	}
	return out
}

// dissenters returns the distinct speakers in first-appearance order
func dissenters(negatives []entities.OpinionRecord) []string {
	seen := make(map[string]struct{}, len(negatives))
	out := make([]string, 0, len(negatives))
	for _, op := range negatives {
		if _, ok := seen[op.Speaker]; ok {
			continue
		}
		seen[op.Speaker] = struct{}{}
		out = append(out, op.Speaker)
	}
	return out
}

// matchReasons maps text onto the reason taxonomy, in taxonomy order
func matchReasons(lex *lexicon.Lexicon, text string) []string {
	var reasons []string
	for _, cat := range lex.DisagreementReasons {
		if lex.ContainsAny(text, cat.Keywords) {
			reasons = append(reasons, cat.Name)
		}
	}
	if len(reasons) == 0 {
		return []string{lex.ReasonUnspecified}
	}
	return reasons
}
