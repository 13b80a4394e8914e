package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/pkg/jobcontext"
	"github.com/johnquangdev/meeting-insights/pkg/telemetry"
)

// Polarity labels accepted from a backend
const (
	PolarityPositive  = "positive"
	PolarityNegative  = "negative"
	PolarityNeutral   = "neutral"
	PolarityUncertain = "uncertain"
)

// DefaultTimeout bounds a single distillation call
const DefaultTimeout = 15 * time.Second

// ErrNoInput is returned when there is nothing to send to the backend
var ErrNoInput = errors.New("distiller: nothing to distill")

// OpinionInput is one utterance sent for polarity classification
type OpinionInput struct {
	Speaker  string `json:"speaker"`
	Text     string `json:"text"`
	Polarity string `json:"polarity,omitempty"`
}

// OpinionLabel is the backend's polarity verdict for one input
type OpinionLabel struct {
	Index      int     `json:"index"`
	Polarity   string  `json:"polarity"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// DisagreementSummary is the backend's account of a disagreement
type DisagreementSummary struct {
	Dissenters      []string `json:"dissenters"`
	DisputedContent string   `json:"disputed_content"`
	Reasons         []string `json:"reasons"`
	Suggestions     string   `json:"suggestions"`
}

// Distiller turns short meeting texts into structured answers
type Distiller interface {
	Name() string
	// ExtractDecision returns the decision phrase in text. The raw reply may
	// be a "none" sentinel; callers decide what counts as no decision.
	ExtractDecision(ctx context.Context, text, language string) (string, error)
	ClassifyOpinions(ctx context.Context, opinions []OpinionInput, language string) ([]OpinionLabel, error)
	SummarizeDisagreement(ctx context.Context, topic string, opinions []OpinionInput, language string) (*DisagreementSummary, error)
}

// LLMDistiller implements Distiller on top of a ChatCompleter
type LLMDistiller struct {
	backend    ChatCompleter
	timeout    time.Duration
	maxRetries int
	logger     *zap.Logger
	metrics    *telemetry.AnalysisMetrics
	tracer     *telemetry.Tracer
}

// DistillerOption customizes an LLMDistiller
type DistillerOption func(*LLMDistiller)

// WithTimeout sets the per-call deadline
func WithTimeout(d time.Duration) DistillerOption {
	return func(l *LLMDistiller) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithMaxRetries enables retrying transient failures. Zero disables retries.
func WithMaxRetries(n int) DistillerOption {
	return func(l *LLMDistiller) {
		if n >= 0 {
			l.maxRetries = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) DistillerOption {
	return func(l *LLMDistiller) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithTelemetry sets metrics and tracer
func WithTelemetry(metrics *telemetry.AnalysisMetrics, tracer *telemetry.Tracer) DistillerOption {
	return func(l *LLMDistiller) {
		l.metrics = metrics
		l.tracer = tracer
	}
}

// NewLLMDistiller creates a distiller over backend
func NewLLMDistiller(backend ChatCompleter, opts ...DistillerOption) *LLMDistiller {
	l := &LLMDistiller{
		backend: backend,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name implements Distiller
func (l *LLMDistiller) Name() string {
	return l.backend.Backend()
}

// ExtractDecision implements Distiller
func (l *LLMDistiller) ExtractDecision(ctx context.Context, text, language string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNoInput
	}
	reply, err := l.complete(ctx, CompletionRequest{
		System:      decisionSystemPrompt,
		Prompt:      fmt.Sprintf(decisionUserPrompt, languageName(language), text),
		MaxTokens:   60,
		Temperature: 0.1,
	})
	if err != nil {
		return "", err
	}
	return firstLine(reply), nil
}

// ClassifyOpinions implements Distiller
func (l *LLMDistiller) ClassifyOpinions(ctx context.Context, opinions []OpinionInput, language string) ([]OpinionLabel, error) {
	if len(opinions) == 0 {
		return nil, ErrNoInput
	}

	var sb strings.Builder
	for i, op := range opinions {
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i, op.Speaker, op.Text)
	}

	reply, err := l.complete(ctx, CompletionRequest{
		System:      opinionSystemPrompt,
		Prompt:      fmt.Sprintf(opinionUserPrompt, languageName(language), sb.String()),
		MaxTokens:   120 + 60*len(opinions),
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	var labels []OpinionLabel
	if err := decodeJSON(reply, &labels); err != nil {
		return nil, err
	}
	return validateLabels(labels, len(opinions))
}

// SummarizeDisagreement implements Distiller
func (l *LLMDistiller) SummarizeDisagreement(ctx context.Context, topic string, opinions []OpinionInput, language string) (*DisagreementSummary, error) {
	if len(opinions) == 0 {
		return nil, ErrNoInput
	}

	var sb strings.Builder
	for _, op := range opinions {
		fmt.Fprintf(&sb, "- [%s] (%s) %s\n", op.Speaker, op.Polarity, op.Text)
	}

	reply, err := l.complete(ctx, CompletionRequest{
		System:      disagreementSystemPrompt,
		Prompt:      fmt.Sprintf(disagreementUserPrompt, languageName(language), topic, sb.String()),
		MaxTokens:   400,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, err
	}

	var summary DisagreementSummary
	if err := decodeJSON(reply, &summary); err != nil {
		return nil, err
	}
	if strings.TrimSpace(summary.DisputedContent) == "" && len(summary.Reasons) == 0 {
		return nil, fmt.Errorf("malformed reply: empty disagreement summary")
	}
	return &summary, nil
}

func (l *LLMDistiller) complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	ctx, span := l.tracer.StartLLMSpan(ctx, l.backend.Backend(), l.backend.Model())
	start := time.Now()

	var reply string
	call := func() error {
		out, err := l.backend.Complete(ctx, req)
		if err != nil {
			if !jobcontext.IsRetryableError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		reply = out
		return nil
	}

	var err error
	if l.maxRetries == 0 {
		err = call()
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		}
	} else {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = 500 * time.Millisecond
		bo.MaxInterval = 4 * time.Second
		bo.MaxElapsedTime = l.timeout
		err = backoff.Retry(call, backoff.WithMaxRetries(backoff.WithContext(bo, ctx), uint64(l.maxRetries)))
	}

	l.metrics.RecordDistillerLatency(l.backend.Backend(), l.backend.Model(), time.Since(start).Seconds())
	telemetry.EndSpan(span, err)

	if err != nil {
		l.logger.Warn("distiller call failed",
			zap.String("backend", l.backend.Backend()),
			zap.String("model", l.backend.Model()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return "", err
	}
	return reply, nil
}

func validateLabels(labels []OpinionLabel, n int) ([]OpinionLabel, error) {
	if len(labels) != n {
		return nil, fmt.Errorf("malformed reply: expected %d labels, got %d", n, len(labels))
	}
	out := make([]OpinionLabel, n)
	seen := make([]bool, n)
	for _, lb := range labels {
		if lb.Index < 0 || lb.Index >= n || seen[lb.Index] {
			return nil, fmt.Errorf("malformed reply: bad label index %d", lb.Index)
		}
		switch lb.Polarity {
		case PolarityPositive, PolarityNegative, PolarityNeutral, PolarityUncertain:
		default:
			return nil, fmt.Errorf("malformed reply: unknown polarity %q", lb.Polarity)
		}
		if lb.Confidence <= 0 || lb.Confidence > 1 {
			lb.Confidence = 0.8
		}
		seen[lb.Index] = true
		out[lb.Index] = lb
	}
	return out, nil
}
