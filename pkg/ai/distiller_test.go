package ai

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   int32
	prompts []CompletionRequest
	delay   time.Duration
}

func (f *fakeCompleter) Backend() string { return "fake" }
func (f *fakeCompleter) Model() string   { return "fake-model" }

func (f *fakeCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	n := int(atomic.AddInt32(&f.calls, 1)) - 1
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.prompts = append(f.prompts, req)
	f.mu.Unlock()
	if n < len(f.errs) && f.errs[n] != nil {
		return "", f.errs[n]
	}
	if n < len(f.replies) {
		return f.replies[n], nil
	}
	if len(f.replies) > 0 {
		return f.replies[len(f.replies)-1], nil
	}
	return "", errors.New("no reply configured")
}

func TestExtractDecision(t *testing.T) {
	fc := &fakeCompleter{replies: []string{"\"Hire two engineers\"\nextra commentary"}}
	d := NewLLMDistiller(fc)

	got, err := d.ExtractDecision(context.Background(), "We agreed to hire two engineers.", "en")
	require.NoError(t, err)
	assert.Equal(t, "Hire two engineers", got)
	assert.Contains(t, fc.prompts[0].Prompt, "Language: English")
	assert.Equal(t, "fake", d.Name())
}

func TestExtractDecisionEmptyInput(t *testing.T) {
	d := NewLLMDistiller(&fakeCompleter{})
	_, err := d.ExtractDecision(context.Background(), "  ", "en")
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestClassifyOpinions(t *testing.T) {
	fc := &fakeCompleter{replies: []string{"```json\n[{\"index\":1,\"polarity\":\"negative\",\"confidence\":0.7,\"reason\":\"cost\"},{\"index\":0,\"polarity\":\"positive\",\"confidence\":0}]\n```"}}
	d := NewLLMDistiller(fc)

	labels, err := d.ClassifyOpinions(context.Background(), []OpinionInput{
		{Speaker: "A", Text: "Great idea"},
		{Speaker: "B", Text: "Too expensive"},
	}, "ko")
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, PolarityPositive, labels[0].Polarity)
	assert.Equal(t, 0.8, labels[0].Confidence)
	assert.Equal(t, PolarityNegative, labels[1].Polarity)
	assert.Contains(t, fc.prompts[0].Prompt, "Korean")
}

func TestClassifyOpinionsRejectsMalformedReply(t *testing.T) {
	cases := []string{
		"I think they all agree",
		`[{"index":0,"polarity":"positive"}]`,
		`[{"index":0,"polarity":"happy"},{"index":1,"polarity":"negative"}]`,
		`[{"index":0,"polarity":"positive"},{"index":0,"polarity":"negative"}]`,
	}
	for _, reply := range cases {
		d := NewLLMDistiller(&fakeCompleter{replies: []string{reply}})
		_, err := d.ClassifyOpinions(context.Background(), []OpinionInput{{Text: "a"}, {Text: "b"}}, "en")
		assert.Error(t, err, reply)
	}
}

func TestSummarizeDisagreement(t *testing.T) {
	fc := &fakeCompleter{replies: []string{`Here you go: {"dissenters":["B"],"disputed_content":"vendor choice","reasons":["cost"],"suggestions":"compare quotes"}`}}
	d := NewLLMDistiller(fc)

	s, err := d.SummarizeDisagreement(context.Background(), "Budget", []OpinionInput{{Speaker: "B", Text: "Too expensive", Polarity: "negative"}}, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, s.Dissenters)
	assert.Equal(t, "vendor choice", s.DisputedContent)
	assert.Equal(t, "compare quotes", s.Suggestions)

	_, err = d.SummarizeDisagreement(context.Background(), "Budget", nil, "en")
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestNoRetriesByDefault(t *testing.T) {
	fc := &fakeCompleter{errs: []error{errors.New("groq returned status 503")}, replies: []string{"", "ok"}}
	d := NewLLMDistiller(fc)

	_, err := d.ExtractDecision(context.Background(), "decide", "en")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fc.calls))
}

func TestRetriesTransientErrors(t *testing.T) {
	fc := &fakeCompleter{errs: []error{errors.New("groq returned status 503")}, replies: []string{"", "ok"}}
	d := NewLLMDistiller(fc, WithMaxRetries(2), WithTimeout(5*time.Second))

	got, err := d.ExtractDecision(context.Background(), "decide", "en")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&fc.calls))
}

func TestDoesNotRetryPermanentErrors(t *testing.T) {
	fc := &fakeCompleter{errs: []error{errors.New("groq returned status 401"), nil}, replies: []string{"", "ok"}}
	d := NewLLMDistiller(fc, WithMaxRetries(3))

	_, err := d.ExtractDecision(context.Background(), "decide", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int32(1), atomic.LoadInt32(&fc.calls))
}

func TestTimeoutBoundsCall(t *testing.T) {
	blocking := &blockingCompleter{}
	d := NewLLMDistiller(blocking, WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := d.ExtractDecision(context.Background(), "decide", "en")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

type blockingCompleter struct{}

func (blockingCompleter) Backend() string { return "blocking" }
func (blockingCompleter) Model() string   { return "m" }
func (blockingCompleter) Complete(ctx context.Context, _ CompletionRequest) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `[1,2]`, extractJSON("Sure! [1,2] hope this helps"))
	assert.Equal(t, "", extractJSON("no payload"))
}
