package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBeginCarriesMetadata(t *testing.T) {
	runID := uuid.New()
	ctx, cancel := RunBegin(context.Background(), runID, "m-1", time.Second)
	defer cancel()
	ctx = WithAgent(ctx, "speaker_analysis")

	md := GetRunMetadata(ctx)
	assert.Equal(t, runID, md.RunID)
	assert.Equal(t, "m-1", md.MeetingID)
	assert.Equal(t, "speaker_analysis", md.Agent)
	assert.False(t, md.StartTime.IsZero())

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
}

func TestRunRecoversPanic(t *testing.T) {
	err := Run(context.Background(), func(context.Context) error {
		panic("boom")
	})
	require.Error(t, err)

	var pe *PanicError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "boom", pe.Value)
	assert.NotEmpty(t, pe.Stack)
}

func TestRunSkipsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := Run(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestRetryClassification(t *testing.T) {
	assert.True(t, IsRetryableError(fmt.Errorf("groq returned status 503")))
	assert.True(t, IsRetryableError(context.DeadlineExceeded))
	assert.True(t, IsRetryableError(errors.New("429 Too Many Requests")))
	assert.False(t, IsRetryableError(errors.New("groq returned status 401")))
	assert.False(t, IsRetryableError(nil))

	assert.True(t, IsNonRetryableError(errors.New("groq returned status 401")))
	assert.True(t, IsNonRetryableError(errors.New("malformed reply")))
	assert.False(t, IsNonRetryableError(errors.New("connection reset by peer")))
}
