package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-insights/pkg/ai"
)

var _ ai.Store = (*MemoryStore)(nil)
var _ ai.Store = (*RedisStore)(nil)

func TestMemoryStoreExpiry(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()

	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	ms.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, ms.Set(ctx, "short", "a", time.Minute))
	require.NoError(t, ms.Set(ctx, "forever", "b", 0))

	v, ok, err := ms.Get(ctx, "short")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	now = now.Add(2 * time.Minute)
	_, ok, _ = ms.Get(ctx, "short")
	assert.False(t, ok)
	v, ok, _ = ms.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	ms.removeExpired()
	assert.Equal(t, 1, ms.Len())

	ms.Delete("forever")
	_, ok, _ = ms.Get(ctx, "forever")
	assert.False(t, ok)
}

func TestMemoryStoreBacksCachedCompleter(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()

	backend := &countingCompleter{reply: "hire two engineers"}
	cc := ai.NewCachedCompleter(backend, ms, time.Hour, nil, nil)

	for i := 0; i < 3; i++ {
		reply, err := cc.Complete(context.Background(), ai.CompletionRequest{Prompt: "decide"})
		require.NoError(t, err)
		assert.Equal(t, "hire two engineers", reply)
	}
	assert.Equal(t, 1, backend.calls)
	assert.NoError(t, ms.Close())
}

type countingCompleter struct {
	reply string
	calls int
}

func (c *countingCompleter) Backend() string { return "counting" }
func (c *countingCompleter) Model() string   { return "m" }
func (c *countingCompleter) Complete(context.Context, ai.CompletionRequest) (string, error) {
	c.calls++
	return c.reply, nil
}
