package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/johnquangdev/meeting-insights/pkg/telemetry"
)

// Store is the key-value backend used to cache backend replies
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedCompleter memoizes replies of another ChatCompleter. Identical
// prompts in flight at the same time share one backend call.
type CachedCompleter struct {
	next    ChatCompleter
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	logger  *zap.Logger
	metrics *telemetry.AnalysisMetrics
}

// NewCachedCompleter wraps next with a reply cache
func NewCachedCompleter(next ChatCompleter, store Store, ttl time.Duration, logger *zap.Logger, metrics *telemetry.AnalysisMetrics) *CachedCompleter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCompleter{
		next:    next,
		store:   store,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

// Backend implements ChatCompleter
func (c *CachedCompleter) Backend() string { return c.next.Backend() }

// Model implements ChatCompleter
func (c *CachedCompleter) Model() string { return c.next.Model() }

// Complete implements ChatCompleter
func (c *CachedCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	key := c.cacheKey(req)

	cached, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("distiller cache read failed", zap.String("backend", c.Backend()), zap.Error(err))
	} else if ok {
		c.metrics.RecordCacheLookup(true)
		return cached, nil
	}
	c.metrics.RecordCacheLookup(false)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		reply, err := c.next.Complete(ctx, req)
		if err != nil {
			return "", err
		}
		if err := c.store.Set(ctx, key, reply, c.ttl); err != nil {
			c.logger.Warn("distiller cache write failed", zap.String("backend", c.Backend()), zap.Error(err))
		}
		return reply, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *CachedCompleter) cacheKey(req CompletionRequest) string {
	h := sha256.New()
	h.Write([]byte(c.next.Backend()))
	h.Write([]byte{0})
	h.Write([]byte(c.next.Model()))
	h.Write([]byte{0})
	h.Write([]byte(req.System))
	h.Write([]byte{0})
	h.Write([]byte(req.Prompt))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(req.MaxTokens)))
	return "distill:" + hex.EncodeToString(h.Sum(nil))
}
