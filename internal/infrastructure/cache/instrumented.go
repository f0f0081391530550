package cache

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/aniketri/real-insights-data/internal/domain/port"
)

// Metrics counts cache outcomes per backend.
type Metrics struct {
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	evictions     metric.Int64Counter
	invalidations metric.Int64Counter
}

// NewMetrics registers the cache counters on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	hits, err := meter.Int64Counter("insights.cache.hits", metric.WithDescription("Result cache hits"))
	if err != nil {
		return nil, fmt.Errorf("create hits counter: %w", err)
	}
	misses, err := meter.Int64Counter("insights.cache.misses", metric.WithDescription("Result cache misses"))
	if err != nil {
		return nil, fmt.Errorf("create misses counter: %w", err)
	}
	evictions, err := meter.Int64Counter("insights.cache.evictions", metric.WithDescription("Entries evicted to respect the size ceiling"))
	if err != nil {
		return nil, fmt.Errorf("create evictions counter: %w", err)
	}
	invalidations, err := meter.Int64Counter("insights.cache.invalidations", metric.WithDescription("Prefix invalidations"))
	if err != nil {
		return nil, fmt.Errorf("create invalidations counter: %w", err)
	}
	return &Metrics{hits: hits, misses: misses, evictions: evictions, invalidations: invalidations}, nil
}

// RecordEviction is suitable as MemoryOptions.OnEvict.
func (m *Metrics) RecordEviction(string) {
	m.evictions.Add(context.Background(), 1, metric.WithAttributes(attribute.String("backend", "memory")))
}

// Instrumented decorates a ResultCache with hit, miss and invalidation counters.
type Instrumented struct {
	next    port.ResultCache
	metrics *Metrics
	attrs   metric.MeasurementOption
}

// NewInstrumented wraps next; backend labels the measurements.
func NewInstrumented(next port.ResultCache, metrics *Metrics, backend string) *Instrumented {
	return &Instrumented{
		next:    next,
		metrics: metrics,
		attrs:   metric.WithAttributes(attribute.String("backend", backend)),
	}
}

func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool) {
	v, ok := c.next.Get(ctx, key)
	if ok {
		c.metrics.hits.Add(ctx, 1, c.attrs)
	} else {
		c.metrics.misses.Add(ctx, 1, c.attrs)
	}
	return v, ok
}

func (c *Instrumented) Put(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.next.Put(ctx, key, value, ttl)
}

func (c *Instrumented) Invalidate(ctx context.Context, prefix string) {
	c.next.Invalidate(ctx, prefix)
	c.metrics.invalidations.Add(ctx, 1, c.attrs)
}
