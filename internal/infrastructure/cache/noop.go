package cache

import (
	"context"
	"time"
)

// NoopCache stores nothing; every Get is a miss.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (NoopCache) Put(context.Context, string, []byte, time.Duration) {}
func (NoopCache) Invalidate(context.Context, string)                 {}
