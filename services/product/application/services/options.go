package services

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	pkgcache "github.com/ghuser/pantry/pkg/cache"
	"github.com/ghuser/pantry/pkg/logger"
	"github.com/ghuser/pantry/pkg/telemetry"
)

// EntryCache is the read model a service keeps in step with writes.
// *cache.CatalogCache satisfies it; Get returns redis.Nil on a miss.
// Delete bumps the generation, and SetIfGeneration refuses to write once the
// generation moved past the one read before loading the row.
type EntryCache interface {
	Get(ctx context.Context, id uuid.UUID) (*pkgcache.CachedEntry, error)
	Generation(ctx context.Context, id uuid.UUID) (int64, error)
	SetIfGeneration(ctx context.Context, e *pkgcache.CachedEntry, gen int64) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Option configures optional collaborators of ProductService and MeasureService.
type Option func(*options)

type options struct {
	cache    EntryCache
	commands *telemetry.CommandCounter
}

// WithCache enables the read-through cache.
func WithCache(c EntryCache) Option {
	return func(o *options) { o.cache = c }
}

// WithCommandCounter records every command on c.
func WithCommandCounter(c *telemetry.CommandCounter) Option {
	return func(o *options) { o.commands = c }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// instrumented wraps commands in a span and a catalog.commands count.
type instrumented struct {
	commands *telemetry.CommandCounter
	log      logger.Logger
}

func (in instrumented) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return telemetry.Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

func (in instrumented) finish(ctx context.Context, span trace.Span, command string, err error) {
	in.commands.Record(ctx, command, err)
	if err != nil {
		span.RecordError(err)
		if telemetry.Outcome(err) == telemetry.OutcomeFailed {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}

// generation reads the invalidation counter of id ahead of a repository read.
// ok is false when the warm must be skipped.
func (in instrumented) generation(ctx context.Context, c EntryCache, id uuid.UUID) (gen int64, ok bool) {
	gen, err := c.Generation(ctx, id)
	if err != nil {
		in.log.WarnContext(ctx, "cache generation read failed", "id", id, "error", err)
		return 0, false
	}
	return gen, true
}

// warm writes e to the cache in the background, unless e.ID was invalidated
// after gen was read.
func (in instrumented) warm(ctx context.Context, c EntryCache, e *pkgcache.CachedEntry, gen int64) {
	go func() {
		written, err := c.SetIfGeneration(context.WithoutCancel(ctx), e, gen)
		switch {
		case err != nil:
			in.log.WarnContext(ctx, "cache warm failed", "id", e.ID, "error", err)
		case !written:
			in.log.DebugContext(ctx, "cache warm skipped, entry invalidated", "id", e.ID)
		}
	}()
}

func (in instrumented) invalidate(ctx context.Context, c EntryCache, id uuid.UUID) {
	if c == nil {
		return
	}
	if err := c.Delete(context.WithoutCancel(ctx), id); err != nil {
		in.log.WarnContext(ctx, "cache invalidation failed", "id", id, "error", err)
	}
}
