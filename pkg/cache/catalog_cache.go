package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CatalogCacheTTL is the time-to-live for cached catalog entries.
const CatalogCacheTTL = 24 * time.Hour

// CachedEntry is the denormalized read model of one catalog entry (an item,
// product or measure) stored as a Redis hash. ShortName is set for measures only.
type CachedEntry struct {
	ID            uuid.UUID
	Name          string
	ShortName     string
	MeasureTypeID int
	MeasureType   string
	IsArchive     bool
	CreatedAt     time.Time
}

// CatalogCache reads and writes catalog entries of one bounded context.
// Key format: "catalog:{namespace}:{id}", e.g. "catalog:item:3f0c…", with
// the invalidation counter at "catalog:{namespace}:{id}:gen".
type CatalogCache struct {
	client    *RedisClient
	namespace string
}

// NewCatalogCache returns a cache for the given namespace ("item", "product", "measure").
func NewCatalogCache(r *RedisClient, namespace string) *CatalogCache {
	return &CatalogCache{client: r, namespace: namespace}
}

// Get retrieves a cached entry by id.
// Returns redis.Nil when the key does not exist or has expired.
func (c *CatalogCache) Get(ctx context.Context, id uuid.UUID) (*CachedEntry, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	return decodeEntry(vals)
}

// Generation returns the invalidation counter of id. It is 0 until the first
// Delete. Read it before loading the row that SetIfGeneration will write.
func (c *CatalogCache) Generation(ctx context.Context, id uuid.UUID) (int64, error) {
	gen, err := c.client.Client().Get(ctx, c.generationKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache generation: %w", err)
	}
	return gen, nil
}

// setIfGeneration replaces the hash in KEYS[1] only while the counter in
// KEYS[2] still equals ARGV[1]. ARGV[2] is the TTL in seconds, the rest are
// field/value pairs.
var setIfGeneration = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[2]) or '0')
if current ~= tonumber(ARGV[1]) then
  return 0
end
redis.call('DEL', KEYS[1])
redis.call('HSET', KEYS[1], unpack(ARGV, 3))
redis.call('EXPIRE', KEYS[1], ARGV[2])
return 1
`)

// SetIfGeneration writes e with CatalogCacheTTL unless id was invalidated
// since gen was read. It reports whether the entry was written.
func (c *CatalogCache) SetIfGeneration(ctx context.Context, e *CachedEntry, gen int64) (bool, error) {
	fields := encodeEntry(e)
	args := make([]any, 0, 2+2*len(fields))
	args = append(args, gen, int64(CatalogCacheTTL/time.Second))
	for k, v := range fields {
		args = append(args, k, v)
	}
	written, err := setIfGeneration.Run(ctx, c.client.Client(),
		[]string{c.key(e.ID), c.generationKey(e.ID)}, args...).Int()
	if err != nil {
		return false, fmt.Errorf("cache set: %w", err)
	}
	return written == 1, nil
}

// Delete removes an entry and bumps its generation, so warms that loaded the
// row before this call are discarded. Deleting a missing key is not an error.
func (c *CatalogCache) Delete(ctx context.Context, id uuid.UUID) error {
	genKey := c.generationKey(id)
	pipe := c.client.Client().TxPipeline()
	pipe.Del(ctx, c.key(id))
	pipe.Incr(ctx, genKey)
	pipe.Expire(ctx, genKey, CatalogCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func (c *CatalogCache) key(id uuid.UUID) string {
	return fmt.Sprintf("catalog:%s:%s", c.namespace, id)
}

func (c *CatalogCache) generationKey(id uuid.UUID) string {
	return c.key(id) + ":gen"
}

func encodeEntry(e *CachedEntry) map[string]any {
	fields := map[string]any{
		"id":              e.ID.String(),
		"name":            e.Name,
		"measure_type_id": strconv.Itoa(e.MeasureTypeID),
		"measure_type":    e.MeasureType,
		"is_archive":      strconv.FormatBool(e.IsArchive),
	}
	if e.ShortName != "" {
		fields["short_name"] = e.ShortName
	}
	if !e.CreatedAt.IsZero() {
		fields["created_at"] = e.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return fields
}

func decodeEntry(vals map[string]string) (*CachedEntry, error) {
	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	mtID, err := strconv.Atoi(vals["measure_type_id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse measure_type_id: %w", err)
	}
	archived, err := strconv.ParseBool(vals["is_archive"])
	if err != nil {
		return nil, fmt.Errorf("cache parse is_archive: %w", err)
	}
	var createdAt time.Time
	if raw, ok := vals["created_at"]; ok {
		if createdAt, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return nil, fmt.Errorf("cache parse created_at: %w", err)
		}
	}
	return &CachedEntry{
		ID:            id,
		Name:          vals["name"],
		ShortName:     vals["short_name"],
		MeasureTypeID: mtID,
		MeasureType:   vals["measure_type"],
		IsArchive:     archived,
		CreatedAt:     createdAt,
	}, nil
}
