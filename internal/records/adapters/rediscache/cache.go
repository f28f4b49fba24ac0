package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	analyticsdomain "market-insights-service/internal/analytics/core/domain"
	analyticsports "market-insights-service/internal/analytics/core/ports"
	"market-insights-service/internal/records/core/domain"
	"market-insights-service/internal/records/core/ports"
)

// Client is the subset of *redis.Client the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Options struct {
	Prefix string        // key namespace, default "market"
	TTL    time.Duration // default 10m
	Logger *log.Logger
}

// Reader is a read-through cache in front of a record reader. Redis
// failures are logged and the source is used instead.
type Reader struct {
	client Client
	source analyticsports.RecordReaderPort
	prefix string
	ttl    time.Duration
	log    *log.Logger

	// zones whose availability window may be cached
	mu    sync.Mutex
	zones map[string]struct{}
}

var _ analyticsports.RecordReaderPort = (*Reader)(nil)

func NewReader(client Client, source analyticsports.RecordReaderPort, opts Options) *Reader {
	if opts.Prefix == "" {
		opts.Prefix = "market"
	}
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &Reader{
		client: client,
		source: source,
		prefix: opts.Prefix,
		ttl:    opts.TTL,
		log:    opts.Logger,
		zones:  make(map[string]struct{}),
	}
}

func periodKey(prefix, period string) string { return prefix + ":records:" + period }
func availableKey(prefix, zone string) string { return prefix + ":available:" + zone }

func (c *Reader) GetRecords(ctx context.Context, period string) ([]domain.Record, error) {
	key := periodKey(c.prefix, period)

	var recs []domain.Record
	if c.load(ctx, key, &recs) {
		return recs, nil
	}

	recs, err := c.source.GetRecords(ctx, period)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, recs)
	return recs, nil
}

type cachedRange struct {
	Empty bool   `json:"empty"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// AvailableRange caches the window per zone name of loc.
func (c *Reader) AvailableRange(ctx context.Context, loc *time.Location) (*analyticsdomain.DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	key := availableKey(c.prefix, loc.String())
	c.mu.Lock()
	c.zones[loc.String()] = struct{}{}
	c.mu.Unlock()

	var cached cachedRange
	if c.load(ctx, key, &cached) {
		if cached.Empty {
			return nil, nil
		}
		r, err := analyticsdomain.NewDateRange(cached.Start, cached.End)
		if err == nil {
			return &r, nil
		}
		c.log.Printf("rediscache: bad cached range %q: %v", key, err)
	}

	r, err := c.source.AvailableRange(ctx, loc)
	if err != nil {
		return nil, err
	}

	v := cachedRange{Empty: r == nil}
	if r != nil {
		v.Start = r.Start.Format(analyticsdomain.DateLayout)
		v.End = r.End.Format(analyticsdomain.DateLayout)
	}
	c.store(ctx, key, v)
	return r, nil
}

// Invalidate drops the cached periods and every availability window this
// reader has served.
func (c *Reader) Invalidate(ctx context.Context, periods ...string) error {
	var keys []string
	c.mu.Lock()
	for zone := range c.zones {
		keys = append(keys, availableKey(c.prefix, zone))
	}
	c.mu.Unlock()
	for _, p := range periods {
		keys = append(keys, periodKey(c.prefix, p))
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *Reader) load(ctx context.Context, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Printf("rediscache: get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Printf("rediscache: decode %s: %v", key, err)
		return false
	}
	return true
}

func (c *Reader) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Printf("rediscache: encode %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Printf("rediscache: set %s: %v", key, err)
	}
}

// Writer invalidates cached months as new records are stored.
type Writer struct {
	repo  ports.RecordRepositoryPort
	cache *Reader
}

var _ ports.RecordRepositoryPort = (*Writer)(nil)

func NewWriter(repo ports.RecordRepositoryPort, cache *Reader) *Writer {
	return &Writer{repo: repo, cache: cache}
}

func (w *Writer) InsertRecord(ctx context.Context, r *domain.Record) (bool, error) {
	created, err := w.repo.InsertRecord(ctx, r)
	if err != nil || !created {
		return created, err
	}
	if err := w.cache.Invalidate(ctx, r.Period); err != nil {
		w.cache.log.Printf("rediscache: invalidate %s: %v", r.Period, err)
	}
	return true, nil
}
