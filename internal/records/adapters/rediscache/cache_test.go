package rediscache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyticsdomain "market-insights-service/internal/analytics/core/domain"
	"market-insights-service/internal/records/core/domain"
)

// fakeClient is an in-memory stand-in for *redis.Client.
type fakeClient struct {
	data    map[string]string
	ttls    map[string]time.Duration
	deleted []string
	getErr  error
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeClient) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.data, k)
	}
	f.deleted = append(f.deleted, keys...)
	return redis.NewIntResult(int64(len(keys)), nil)
}

// fakeSource counts calls to the wrapped reader.
type fakeSource struct {
	records   map[string][]domain.Record
	available *analyticsdomain.DateRange
	getCalls  int
	avCalls   int
	zones     []string
	err       error
}

func (f *fakeSource) GetRecords(ctx context.Context, period string) ([]domain.Record, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records[period], nil
}

func (f *fakeSource) AvailableRange(ctx context.Context, loc *time.Location) (*analyticsdomain.DateRange, error) {
	f.avCalls++
	f.zones = append(f.zones, loc.String())
	return f.available, f.err
}

func TestReader_ReadThrough(t *testing.T) {
	client := newFakeClient()
	source := &fakeSource{records: map[string][]domain.Record{
		"2024-05": {{Timestamp: "2024-05-01T10:00:00Z", Attributes: map[string]string{"channel": "as4"}}},
	}}
	cache := NewReader(client, source, Options{TTL: time.Minute})

	first, err := cache.GetRecords(context.Background(), "2024-05")
	require.NoError(t, err)
	second, err := cache.GetRecords(context.Background(), "2024-05")
	require.NoError(t, err)

	assert.Equal(t, 1, source.getCalls, "second read should be served from redis")
	assert.Equal(t, first, second)
	assert.Equal(t, time.Minute, client.ttls["market:records:2024-05"])
}

func TestReader_RedisDownFallsThrough(t *testing.T) {
	client := newFakeClient()
	client.getErr = errors.New("connection refused")
	source := &fakeSource{records: map[string][]domain.Record{"2024-05": {{Timestamp: "2024-05-01"}}}}
	cache := NewReader(client, source, Options{})

	recs, err := cache.GetRecords(context.Background(), "2024-05")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, 1, source.getCalls)
}

func TestReader_CorruptEntryFallsThrough(t *testing.T) {
	client := newFakeClient()
	client.data["market:records:2024-05"] = "{not json"
	source := &fakeSource{records: map[string][]domain.Record{"2024-05": {{Timestamp: "2024-05-01"}}}}

	recs, err := NewReader(client, source, Options{}).GetRecords(context.Background(), "2024-05")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestReader_SourceErrorNotCached(t *testing.T) {
	client := newFakeClient()
	source := &fakeSource{err: errors.New("db down")}

	_, err := NewReader(client, source, Options{}).GetRecords(context.Background(), "2024-05")
	require.Error(t, err)
	assert.Empty(t, client.data)
}

func TestReader_AvailableRange(t *testing.T) {
	rng, err := analyticsdomain.NewDateRange("2024-01-01", "2024-06-01")
	require.NoError(t, err)

	client := newFakeClient()
	source := &fakeSource{available: &rng}
	cache := NewReader(client, source, Options{Prefix: "test"})

	for i := 0; i < 3; i++ {
		got, err := cache.AvailableRange(context.Background(), time.UTC)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, rng.String(), got.String())
	}
	assert.Equal(t, 1, source.avCalls)
	assert.Contains(t, client.data, "test:available:UTC")
}

func TestReader_AvailableRange_CachedPerZone(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	rng, err := analyticsdomain.NewDateRange("2024-01-01", "2024-06-01")
	require.NoError(t, err)

	client := newFakeClient()
	source := &fakeSource{available: &rng}
	cache := NewReader(client, source, Options{})

	for _, loc := range []*time.Location{time.UTC, berlin, time.UTC, berlin} {
		_, err := cache.AvailableRange(context.Background(), loc)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"UTC", "Europe/Berlin"}, source.zones)

	require.NoError(t, cache.Invalidate(context.Background()))
	assert.ElementsMatch(t, []string{"market:available:UTC", "market:available:Europe/Berlin"}, client.deleted)
}

func TestReader_AvailableRange_EmptyStoreCached(t *testing.T) {
	client := newFakeClient()
	source := &fakeSource{}
	cache := NewReader(client, source, Options{})

	for i := 0; i < 2; i++ {
		got, err := cache.AvailableRange(context.Background(), nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Equal(t, 1, source.avCalls)
}

// fakeRepo records inserts for the Writer.
type fakeRepo struct {
	created bool
}

func (f *fakeRepo) InsertRecord(ctx context.Context, r *domain.Record) (bool, error) {
	return f.created, nil
}

func TestWriter_InvalidatesOnCreate(t *testing.T) {
	client := newFakeClient()
	client.data["market:records:2024-05"] = "[]"
	cache := NewReader(client, &fakeSource{}, Options{})
	_, err := cache.AvailableRange(context.Background(), time.UTC)
	require.NoError(t, err)

	w := NewWriter(&fakeRepo{created: true}, cache)
	created, err := w.InsertRecord(context.Background(), &domain.Record{Period: "2024-05"})
	require.NoError(t, err)
	assert.True(t, created)

	assert.ElementsMatch(t, []string{"market:available:UTC", "market:records:2024-05"}, client.deleted)
	assert.NotContains(t, client.data, "market:records:2024-05")
}

func TestWriter_DuplicateKeepsCache(t *testing.T) {
	client := newFakeClient()
	cache := NewReader(client, &fakeSource{}, Options{})

	w := NewWriter(&fakeRepo{created: false}, cache)
	created, err := w.InsertRecord(context.Background(), &domain.Record{Period: "2024-05"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, client.deleted)
}
