package s3store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	analyticsdomain "market-insights-service/internal/analytics/core/domain"
	analyticsports "market-insights-service/internal/analytics/core/ports"
	"market-insights-service/internal/records/core/domain"
)

// Client is the subset of the S3 API the store uses.
type Client interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// RecordStore reads monthly record exports laid out as
// <prefix>/<YYYY-MM>.json, each a JSON array of records.
type RecordStore struct {
	client Client
	bucket string
	prefix string
}

var _ analyticsports.RecordReaderPort = (*RecordStore)(nil)

func New(client Client, bucket, prefix string) *RecordStore {
	return &RecordStore{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// NewClient loads the default AWS credential chain. A non-empty endpoint
// switches to path-style addressing for S3-compatible servers.
func NewClient(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (s *RecordStore) key(period string) string {
	if s.prefix == "" {
		return period + ".json"
	}
	return path.Join(s.prefix, period+".json")
}

// GetRecords returns the period's records; a missing object is an empty month.
func (s *RecordStore) GetRecords(ctx context.Context, period string) ([]domain.Record, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(period)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, nil
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, s.key(period), err)
	}
	defer out.Body.Close()

	var recs []domain.Record
	if err := json.NewDecoder(out.Body).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key(period), err)
	}
	for i := range recs {
		recs[i].Period = period
	}
	return recs, nil
}

// Periods lists the period keys present under the prefix, ascending.
func (s *RecordStore) Periods(ctx context.Context) ([]string, error) {
	in := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		in.Prefix = aws.String(s.prefix + "/")
	}

	var periods []string
	p := s3.NewListObjectsV2Paginator(s.client, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", s.bucket, s.prefix, err)
		}
		for _, obj := range page.Contents {
			if period, ok := periodFromKey(aws.ToString(obj.Key)); ok {
				periods = append(periods, period)
			}
		}
	}

	sort.Strings(periods)
	return periods, nil
}

// AvailableRange scans the first and last period objects for the oldest
// and newest record day in loc.
func (s *RecordStore) AvailableRange(ctx context.Context, loc *time.Location) (*analyticsdomain.DateRange, error) {
	periods, err := s.Periods(ctx)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, nil
	}

	first, err := s.GetRecords(ctx, periods[0])
	if err != nil {
		return nil, err
	}
	last := first
	if len(periods) > 1 {
		if last, err = s.GetRecords(ctx, periods[len(periods)-1]); err != nil {
			return nil, err
		}
	}

	start, ok := bound(first, loc, func(a, b time.Time) bool { return a.Before(b) })
	if !ok {
		return nil, nil
	}
	end, ok := bound(last, loc, func(a, b time.Time) bool { return a.After(b) })
	if !ok {
		return nil, nil
	}

	return &analyticsdomain.DateRange{
		Start: analyticsdomain.Day(start, loc),
		End:   analyticsdomain.Day(end, loc),
	}, nil
}

func bound(recs []domain.Record, loc *time.Location, better func(a, b time.Time) bool) (time.Time, bool) {
	var best time.Time
	found := false
	for _, r := range recs {
		t, err := r.TimeIn(loc)
		if err != nil {
			continue
		}
		if !found || better(t, best) {
			best, found = t, true
		}
	}
	return best, found
}

func periodFromKey(key string) (string, bool) {
	name := path.Base(key)
	if !strings.HasSuffix(name, ".json") {
		return "", false
	}
	period := strings.TrimSuffix(name, ".json")
	if _, err := time.Parse(domain.PeriodLayout, period); err != nil {
		return "", false
	}
	return period, true
}
