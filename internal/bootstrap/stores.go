package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/redis/go-redis/v9"

	analyticsports "market-insights-service/internal/analytics/core/ports"
	"market-insights-service/internal/config"
	"market-insights-service/internal/records/adapters/rediscache"
	"market-insights-service/internal/records/adapters/s3store"
	"market-insights-service/internal/records/adapters/sqlstore"
	recordsports "market-insights-service/internal/records/core/ports"
)

// ErrReadOnlyStore is returned by operations that need a writable store
// when the configured one is read-only.
var ErrReadOnlyStore = errors.New("record store is read-only")

// Stores is the record storage selected by configuration.
type Stores struct {
	Reader analyticsports.RecordReaderPort
	// Repository is nil for read-only stores (s3).
	Repository recordsports.RecordRepositoryPort
	// DB is set for the SQL drivers.
	DB     *sql.DB
	Driver string

	closers []func() error
}

type Options struct {
	// Migrate runs pending schema migrations on SQL stores.
	Migrate bool
	Logger  *log.Logger
}

// OpenStores connects the configured record store and, when a redis URL is
// configured, puts the read-through cache in front of it.
func OpenStores(ctx context.Context, cfg *config.Config, opts Options) (*Stores, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}

	s := &Stores{Driver: cfg.Store.Driver}

	switch cfg.Store.Driver {
	case config.StorePostgres, config.StoreSQLite:
		db, err := sqlstore.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		s.DB = db
		s.closers = append(s.closers, db.Close)

		if opts.Migrate {
			applied, err := sqlstore.NewMigrationRunner(db, cfg.Store.Driver).Run(ctx)
			if err != nil {
				s.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
			if len(applied) > 0 {
				opts.Logger.Printf("applied migrations %v", applied)
			}
		}

		repo := sqlstore.NewRecordRepository(sqlstore.NewSQLDB(db))
		s.Reader = repo
		s.Repository = repo

	case config.StoreS3:
		client, err := s3store.NewClient(ctx, cfg.Store.S3.Region, cfg.Store.S3.Endpoint)
		if err != nil {
			return nil, err
		}
		s.Reader = s3store.New(client, cfg.Store.S3.Bucket, cfg.Store.S3.Prefix)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.Cache.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(redisOpts)
		s.closers = append(s.closers, client.Close)

		cached := rediscache.NewReader(client, s.Reader, rediscache.Options{
			Prefix: cfg.Cache.Prefix,
			TTL:    cfg.Cache.TTL(),
			Logger: opts.Logger,
		})
		s.Reader = cached
		if s.Repository != nil {
			s.Repository = rediscache.NewWriter(s.Repository, cached)
		}
	}

	return s, nil
}

// Close releases every connection in reverse order of opening.
func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
