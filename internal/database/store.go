package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/stemsi/cutoff-backend/internal/config"
)

// Record is one result row keyed by column name.
type Record map[string]any

// Store is the read-only dataset. Every operation acquires its own Conn and
// releases it before returning.
type Store interface {
	Acquire(ctx context.Context) (Conn, error)
	Ping(ctx context.Context) error
	Driver() string
	Close() error
}

// Conn is a scoped handle on the store, valid until Release.
type Conn interface {
	// Query runs a parameterized query and returns every row.
	Query(ctx context.Context, sql string, args ...any) ([]Record, error)
	// QueryOne returns the first row, or false when the query matched nothing.
	QueryOne(ctx context.Context, sql string, args ...any) (Record, bool, error)
	Release()
}

// QueryObserver receives the outcome of every store query.
type QueryObserver interface {
	ObserveQuery(driver string, success bool, duration time.Duration)
}

// Open connects to the backend selected by cfg.DBDriver and validates the
// connection with a ping.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger, obs QueryObserver) (Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		s, err := NewPostgresStore(ctx, cfg, log, obs)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverSQLite:
		s, err := NewSQLiteStore(ctx, cfg.SQLitePath, log, obs)
		if err != nil {
			return nil, err
		}
		s.SetMaxConns(int(cfg.MaxDBConns))
		return s, nil
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", ErrStoreUnavailable, cfg.DBDriver)
	}
}

// Decode converts records into a slice of typed rows using their
// `mapstructure` tags. Integer widths reported by the driver are normalized.
func Decode[T any](records []Record) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		var v T
		if err := DecodeOne(rec, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeOne converts a single record into dst.
func DecodeOne(rec Record, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("%w: build decoder: %v", ErrQuery, err)
	}
	if err := dec.Decode(map[string]any(rec)); err != nil {
		return fmt.Errorf("%w: decode record: %v", ErrQuery, err)
	}
	return nil
}

// traceQuery logs and records one finished query.
func traceQuery(log zerolog.Logger, obs QueryObserver, driver, sql string, start time.Time, rows int, err error) {
	elapsed := time.Since(start)
	if obs != nil {
		obs.ObserveQuery(driver, err == nil, elapsed)
	}
	if err != nil {
		log.Debug().Err(err).Str("sql", sql).Dur("duration", elapsed).Msg("Query failed")
		return
	}
	log.Debug().Str("sql", sql).Int("rows", rows).Dur("duration", elapsed).Msg("Executed query")
}
