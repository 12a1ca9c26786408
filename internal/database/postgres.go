package database

import (
	"context"
	"fmt"
	"time"

	zerologadapter "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stemsi/cutoff-backend/internal/config"
)

// PostgresStore serves the dataset from a PostgreSQL connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
	obs  QueryObserver
}

// NewPostgresStore creates and validates a PostgreSQL connection pool.
func NewPostgresStore(ctx context.Context, cfg *config.Config, log zerolog.Logger, obs QueryObserver) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse database URL: %v", ErrStoreUnavailable, err)
	}

	poolCfg.MaxConns = cfg.MaxDBConns

	// Driver-level tracing is only worth its cost when debugging.
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		poolCfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   zerologadapter.NewLogger(log.With().Str("component", "pgx").Logger()),
			LogLevel: tracelog.LogLevelDebug,
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create pool: %v", ErrStoreUnavailable, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping database: %v", ErrStoreUnavailable, err)
	}

	log.Info().
		Int32("max_conns", cfg.MaxDBConns).
		Msg("PostgreSQL connected")

	return &PostgresStore{
		pool: pool,
		log:  log.With().Str("component", "store").Logger(),
		obs:  obs,
	}, nil
}

func (s *PostgresStore) Driver() string { return config.DriverPostgres }

func (s *PostgresStore) Acquire(ctx context.Context) (Conn, error) {
	c, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire connection: %v", ErrStoreUnavailable, err)
	}
	return &postgresConn{conn: c, store: s}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping database: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

type postgresConn struct {
	conn  *pgxpool.Conn
	store *PostgresStore
}

func (c *postgresConn) Query(ctx context.Context, sql string, args ...any) (records []Record, err error) {
	start := time.Now()
	defer func() {
		traceQuery(c.store.log, c.store.obs, config.DriverPostgres, sql, start, len(records), err)
	}()

	rows, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, Classify(err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, Classify(err)
	}

	records = make([]Record, 0, len(maps))
	for _, m := range maps {
		records = append(records, Record(m))
	}
	return records, nil
}

func (c *postgresConn) QueryOne(ctx context.Context, sql string, args ...any) (Record, bool, error) {
	records, err := c.Query(ctx, sql, args...)
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}
	return records[0], true, nil
}

func (c *postgresConn) Release() {
	c.conn.Release()
}
