package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/cutoff-backend/internal/config"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteStore serves the dataset from a SQLite file through database/sql.
type SQLiteStore struct {
	db  *sql.DB
	log zerolog.Logger
	obs QueryObserver
}

// NewSQLiteStore opens the SQLite file at path read-only and pings it.
// A DSN that already carries a "file:" prefix or query string is used as is.
func NewSQLiteStore(ctx context.Context, path string, log zerolog.Logger, obs QueryObserver) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %v", ErrStoreUnavailable, err)
	}
	return newSQLiteStore(ctx, db, path, log, obs)
}

// NewSQLiteStoreFromDB wraps an already opened database/sql handle.
func NewSQLiteStoreFromDB(ctx context.Context, db *sql.DB, log zerolog.Logger, obs QueryObserver) (*SQLiteStore, error) {
	return newSQLiteStore(ctx, db, "", log, obs)
}

func newSQLiteStore(ctx context.Context, db *sql.DB, path string, log zerolog.Logger, obs QueryObserver) (*SQLiteStore, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping sqlite: %v", ErrStoreUnavailable, err)
	}

	log.Info().
		Str("path", path).
		Msg("SQLite connected")

	return &SQLiteStore{
		db:  db,
		log: log.With().Str("component", "store").Logger(),
		obs: obs,
	}, nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") || strings.Contains(path, "?") {
		return path
	}
	return "file:" + path + "?mode=ro"
}

// SetMaxConns caps the open connections, like MAX_DB_CONNS does for the
// PostgreSQL pool. Non-positive values leave the handle unlimited.
func (s *SQLiteStore) SetMaxConns(n int) {
	if n > 0 {
		s.db.SetMaxOpenConns(n)
	}
}

func (s *SQLiteStore) Driver() string { return config.DriverSQLite }

func (s *SQLiteStore) Acquire(ctx context.Context) (Conn, error) {
	c, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire connection: %v", ErrStoreUnavailable, err)
	}
	return &sqliteConn{conn: c, store: s}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping sqlite: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type sqliteConn struct {
	conn  *sql.Conn
	store *SQLiteStore
}

func (c *sqliteConn) Query(ctx context.Context, query string, args ...any) (records []Record, err error) {
	start := time.Now()
	defer func() {
		traceQuery(c.store.log, c.store.obs, config.DriverSQLite, query, start, len(records), err)
	}()

	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, Classify(err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, Classify(err)
	}

	records = make([]Record, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, Classify(err)
		}
		rec := make(Record, len(cols))
		for i, col := range cols {
			// TEXT may come back as []byte depending on the declared type.
			if b, ok := values[i].([]byte); ok {
				rec[col] = string(b)
				continue
			}
			rec[col] = values[i]
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, Classify(err)
	}
	return records, nil
}

func (c *sqliteConn) QueryOne(ctx context.Context, query string, args ...any) (Record, bool, error) {
	records, err := c.Query(ctx, query, args...)
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}
	return records[0], true, nil
}

func (c *sqliteConn) Release() {
	_ = c.conn.Close()
}
