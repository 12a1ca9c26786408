package database_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/cutoff-backend/internal/config"
	"github.com/stemsi/cutoff-backend/internal/database"
	"github.com/stemsi/cutoff-backend/internal/database/dbtest"
	"github.com/stemsi/cutoff-backend/internal/model"
)

type countingObserver struct {
	mu       sync.Mutex
	ok, fail int
}

func (o *countingObserver) ObserveQuery(_ string, success bool, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if success {
		o.ok++
	} else {
		o.fail++
	}
}

func TestSQLiteQueryReturnsRecordsKeyedByColumn(t *testing.T) {
	store := dbtest.NewStore(t, dbtest.Example())
	ctx := context.Background()

	conn, err := store.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer conn.Release()

	records, err := conn.Query(ctx, `SELECT id, name, state_id FROM colleges WHERE state_id = $1 ORDER BY id`, 1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["name"] != "Alpha Institute" {
		t.Fatalf("unexpected name column: %#v", records[0]["name"])
	}

	colleges, err := database.Decode[model.College](records)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := model.College{ID: 10, Name: "Alpha Institute", StateID: 1}
	if colleges[0] != want {
		t.Fatalf("expected %+v, got %+v", want, colleges[0])
	}
}

func TestSQLiteQueryReusesNumberedPlaceholder(t *testing.T) {
	store := dbtest.NewStore(t, dbtest.Example())
	ctx := context.Background()

	conn, err := store.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer conn.Release()

	records, err := conn.Query(ctx, `SELECT id FROM cutoffs WHERE state_id = $1 AND college_id IN (SELECT id FROM colleges WHERE state_id = $1)`, 1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
}

func TestSQLiteQueryOneAbsent(t *testing.T) {
	store := dbtest.NewStore(t, dbtest.Example())
	ctx := context.Background()

	conn, err := store.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer conn.Release()

	rec, ok, err := conn.QueryOne(ctx, `SELECT name FROM states WHERE id = $1`, 999)
	if err != nil {
		t.Fatalf("query one: %v", err)
	}
	if ok || rec != nil {
		t.Fatalf("expected no record, got %#v", rec)
	}

	rec, ok, err = conn.QueryOne(ctx, `SELECT name FROM states WHERE id = $1`, 1)
	if err != nil || !ok {
		t.Fatalf("expected a record, ok=%v err=%v", ok, err)
	}
	if rec["name"] != "Alpha" {
		t.Fatalf("expected Alpha, got %#v", rec["name"])
	}
}

func TestSQLiteQueryObserverSeesOutcomes(t *testing.T) {
	obs := &countingObserver{}
	path := dbtest.Seed(t, dbtest.Example())
	store, err := database.NewSQLiteStore(context.Background(), path, zerolog.Nop(), obs)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	conn, err := store.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer conn.Release()

	if _, err := conn.Query(ctx, `SELECT id FROM states`); err != nil {
		t.Fatalf("query: %v", err)
	}
	if _, err := conn.Query(ctx, `SELECT id FROM no_such_table`); err == nil {
		t.Fatal("expected an error for a missing table")
	}
	if obs.ok != 1 || obs.fail != 1 {
		t.Fatalf("expected 1 success and 1 failure, got %d/%d", obs.ok, obs.fail)
	}
}

func TestSQLiteMissingTableIsQueryError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("create empty db: %v", err)
	}
	store, err := database.NewSQLiteStore(context.Background(), path, zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	conn, err := store.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer conn.Release()

	_, err = conn.Query(ctx, `SELECT id, name FROM states`)
	if !errors.Is(err, database.ErrQuery) {
		t.Fatalf("expected ErrQuery, got %v", err)
	}
	if errors.Is(err, database.ErrStoreUnavailable) {
		t.Fatalf("missing table must not be reported as unavailable: %v", err)
	}
}

func TestSQLiteMissingFileIsUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")
	_, err := database.NewSQLiteStore(context.Background(), path, zerolog.Nop(), nil)
	if !errors.Is(err, database.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestSQLiteClosedStoreIsUnavailable(t *testing.T) {
	path := dbtest.Seed(t, dbtest.Example())
	store, err := database.NewSQLiteStore(context.Background(), path, zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := store.Acquire(context.Background()); !errors.Is(err, database.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable from acquire, got %v", err)
	}
	if err := store.Ping(context.Background()); !errors.Is(err, database.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable from ping, got %v", err)
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	path := dbtest.Seed(t, dbtest.Example())
	cfg := &config.Config{DBDriver: config.DriverSQLite, SQLitePath: path}

	store, err := database.Open(context.Background(), cfg, zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if store.Driver() != config.DriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", store.Driver())
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	cfg := &config.Config{DBDriver: "oracle"}
	store, err := database.Open(context.Background(), cfg, zerolog.Nop(), nil)
	if !errors.Is(err, database.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if store != nil {
		t.Fatalf("expected nil store, got %T", store)
	}
}

func TestDecodeNormalizesIntegerWidths(t *testing.T) {
	records := []database.Record{
		{"id": int64(1), "college_id": int32(10), "state_id": int64(1), "category": "GEN", "closing_rank": int64(100)},
	}
	cutoffs, err := database.Decode[model.Cutoff](records)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := model.Cutoff{ID: 1, CollegeID: 10, StateID: 1, Category: "GEN", ClosingRank: 100}
	if cutoffs[0] != want {
		t.Fatalf("expected %+v, got %+v", want, cutoffs[0])
	}
}

func TestDecodeEmptyIsNonNil(t *testing.T) {
	states, err := database.Decode[model.State](nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if states == nil || len(states) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", states)
	}
}

func TestDecodeShapeMismatchIsQueryError(t *testing.T) {
	var s model.State
	err := database.DecodeOne(database.Record{"id": "not-a-number", "name": "Alpha"}, &s)
	if !errors.Is(err, database.ErrQuery) {
		t.Fatalf("expected ErrQuery, got %v", err)
	}
}
