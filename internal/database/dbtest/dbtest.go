// Package dbtest builds throwaway SQLite stores seeded with fixture rows.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/cutoff-backend/internal/database"
	"github.com/stemsi/cutoff-backend/internal/model"
	"github.com/stemsi/cutoff-backend/migrations"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Fixture is the dataset a test store is seeded with.
type Fixture struct {
	States   []model.State
	Colleges []model.College
	Cutoffs  []model.Cutoff
}

// Example is the two-college tie scenario: GEN ties at rank 100 across
// colleges 10 and 11, SC has a single best row at college 10.
func Example() Fixture {
	return Fixture{
		States: []model.State{{ID: 1, Name: "Alpha"}},
		Colleges: []model.College{
			{ID: 10, Name: "Alpha Institute", StateID: 1},
			{ID: 11, Name: "Alpha University", StateID: 1},
		},
		Cutoffs: []model.Cutoff{
			{ID: 1, CollegeID: 10, StateID: 1, Category: "GEN", ClosingRank: 100},
			{ID: 2, CollegeID: 11, StateID: 1, Category: "GEN", ClosingRank: 100},
			{ID: 3, CollegeID: 10, StateID: 1, Category: "SC", ClosingRank: 50},
		},
	}
}

// Seed writes the schema and the fixture into a new SQLite file and returns
// its path.
func Seed(t testing.TB, f Fixture) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cutoffs.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() { _ = db.Close() }()

	schema, err := migrations.FS.ReadFile(migrations.InitialSchema)
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	for _, s := range f.States {
		mustExec(t, db, `INSERT INTO states (id, name) VALUES (?, ?)`, s.ID, s.Name)
	}
	for _, c := range f.Colleges {
		mustExec(t, db, `INSERT INTO colleges (id, name, state_id) VALUES (?, ?, ?)`, c.ID, c.Name, c.StateID)
	}
	for _, c := range f.Cutoffs {
		mustExec(t, db, `INSERT INTO cutoffs (id, college_id, state_id, category, closing_rank) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.CollegeID, c.StateID, c.Category, c.ClosingRank)
	}
	return path
}

// NewStore seeds f and opens it read-only. The store is closed on cleanup.
func NewStore(t testing.TB, f Fixture) *database.SQLiteStore {
	t.Helper()

	store, err := database.NewSQLiteStore(context.Background(), Seed(t, f), zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustExec(t testing.TB, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
