package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/cutoff-backend/internal/config"
)

func TestOpenAppliesMaxConnsToSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("create db: %v", err)
	}

	cfg := &config.Config{DBDriver: config.DriverSQLite, SQLitePath: path, MaxDBConns: 3}
	store, err := Open(context.Background(), cfg, zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	s, ok := store.(*SQLiteStore)
	if !ok {
		t.Fatalf("expected *SQLiteStore, got %T", store)
	}
	if got := s.db.Stats().MaxOpenConnections; got != 3 {
		t.Fatalf("expected 3 max open connections, got %d", got)
	}
}
