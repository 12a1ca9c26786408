package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/cutoff-backend/internal/config"
	"github.com/stemsi/cutoff-backend/internal/logger"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

func main() {
	var dir string
	var replace bool
	flag.StringVar(&dir, "dir", "seed", "Directory holding states.csv, colleges.csv and cutoffs.csv")
	flag.BoolVar(&replace, "replace", false, "Delete existing rows before loading")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	ds, err := readDataset(dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("Failed to read dataset")
	}
	log.Info().
		Int("states", len(ds.States)).
		Int("colleges", len(ds.Colleges)).
		Int("cutoffs", len(ds.Cutoffs)).
		Msg("Dataset read")

	switch cfg.DBDriver {
	case config.DriverPostgres:
		err = seedPostgres(ctx, cfg.DatabaseURL, ds, replace)
	case config.DriverSQLite:
		err = seedSQLite(ctx, cfg.SQLitePath, ds, replace)
	default:
		err = fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("Seed failed")
	}

	fmt.Printf("\nSeed completed! Loaded %d states, %d colleges and %d cutoffs.\n",
		len(ds.States), len(ds.Colleges), len(ds.Cutoffs))
}

// deleteOrder respects the foreign keys.
var deleteOrder = []string{"cutoffs", "colleges", "states"}

func seedPostgres(ctx context.Context, url string, ds *dataset, replace bool) error {
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if replace {
		for _, table := range deleteOrder {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("cleanup %s: %w", table, err)
			}
		}
	}

	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{"states", []string{"id", "name"}, ds.stateRows()},
		{"colleges", []string{"id", "name", "state_id"}, ds.collegeRows()},
		{"cutoffs", []string{"id", "college_id", "state_id", "category", "closing_rank"}, ds.cutoffRows()},
	}
	for _, c := range copies {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows)); err != nil {
			return fmt.Errorf("copy %s: %w", c.table, err)
		}
	}

	return tx.Commit(ctx)
}

func seedSQLite(ctx context.Context, path string, ds *dataset, replace bool) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if replace {
		for _, table := range deleteOrder {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("cleanup %s: %w", table, err)
			}
		}
	}

	inserts := []struct {
		table string
		query string
		rows  [][]any
	}{
		{"states", `INSERT INTO states (id, name) VALUES (?, ?)`, ds.stateRows()},
		{"colleges", `INSERT INTO colleges (id, name, state_id) VALUES (?, ?, ?)`, ds.collegeRows()},
		{"cutoffs", `INSERT INTO cutoffs (id, college_id, state_id, category, closing_rank) VALUES (?, ?, ?, ?, ?)`, ds.cutoffRows()},
	}
	for _, in := range inserts {
		stmt, err := tx.PrepareContext(ctx, in.query)
		if err != nil {
			return fmt.Errorf("prepare %s: %w", in.table, err)
		}
		for _, row := range in.rows {
			if _, err := stmt.ExecContext(ctx, row...); err != nil {
				_ = stmt.Close()
				return fmt.Errorf("insert %s %v: %w", in.table, row[0], err)
			}
		}
		_ = stmt.Close()
	}

	return tx.Commit()
}
