package repository

import (
	"context"

	"github.com/stemsi/cutoff-backend/internal/database"
)

// queryAll acquires a connection, runs sql and decodes every row into T.
// The connection is released on every path.
func queryAll[T any](ctx context.Context, store database.Store, sql string, args ...any) ([]T, error) {
	conn, err := store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	records, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return database.Decode[T](records)
}

// queryOne is queryAll for lookups expecting at most one row. It returns nil
// when nothing matched.
func queryOne[T any](ctx context.Context, store database.Store, sql string, args ...any) (*T, error) {
	conn, err := store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rec, ok, err := conn.QueryOne(ctx, sql, args...)
	if err != nil || !ok {
		return nil, err
	}
	var v T
	if err := database.DecodeOne(rec, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

type nameRow struct {
	Name string `mapstructure:"name"`
}
