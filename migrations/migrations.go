// Package migrations embeds the versioned schema for the states, colleges and
// cutoffs tables. The SQL is portable between PostgreSQL and SQLite.
package migrations

import "embed"

// FS holds every *.sql migration, named for golang-migrate.
//
//go:embed *.sql
var FS embed.FS

// InitialSchema is the first up migration, for seeding fixtures in tests.
const InitialSchema = "000001_create_cutoff_tables.up.sql"
