package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const RunsTableSchema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT NOT NULL PRIMARY KEY,
		collected_at INTEGER NOT NULL,
		record_count INTEGER NOT NULL
	);
`

const SpotPricesTableSchema = `
	CREATE TABLE IF NOT EXISTS spot_prices (
		run_id TEXT NOT NULL REFERENCES runs(id),
		instance_type TEXT NOT NULL,
		region TEXT NOT NULL,
		availability_zone TEXT NOT NULL,
		dollars_per_hour REAL NOT NULL,
		current_generation INTEGER NOT NULL,
		architecture TEXT NOT NULL,
		vcpus INTEGER NOT NULL,
		memory_gib REAL NOT NULL,
		power REAL NOT NULL,
		last_update_epoch_time_ms INTEGER NOT NULL
	);
`

const SpotPricesIndex = `
	CREATE INDEX IF NOT EXISTS spot_prices_run_idx ON spot_prices (run_id);
`

var bootQueries = []string{
	RunsTableSchema,
	SpotPricesTableSchema,
	SpotPricesIndex,
}

// pathEscaper percent-encodes the characters that would end the path part of
// a file: URI. SQLite decodes them back before opening the file.
var pathEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

func dsn(path string) string {
	return "file:" + pathEscaper.Replace(path) + "?_foreign_keys=on"
}

type Settings struct {
	DbPath string
}

// NewDB opens the history database and creates the schema. A single
// connection is kept so that ":memory:" databases stay visible to every query.
func NewDB(ctx context.Context, settings Settings) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn(settings.DbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, query := range bootQueries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return db, nil
}
