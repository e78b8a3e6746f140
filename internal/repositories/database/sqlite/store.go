// Package sqlite implements the cache store ports on an embedded SQLite
// database. It is the default driver: a single-file local cache with the
// same offline-first semantics the service exposes over Postgres.
//
// Only this package may open or query the database file. Everything else
// receives a [*Store] and works through the repository ports.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS assets (
    asset_id       TEXT    PRIMARY KEY,
    name           TEXT    NOT NULL,
    type_is_crypto INTEGER NOT NULL DEFAULT 0,
    icon_url       TEXT,
    is_favourite   INTEGER NOT NULL DEFAULT 0,
    price_usd      TEXT    NOT NULL DEFAULT '0'
);

CREATE TABLE IF NOT EXISTS exchange_rates (
    asset_id_base  TEXT NOT NULL,
    asset_id_quote TEXT NOT NULL,
    rate           REAL NOT NULL,
    time           TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_exchange_rates_base ON exchange_rates (asset_id_base);
`

// Store is the SQLite-backed cache.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path, applies the schema,
// and configures WAL mode. The special path ":memory:" opens a throwaway
// in-memory cache.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}

	// Single writer to avoid SQLITE_BUSY under WAL.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Assets returns the asset repository view of the store.
func (s *Store) Assets() *AssetRepository {
	return &AssetRepository{db: s.db}
}

// ExchangeRates returns the exchange-rate repository view of the store.
func (s *Store) ExchangeRates() *ExchangeRateRepository {
	return &ExchangeRateRepository{db: s.db}
}
