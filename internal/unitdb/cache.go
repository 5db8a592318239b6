package unitdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mikecarlton/qcalc/internal/bignum"
)

// Cache persists resolved unit definitions to an on-disk SQLite
// database so repeated process startups skip re-resolving the static
// table's dependency graph.
//
// Directly grounded on database.go's CachedQuote/initDatabase/
// saveQuote/getLatestQuote shape: open lazily under
// $HOME/data/<file>.sqlite3, CREATE TABLE IF NOT EXISTS, INSERT OR
// REPLACE keyed by name. The teacher's `quotes` table (symbol, date,
// quote_type, ...) becomes a `resolved_units` table (name, exponents,
// scale, offset); the rest of the lifecycle (lazy open, explicit
// Close, ignore-on-warn save failures) is unchanged.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if needed) the resolved-unit cache at
// $HOME/data/qcalc-units.sqlite3, mirroring database.go's
// initDatabase's dataDir/dbPath construction.
func OpenCache() (*Cache, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("unitdb: failed to get home directory: %w", err)
	}

	dataDir := filepath.Join(homeDir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("unitdb: failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "qcalc-units.sqlite3")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("unitdb: failed to open cache database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS resolved_units (
		name TEXT PRIMARY KEY,
		exponents TEXT NOT NULL,
		scale_num TEXT NOT NULL,
		scale_den TEXT NOT NULL,
		offset_num TEXT,
		offset_den TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("unitdb: failed to create schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the underlying database handle.
func (c *Cache) Close() {
	if c != nil && c.db != nil {
		c.db.Close()
	}
}

// Store persists a resolved unit under name, replacing any prior entry
// (INSERT OR REPLACE, same idiom as database.go's saveQuote).
func (c *Cache) Store(name string, r ResolvedUnit) error {
	if c == nil || c.db == nil {
		return nil
	}
	var offNum, offDen sql.NullString
	if r.Offset != nil {
		offNum = sql.NullString{String: r.Offset.Rat.Num().String(), Valid: true}
		offDen = sql.NullString{String: r.Offset.Rat.Denom().String(), Valid: true}
	}
	query := `
	INSERT OR REPLACE INTO resolved_units (name, exponents, scale_num, scale_den, offset_num, offset_den)
	VALUES (?, ?, ?, ?, ?, ?)`
	_, err := c.db.Exec(query, name, r.Unit.String(), r.Scale.Rat.Num().String(), r.Scale.Rat.Denom().String(), offNum, offDen)
	return err
}

// Load retrieves a previously stored resolved unit's scale/offset by
// name, along with the raw exponent-vector debug string it was stored
// with (exponents are not re-parsed back into units.Exponents here -
// the static table is always available and authoritative; Load exists
// to let qcalc warn when the cache disagrees with a freshly resolved
// definition, e.g. after a built-in table change).
func (c *Cache) Load(name string) (scale *bignum.BigRat, offset *bignum.BigRat, exponentsDebug string, found bool, err error) {
	if c == nil || c.db == nil {
		return nil, nil, "", false, nil
	}
	query := `SELECT exponents, scale_num, scale_den, offset_num, offset_den FROM resolved_units WHERE name = ?`
	var expStr, scaleNum, scaleDen string
	var offNum, offDen sql.NullString
	row := c.db.QueryRow(query, name)
	if scanErr := row.Scan(&expStr, &scaleNum, &scaleDen, &offNum, &offDen); scanErr != nil {
		if scanErr == sql.ErrNoRows {
			return nil, nil, "", false, nil
		}
		return nil, nil, "", false, scanErr
	}

	scaleStr := scaleNum + "/" + scaleDen
	scaleRat, parseErr := bignum.NewExact(scaleStr)
	if parseErr != nil {
		return nil, nil, "", false, parseErr
	}

	var offsetRat *bignum.BigRat
	if offNum.Valid && offDen.Valid {
		offsetRat, parseErr = bignum.NewExact(offNum.String + "/" + offDen.String)
		if parseErr != nil {
			return nil, nil, "", false, parseErr
		}
	}

	return scaleRat, offsetRat, expStr, true, nil
}
