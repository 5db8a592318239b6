package unitdb

import (
	"database/sql"
	"testing"
)

// openTestCache builds a Cache against an in-memory SQLite database,
// the same schema OpenCache creates under $HOME/data, so Store/Load
// can be exercised without touching disk.
func openTestCache(t *testing.T) *Cache {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	// A fresh connection gets its own private :memory: database under
	// go-sqlite3, so the pool must never hand Store and Load different
	// connections.
	db.SetMaxOpenConns(1)
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
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Cache{db: db}
}

func TestCacheStoreLoadRoundTrip(t *testing.T) {
	c := openTestCache(t)
	r, err := New().Resolved("N")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Store("N", r); err != nil {
		t.Fatalf("Store: %v", err)
	}
	scale, offset, exponentsDebug, found, err := c.Load("N")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !found {
		t.Fatal("expected a cached entry for N")
	}
	if scale.String() != r.Scale.String() {
		t.Errorf("scale = %s, want %s", scale.String(), r.Scale.String())
	}
	if offset != nil {
		t.Errorf("expected no offset for N, got %v", offset)
	}
	if exponentsDebug != r.Unit.String() {
		t.Errorf("exponents = %q, want %q", exponentsDebug, r.Unit.String())
	}
}

func TestCacheLoadMissingNameNotFound(t *testing.T) {
	c := openTestCache(t)
	_, _, _, found, err := c.Load("frobnicate")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("expected found=false for an uncached name")
	}
}

func TestDatabaseResolveDefWiresThroughCache(t *testing.T) {
	c := openTestCache(t)
	db := New()
	db.UseCache(c)

	if _, _, _, err := db.Lookup("N"); err != nil {
		t.Fatal(err)
	}

	_, _, _, found, err := c.Load("N")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Error("expected resolveDef to have stored N's resolution in the cache")
	}
}
