package database

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	db, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()
}

func TestRunMigrations(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"002_second.up.sql":  {Data: []byte(`INSERT INTO items (name) VALUES ('second');`)},
		"001_first.up.sql":   {Data: []byte(`CREATE TABLE items (name TEXT NOT NULL);`)},
		"001_first.down.sql": {Data: []byte(`DROP TABLE items;`)},
		"README.md":          {Data: []byte(`not a migration`)},
		"003_third.up.sql":   {Data: []byte(`INSERT INTO items (name) VALUES ('third');`)},
		"subdir/004.up.sql":  {Data: []byte(`DROP TABLE items;`)},
	}

	if err := RunMigrations(ctx, db, fsys); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	// A second run must skip everything already applied.
	if err := RunMigrations(ctx, db, fsys); err != nil {
		t.Fatalf("RunMigrations() second run error = %v", err)
	}

	var items int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&items); err != nil {
		t.Fatalf("counting items: %v", err)
	}
	if items != 2 {
		t.Errorf("items = %d, want 2", items)
	}

	var applied int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatalf("counting migrations: %v", err)
	}
	if applied != 3 {
		t.Errorf("applied migrations = %d, want 3", applied)
	}
}

func TestRunMigrationsFailureIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"001_broken.up.sql": {Data: []byte(`CREATE TABLE oops (`)},
	}
	if err := RunMigrations(ctx, db, fsys); err == nil {
		t.Fatal("RunMigrations() error = nil, want error")
	}

	var applied int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatalf("counting migrations: %v", err)
	}
	if applied != 0 {
		t.Errorf("applied migrations = %d, want 0", applied)
	}
}
