package database

import (
	"context"
	"io/fs"
	"testing"
	"testing/fstest"
)

var testMigrations = fstest.MapFS{
	"20261001_090000_create_rooms.up.sql":    {Data: []byte("CREATE TABLE test_rooms (id TEXT PRIMARY KEY);")},
	"20261001_090000_create_rooms.down.sql":  {Data: []byte("DROP TABLE test_rooms;")},
	"20261002_090000_create_alarms.up.sql":   {Data: []byte("CREATE TABLE test_alarms (id TEXT PRIMARY KEY);")},
	"20261002_090000_create_alarms.down.sql": {Data: []byte("DROP TABLE test_alarms;")},
	"README.md":                              {Data: []byte("not a migration")},
}

// useMigrations swaps the package migration source for the duration of a test.
func useMigrations(t *testing.T, fsys fs.FS) {
	t.Helper()
	origFS, origDir := MigrationsFS, MigrationsDir
	t.Cleanup(func() {
		MigrationsFS, MigrationsDir = origFS, origDir
	})
	MigrationsFS, MigrationsDir = fsys, "."
}

func tableExists(t *testing.T, db *DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name,
	).Scan(&n)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	return n == 1
}

func TestMigrate(t *testing.T) {
	useMigrations(t, testMigrations)
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	for _, table := range []string{"test_rooms", "test_alarms"} {
		if !tableExists(t, db, table) {
			t.Errorf("table %s not created", table)
		}
	}

	applied, pending, err := db.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("MigrationStatus() error = %v", err)
	}
	if len(applied) != 2 || len(pending) != 0 {
		t.Errorf("applied=%d pending=%d, want 2 and 0", len(applied), len(pending))
	}
	if applied[0].Version != "20261001_090000" {
		t.Errorf("first applied = %q, want oldest first", applied[0].Version)
	}

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestLoadMigrations_SkipsDownScripts(t *testing.T) {
	useMigrations(t, fstest.MapFS{
		"20261001_090000_create_rooms.up.sql":      {Data: []byte("CREATE TABLE test_rooms (id TEXT PRIMARY KEY);")},
		"20261001_090000_create_rooms.down.sql":    {Data: []byte("DROP TABLE test_rooms;")},
		"20261003_090000_orphan_rollback.down.sql": {Data: []byte("DROP TABLE test_orphan;")},
	})

	all, err := loadMigrations()
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(all) != 1 || all[0].Name != "create_rooms" {
		t.Fatalf("loadMigrations() = %+v, want only create_rooms", all)
	}
	if all[0].UpSQL != "CREATE TABLE test_rooms (id TEXT PRIMARY KEY);" {
		t.Errorf("UpSQL = %q, want the .up.sql body", all[0].UpSQL)
	}
}

func TestMigrateNoMigrations(t *testing.T) {
	useMigrations(t, nil)
	db := openTestDB(t)

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() with no migrations error = %v", err)
	}
}

func TestMigrateFailureRollsBack(t *testing.T) {
	useMigrations(t, fstest.MapFS{
		"20261001_090000_ok.up.sql":     {Data: []byte("CREATE TABLE test_ok (id INTEGER);")},
		"20261002_090000_broken.up.sql": {Data: []byte("CREATE TABL nonsense;")},
	})
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err == nil {
		t.Fatal("Migrate() with broken SQL returned nil error")
	}
	applied, pending, err := db.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("MigrationStatus() error = %v", err)
	}
	if len(applied) != 1 || len(pending) != 1 {
		t.Errorf("applied=%d pending=%d, want 1 and 1", len(applied), len(pending))
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantVersion string
		wantIsUp    bool
		wantOk      bool
	}{
		{"up", "20261019_120000_notifications.up.sql", "20261019_120000", true, true},
		{"down", "20261019_120000_notifications.down.sql", "20261019_120000", false, true},
		{"not sql", "readme.txt", "", false, false},
		{"missing direction", "20261019_120000_notifications.sql", "", false, false},
		{"no version", "invalid.up.sql", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, isUp, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if ok && (version != tt.wantVersion || isUp != tt.wantIsUp) {
				t.Errorf("got (%q, %v), want (%q, %v)", version, isUp, tt.wantVersion, tt.wantIsUp)
			}
		})
	}
}

func TestExtractMigrationName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"20261019_120000_notifications.up.sql", "notifications"},
		{"20261019_120000_add_device_index.down.sql", "add_device_index"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := extractMigrationName(tt.filename); got != tt.want {
				t.Errorf("extractMigrationName(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}
