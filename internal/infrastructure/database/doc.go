// Package database provides the SQLite connection behind the notification log.
//
// It manages:
//   - Opening the database file with WAL mode and a busy timeout
//   - Schema migrations loaded from an fs.FS (see the migrations package)
//
// The database file is created with 0600 permissions and all queries use
// parameterised statements.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql. A matching
// .down.sql is kept beside it for manual rollback and is never applied.
// Each migration runs in its own transaction and is recorded in
// schema_migrations.
package database
