// Package dbtest opens a migrated PostgreSQL database for integration tests.
// Tests are skipped unless IRIS_TEST_DATABASE_DSN is set.
package dbtest

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/iris/internal/migrations"
)

// EnvDSN names the connection string used by integration tests.
const EnvDSN = "IRIS_TEST_DATABASE_DSN"

// Open migrates the test database, truncates every table, and returns a
// connection closed at test cleanup.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s not set", EnvDSN)
	}

	if err := migrations.Up(dsn); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("TRUNCATE chat_messages, detections, patients"); err != nil {
		t.Fatalf("truncate test database: %v", err)
	}
	return db
}
