// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"ethicsadmin/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "ethicsadmin")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "ethicsadmin")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testPrefix returns a key prefix unique to this run so tests sharing the
// database do not collide.
func testPrefix() string {
	return "t_" + strings.ReplaceAll(uuid.NewString()[:8], "-", "") + "_"
}

// cleanQuestions removes test questions and their options by key prefix.
// Call in t.Cleanup().
func cleanQuestions(t *testing.T, db *sql.DB, prefix string) {
	t.Helper()
	db.Exec(`DELETE FROM ethics_options WHERE question_id IN (SELECT id FROM ethics_questions WHERE key LIKE $1)`, prefix+"%")
	db.Exec(`DELETE FROM ethics_questions WHERE key LIKE $1`, prefix+"%")
}

// cleanRevisions removes revisions written by actor. Call in t.Cleanup().
func cleanRevisions(t *testing.T, db *sql.DB, actor string) {
	t.Helper()
	db.Exec(`DELETE FROM catalog_revisions WHERE actor = $1`, actor)
}
