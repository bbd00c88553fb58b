package testutil

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"restaurant/internal/infrastructure/migrations"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/restaurant_test?parseTime=true"

// TestDSN returns TEST_MYSQL_DSN or a local default.
func TestDSN() string {
	if dsn := os.Getenv("TEST_MYSQL_DSN"); dsn != "" {
		return dsn
	}
	return defaultTestDSN
}

// SetupTestDB opens the test database, skipping the test when it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("mysql", TestDSN())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables applies the embedded migrations to the test database.
func SetupTestTables(t *testing.T) {
	t.Helper()

	if err := migrations.Run(TestDSN(), zap.NewNop()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}

// CleanupTestDB empties the order tables and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	for _, table := range []string{"order_items", "orders"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}
