// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"pledge/internal/db"
)

// TestDB creates a test database connection and returns a cleanup function.
// Skips the test when TEST_DATABASE_URL is not set, so integration tests
// stay out of the default unit-test run.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database integration test")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	// Delete in order to respect foreign keys
	pool.Exec(ctx, "DELETE FROM receipts")
	pool.Exec(ctx, "DELETE FROM connections")
	pool.Exec(ctx, "DELETE FROM institution_relationships")
	pool.Exec(ctx, "DELETE FROM public_profiles")
}

// CreateTestProfile inserts a profile row and returns the user ID.
func CreateTestProfile(t *testing.T, database *db.DB, email, institution string) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	id := uuid.New()
	_, err := database.Pool.Exec(ctx, `
		INSERT INTO public_profiles (user_id, email, first_name, last_name, institution, institution_id)
		VALUES ($1, $2, 'Test', 'User', $3, $3)
	`, id, email, institution)
	if err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}

	return id
}
