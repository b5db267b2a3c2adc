package testhelpers

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"stagebook/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap/zaptest"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL and applies the embedded migrations.
// The test is skipped when no database is configured.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log := zaptest.NewLogger(t)
	pool, err := database.NewPool(ctx, connString, database.PoolOptions{MaxConns: 4}, log)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(ctx, pool, log); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestTenant creates a tenant with a unique slug. Deleting it cascades to everything it owns.
func SetupTestTenant(t *testing.T, db *TestDB) uuid.UUID {
	t.Helper()

	tenantID := uuid.New()
	slug := "test-" + strings.ReplaceAll(tenantID.String(), "-", "")[:12]
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO tenants (id, name, slug) VALUES ($1, $2, $3)`,
		tenantID, "Test Agency", slug)
	if err != nil {
		t.Fatalf("Failed to create test tenant: %v", err)
	}
	t.Cleanup(func() {
		_, _ = db.Pool.Exec(context.Background(), `DELETE FROM tenants WHERE id = $1`, tenantID)
	})

	return tenantID
}

// SetupTestUser creates an owner account inside the tenant
func SetupTestUser(t *testing.T, db *TestDB, tenantID uuid.UUID) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO users (id, email, name, password_hash, role, tenant_id) VALUES ($1, $2, $3, $4, 'owner', $5)`,
		userID, userID.String()+"@example.test", "Test Owner", "x", tenantID)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return userID
}

func SetupTestPerformer(t *testing.T, db *TestDB, tenantID uuid.UUID) uuid.UUID {
	t.Helper()

	performerID := uuid.New()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO performers (id, name, type, tenant_id) VALUES ($1, $2, 'dj', $3)`,
		performerID, "DJ Test", tenantID)
	if err != nil {
		t.Fatalf("Failed to create test performer: %v", err)
	}
	return performerID
}

// SetupTestEvent creates a planning event on the given date
func SetupTestEvent(t *testing.T, db *TestDB, tenantID, createdBy uuid.UUID, date time.Time) uuid.UUID {
	t.Helper()

	eventID := uuid.New()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO events (id, name, type, date, start_time, end_time, tenant_id, created_by_id)
		 VALUES ($1, $2, 'wedding', $3, '18:00', '23:00', $4, $5)`,
		eventID, "Test Wedding", date, tenantID, createdBy)
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}
	return eventID
}
