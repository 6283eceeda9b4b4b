package repository

// Store tests run against a real PostgreSQL instance. Set TEST_DATABASE_URL
// to a scratch database to enable them; they truncate every table.

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/evently-app/evently/internal/database"
	"github.com/evently-app/evently/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var migrateOnce sync.Once

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	migrateOnce.Do(func() {
		if err := database.MigrateUp(url, "../database/migrations"); err != nil {
			t.Fatalf("migrate test database: %v", err)
		}
	})

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(),
		`TRUNCATE audit_log, attendees, bookings, events, club_memberships, clubs, venues, users`)
	require.NoError(t, err)
	return pool
}

// ─── seeding helpers ─────────────────────────────────────────────────────────

func seedUser(t *testing.T, pool *pgxpool.Pool, role model.Role, email string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, first_name, last_name, email, password_hash, role)
		 VALUES ($1, 'Test', $2, $3, 'x', $4)`,
		id, string(role), email, role,
	)
	require.NoError(t, err)
	return id
}

func seedClub(t *testing.T, pool *pgxpool.Pool, name string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO clubs (id, name) VALUES ($1, $2)`, id, name)
	require.NoError(t, err)
	return id
}

func seedVenue(t *testing.T, pool *pgxpool.Pool, name string, capacity int) string {
	t.Helper()
	id := uuid.New().String()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO venues (id, name, capacity) VALUES ($1, $2, $3)`, id, name, capacity)
	require.NoError(t, err)
	return id
}

func seedEvent(t *testing.T, pool *pgxpool.Pool, clubID, name string, start, end time.Time) string {
	t.Helper()
	id := uuid.New().String()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO events (id, club_id, name, start_time, end_time)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, clubID, name, start, end,
	)
	require.NoError(t, err)
	return id
}

// hour returns a day one week out at the given hour, UTC.
func hour(h int) time.Time {
	day := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	return day.Add(time.Duration(h) * time.Hour)
}
