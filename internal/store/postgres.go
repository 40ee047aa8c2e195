package store

import (
	"context"
	_ "embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratikDhanave/clinic-dashboard/internal/eventlog"
	"github.com/PratikDhanave/clinic-dashboard/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore persists event-log records pushed to the dashboard.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by the readiness endpoint.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// InsertEventLog stores one record and returns inserted=false when event_id
// already exists.
func (p *PostgresStore) InsertEventLog(ctx context.Context, rec models.RawEventLog, createdAt time.Time) (bool, error) {
	if rec.ID == "" || rec.EventID == "" || rec.Message == "" {
		return false, errors.New("id/event_id/message required")
	}

	// RETURNING 1 only when inserted; duplicates return no rows.
	var one int
	err := p.pool.QueryRow(ctx, `
		INSERT INTO event_logs(id, event_id, message, performed_by, role, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (event_id) DO NOTHING
		RETURNING 1
	`, rec.ID, rec.EventID, rec.Message, rec.PerformedBy, rec.Role, createdAt).Scan(&one)

	if err == nil {
		return true, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return false, err
}

// ListEventLogs returns records created at or after since, newest first,
// in the back end's wire shape.
func (p *PostgresStore) ListEventLogs(ctx context.Context, since time.Time) ([]models.RawEventLog, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, event_id, message, performed_by, role, created_at
		FROM event_logs
		WHERE created_at >= $1
		ORDER BY created_at DESC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RawEventLog{}
	for rows.Next() {
		var (
			r  models.RawEventLog
			ts time.Time
		)
		if err := rows.Scan(&r.ID, &r.EventID, &r.Message, &r.PerformedBy, &r.Role, &ts); err != nil {
			return nil, err
		}
		r.CreatedAt = ts.UTC().Format(time.RFC3339Nano)
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountEventLogs returns the number of records in the window [from,to).
// Using a half-open interval avoids double counting at window boundaries.
func (p *PostgresStore) CountEventLogs(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM event_logs
		WHERE created_at >= $1
		  AND created_at <  $2
	`, from, to).Scan(&count)

	return count, err
}

// MinLookback covers the widest dashboard window plus a day of time zone
// slack, so every bucket the dashboard can seed has its rows listed.
const MinLookback = (eventlog.MaxWindowDays + 1) * 24 * time.Hour

// LookbackSource adapts the store to the dashboard's source interface by
// listing a trailing period. Lookback values below MinLookback are raised
// to it.
type LookbackSource struct {
	Store    *PostgresStore
	Lookback time.Duration
	Now      func() time.Time
}

// Since returns the lower bound of the listed period.
func (s LookbackSource) Since() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().Add(-max(s.Lookback, MinLookback))
}

// ListEventLogs lists records created since Since().
func (s LookbackSource) ListEventLogs(ctx context.Context) ([]models.RawEventLog, error) {
	return s.Store.ListEventLogs(ctx, s.Since())
}

// Ping forwards to the store.
func (s LookbackSource) Ping(ctx context.Context) error {
	return s.Store.Ping(ctx)
}
