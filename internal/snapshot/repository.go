package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates that the requested snapshot was not found.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a stored account summary for one address and day.
type Snapshot struct {
	ID           int             `json:"id"`
	Address      string          `json:"address"`
	SnapshotDate time.Time       `json:"snapshotDate"`
	Data         json.RawMessage `json:"data"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Repository defines persistent storage for snapshots.
type Repository interface {
	Save(ctx context.Context, address string, date time.Time, data json.RawMessage) error
	GetLatest(ctx context.Context, address string) (*Snapshot, error)
	GetByDate(ctx context.Context, address string, date time.Time) (*Snapshot, error)
	List(ctx context.Context, address string, limit int) ([]Snapshot, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL snapshot repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Save(ctx context.Context, address string, date time.Time, data json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO account_snapshots (address, snapshot_date, data)
		 VALUES ($1, $2, $3::jsonb)
		 ON CONFLICT (address, snapshot_date)
		 DO UPDATE SET data = $3::jsonb, created_at = NOW()`,
		address, date, data)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

func (r *PgRepository) GetLatest(ctx context.Context, address string) (*Snapshot, error) {
	return r.queryOne(ctx,
		`SELECT id, address, snapshot_date, data, created_at
		 FROM account_snapshots
		 WHERE address = $1
		 ORDER BY snapshot_date DESC
		 LIMIT 1`, address)
}

func (r *PgRepository) GetByDate(ctx context.Context, address string, date time.Time) (*Snapshot, error) {
	return r.queryOne(ctx,
		`SELECT id, address, snapshot_date, data, created_at
		 FROM account_snapshots
		 WHERE address = $1 AND snapshot_date = $2`, address, date)
}

func (r *PgRepository) queryOne(ctx context.Context, sql string, args ...any) (*Snapshot, error) {
	var s Snapshot
	err := r.pool.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.Address, &s.SnapshotDate, &s.Data, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting snapshot: %w", err)
	}
	return &s, nil
}

func (r *PgRepository) List(ctx context.Context, address string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, address, snapshot_date, data, created_at
		 FROM account_snapshots
		 WHERE address = $1
		 ORDER BY snapshot_date DESC
		 LIMIT $2`, address, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.Address, &s.SnapshotDate, &s.Data, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snapshots, nil
}
