package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"pledge/internal/models"
	"pledge/internal/store"
)

const connectionColumns = `id, low_id, high_id, requested_by, accepted, accepted_at, created_at`

// uniqueViolation is the Postgres error code raised when an insert loses to
// the unique index on (low_id, high_id).
const uniqueViolation = "23505"

// InsertConnection inserts a new connection row. The pair must already be in
// canonical order; a duplicate pair maps to store.ErrDuplicatePair.
func (d *DB) InsertConnection(ctx context.Context, c *models.Connection) error {
	query := `
		INSERT INTO connections (low_id, high_id, requested_by, accepted, accepted_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := d.Pool.QueryRow(ctx, query, c.LowID, c.HighID, c.RequestedBy, c.Accepted, c.AcceptedAt).
		Scan(&c.ID, &c.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.ErrDuplicatePair
	}
	return err
}

// UpsertAcceptedConnection creates or updates the row for a canonical pair
// directly into the accepted state. The original requested_by and a non-null
// accepted_at survive the upsert, so re-running is a no-op.
func (d *DB) UpsertAcceptedConnection(ctx context.Context, low, high, requestedBy uuid.UUID, at time.Time) (*models.Connection, error) {
	query := `
		INSERT INTO connections (low_id, high_id, requested_by, accepted, accepted_at)
		VALUES ($1, $2, $3, TRUE, $4)
		ON CONFLICT (low_id, high_id) DO UPDATE SET
			accepted = TRUE,
			accepted_at = COALESCE(connections.accepted_at, EXCLUDED.accepted_at)
		RETURNING ` + connectionColumns

	return d.scanConnection(d.Pool.QueryRow(ctx, query, low, high, requestedBy, at))
}

// GetConnectionByID retrieves a connection by its id.
func (d *DB) GetConnectionByID(ctx context.Context, id uuid.UUID) (*models.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE id = $1`
	return d.scanConnection(d.Pool.QueryRow(ctx, query, id))
}

// GetConnectionByPair retrieves the connection for a canonical pair.
func (d *DB) GetConnectionByPair(ctx context.Context, low, high uuid.UUID) (*models.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE low_id = $1 AND high_id = $2`
	return d.scanConnection(d.Pool.QueryRow(ctx, query, low, high))
}

// MarkConnectionAccepted sets accepted = true and stamps accepted_at.
func (d *DB) MarkConnectionAccepted(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE connections SET accepted = TRUE, accepted_at = $1 WHERE id = $2`
	tag, err := d.Pool.Exec(ctx, query, at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteConnection deletes a connection row.
func (d *DB) DeleteConnection(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM connections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListConnectionsForUser retrieves every connection the user is a party to.
func (d *DB) ListConnectionsForUser(ctx context.Context, userID uuid.UUID) ([]models.Connection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM connections
		WHERE low_id = $1 OR high_id = $1
		ORDER BY created_at DESC
	`

	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []models.Connection
	for rows.Next() {
		var c models.Connection
		if err := scanConnectionFields(rows, &c); err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}

	return conns, rows.Err()
}

func (d *DB) scanConnection(row pgx.Row) (*models.Connection, error) {
	var c models.Connection
	err := scanConnectionFields(row, &c)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanConnectionFields(row pgx.Row, c *models.Connection) error {
	return row.Scan(
		&c.ID,
		&c.LowID,
		&c.HighID,
		&c.RequestedBy,
		&c.Accepted,
		&c.AcceptedAt,
		&c.CreatedAt,
	)
}
