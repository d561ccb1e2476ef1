package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pledge/internal/models"
	"pledge/internal/store"
)

const receiptColumns = `id, from_user_id, to_user_id, recipient_email, tags, description,
	is_public, connection_id, status, created_at, updated_at`

// InsertReceipt inserts a new receipt row.
func (d *DB) InsertReceipt(ctx context.Context, r *models.Receipt) error {
	query := `
		INSERT INTO receipts (from_user_id, to_user_id, recipient_email, tags, description,
			is_public, connection_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	return d.Pool.QueryRow(ctx, query,
		r.FromUserID,
		r.ToUserID,
		r.RecipientEmail,
		r.Tags,
		r.Description,
		r.IsPublic,
		r.ConnectionID,
		r.Status,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

// GetReceiptByID retrieves a receipt by its id.
func (d *DB) GetReceiptByID(ctx context.Context, id uuid.UUID) (*models.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE id = $1`

	var r models.Receipt
	err := scanReceiptFields(d.Pool.QueryRow(ctx, query, id), &r)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListReceiptsForUser retrieves receipts sent by or addressed to the user,
// newest first.
func (d *DB) ListReceiptsForUser(ctx context.Context, userID uuid.UUID) ([]models.Receipt, error) {
	query := `
		SELECT ` + receiptColumns + `
		FROM receipts
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC
	`
	return d.queryReceipts(ctx, query, userID)
}

// ListUnboundReceiptsByEmail retrieves receipts addressed to an email that
// have no bound recipient account yet.
func (d *DB) ListUnboundReceiptsByEmail(ctx context.Context, email string) ([]models.Receipt, error) {
	query := `
		SELECT ` + receiptColumns + `
		FROM receipts
		WHERE lower(recipient_email) = lower($1) AND to_user_id IS NULL
	`
	return d.queryReceipts(ctx, query, email)
}

// BindReceipt sets the receipt's recipient account and connection.
func (d *DB) BindReceipt(ctx context.Context, id, toUserID, connectionID uuid.UUID) error {
	query := `
		UPDATE receipts
		SET to_user_id = $1, connection_id = $2, updated_at = NOW()
		WHERE id = $3
	`
	tag, err := d.Pool.Exec(ctx, query, toUserID, connectionID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// BindReceiptsFromSender binds every still-unbound receipt from one sender
// to the given recipient in a single update.
func (d *DB) BindReceiptsFromSender(ctx context.Context, email string, fromUserID, toUserID, connectionID uuid.UUID, status string) (int64, error) {
	query := `
		UPDATE receipts
		SET to_user_id = $1, connection_id = $2, status = $3, updated_at = NOW()
		WHERE lower(recipient_email) = lower($4) AND to_user_id IS NULL AND from_user_id = $5
	`
	tag, err := d.Pool.Exec(ctx, query, toUserID, connectionID, status, email, fromUserID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UpdateReceiptStatus sets a receipt's status.
func (d *DB) UpdateReceiptStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE receipts SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := d.Pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (d *DB) queryReceipts(ctx context.Context, query string, args ...any) ([]models.Receipt, error) {
	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []models.Receipt
	for rows.Next() {
		var r models.Receipt
		if err := scanReceiptFields(rows, &r); err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}

	return receipts, rows.Err()
}

func scanReceiptFields(row pgx.Row, r *models.Receipt) error {
	return row.Scan(
		&r.ID,
		&r.FromUserID,
		&r.ToUserID,
		&r.RecipientEmail,
		&r.Tags,
		&r.Description,
		&r.IsPublic,
		&r.ConnectionID,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
}
