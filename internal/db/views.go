package db

import (
	"context"

	"pledge/internal/models"
)

// GetLeaderboardStats reads the leaderboard_stats view joined with the
// profile fields shown alongside each entry.
func (d *DB) GetLeaderboardStats(ctx context.Context) ([]models.LeaderboardStat, error) {
	query := `
		SELECT s.user_id, p.first_name, p.last_name, COALESCE(p.institution, ''),
			s.given_count, s.received_count
		FROM leaderboard_stats s
		JOIN public_profiles p ON p.user_id = s.user_id
	`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.LeaderboardStat
	for rows.Next() {
		var s models.LeaderboardStat
		var firstName, lastName string
		if err := rows.Scan(&s.UserID, &firstName, &lastName, &s.Institution, &s.GivenCount, &s.ReceivedCount); err != nil {
			return nil, err
		}
		p := models.Profile{FirstName: firstName, LastName: lastName}
		s.Name = p.FullName()
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// ListInstitutionEdges retrieves institution exchange edges with at least
// one exchange.
func (d *DB) ListInstitutionEdges(ctx context.Context) ([]models.InstitutionEdge, error) {
	query := `
		SELECT from_institution, to_institution, exchange_count
		FROM institution_relationships
		WHERE exchange_count > 0
	`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []models.InstitutionEdge
	for rows.Next() {
		var e models.InstitutionEdge
		if err := rows.Scan(&e.FromInstitution, &e.ToInstitution, &e.ExchangeCount); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}

	return edges, rows.Err()
}

// RebuildInstitutionEdges recomputes institution_relationships from accepted
// receipts joined to the sender and recipient profiles. Called by the
// background aggregator.
func (d *DB) RebuildInstitutionEdges(ctx context.Context) error {
	query := `
		WITH fresh AS (
			SELECT sp.institution_id AS from_institution,
				rp.institution_id AS to_institution,
				COUNT(*) AS exchange_count
			FROM receipts r
			JOIN public_profiles sp ON sp.user_id = r.from_user_id
			JOIN public_profiles rp ON rp.user_id = r.to_user_id
			WHERE r.status = 'ACCEPTED'
			  AND sp.institution_id <> ''
			  AND rp.institution_id <> ''
			GROUP BY sp.institution_id, rp.institution_id
		),
		upserted AS (
			INSERT INTO institution_relationships (from_institution, to_institution, exchange_count)
			SELECT from_institution, to_institution, exchange_count FROM fresh
			ON CONFLICT (from_institution, to_institution)
			DO UPDATE SET exchange_count = EXCLUDED.exchange_count
			RETURNING from_institution, to_institution
		)
		DELETE FROM institution_relationships ir
		WHERE NOT EXISTS (
			SELECT 1 FROM fresh f
			WHERE f.from_institution = ir.from_institution
			  AND f.to_institution = ir.to_institution
		)
	`

	_, err := d.Pool.Exec(ctx, query)
	return err
}

// CountReceiptsByStatus returns receipt totals grouped by status. Used by
// the Prometheus collector.
func (d *DB) CountReceiptsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := d.Pool.Query(ctx, `SELECT status, COUNT(*) FROM receipts GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

// CountConnections returns total and accepted connection counts. Used by
// the Prometheus collector.
func (d *DB) CountConnections(ctx context.Context) (total, accepted int64, err error) {
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE accepted) FROM connections`
	err = d.Pool.QueryRow(ctx, query).Scan(&total, &accepted)
	return total, accepted, err
}
