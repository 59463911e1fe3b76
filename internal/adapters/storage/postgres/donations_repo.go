package postgres

import (
	"context"
	"database/sql"

	"ong-shelter-api/internal/domain/donations"
)

type DonationsRepo struct {
	db *sql.DB
}

func NewDonationsRepo(db *sql.DB) *DonationsRepo {
	return &DonationsRepo{db: db}
}

const donationColumns = `
	id, amount, method, donor_name, donor_email, recurring,
	status, tx_id, pix_payload, stripe_session_id, created_at, updated_at`

func (r *DonationsRepo) Create(ctx context.Context, d donations.Donation) (donations.Donation, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO donations (
			amount, method, donor_name, donor_email, recurring,
			status, tx_id, pix_payload, stripe_session_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`,
		d.Amount, string(d.Method), d.DonorName, d.DonorEmail, d.Recurring,
		string(d.Status), d.TxID, d.PixPayload, d.StripeSessionID,
		d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
	if err != nil {
		return donations.Donation{}, err
	}
	return d, nil
}

func (r *DonationsRepo) GetByID(ctx context.Context, id int64) (donations.Donation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+donationColumns+`
		FROM donations
		WHERE id = $1
	`, id)

	d, err := scanDonation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return donations.Donation{}, donations.ErrNotFound
		}
		return donations.Donation{}, err
	}
	return d, nil
}

func (r *DonationsRepo) MarkCompletedBySession(ctx context.Context, sessionID string) (donations.Donation, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE donations
		SET status = 'completed', updated_at = now()
		WHERE stripe_session_id = $1
		RETURNING `+donationColumns,
		sessionID,
	)

	d, err := scanDonation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return donations.Donation{}, donations.ErrNotFound
		}
		return donations.Donation{}, err
	}
	return d, nil
}

func (r *DonationsRepo) ListRecentCompleted(ctx context.Context, limit int) ([]donations.Donation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+donationColumns+`
		FROM donations
		WHERE status = 'completed'
		ORDER BY updated_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]donations.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DonationsRepo) SumCompleted(ctx context.Context) (float64, error) {
	var sum float64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM donations WHERE status = 'completed'
	`).Scan(&sum)
	return sum, err
}

func scanDonation(row rowScanner) (donations.Donation, error) {
	var d donations.Donation
	var method, status string

	err := row.Scan(
		&d.ID, &d.Amount, &method, &d.DonorName, &d.DonorEmail, &d.Recurring,
		&status, &d.TxID, &d.PixPayload, &d.StripeSessionID,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return donations.Donation{}, err
	}
	d.Method = donations.Method(method)
	d.Status = donations.Status(status)
	return d, nil
}
