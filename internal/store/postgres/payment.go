package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cashbookhq/cashbook/internal/domain"
)

type PaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Create records the payment. When the payment discharges an installment,
// the installment flips to paid and, if it was the plan's last pending one,
// the plan flips to completed. All three writes commit atomically; the
// conditional plan update keeps concurrent payments against the same plan
// from racing each other.
func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("paymentRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	err = tx.QueryRow(ctx,
		`INSERT INTO payments (user_id, client_id, amount, timestamp, tag, note, status, installment_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		p.UserID, p.ClientID, p.Amount, p.Timestamp, p.Tag, p.Note, p.Status, p.InstallmentID,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("paymentRepo.Create: insert: %w", err)
	}

	if p.InstallmentID != nil {
		tag, err := tx.Exec(ctx,
			`UPDATE installments SET status = 'paid'
			 WHERE id = $1 AND user_id = $2`,
			*p.InstallmentID, p.UserID,
		)
		if err != nil {
			return fmt.Errorf("paymentRepo.Create: mark installment: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("paymentRepo.Create: installment: %w", domain.ErrNotFound)
		}

		var planID int64
		err = tx.QueryRow(ctx,
			`SELECT plan_id FROM installments WHERE id = $1`,
			*p.InstallmentID,
		).Scan(&planID)
		if err != nil {
			return fmt.Errorf("paymentRepo.Create: plan lookup: %w", err)
		}

		// Completes the plan only when no pending installment remains.
		_, err = tx.Exec(ctx,
			`UPDATE installment_plans p SET status = 'completed'
			 WHERE p.id = $1 AND p.user_id = $2
			   AND NOT EXISTS (
			     SELECT 1 FROM installments i
			     WHERE i.plan_id = p.id AND i.user_id = p.user_id AND i.status <> 'paid'
			   )`,
			planID, p.UserID,
		)
		if err != nil {
			return fmt.Errorf("paymentRepo.Create: complete plan: %w", err)
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("paymentRepo.Create: commit: %w", err)
	}

	return nil
}

func (r *PaymentRepo) ListWithClient(ctx context.Context, userID int64) ([]*domain.PaymentWithClient, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.user_id, p.client_id, p.amount, p.timestamp, p.tag, p.note, p.status, p.installment_id,
		        c.name, c.phone
		 FROM payments p
		 JOIN clients c ON c.id = p.client_id AND c.user_id = p.user_id
		 WHERE p.user_id = $1
		 ORDER BY p.timestamp DESC, p.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ListWithClient: %w", err)
	}
	defer rows.Close()

	var payments []*domain.PaymentWithClient
	for rows.Next() {
		var p domain.PaymentWithClient

		err = rows.Scan(
			&p.ID, &p.UserID, &p.ClientID, &p.Amount, &p.Timestamp,
			&p.Tag, &p.Note, &p.Status, &p.InstallmentID,
			&p.ClientName, &p.ClientPhone,
		)
		if err != nil {
			return nil, fmt.Errorf("paymentRepo.ListWithClient: scan: %w", err)
		}

		payments = append(payments, &p)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ListWithClient: rows: %w", err)
	}

	return payments, nil
}

func (r *PaymentRepo) ListByClient(ctx context.Context, userID, clientID int64, rng domain.DateRange) ([]*domain.Payment, error) {
	query := `SELECT id, user_id, client_id, amount, timestamp, tag, note, status, installment_id
		 FROM payments WHERE user_id = $1 AND client_id = $2`
	args := []any{userID, clientID}

	// Bounds compare on the calendar date, not the full timestamp.
	if rng.From != nil {
		args = append(args, *rng.From)
		query += fmt.Sprintf(` AND timestamp::date >= $%d`, len(args))
	}
	if rng.To != nil {
		args = append(args, *rng.To)
		query += fmt.Sprintf(` AND timestamp::date <= $%d`, len(args))
	}
	query += ` ORDER BY timestamp ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ListByClient: %w", err)
	}
	defer rows.Close()

	payments, err := scanPayments(rows)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ListByClient: %w", err)
	}

	return payments, nil
}

func (r *PaymentRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, client_id, amount, timestamp, tag, note, status, installment_id
		 FROM payments WHERE user_id = $1
		 ORDER BY timestamp ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	payments, err := scanPayments(rows)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ListByUser: %w", err)
	}

	return payments, nil
}

func scanPayments(rows pgx.Rows) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	for rows.Next() {
		var p domain.Payment

		err := rows.Scan(
			&p.ID, &p.UserID, &p.ClientID, &p.Amount, &p.Timestamp,
			&p.Tag, &p.Note, &p.Status, &p.InstallmentID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return payments, nil
}
