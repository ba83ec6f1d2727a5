package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cashbookhq/cashbook/internal/domain"
)

type InstallmentRepo struct {
	pool *pgxpool.Pool
}

func NewInstallmentRepo(pool *pgxpool.Pool) *InstallmentRepo {
	return &InstallmentRepo{pool: pool}
}

// CreatePlan stores the plan and its full installment schedule in one
// transaction. IDs are written back into the passed structs.
func (r *InstallmentRepo) CreatePlan(ctx context.Context, plan *domain.InstallmentPlan, installments []*domain.Installment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("installmentRepo.CreatePlan: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	err = tx.QueryRow(ctx,
		`INSERT INTO installment_plans (user_id, client_id, total_amount, months, start_date, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		plan.UserID, plan.ClientID, plan.TotalAmount, plan.Months, plan.StartDate, plan.Status, plan.CreatedAt,
	).Scan(&plan.ID)
	if err != nil {
		return fmt.Errorf("installmentRepo.CreatePlan: insert plan: %w", err)
	}

	for _, inst := range installments {
		inst.PlanID = plan.ID
		inst.UserID = plan.UserID

		err = tx.QueryRow(ctx,
			`INSERT INTO installments (user_id, plan_id, month_year, amount, status)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			inst.UserID, inst.PlanID, inst.MonthYear, inst.Amount, inst.Status,
		).Scan(&inst.ID)
		if err != nil {
			return fmt.Errorf("installmentRepo.CreatePlan: insert installment: %w", err)
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("installmentRepo.CreatePlan: commit: %w", err)
	}

	return nil
}

func (r *InstallmentRepo) ListPlans(ctx context.Context, userID int64, clientID *int64) ([]*domain.PlanWithProgress, error) {
	query := `SELECT p.id, p.user_id, p.client_id, p.total_amount, p.months, p.start_date, p.status, p.created_at,
		        COUNT(i.id), COUNT(i.id) FILTER (WHERE i.status = 'paid')
		 FROM installment_plans p
		 LEFT JOIN installments i ON i.plan_id = p.id AND i.user_id = p.user_id
		 WHERE p.user_id = $1`
	args := []any{userID}

	if clientID != nil {
		query += ` AND p.client_id = $2`
		args = append(args, *clientID)
	}
	query += ` GROUP BY p.id ORDER BY p.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("installmentRepo.ListPlans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.PlanWithProgress
	for rows.Next() {
		var p domain.PlanWithProgress

		err = rows.Scan(
			&p.ID, &p.UserID, &p.ClientID, &p.TotalAmount, &p.Months,
			&p.StartDate, &p.Status, &p.CreatedAt,
			&p.TotalInstallments, &p.PaidInstallments,
		)
		if err != nil {
			return nil, fmt.Errorf("installmentRepo.ListPlans: scan: %w", err)
		}

		plans = append(plans, &p)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("installmentRepo.ListPlans: rows: %w", err)
	}

	return plans, nil
}

func (r *InstallmentRepo) ListByPlan(ctx context.Context, userID, planID int64) ([]*domain.Installment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, plan_id, month_year, amount, status
		 FROM installments
		 WHERE user_id = $1 AND plan_id = $2
		 ORDER BY month_year ASC`,
		userID, planID,
	)
	if err != nil {
		return nil, fmt.Errorf("installmentRepo.ListByPlan: %w", err)
	}
	defer rows.Close()

	installments, err := scanInstallments(rows)
	if err != nil {
		return nil, fmt.Errorf("installmentRepo.ListByPlan: %w", err)
	}

	return installments, nil
}

func (r *InstallmentRepo) ListPendingByClient(ctx context.Context, userID, clientID int64) ([]*domain.Installment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT i.id, i.user_id, i.plan_id, i.month_year, i.amount, i.status
		 FROM installments i
		 JOIN installment_plans p ON p.id = i.plan_id AND p.user_id = i.user_id
		 WHERE i.user_id = $1 AND p.client_id = $2 AND i.status = 'pending'
		 ORDER BY i.month_year ASC`,
		userID, clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("installmentRepo.ListPendingByClient: %w", err)
	}
	defer rows.Close()

	installments, err := scanInstallments(rows)
	if err != nil {
		return nil, fmt.Errorf("installmentRepo.ListPendingByClient: %w", err)
	}

	return installments, nil
}

func scanInstallments(rows pgx.Rows) ([]*domain.Installment, error) {
	var installments []*domain.Installment
	for rows.Next() {
		var inst domain.Installment

		err := rows.Scan(&inst.ID, &inst.UserID, &inst.PlanID, &inst.MonthYear, &inst.Amount, &inst.Status)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		installments = append(installments, &inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return installments, nil
}
