package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PlanStatus string

const (
	PlanPending   PlanStatus = "pending"
	PlanCompleted PlanStatus = "completed"
)

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
)

// InstallmentPlan splits a receivable into monthly obligations. The plan
// transitions to completed as a side effect of the payment that discharges
// its last pending installment.
type InstallmentPlan struct {
	ID          int64
	UserID      int64
	ClientID    int64
	TotalAmount decimal.Decimal
	Months      int
	StartDate   time.Time
	Status      PlanStatus
	CreatedAt   time.Time
}

// PlanWithProgress is a plan enriched with installment counts.
type PlanWithProgress struct {
	InstallmentPlan
	TotalInstallments int
	PaidInstallments  int
}

// IsCompleted reports whether every installment has been paid or the plan
// was persisted as completed.
func (p PlanWithProgress) IsCompleted() bool {
	if p.TotalInstallments > 0 && p.PaidInstallments >= p.TotalInstallments {
		return true
	}
	return p.Status == PlanCompleted
}

// Installment is one monthly obligation of a plan. MonthYear is a "YYYY-MM"
// period label. Mutated to paid only as a side effect of a payment that
// references it.
type Installment struct {
	ID        int64
	UserID    int64
	PlanID    int64
	MonthYear string
	Amount    decimal.Decimal
	Status    InstallmentStatus
}

type InstallmentRepository interface {
	// CreatePlan stores the plan and all its installments in one transaction.
	CreatePlan(ctx context.Context, plan *InstallmentPlan, installments []*Installment) error
	// ListPlans returns the user's plans, optionally filtered by client,
	// enriched with total/paid installment counts.
	ListPlans(ctx context.Context, userID int64, clientID *int64) ([]*PlanWithProgress, error)
	ListByPlan(ctx context.Context, userID, planID int64) ([]*Installment, error)
	// ListPendingByClient returns a client's pending installments ordered by
	// period ascending, used to pick which obligation a payment discharges.
	ListPendingByClient(ctx context.Context, userID, clientID int64) ([]*Installment, error)
}
