package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/cashbookhq/cashbook/internal/domain"
	"github.com/cashbookhq/cashbook/internal/ledger"
	"github.com/cashbookhq/cashbook/internal/server/middleware"
)

type CreatePlanInput struct {
	Body struct {
		ClientID    int64   `json:"client_id,omitempty" doc:"Client the plan belongs to"`
		TotalAmount float64 `json:"total_amount,omitempty" doc:"Amount to split across months"`
		Months      int     `json:"months,omitempty" doc:"Number of monthly installments"`
		StartDate   string  `json:"start_date,omitempty" doc:"First installment month, YYYY-MM-DD"`
	}
}

type CreatePlanOutput struct {
	Body struct {
		Success      bool              `json:"success"`
		Message      string            `json:"message"`
		Plan         *PlanDTO          `json:"plan"`
		Installments []*InstallmentDTO `json:"installments"`
	}
}

type ListPlansInput struct {
	ClientID int64 `query:"client_id" doc:"Restrict to one client"`
}

type ListPlansOutput struct {
	Body Envelope[[]*PlanDTO]
}

type ListPlanInstallmentsInput struct {
	ID int64 `path:"id" doc:"Plan ID"`
}

type ListInstallmentsOutput struct {
	Body Envelope[[]*InstallmentDTO]
}

type ListPendingInstallmentsInput struct {
	ClientID int64 `query:"client_id" doc:"Client ID"`
}

func RegisterInstallmentRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-installment-plan",
		Method:      http.MethodPost,
		Path:        "/installment-plans",
		Summary:     "Split an amount into a monthly installment plan",
		Tags:        []string{"Installments"},
	}, func(ctx context.Context, input *CreatePlanInput) (*CreatePlanOutput, error) {
		userID, _ := middleware.UserIDFromContext(ctx)

		if input.Body.ClientID <= 0 {
			return nil, huma.Error400BadRequest("Valid client ID is required")
		}
		if input.Body.TotalAmount <= 0 {
			return nil, huma.Error400BadRequest("Valid total amount is required")
		}
		if input.Body.Months < 1 {
			return nil, huma.Error400BadRequest("Valid number of months is required")
		}
		start, err := time.Parse("2006-01-02", input.Body.StartDate)
		if err != nil {
			return nil, huma.Error400BadRequest("Valid start date is required (YYYY-MM-DD)")
		}

		if _, err := store.Clients().GetByID(ctx, userID, input.Body.ClientID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error403Forbidden("Client not found or access denied")
			}
			return nil, huma.Error500InternalServerError("Failed to create installment plan")
		}

		total := decimal.NewFromFloat(input.Body.TotalAmount).Round(2)
		plan := &domain.InstallmentPlan{
			UserID:      userID,
			ClientID:    input.Body.ClientID,
			TotalAmount: total,
			Months:      input.Body.Months,
			StartDate:   start,
			Status:      domain.PlanPending,
			CreatedAt:   time.Now(),
		}

		schedule := ledger.Schedule(total, input.Body.Months, start)
		installments := make([]*domain.Installment, 0, len(schedule))
		for _, item := range schedule {
			installments = append(installments, &domain.Installment{
				UserID:    userID,
				MonthYear: item.MonthYear,
				Amount:    item.Amount,
				Status:    domain.InstallmentPending,
			})
		}

		if err := store.Installments().CreatePlan(ctx, plan, installments); err != nil {
			return nil, huma.Error500InternalServerError("Failed to create installment plan")
		}

		out := &CreatePlanOutput{}
		out.Body.Success = true
		out.Body.Message = "Installment plan created"
		out.Body.Plan = planDTO(&domain.PlanWithProgress{
			InstallmentPlan:   *plan,
			TotalInstallments: len(installments),
		})
		out.Body.Installments = installmentDTOs(installments)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-installment-plans",
		Method:      http.MethodGet,
		Path:        "/installment-plans",
		Summary:     "List installment plans with progress",
		Tags:        []string{"Installments"},
	}, func(ctx context.Context, input *ListPlansInput) (*ListPlansOutput, error) {
		userID, _ := middleware.UserIDFromContext(ctx)

		var clientID *int64
		if input.ClientID > 0 {
			clientID = &input.ClientID
		}

		plans, err := store.Installments().ListPlans(ctx, userID, clientID)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to list installment plans")
		}

		dtos := make([]*PlanDTO, 0, len(plans))
		for _, p := range plans {
			dtos = append(dtos, planDTO(p))
		}

		return &ListPlansOutput{Body: dataEnvelope("", dtos)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-plan-installments",
		Method:      http.MethodGet,
		Path:        "/installment-plans/{id}/installments",
		Summary:     "List one plan's installments",
		Tags:        []string{"Installments"},
	}, func(ctx context.Context, input *ListPlanInstallmentsInput) (*ListInstallmentsOutput, error) {
		userID, _ := middleware.UserIDFromContext(ctx)

		installments, err := store.Installments().ListByPlan(ctx, userID, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to list installments")
		}

		return &ListInstallmentsOutput{Body: dataEnvelope("", installmentDTOs(installments))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-pending-installments",
		Method:      http.MethodGet,
		Path:        "/installments/pending",
		Summary:     "List a client's pending installments",
		Tags:        []string{"Installments"},
	}, func(ctx context.Context, input *ListPendingInstallmentsInput) (*ListInstallmentsOutput, error) {
		userID, _ := middleware.UserIDFromContext(ctx)

		if input.ClientID <= 0 {
			return nil, huma.Error400BadRequest("Valid client ID is required")
		}

		if _, err := store.Clients().GetByID(ctx, userID, input.ClientID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error403Forbidden("Client not found or access denied")
			}
			return nil, huma.Error500InternalServerError("Failed to list installments")
		}

		installments, err := store.Installments().ListPendingByClient(ctx, userID, input.ClientID)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to list installments")
		}

		return &ListInstallmentsOutput{Body: dataEnvelope("", installmentDTOs(installments))}, nil
	})
}
