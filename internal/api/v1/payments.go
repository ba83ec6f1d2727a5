package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/cashbookhq/cashbook/internal/domain"
	"github.com/cashbookhq/cashbook/internal/server/middleware"
)

type ListPaymentsInput struct{}

type ListPaymentsOutput struct {
	Body Envelope[[]*PaymentDTO]
}

type CreatePaymentInput struct {
	Body struct {
		ClientID      int64      `json:"client_id,omitempty" doc:"Client the payment belongs to"`
		Amount        float64    `json:"amount,omitempty" doc:"Payment amount; sign is derived from status"`
		Status        string     `json:"status,omitempty" doc:"sent or received"`
		Tag           string     `json:"tag,omitempty" maxLength:"255" doc:"Free-form category label"`
		Note          string     `json:"note,omitempty" maxLength:"1024" doc:"Free-form note"`
		Timestamp     *time.Time `json:"timestamp,omitempty" doc:"Defaults to now"`
		InstallmentID *int64     `json:"installment_id,omitempty" doc:"Installment this payment discharges"`
	}
}

type CreatePaymentOutput struct {
	Body Envelope[*PaymentDTO]
}

func RegisterPaymentRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-payments",
		Method:      http.MethodGet,
		Path:        "/payments",
		Summary:     "List the current user's payments with client details",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, _ *ListPaymentsInput) (*ListPaymentsOutput, error) {
		userID, _ := middleware.UserIDFromContext(ctx)

		payments, err := store.Payments().ListWithClient(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to list payments")
		}

		return &ListPaymentsOutput{Body: dataEnvelope("", paymentWithClientDTOs(payments))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-payment",
		Method:      http.MethodPost,
		Path:        "/payments",
		Summary:     "Record a payment",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *CreatePaymentInput) (*CreatePaymentOutput, error) {
		userID, _ := middleware.UserIDFromContext(ctx)

		if input.Body.ClientID <= 0 {
			return nil, huma.Error400BadRequest("Valid client ID is required")
		}
		if input.Body.Amount == 0 {
			return nil, huma.Error400BadRequest("Valid amount is required")
		}
		status := domain.PaymentStatus(input.Body.Status)
		if !status.Valid() {
			return nil, huma.Error400BadRequest("Status must be sent or received")
		}
		if input.Body.InstallmentID != nil && *input.Body.InstallmentID <= 0 {
			return nil, huma.Error400BadRequest("Valid installment ID is required")
		}

		if _, err := store.Clients().GetByID(ctx, userID, input.Body.ClientID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error403Forbidden("Client not found or access denied")
			}
			return nil, huma.Error500InternalServerError("Failed to add payment")
		}

		ts := time.Now()
		if input.Body.Timestamp != nil {
			ts = *input.Body.Timestamp
		}

		payment := &domain.Payment{
			UserID:        userID,
			ClientID:      input.Body.ClientID,
			Amount:        domain.NormalizeAmount(status, decimal.NewFromFloat(input.Body.Amount).Round(2)),
			Timestamp:     ts,
			Tag:           input.Body.Tag,
			Note:          input.Body.Note,
			Status:        status,
			InstallmentID: input.Body.InstallmentID,
		}

		if err := store.Payments().Create(ctx, payment); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error403Forbidden("Installment not found or access denied")
			}
			return nil, huma.Error500InternalServerError("Failed to add payment")
		}

		return &CreatePaymentOutput{
			Body: dataEnvelope("Payment added", paymentDTO(payment)),
		}, nil
	})
}
