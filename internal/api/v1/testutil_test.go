package v1_test

import (
	"context"

	"github.com/cashbookhq/cashbook/internal/domain"
	"github.com/cashbookhq/cashbook/internal/ledger"
	"github.com/cashbookhq/cashbook/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers injecting the resolved identity for DoCtx
// ---------------------------------------------------------------------------

func userCtx(userID int64) context.Context {
	return context.WithValue(context.Background(), middleware.ContextKeyUserID, userID)
}

func namedUserCtx(userID int64, username string) context.Context {
	ctx := userCtx(userID)
	return context.WithValue(ctx, middleware.ContextKeyUsername, username)
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	users        domain.UserRepository
	clients      domain.ClientRepository
	payments     domain.PaymentRepository
	installments domain.InstallmentRepository
}

func (m *mockDataStore) Users() domain.UserRepository               { return m.users }
func (m *mockDataStore) Clients() domain.ClientRepository           { return m.clients }
func (m *mockDataStore) Payments() domain.PaymentRepository         { return m.payments }
func (m *mockDataStore) Installments() domain.InstallmentRepository { return m.installments }

// ---------------------------------------------------------------------------
// Mock ClientRepository
// ---------------------------------------------------------------------------

type mockClientRepo struct {
	listFunc    func(ctx context.Context, userID int64, filter domain.ClientFilter) ([]*domain.Client, error)
	getByIDFunc func(ctx context.Context, userID, id int64) (*domain.Client, error)
	createFunc  func(ctx context.Context, c *domain.Client) error
	updateFunc  func(ctx context.Context, c *domain.Client) error
	deleteFunc  func(ctx context.Context, userID, id int64) error
}

func (m *mockClientRepo) List(ctx context.Context, userID int64, filter domain.ClientFilter) ([]*domain.Client, error) {
	return m.listFunc(ctx, userID, filter)
}

func (m *mockClientRepo) GetByID(ctx context.Context, userID, id int64) (*domain.Client, error) {
	return m.getByIDFunc(ctx, userID, id)
}

func (m *mockClientRepo) Create(ctx context.Context, c *domain.Client) error {
	return m.createFunc(ctx, c)
}

func (m *mockClientRepo) Update(ctx context.Context, c *domain.Client) error {
	return m.updateFunc(ctx, c)
}

func (m *mockClientRepo) Delete(ctx context.Context, userID, id int64) error {
	return m.deleteFunc(ctx, userID, id)
}

// ---------------------------------------------------------------------------
// Mock PaymentRepository
// ---------------------------------------------------------------------------

type mockPaymentRepo struct {
	createFunc         func(ctx context.Context, p *domain.Payment) error
	listWithClientFunc func(ctx context.Context, userID int64) ([]*domain.PaymentWithClient, error)
	listByClientFunc   func(ctx context.Context, userID, clientID int64, rng domain.DateRange) ([]*domain.Payment, error)
	listByUserFunc     func(ctx context.Context, userID int64) ([]*domain.Payment, error)
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	return m.createFunc(ctx, p)
}

func (m *mockPaymentRepo) ListWithClient(ctx context.Context, userID int64) ([]*domain.PaymentWithClient, error) {
	return m.listWithClientFunc(ctx, userID)
}

func (m *mockPaymentRepo) ListByClient(ctx context.Context, userID, clientID int64, rng domain.DateRange) ([]*domain.Payment, error) {
	return m.listByClientFunc(ctx, userID, clientID, rng)
}

func (m *mockPaymentRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.Payment, error) {
	return m.listByUserFunc(ctx, userID)
}

// ---------------------------------------------------------------------------
// Mock InstallmentRepository
// ---------------------------------------------------------------------------

type mockInstallmentRepo struct {
	createPlanFunc          func(ctx context.Context, plan *domain.InstallmentPlan, installments []*domain.Installment) error
	listPlansFunc           func(ctx context.Context, userID int64, clientID *int64) ([]*domain.PlanWithProgress, error)
	listByPlanFunc          func(ctx context.Context, userID, planID int64) ([]*domain.Installment, error)
	listPendingByClientFunc func(ctx context.Context, userID, clientID int64) ([]*domain.Installment, error)
}

func (m *mockInstallmentRepo) CreatePlan(ctx context.Context, plan *domain.InstallmentPlan, installments []*domain.Installment) error {
	return m.createPlanFunc(ctx, plan, installments)
}

func (m *mockInstallmentRepo) ListPlans(ctx context.Context, userID int64, clientID *int64) ([]*domain.PlanWithProgress, error) {
	return m.listPlansFunc(ctx, userID, clientID)
}

func (m *mockInstallmentRepo) ListByPlan(ctx context.Context, userID, planID int64) ([]*domain.Installment, error) {
	return m.listByPlanFunc(ctx, userID, planID)
}

func (m *mockInstallmentRepo) ListPendingByClient(ctx context.Context, userID, clientID int64) ([]*domain.Installment, error) {
	return m.listPendingByClientFunc(ctx, userID, clientID)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	signupFunc        func(ctx context.Context, username, password string) (*domain.User, error)
	loginFunc         func(ctx context.Context, username, password string) (*domain.User, string, error)
	refreshFunc       func(ctx context.Context, userID int64) (*domain.User, string, error)
	resetPasswordFunc func(ctx context.Context, userID int64, newPassword string) error
	logoutFunc        func(ctx context.Context, rawToken string) error
}

func (m *mockAuthService) Signup(ctx context.Context, username, password string) (*domain.User, error) {
	return m.signupFunc(ctx, username, password)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	return m.loginFunc(ctx, username, password)
}

func (m *mockAuthService) Refresh(ctx context.Context, userID int64) (*domain.User, string, error) {
	return m.refreshFunc(ctx, userID)
}

func (m *mockAuthService) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	return m.resetPasswordFunc(ctx, userID, newPassword)
}

func (m *mockAuthService) Logout(ctx context.Context, rawToken string) error {
	return m.logoutFunc(ctx, rawToken)
}

// ---------------------------------------------------------------------------
// Mock LedgerService
// ---------------------------------------------------------------------------

type mockLedgerService struct {
	clientLedgerFunc      func(ctx context.Context, userID, clientID int64, rng domain.DateRange) ([]ledger.Entry, error)
	clientSummaryFunc     func(ctx context.Context, userID, clientID int64) (ledger.Summary, error)
	allClientsSummaryFunc func(ctx context.Context, userID int64) ([]ledger.ClientSummary, error)
}

func (m *mockLedgerService) ClientLedger(ctx context.Context, userID, clientID int64, rng domain.DateRange) ([]ledger.Entry, error) {
	return m.clientLedgerFunc(ctx, userID, clientID, rng)
}

func (m *mockLedgerService) ClientSummary(ctx context.Context, userID, clientID int64) (ledger.Summary, error) {
	return m.clientSummaryFunc(ctx, userID, clientID)
}

func (m *mockLedgerService) AllClientsSummary(ctx context.Context, userID int64) ([]ledger.ClientSummary, error) {
	return m.allClientsSummaryFunc(ctx, userID)
}
