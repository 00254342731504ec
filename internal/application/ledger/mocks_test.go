package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Account, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.AccountFilter) ([]*ledger.Account, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*ledger.Account), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *ledger.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *ledger.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockInstallmentRepository struct {
	mock.Mock
}

func (m *MockInstallmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, accountType ledger.AccountType, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, accountType, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInstallmentRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*ledger.Installment, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) Save(ctx context.Context, installment *ledger.Installment) error {
	return m.Called(ctx, installment).Error(0)
}

func (m *MockInstallmentRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Payment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*ledger.Payment, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *ledger.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *ledger.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockAllocationRepository struct {
	mock.Mock
}

func (m *MockAllocationRepository) FindByInstallmentIDs(ctx context.Context, installmentIDs []uuid.UUID) ([]ledger.Allocation, error) {
	args := m.Called(ctx, installmentIDs)
	return args.Get(0).([]ledger.Allocation), args.Error(1)
}

func (m *MockAllocationRepository) CountByInstallmentID(ctx context.Context, installmentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, installmentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAllocationRepository) DeleteByInstallmentIDs(ctx context.Context, installmentIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, installmentIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAllocationRepository) DeleteByPaymentID(ctx context.Context, paymentID uuid.UUID) error {
	return m.Called(ctx, paymentID).Error(0)
}

type MockReferenceRepository struct {
	mock.Mock
	kind ledger.ReferenceKind
	soft bool
}

func (m *MockReferenceRepository) Kind() ledger.ReferenceKind { return m.kind }

func (m *MockReferenceRepository) SupportsSoftDelete() bool { return m.soft }

func (m *MockReferenceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Reference, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Reference), args.Error(1)
}

func (m *MockReferenceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*ledger.Reference, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*ledger.Reference), args.Get(1).(int64), args.Error(2)
}

func (m *MockReferenceRepository) Create(ctx context.Context, ref *ledger.Reference) error {
	return m.Called(ctx, ref).Error(0)
}

func (m *MockReferenceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockReferenceRepository) CountActiveForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).(int64), args.Error(1)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) SummarizeInstallments(ctx context.Context, tenantID uuid.UUID, from, to, today time.Time) (*ledger.InstallmentSummary, error) {
	args := m.Called(ctx, tenantID, from, to, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.InstallmentSummary), args.Error(1)
}

// mockRepos bundles the mocks behind TransactionalRepositories
type mockRepos struct {
	accounts     *MockAccountRepository
	installments *MockInstallmentRepository
	payments     *MockPaymentRepository
	allocations  *MockAllocationRepository
	references   map[ledger.ReferenceKind]*MockReferenceRepository
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		accounts:     new(MockAccountRepository),
		installments: new(MockInstallmentRepository),
		payments:     new(MockPaymentRepository),
		allocations:  new(MockAllocationRepository),
		references: map[ledger.ReferenceKind]*MockReferenceRepository{
			ledger.ReferenceKindVendor:   {kind: ledger.ReferenceKindVendor, soft: true},
			ledger.ReferenceKindCustomer: {kind: ledger.ReferenceKindCustomer, soft: true},
			ledger.ReferenceKindCategory: {kind: ledger.ReferenceKindCategory, soft: true},
			ledger.ReferenceKindTag:      {kind: ledger.ReferenceKindTag},
		},
	}
}

func (r *mockRepos) Accounts() ledger.AccountRepository         { return r.accounts }
func (r *mockRepos) Installments() ledger.InstallmentRepository { return r.installments }
func (r *mockRepos) Payments() ledger.PaymentRepository         { return r.payments }
func (r *mockRepos) Allocations() ledger.AllocationRepository   { return r.allocations }

func (r *mockRepos) References(kind ledger.ReferenceKind) ledger.ReferenceRepository {
	repo, ok := r.references[kind]
	if !ok {
		return nil
	}
	return repo
}

func (r *mockRepos) assertExpectations(t *testing.T) {
	t.Helper()
	r.accounts.AssertExpectations(t)
	r.installments.AssertExpectations(t)
	r.payments.AssertExpectations(t)
	r.allocations.AssertExpectations(t)
	for _, ref := range r.references {
		ref.AssertExpectations(t)
	}
}

// =============================================================================
// Fixtures
// =============================================================================

var fixedNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newAccount(t *testing.T, tenantID uuid.UUID, accountType ledger.AccountType, amount string, dueDates ...string) *ledger.Account {
	t.Helper()
	dates := make([]time.Time, 0, len(dueDates))
	for _, d := range dueDates {
		dates = append(dates, day(d))
	}
	account, err := ledger.NewAccount(tenantID, ledger.NewAccountParams{
		Type:             accountType,
		CounterpartyID:   uuid.New(),
		Description:      "test account",
		Amount:           dec(amount),
		InstallmentCount: len(dates),
		DueDates:         dates,
	})
	require.NoError(t, err)
	return account
}

func newPayment(t *testing.T, tenantID uuid.UUID, allocs ...ledger.Allocation) *ledger.Payment {
	t.Helper()
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Amount)
	}
	p, err := ledger.NewPayment(tenantID, ledger.NewPaymentParams{
		Amount:      total,
		PaymentDate: day("2026-03-01"),
		Method:      ledger.PaymentMethodBankTransfer,
		Allocations: allocs,
	})
	require.NoError(t, err)
	return p
}
