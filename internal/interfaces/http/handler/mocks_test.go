package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	ledgerapp "github.com/erp/ledger/internal/application/ledger"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, in ledgerapp.CreateAccountInput) (*ledgerapp.AccountResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.AccountResponse), args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, tenantID, accountID uuid.UUID) (*ledgerapp.AccountResponse, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.AccountResponse), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, in ledgerapp.ListAccountsInput) (*shared.Paginated[ledgerapp.AccountResponse], error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[ledgerapp.AccountResponse]), args.Error(1)
}

func (m *MockAccountService) UpdateInstallment(ctx context.Context, in ledgerapp.UpdateInstallmentInput) (*ledgerapp.AccountResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.AccountResponse), args.Error(1)
}

func (m *MockAccountService) DeleteInstallment(ctx context.Context, tenantID, accountID, installmentID uuid.UUID) (*ledgerapp.AccountResponse, error) {
	args := m.Called(ctx, tenantID, accountID, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.AccountResponse), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, tenantID, accountID uuid.UUID) (*ledgerapp.DeleteAccountResult, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.DeleteAccountResult), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePayment(ctx context.Context, in ledgerapp.CreatePaymentInput) (*ledgerapp.PaymentResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.PaymentResponse), args.Error(1)
}

func (m *MockPaymentService) QuickPay(ctx context.Context, in ledgerapp.QuickPayInput) (*ledgerapp.PaymentResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.PaymentResponse), args.Error(1)
}

func (m *MockPaymentService) GetPayment(ctx context.Context, tenantID, paymentID uuid.UUID) (*ledgerapp.PaymentResponse, error) {
	args := m.Called(ctx, tenantID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.PaymentResponse), args.Error(1)
}

func (m *MockPaymentService) UpdatePayment(ctx context.Context, in ledgerapp.UpdatePaymentInput) (*ledgerapp.PaymentResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.PaymentResponse), args.Error(1)
}

func (m *MockPaymentService) DeletePayment(ctx context.Context, tenantID, paymentID uuid.UUID) error {
	return m.Called(ctx, tenantID, paymentID).Error(0)
}

type MockReferenceService struct {
	mock.Mock
}

func (m *MockReferenceService) Create(ctx context.Context, tenantID uuid.UUID, kind ledger.ReferenceKind, name string) (*ledgerapp.ReferenceResponse, error) {
	args := m.Called(ctx, tenantID, kind, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.ReferenceResponse), args.Error(1)
}

func (m *MockReferenceService) Get(ctx context.Context, tenantID uuid.UUID, kind ledger.ReferenceKind, id uuid.UUID) (*ledgerapp.ReferenceResponse, error) {
	args := m.Called(ctx, tenantID, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.ReferenceResponse), args.Error(1)
}

func (m *MockReferenceService) List(ctx context.Context, tenantID uuid.UUID, kind ledger.ReferenceKind, filter shared.Filter) (*shared.Paginated[ledgerapp.ReferenceResponse], error) {
	args := m.Called(ctx, tenantID, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[ledgerapp.ReferenceResponse]), args.Error(1)
}

func (m *MockReferenceService) Delete(ctx context.Context, tenantID uuid.UUID, kind ledger.ReferenceKind, id uuid.UUID) error {
	return m.Called(ctx, tenantID, kind, id).Error(0)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) InstallmentSummary(ctx context.Context, tenantID uuid.UUID, from, to string) (*ledger.InstallmentSummary, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.InstallmentSummary), args.Error(1)
}

// newTenantRouter returns an engine with request id and tenant resolution,
// mirroring the /api/v1 group
func newTenantRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Tenant(middleware.DefaultTenantConfig()))
	return r
}

// doRequest sends a request on behalf of tenantID. body may be empty.
func doRequest(r *gin.Engine, tenantID uuid.UUID, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.TenantHeaderKey, tenantID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
