package handler

import (
	"net/http"
	"testing"
	"time"

	ledgerapp "github.com/erp/ledger/internal/application/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupPaymentRouter() (*gin.Engine, *MockPaymentService) {
	svc := new(MockPaymentService)
	h := NewPaymentHandler(svc)
	r := newTenantRouter()
	r.POST("/payments", h.Create)
	r.POST("/payments/quick", h.QuickPay)
	r.GET("/payments/:id", h.Get)
	r.PATCH("/payments/:id", h.Update)
	r.DELETE("/payments/:id", h.Delete)
	return r, svc
}

func TestPaymentHandler_Create(t *testing.T) {
	r, svc := setupPaymentRouter()
	tenantID := uuid.New()
	instA := uuid.New()
	instB := uuid.New()
	paymentID := uuid.New()

	svc.On("CreatePayment", mock.Anything, mock.MatchedBy(func(in ledgerapp.CreatePaymentInput) bool {
		return in.TenantID == tenantID &&
			in.Amount.Equal(decimal.NewFromInt(1300)) &&
			in.PaymentDate.Equal(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)) &&
			in.Method == "PIX" &&
			len(in.Allocations) == 2 &&
			in.Allocations[0].InstallmentID == instA &&
			in.Allocations[0].Amount.Equal(decimal.NewFromInt(500)) &&
			in.Allocations[1].InstallmentID == instB &&
			in.Allocations[1].TargetType == "PAYABLE"
	})).Return(&ledgerapp.PaymentResponse{ID: paymentID}, nil).Once()

	body := `{"amount":"1300","payment_date":"2026-01-15","payment_method":"PIX","allocations":[
		{"target_type":"PAYABLE","installment_id":"` + instA.String() + `","amount":"500"},
		{"target_type":"PAYABLE","installment_id":"` + instB.String() + `","amount":"800"}]}`
	w := doRequest(r, tenantID, http.MethodPost, "/payments", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, paymentID.String(), decodeResponse(t, w).Data.(map[string]any)["id"])
	svc.AssertExpectations(t)
}

func TestPaymentHandler_CreateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no allocations", `{"amount":"10","payment_date":"2026-01-15","payment_method":"PIX","allocations":[]}`},
		{"bad installment id", `{"amount":"10","payment_date":"2026-01-15","payment_method":"PIX","allocations":[{"target_type":"PAYABLE","installment_id":"x","amount":"10"}]}`},
		{"bad date", `{"amount":"10","payment_date":"15/01/2026","payment_method":"PIX","allocations":[{"target_type":"PAYABLE","installment_id":"` + uuid.NewString() + `","amount":"10"}]}`},
		{"not json", `amount=10`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc := setupPaymentRouter()

			w := doRequest(r, uuid.New(), http.MethodPost, "/payments", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
		})
	}
}

func TestPaymentHandler_CreateAllocationErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"sum mismatch", shared.ErrAmountMismatch, dto.ErrCodeAmountMismatch},
		{"over allocation", shared.ErrOverAllocation, dto.ErrCodeOverAllocation},
		{"bad target", shared.ErrInvalidAllocationTarget, dto.ErrCodeInvalidAllocationTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc := setupPaymentRouter()
			svc.On("CreatePayment", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			body := `{"amount":"999","payment_date":"2026-01-15","payment_method":"PIX","allocations":[
				{"target_type":"PAYABLE","installment_id":"` + uuid.NewString() + `","amount":"1000"}]}`
			w := doRequest(r, uuid.New(), http.MethodPost, "/payments", body)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Equal(t, tt.wantCode, decodeResponse(t, w).Error.Code)
		})
	}
}

func TestPaymentHandler_QuickPay(t *testing.T) {
	r, svc := setupPaymentRouter()
	tenantID := uuid.New()
	installmentID := uuid.New()

	svc.On("QuickPay", mock.Anything, mock.MatchedBy(func(in ledgerapp.QuickPayInput) bool {
		return in.TenantID == tenantID &&
			in.Type == "receivable" &&
			in.InstallmentID == installmentID &&
			in.Amount.Equal(decimal.RequireFromString("250.50"))
	})).Return(&ledgerapp.PaymentResponse{ID: uuid.New()}, nil).Once()

	body := `{"type":"receivable","installment_id":"` + installmentID.String() + `","amount":"250.50",
		"payment_date":"2026-02-01","payment_method":"BOLETO"}`
	w := doRequest(r, tenantID, http.MethodPost, "/payments/quick", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestPaymentHandler_Get(t *testing.T) {
	r, svc := setupPaymentRouter()
	tenantID := uuid.New()
	paymentID := uuid.New()

	svc.On("GetPayment", mock.Anything, tenantID, paymentID).Return(nil, shared.ErrNotFound).Once()

	w := doRequest(r, tenantID, http.MethodGet, "/payments/"+paymentID.String(), "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestPaymentHandler_Update(t *testing.T) {
	r, svc := setupPaymentRouter()
	tenantID := uuid.New()
	paymentID := uuid.New()

	svc.On("UpdatePayment", mock.Anything, mock.MatchedBy(func(in ledgerapp.UpdatePaymentInput) bool {
		return in.PaymentID == paymentID &&
			in.PaymentDate != nil && in.PaymentDate.Equal(time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)) &&
			in.Notes != nil && *in.Notes == "corrected" &&
			in.Method == nil
	})).Return(&ledgerapp.PaymentResponse{ID: paymentID}, nil).Once()

	w := doRequest(r, tenantID, http.MethodPatch, "/payments/"+paymentID.String(),
		`{"payment_date":"2026-01-20","notes":"corrected"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, tenantID, http.MethodPatch, "/payments/"+paymentID.String(), `{"notes":"no date"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}

func TestPaymentHandler_Delete(t *testing.T) {
	r, svc := setupPaymentRouter()
	tenantID := uuid.New()
	paymentID := uuid.New()

	svc.On("DeletePayment", mock.Anything, tenantID, paymentID).Return(nil).Once()

	w := doRequest(r, tenantID, http.MethodDelete, "/payments/"+paymentID.String(), "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}
