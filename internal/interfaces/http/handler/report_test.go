package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReportHandler_InstallmentSummary(t *testing.T) {
	svc := new(MockReportService)
	h := NewReportHandler(svc)
	r := newTenantRouter()
	r.GET("/reports/installments", h.InstallmentSummary)
	tenantID := uuid.New()

	summary := &ledger.InstallmentSummary{
		From: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Totals: []ledger.StatusTotal{{
			AccountType: ledger.AccountTypePayable,
			Status:      ledger.StatusPending,
			Count:       2,
			Amount:      decimal.NewFromInt(700),
			PaidAmount:  decimal.Zero,
		}},
	}
	svc.On("InstallmentSummary", mock.Anything, tenantID, "2026-01-01", "2026-02-01").Return(summary, nil).Once()
	svc.On("InstallmentSummary", mock.Anything, tenantID, "", "2026-02-01").
		Return(nil, shared.NewDomainError(shared.CodeInvalidInput, "from date is required")).Once()

	w := doRequest(r, tenantID, http.MethodGet, "/reports/installments?from=2026-01-01&to=2026-02-01", "")
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	require.Len(t, data["totals"], 1)

	w = doRequest(r, tenantID, http.MethodGet, "/reports/installments?to=2026-02-01", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, decodeResponse(t, w).Error.Code)

	svc.AssertExpectations(t)
}
