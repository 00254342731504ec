package handler

import (
	"context"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportService is the part of the report application service the handler uses
type ReportService interface {
	InstallmentSummary(ctx context.Context, tenantID uuid.UUID, from, to string) (*ledger.InstallmentSummary, error)
}

// ReportHandler serves read-only aggregates
type ReportHandler struct {
	BaseHandler
	service ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// InstallmentSummary handles GET /reports/installments?from=YYYY-MM-DD&to=YYYY-MM-DD.
// The range is half open.
func (h *ReportHandler) InstallmentSummary(c *gin.Context) {
	summary, err := h.service.InstallmentSummary(c.Request.Context(), tenantID(c),
		c.Query("from"), c.Query("to"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
