package handler

import (
	"context"
	"time"

	ledgerapp "github.com/erp/ledger/internal/application/ledger"
	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService is the part of the payment application service the handler uses
type PaymentService interface {
	CreatePayment(ctx context.Context, in ledgerapp.CreatePaymentInput) (*ledgerapp.PaymentResponse, error)
	QuickPay(ctx context.Context, in ledgerapp.QuickPayInput) (*ledgerapp.PaymentResponse, error)
	GetPayment(ctx context.Context, tenantID, paymentID uuid.UUID) (*ledgerapp.PaymentResponse, error)
	UpdatePayment(ctx context.Context, in ledgerapp.UpdatePaymentInput) (*ledgerapp.PaymentResponse, error)
	DeletePayment(ctx context.Context, tenantID, paymentID uuid.UUID) error
}

// PaymentHandler handles payments and receipts
type PaymentHandler struct {
	BaseHandler
	service PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// AllocationRequest assigns part of a payment to one installment
type AllocationRequest struct {
	TargetType    string          `json:"target_type" binding:"required"`
	InstallmentID string          `json:"installment_id" binding:"required,uuid"`
	Amount        decimal.Decimal `json:"amount"`
}

// CreatePaymentRequest is the body of POST /payments
type CreatePaymentRequest struct {
	Amount      decimal.Decimal     `json:"amount"`
	PaymentDate string              `json:"payment_date" binding:"required"`
	Method      string              `json:"payment_method" binding:"required"`
	Reference   string              `json:"reference" binding:"max=100"`
	Notes       string              `json:"notes" binding:"max=1000"`
	Allocations []AllocationRequest `json:"allocations" binding:"required,min=1,dive"`
}

// QuickPayRequest is the body of POST /payments/quick
type QuickPayRequest struct {
	Type          string          `json:"type" binding:"required,oneof=PAYABLE RECEIVABLE payable receivable"`
	InstallmentID string          `json:"installment_id" binding:"required,uuid"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date" binding:"required"`
	Method        string          `json:"payment_method" binding:"required"`
	Reference     string          `json:"reference" binding:"max=100"`
	Notes         string          `json:"notes" binding:"max=1000"`
}

// UpdatePaymentRequest is the body of PATCH /payments/:id. The payment date is
// required; the amount and allocations cannot be changed.
type UpdatePaymentRequest struct {
	PaymentDate string  `json:"payment_date" binding:"required"`
	Method      *string `json:"payment_method"`
	Reference   *string `json:"reference" binding:"omitempty,max=100"`
	Notes       *string `json:"notes" binding:"omitempty,max=1000"`
}

// Create handles POST /payments
func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	paymentDate, ok := h.paymentDate(c, req.PaymentDate)
	if !ok {
		return
	}

	allocations := make([]ledgerapp.AllocationInput, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		allocations = append(allocations, ledgerapp.AllocationInput{
			TargetType:    a.TargetType,
			InstallmentID: uuid.MustParse(a.InstallmentID),
			Amount:        a.Amount,
		})
	}

	payment, err := h.service.CreatePayment(c.Request.Context(), ledgerapp.CreatePaymentInput{
		TenantID:    tenantID(c),
		Amount:      req.Amount,
		PaymentDate: paymentDate,
		Method:      req.Method,
		Reference:   req.Reference,
		Notes:       req.Notes,
		Allocations: allocations,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// QuickPay handles POST /payments/quick, paying one installment in full or in part
func (h *PaymentHandler) QuickPay(c *gin.Context) {
	var req QuickPayRequest
	if !h.BindJSON(c, &req) {
		return
	}
	paymentDate, ok := h.paymentDate(c, req.PaymentDate)
	if !ok {
		return
	}

	payment, err := h.service.QuickPay(c.Request.Context(), ledgerapp.QuickPayInput{
		TenantID:      tenantID(c),
		Type:          req.Type,
		InstallmentID: uuid.MustParse(req.InstallmentID),
		Amount:        req.Amount,
		PaymentDate:   paymentDate,
		Method:        req.Method,
		Reference:     req.Reference,
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// Get handles GET /payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.InvalidID(c, "payment ID")
		return
	}

	payment, err := h.service.GetPayment(c.Request.Context(), tenantID(c), paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Update handles PATCH /payments/:id
func (h *PaymentHandler) Update(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.InvalidID(c, "payment ID")
		return
	}
	var req UpdatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	paymentDate, ok := h.paymentDate(c, req.PaymentDate)
	if !ok {
		return
	}

	payment, err := h.service.UpdatePayment(c.Request.Context(), ledgerapp.UpdatePaymentInput{
		TenantID:    tenantID(c),
		PaymentID:   paymentID,
		PaymentDate: &paymentDate,
		Method:      req.Method,
		Reference:   req.Reference,
		Notes:       req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Delete handles DELETE /payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.InvalidID(c, "payment ID")
		return
	}

	if err := h.service.DeletePayment(c.Request.Context(), tenantID(c), paymentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *PaymentHandler) paymentDate(c *gin.Context, raw string) (time.Time, bool) {
	date, err := parseDate(raw)
	if err != nil || date.IsZero() {
		h.ValidationError(c, []dto.ValidationDetail{{
			Field:   "payment_date",
			Message: "Must be a date formatted as YYYY-MM-DD",
		}})
		return time.Time{}, false
	}
	return date, true
}
