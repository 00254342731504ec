package handler

import (
	"context"

	ledgerapp "github.com/erp/ledger/internal/application/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountService is the part of the account application service the handler uses
type AccountService interface {
	CreateAccount(ctx context.Context, in ledgerapp.CreateAccountInput) (*ledgerapp.AccountResponse, error)
	GetAccount(ctx context.Context, tenantID, accountID uuid.UUID) (*ledgerapp.AccountResponse, error)
	ListAccounts(ctx context.Context, in ledgerapp.ListAccountsInput) (*shared.Paginated[ledgerapp.AccountResponse], error)
	UpdateInstallment(ctx context.Context, in ledgerapp.UpdateInstallmentInput) (*ledgerapp.AccountResponse, error)
	DeleteInstallment(ctx context.Context, tenantID, accountID, installmentID uuid.UUID) (*ledgerapp.AccountResponse, error)
	DeleteAccount(ctx context.Context, tenantID, accountID uuid.UUID) (*ledgerapp.DeleteAccountResult, error)
}

// AccountHandler handles payable and receivable accounts and their installments
type AccountHandler struct {
	BaseHandler
	service AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(service AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// CreateAccountRequest is the body of POST /accounts
type CreateAccountRequest struct {
	Type             string          `json:"type" binding:"required,oneof=PAYABLE RECEIVABLE payable receivable"`
	CounterpartyID   string          `json:"counterparty_id" binding:"required,uuid"`
	CategoryID       *string         `json:"category_id" binding:"omitempty,uuid"`
	Description      string          `json:"description" binding:"max=500"`
	Amount           decimal.Decimal `json:"amount"`
	InstallmentCount int             `json:"installment_count" binding:"required,min=1,max=360"`
	DueDates         []string        `json:"due_dates" binding:"required,min=1"`
	TagIDs           []string        `json:"tag_ids" binding:"omitempty,dive,uuid"`
}

// UpdateInstallmentRequest is the body of PATCH /accounts/:id/installments/:installmentId.
// Omitted fields are left unchanged.
type UpdateInstallmentRequest struct {
	Amount  *decimal.Decimal `json:"amount"`
	DueDate *string          `json:"due_date"`
	Notes   *string          `json:"notes" binding:"omitempty,max=1000"`
	TagIDs  []string         `json:"tag_ids" binding:"omitempty,dive,uuid"`
}

// ListAccountsQuery holds the query parameters of GET /accounts
type ListAccountsQuery struct {
	Type           string `form:"type" binding:"omitempty,oneof=PAYABLE RECEIVABLE payable receivable"`
	Status         string `form:"status"`
	CounterpartyID string `form:"counterparty_id" binding:"omitempty,uuid"`
	Search         string `form:"search" binding:"max=100"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Create handles POST /accounts
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in := ledgerapp.CreateAccountInput{
		TenantID:         tenantID(c),
		Type:             req.Type,
		CounterpartyID:   uuid.MustParse(req.CounterpartyID),
		Description:      req.Description,
		Amount:           req.Amount,
		InstallmentCount: req.InstallmentCount,
		DueDates:         req.DueDates,
	}
	if req.CategoryID != nil {
		id := uuid.MustParse(*req.CategoryID)
		in.CategoryID = &id
	}
	tags, err := parseUUIDs(req.TagIDs)
	if err != nil {
		h.InvalidID(c, "tag ID")
		return
	}
	in.TagIDs = tags

	account, err := h.service.CreateAccount(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// Get handles GET /accounts/:id
func (h *AccountHandler) Get(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.InvalidID(c, "account ID")
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), tenantID(c), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// List handles GET /accounts
func (h *AccountHandler) List(c *gin.Context) {
	var q ListAccountsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, queryDetails(err))
		return
	}

	in := ledgerapp.ListAccountsInput{
		TenantID: tenantID(c),
		Type:     q.Type,
		Status:   q.Status,
		Search:   q.Search,
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	}
	if q.CounterpartyID != "" {
		id := uuid.MustParse(q.CounterpartyID)
		in.CounterpartyID = &id
	}

	page, err := h.service.ListAccounts(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateInstallment handles PATCH /accounts/:id/installments/:installmentId
func (h *AccountHandler) UpdateInstallment(c *gin.Context) {
	accountID, installmentID, ok := h.installmentPath(c)
	if !ok {
		return
	}
	var req UpdateInstallmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tags, err := parseUUIDs(req.TagIDs)
	if err != nil {
		h.InvalidID(c, "tag ID")
		return
	}
	account, err := h.service.UpdateInstallment(c.Request.Context(), ledgerapp.UpdateInstallmentInput{
		TenantID:      tenantID(c),
		AccountID:     accountID,
		InstallmentID: installmentID,
		Amount:        req.Amount,
		DueDate:       req.DueDate,
		Notes:         req.Notes,
		TagIDs:        tags,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// DeleteInstallment handles DELETE /accounts/:id/installments/:installmentId
func (h *AccountHandler) DeleteInstallment(c *gin.Context) {
	accountID, installmentID, ok := h.installmentPath(c)
	if !ok {
		return
	}

	account, err := h.service.DeleteInstallment(c.Request.Context(), tenantID(c), accountID, installmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Delete handles DELETE /accounts/:id. The response lists the payments the
// cascade removed or shrank.
func (h *AccountHandler) Delete(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.InvalidID(c, "account ID")
		return
	}

	result, err := h.service.DeleteAccount(c.Request.Context(), tenantID(c), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *AccountHandler) installmentPath(c *gin.Context) (accountID, installmentID uuid.UUID, ok bool) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.InvalidID(c, "account ID")
		return uuid.Nil, uuid.Nil, false
	}
	installmentID, err = uuid.Parse(c.Param("installmentId"))
	if err != nil {
		h.InvalidID(c, "installment ID")
		return uuid.Nil, uuid.Nil, false
	}
	return accountID, installmentID, true
}
