package ledger

import (
	"time"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Account DTOs ====================

// CreateAccountInput creates an account and its installment schedule
type CreateAccountInput struct {
	TenantID         uuid.UUID
	Type             string
	CounterpartyID   uuid.UUID
	CategoryID       *uuid.UUID
	Description      string
	Amount           decimal.Decimal
	InstallmentCount int
	// DueDates are YYYY-MM-DD or RFC 3339 strings, one per installment
	DueDates []string
	TagIDs   []uuid.UUID
}

// UpdateInstallmentInput edits one installment; nil fields are left unchanged
type UpdateInstallmentInput struct {
	TenantID      uuid.UUID
	AccountID     uuid.UUID
	InstallmentID uuid.UUID
	Amount        *decimal.Decimal
	DueDate       *string
	Notes         *string
	// TagIDs replaces the tag set when non-nil; an empty slice clears it
	TagIDs []uuid.UUID
}

// ListAccountsInput filters the account list
type ListAccountsInput struct {
	TenantID       uuid.UUID
	Type           string
	Status         string
	CounterpartyID *uuid.UUID
	Search         string
	Page           int
	PageSize       int
	OrderBy        string
	OrderDir       string
}

// InstallmentResponse is the read model of an installment
type InstallmentResponse struct {
	ID                uuid.UUID       `json:"id"`
	AccountID         uuid.UUID       `json:"account_id"`
	InstallmentNumber int             `json:"installment_number"`
	TotalInstallments int             `json:"total_installments"`
	Amount            decimal.Decimal `json:"amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	Outstanding       decimal.Decimal `json:"outstanding"`
	DueDate           string          `json:"due_date"`
	Status            string          `json:"status"`
	IsOverdue         bool            `json:"is_overdue"`
	Notes             string          `json:"notes,omitempty"`
	TagIDs            []uuid.UUID     `json:"tag_ids"`
}

// AccountResponse is the read model of an account with its installments in due date order.
// ReceivedAmount mirrors PaidAmount for receivables.
type AccountResponse struct {
	ID                uuid.UUID             `json:"id"`
	Type              string                `json:"type"`
	CounterpartyID    uuid.UUID             `json:"counterparty_id"`
	CategoryID        *uuid.UUID            `json:"category_id,omitempty"`
	Description       string                `json:"description"`
	Amount            decimal.Decimal       `json:"amount"`
	PaidAmount        decimal.Decimal       `json:"paid_amount"`
	ReceivedAmount    *decimal.Decimal      `json:"received_amount,omitempty"`
	Outstanding       decimal.Decimal       `json:"outstanding"`
	Status            string                `json:"status"`
	IsOverdue         bool                  `json:"is_overdue"`
	TotalInstallments int                   `json:"total_installments"`
	TagIDs            []uuid.UUID           `json:"tag_ids"`
	Installments      []InstallmentResponse `json:"installments"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// DeleteAccountResult reports what a cascading delete removed
type DeleteAccountResult struct {
	AccountID           uuid.UUID   `json:"account_id"`
	DeletedInstallments int         `json:"deleted_installments"`
	DeletedAllocations  int64       `json:"deleted_allocations"`
	DeletedPaymentIDs   []uuid.UUID `json:"deleted_payment_ids"`
	AdjustedPaymentIDs  []uuid.UUID `json:"adjusted_payment_ids"`
}

// ToInstallmentResponse converts a domain installment
func ToInstallmentResponse(i *ledger.Installment, today time.Time) InstallmentResponse {
	tags := i.TagIDs
	if tags == nil {
		tags = []uuid.UUID{}
	}
	return InstallmentResponse{
		ID:                i.ID,
		AccountID:         i.AccountID,
		InstallmentNumber: i.InstallmentNumber,
		TotalInstallments: i.TotalInstallments,
		Amount:            i.Amount,
		PaidAmount:        i.PaidAmount,
		Outstanding:       i.Outstanding(),
		DueDate:           i.DueDate.Format(time.DateOnly),
		Status:            i.Status.String(),
		IsOverdue:         i.IsOverdue(today),
		Notes:             i.Notes,
		TagIDs:            tags,
	}
}

// ToAccountResponse converts a domain account
func ToAccountResponse(a *ledger.Account, today time.Time) AccountResponse {
	installments := make([]InstallmentResponse, 0, len(a.Installments))
	for _, inst := range a.Installments {
		installments = append(installments, ToInstallmentResponse(inst, today))
	}
	tags := a.TagIDs
	if tags == nil {
		tags = []uuid.UUID{}
	}
	resp := AccountResponse{
		ID:                a.ID,
		Type:              a.Type.String(),
		CounterpartyID:    a.CounterpartyID,
		CategoryID:        a.CategoryID,
		Description:       a.Description,
		Amount:            a.Amount,
		PaidAmount:        a.PaidAmount,
		Outstanding:       a.Outstanding(),
		Status:            a.Status.String(),
		IsOverdue:         a.HasOverdue(today),
		TotalInstallments: a.TotalInstallments,
		TagIDs:            tags,
		Installments:      installments,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
	if a.Type == ledger.AccountTypeReceivable {
		received := a.PaidAmount
		resp.ReceivedAmount = &received
	}
	return resp
}

// ToAccountResponses converts a list of accounts
func ToAccountResponses(accounts []*ledger.Account, today time.Time) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, ToAccountResponse(a, today))
	}
	return out
}

// ==================== Payment DTOs ====================

// AllocationInput assigns part of a payment to one installment
type AllocationInput struct {
	TargetType    string
	InstallmentID uuid.UUID
	Amount        decimal.Decimal
}

// CreatePaymentInput records a payment with explicit allocations
type CreatePaymentInput struct {
	TenantID    uuid.UUID
	Amount      decimal.Decimal
	PaymentDate time.Time
	Method      string
	Reference   string
	Notes       string
	Allocations []AllocationInput
}

// QuickPayInput pays a single installment with one allocation
type QuickPayInput struct {
	TenantID      uuid.UUID
	Type          string
	InstallmentID uuid.UUID
	Amount        decimal.Decimal
	PaymentDate   time.Time
	Method        string
	Reference     string
	Notes         string
}

// UpdatePaymentInput edits payment details. PaymentDate is required; other nil fields are left unchanged.
// Amount and allocations cannot be edited.
type UpdatePaymentInput struct {
	TenantID    uuid.UUID
	PaymentID   uuid.UUID
	PaymentDate *time.Time
	Method      *string
	Reference   *string
	Notes       *string
}

// AllocationResponse is the read model of an allocation
type AllocationResponse struct {
	ID            uuid.UUID       `json:"id"`
	TargetType    string          `json:"target_type"`
	InstallmentID uuid.UUID       `json:"installment_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// PaymentResponse is the read model of a payment
type PaymentResponse struct {
	ID          uuid.UUID            `json:"id"`
	Amount      decimal.Decimal      `json:"amount"`
	PaymentDate string               `json:"payment_date"`
	Method      string               `json:"payment_method"`
	Reference   string               `json:"reference,omitempty"`
	Notes       string               `json:"notes,omitempty"`
	Allocations []AllocationResponse `json:"allocations"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// ToPaymentResponse converts a domain payment
func ToPaymentResponse(p *ledger.Payment) PaymentResponse {
	allocs := make([]AllocationResponse, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		accountType, id, _ := a.Target()
		allocs = append(allocs, AllocationResponse{
			ID:            a.ID,
			TargetType:    accountType.String(),
			InstallmentID: id,
			Amount:        a.Amount,
		})
	}
	return PaymentResponse{
		ID:          p.ID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate.Format(time.DateOnly),
		Method:      p.Method.String(),
		Reference:   p.Reference,
		Notes:       p.Notes,
		Allocations: allocs,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ==================== Reference DTOs ====================

// ReferenceResponse is the read model of a vendor, customer, category or tag
type ReferenceResponse struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToReferenceResponse converts a domain reference
func ToReferenceResponse(r *ledger.Reference) ReferenceResponse {
	return ReferenceResponse{
		ID:        r.ID,
		Kind:      r.Kind.String(),
		Name:      r.Name,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
	}
}
