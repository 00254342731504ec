package models

import (
	"time"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Table names
const (
	TableAccounts     = "accounts"
	TableInstallments = "installments"
	TablePayments     = "payments"
	TableAllocations  = "payment_allocations"
)

// AccountModel is the persistence model for payable and receivable accounts
type AccountModel struct {
	TenantModel
	AccountType       ledger.AccountType `gorm:"type:varchar(20);not null;index"`
	CounterpartyID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	CategoryID        *uuid.UUID         `gorm:"type:uuid;index"`
	Description       string             `gorm:"type:text"`
	Amount            decimal.Decimal    `gorm:"type:numeric(18,2);not null"`
	PaidAmount        decimal.Decimal    `gorm:"type:numeric(18,2);not null;default:0"`
	Status            ledger.Status      `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	TotalInstallments int                `gorm:"not null"`
	TagIDs            UUIDList           `gorm:"column:tag_ids;type:jsonb"`
	Installments      []InstallmentModel `gorm:"foreignKey:AccountID"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return TableAccounts
}

// ToDomain converts the model and any loaded installments to a domain Account
func (m *AccountModel) ToDomain() *ledger.Account {
	account := &ledger.Account{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Type:                m.AccountType,
		CounterpartyID:      m.CounterpartyID,
		CategoryID:          m.CategoryID,
		Description:         m.Description,
		Amount:              m.Amount,
		PaidAmount:          m.PaidAmount,
		Status:              m.Status,
		TotalInstallments:   m.TotalInstallments,
		TagIDs:              m.TagIDs.IDs(),
		Installments:        make([]*ledger.Installment, 0, len(m.Installments)),
	}
	for i := range m.Installments {
		account.Installments = append(account.Installments, m.Installments[i].ToDomain())
	}
	return account
}

// AccountModelFromDomain converts the account row; installments are mapped separately
func AccountModelFromDomain(a *ledger.Account) *AccountModel {
	m := &AccountModel{
		AccountType:       a.Type,
		CounterpartyID:    a.CounterpartyID,
		CategoryID:        a.CategoryID,
		Description:       a.Description,
		Amount:            a.Amount,
		PaidAmount:        a.PaidAmount,
		Status:            a.Status,
		TotalInstallments: a.TotalInstallments,
		TagIDs:            UUIDList(a.TagIDs),
	}
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	return m
}

// InstallmentModel is the persistence model for one scheduled installment.
// (account_id, installment_number) is unique in the SQL migration, as a deferred
// constraint so that a renumbering transaction may pass through duplicates.
type InstallmentModel struct {
	BaseModel
	AccountID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	InstallmentNumber int             `gorm:"not null"`
	TotalInstallments int             `gorm:"not null"`
	Amount            decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	PaidAmount        decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	DueDate           time.Time       `gorm:"type:date;not null;index"`
	Status            ledger.Status   `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Notes             string          `gorm:"type:text"`
	TagIDs            UUIDList        `gorm:"column:tag_ids;type:jsonb"`
}

// TableName returns the table name for GORM
func (InstallmentModel) TableName() string {
	return TableInstallments
}

// ToDomain converts the model to a domain Installment
func (m *InstallmentModel) ToDomain() *ledger.Installment {
	return &ledger.Installment{
		BaseEntity:        m.BaseModel.ToDomain(),
		AccountID:         m.AccountID,
		InstallmentNumber: m.InstallmentNumber,
		TotalInstallments: m.TotalInstallments,
		Amount:            m.Amount,
		PaidAmount:        m.PaidAmount,
		DueDate:           ledger.DateOf(m.DueDate),
		Status:            m.Status,
		Notes:             m.Notes,
		TagIDs:            m.TagIDs.IDs(),
	}
}

// InstallmentModelFromDomain converts a domain Installment
func InstallmentModelFromDomain(i *ledger.Installment) *InstallmentModel {
	m := &InstallmentModel{
		AccountID:         i.AccountID,
		InstallmentNumber: i.InstallmentNumber,
		TotalInstallments: i.TotalInstallments,
		Amount:            i.Amount,
		PaidAmount:        i.PaidAmount,
		DueDate:           ledger.DateOf(i.DueDate),
		Status:            i.Status,
		Notes:             i.Notes,
		TagIDs:            UUIDList(i.TagIDs),
	}
	m.FromDomainBaseEntity(i.BaseEntity)
	return m
}

// PaymentModel is the persistence model for a payment or receipt
type PaymentModel struct {
	TenantModel
	Amount        decimal.Decimal      `gorm:"type:numeric(18,2);not null"`
	PaymentDate   time.Time            `gorm:"type:date;not null;index"`
	PaymentMethod ledger.PaymentMethod `gorm:"type:varchar(30);not null"`
	Reference     string               `gorm:"type:varchar(200)"`
	Notes         string               `gorm:"type:text"`
	Allocations   []AllocationModel    `gorm:"foreignKey:PaymentID"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return TablePayments
}

// ToDomain converts the model and any loaded allocations to a domain Payment
func (m *PaymentModel) ToDomain() *ledger.Payment {
	payment := &ledger.Payment{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Amount:              m.Amount,
		PaymentDate:         ledger.DateOf(m.PaymentDate),
		Method:              m.PaymentMethod,
		Reference:           m.Reference,
		Notes:               m.Notes,
		Allocations:         make([]ledger.Allocation, 0, len(m.Allocations)),
	}
	for i := range m.Allocations {
		payment.Allocations = append(payment.Allocations, m.Allocations[i].ToDomain())
	}
	return payment
}

// PaymentModelFromDomain converts the payment row; allocations are mapped separately
func PaymentModelFromDomain(p *ledger.Payment) *PaymentModel {
	m := &PaymentModel{
		Amount:        p.Amount,
		PaymentDate:   ledger.DateOf(p.PaymentDate),
		PaymentMethod: p.Method,
		Reference:     p.Reference,
		Notes:         p.Notes,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// AllocationModel links a payment to exactly one payable or receivable installment
type AllocationModel struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primary_key"`
	PaymentID               uuid.UUID       `gorm:"type:uuid;not null;index"`
	PayableInstallmentID    *uuid.UUID      `gorm:"type:uuid;index"`
	ReceivableInstallmentID *uuid.UUID      `gorm:"type:uuid;index"`
	Amount                  decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CreatedAt               time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AllocationModel) TableName() string {
	return TableAllocations
}

// ToDomain converts the model to a domain Allocation
func (m *AllocationModel) ToDomain() ledger.Allocation {
	return ledger.Allocation{
		ID:                      m.ID,
		PaymentID:               m.PaymentID,
		PayableInstallmentID:    m.PayableInstallmentID,
		ReceivableInstallmentID: m.ReceivableInstallmentID,
		Amount:                  m.Amount,
		CreatedAt:               m.CreatedAt,
	}
}

// AllocationModelFromDomain converts a domain Allocation
func AllocationModelFromDomain(a ledger.Allocation) *AllocationModel {
	return &AllocationModel{
		ID:                      a.ID,
		PaymentID:               a.PaymentID,
		PayableInstallmentID:    a.PayableInstallmentID,
		ReceivableInstallmentID: a.ReceivableInstallmentID,
		Amount:                  a.Amount,
		CreatedAt:               a.CreatedAt,
	}
}

// ReferenceModel is shared by the vendor, customer, category and tag tables.
// The table is chosen per query with db.Table.
type ReferenceModel struct {
	TenantModel
	Name     string `gorm:"type:varchar(200);not null"`
	IsActive bool   `gorm:"not null;default:true;index"`
}

// ToDomain converts the model to a domain Reference of the given kind
func (m *ReferenceModel) ToDomain(kind ledger.ReferenceKind) *ledger.Reference {
	return &ledger.Reference{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Kind:                kind,
		Name:                m.Name,
		IsActive:            m.IsActive,
	}
}

// ReferenceModelFromDomain converts a domain Reference
func ReferenceModelFromDomain(r *ledger.Reference) *ReferenceModel {
	m := &ReferenceModel{
		Name:     r.Name,
		IsActive: r.IsActive,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}
