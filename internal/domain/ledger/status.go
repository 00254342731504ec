package ledger

import (
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
)

// AccountType distinguishes payables from receivables
type AccountType string

const (
	AccountTypePayable    AccountType = "PAYABLE"
	AccountTypeReceivable AccountType = "RECEIVABLE"
)

// IsValid checks if the account type is known
func (t AccountType) IsValid() bool {
	return t == AccountTypePayable || t == AccountTypeReceivable
}

// String returns the string representation
func (t AccountType) String() string {
	return string(t)
}

// CounterpartyKind returns the reference kind an account of this type points at
func (t AccountType) CounterpartyKind() ReferenceKind {
	if t == AccountTypeReceivable {
		return ReferenceKindCustomer
	}
	return ReferenceKindVendor
}

// ParseAccountType accepts "payable"/"receivable" in any case
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "account type must be payable or receivable")
	}
	return t, nil
}

// Status is the stored state of an installment and, derived from those, of an account
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPartial   Status = "PARTIAL"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"

	// StatusOverdue is only a read-side filter value; it is never stored
	StatusOverdue Status = "OVERDUE"
)

// IsValid checks if the status is a storable value
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// IsOpen reports whether an installment in this status still expects money
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusPartial
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// ParseStatusFilter accepts a stored status or OVERDUE
func ParseStatusFilter(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if st.IsValid() || st == StatusOverdue {
		return st, nil
	}
	return "", shared.NewDomainError(shared.CodeInvalidInput, "unknown status: "+s)
}

// PaymentMethod is how money moved
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheck,
		PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation
func (m PaymentMethod) String() string {
	return string(m)
}
