package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(NewDomainError(CodeNotFound, "payment not found"), ErrNotFound) holds.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeNotFound                = "NOT_FOUND"
	CodeAlreadyExists           = "ALREADY_EXISTS"
	CodeInvalidInput            = "INVALID_INPUT"
	CodeInvalidState            = "INVALID_STATE"
	CodeConflict                = "CONFLICT"
	CodeAmountMismatch          = "AMOUNT_MISMATCH"
	CodeInvalidAllocationTarget = "INVALID_ALLOCATION_TARGET"
	CodeInvalidAllocationAmount = "INVALID_ALLOCATION_AMOUNT"
	CodeInstallmentNotEditable  = "INSTALLMENT_NOT_EDITABLE"
	CodeInstallmentHasPayments  = "INSTALLMENT_HAS_PAYMENTS"
	CodeOverAllocation          = "OVER_ALLOCATION"
	CodeInvalidDueDate          = "INVALID_DUE_DATE"
)

// Common domain errors
var (
	ErrNotFound      = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput  = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidState  = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrConflict      = NewDomainError(CodeConflict, "Resource was modified concurrently, retry the request")
)

// Ledger errors
var (
	ErrAmountMismatch          = NewDomainError(CodeAmountMismatch, "Allocation total does not match payment amount")
	ErrInvalidAllocationTarget = NewDomainError(CodeInvalidAllocationTarget, "Allocation must target exactly one installment")
	ErrInvalidAllocationAmount = NewDomainError(CodeInvalidAllocationAmount, "Allocation amount must be positive")
	ErrInstallmentNotEditable  = NewDomainError(CodeInstallmentNotEditable, "Only pending installments can change amount or due date")
	ErrInstallmentHasPayments  = NewDomainError(CodeInstallmentHasPayments, "Installment already has payments allocated")
	ErrOverAllocation          = NewDomainError(CodeOverAllocation, "Allocation exceeds installment outstanding balance")
	ErrInvalidDueDate          = NewDomainError(CodeInvalidDueDate, "Invalid due date")
)
