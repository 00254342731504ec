package dto

import (
	"net/http"

	"github.com/erp/ledger/internal/domain/shared"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Request error codes
const (
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeTenantRequired  = "ERR_TENANT_REQUIRED"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is returned for serialization failures that survived retries
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeDuplicateRequest is returned when an Idempotency-Key is replayed
	ErrCodeDuplicateRequest = "ERR_DUPLICATE_REQUEST"
)

// Ledger business rule error codes
const (
	ErrCodeInvalidState            = "ERR_INVALID_STATE"
	ErrCodeAmountMismatch          = "ERR_AMOUNT_MISMATCH"
	ErrCodeInvalidAllocationTarget = "ERR_INVALID_ALLOCATION_TARGET"
	ErrCodeInvalidAllocationAmount = "ERR_INVALID_ALLOCATION_AMOUNT"
	ErrCodeInstallmentNotEditable  = "ERR_INSTALLMENT_NOT_EDITABLE"
	ErrCodeInstallmentHasPayments  = "ERR_INSTALLMENT_HAS_PAYMENTS"
	ErrCodeOverAllocation          = "ERR_OVER_ALLOCATION"
	ErrCodeInvalidDueDate          = "ERR_INVALID_DUE_DATE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeTenantRequired:  http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeConflict:         http.StatusConflict,
	ErrCodeDuplicateRequest: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:            http.StatusUnprocessableEntity,
	ErrCodeAmountMismatch:          http.StatusUnprocessableEntity,
	ErrCodeInvalidAllocationTarget: http.StatusUnprocessableEntity,
	ErrCodeInvalidAllocationAmount: http.StatusUnprocessableEntity,
	ErrCodeInstallmentNotEditable:  http.StatusUnprocessableEntity,
	ErrCodeInstallmentHasPayments:  http.StatusUnprocessableEntity,
	ErrCodeOverAllocation:          http.StatusUnprocessableEntity,
	ErrCodeInvalidDueDate:          http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodes maps domain error codes to API error codes
var domainErrorCodes = map[string]string{
	shared.CodeNotFound:                ErrCodeNotFound,
	shared.CodeAlreadyExists:           ErrCodeAlreadyExists,
	shared.CodeInvalidInput:            ErrCodeInvalidInput,
	shared.CodeInvalidState:            ErrCodeInvalidState,
	shared.CodeConflict:                ErrCodeConflict,
	shared.CodeAmountMismatch:          ErrCodeAmountMismatch,
	shared.CodeInvalidAllocationTarget: ErrCodeInvalidAllocationTarget,
	shared.CodeInvalidAllocationAmount: ErrCodeInvalidAllocationAmount,
	shared.CodeInstallmentNotEditable:  ErrCodeInstallmentNotEditable,
	shared.CodeInstallmentHasPayments:  ErrCodeInstallmentHasPayments,
	shared.CodeOverAllocation:          ErrCodeOverAllocation,
	shared.CodeInvalidDueDate:          ErrCodeInvalidDueDate,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format or unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainErrorCodes[code]; ok {
		return apiCode
	}
	return code
}
