package ledger

import (
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// ReferenceKind names a simple entity that accounts point at
type ReferenceKind string

const (
	ReferenceKindVendor   ReferenceKind = "VENDOR"
	ReferenceKindCustomer ReferenceKind = "CUSTOMER"
	ReferenceKindCategory ReferenceKind = "CATEGORY"
	ReferenceKindTag      ReferenceKind = "TAG"
)

// IsValid checks if the kind is known
func (k ReferenceKind) IsValid() bool {
	switch k {
	case ReferenceKindVendor, ReferenceKindCustomer, ReferenceKindCategory, ReferenceKindTag:
		return true
	}
	return false
}

// String returns the string representation
func (k ReferenceKind) String() string {
	return string(k)
}

// ParseReferenceKind parses a kind name such as "vendor" or "TAG"
func ParseReferenceKind(s string) (ReferenceKind, error) {
	kind := ReferenceKind(strings.ToUpper(strings.TrimSpace(s)))
	if !kind.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "unknown reference kind: "+s)
	}
	return kind, nil
}

// Reference is a vendor, customer, category or tag
type Reference struct {
	shared.TenantAggregateRoot
	Kind     ReferenceKind
	Name     string
	IsActive bool
}

// NewReference creates an active reference entity
func NewReference(tenantID uuid.UUID, kind ReferenceKind, name string) (*Reference, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "unknown reference kind")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "name cannot exceed 200 characters")
	}
	return &Reference{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Kind:                kind,
		Name:                name,
		IsActive:            true,
	}, nil
}
