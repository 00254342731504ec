package shared

import (
	"github.com/google/uuid"
)

// TenantAggregateRoot is the base for aggregates owned by one organization
type TenantAggregateRoot struct {
	BaseEntity
	TenantID uuid.UUID
}

// NewTenantAggregateRoot creates a new tenant-scoped aggregate root
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseEntity: NewBaseEntity(),
		TenantID:   tenantID,
	}
}
