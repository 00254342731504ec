package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAllocationRepository implements AllocationRepository using GORM.
// Allocations are always reached through a tenant-checked payment or installment.
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

func targetsAny(db *gorm.DB, installmentIDs []uuid.UUID) *gorm.DB {
	return db.Where("payable_installment_id IN ? OR receivable_installment_id IN ?", installmentIDs, installmentIDs)
}

// FindByInstallmentIDs returns allocations targeting any of the installments
func (r *GormAllocationRepository) FindByInstallmentIDs(ctx context.Context, installmentIDs []uuid.UUID) ([]ledger.Allocation, error) {
	if len(installmentIDs) == 0 {
		return []ledger.Allocation{}, nil
	}
	var rows []models.AllocationModel
	if err := targetsAny(r.db.WithContext(ctx), installmentIDs).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	allocations := make([]ledger.Allocation, len(rows))
	for i := range rows {
		allocations[i] = rows[i].ToDomain()
	}
	return allocations, nil
}

// CountByInstallmentID counts allocations targeting one installment
func (r *GormAllocationRepository) CountByInstallmentID(ctx context.Context, installmentID uuid.UUID) (int64, error) {
	var count int64
	err := targetsAny(r.db.WithContext(ctx).Model(&models.AllocationModel{}), []uuid.UUID{installmentID}).
		Count(&count).Error
	return count, err
}

// DeleteByInstallmentIDs removes allocations targeting any of the installments
func (r *GormAllocationRepository) DeleteByInstallmentIDs(ctx context.Context, installmentIDs []uuid.UUID) (int64, error) {
	if len(installmentIDs) == 0 {
		return 0, nil
	}
	result := targetsAny(r.db.WithContext(ctx), installmentIDs).Delete(&models.AllocationModel{})
	return result.RowsAffected, result.Error
}

// DeleteByPaymentID removes all allocations of a payment
func (r *GormAllocationRepository) DeleteByPaymentID(ctx context.Context, paymentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Delete(&models.AllocationModel{}).Error
}

// Ensure GormAllocationRepository implements AllocationRepository
var _ ledger.AllocationRepository = (*GormAllocationRepository)(nil)
