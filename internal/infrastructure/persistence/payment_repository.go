package persistence

import (
	"context"
	"errors"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func preloadAllocations(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}

// FindByIDForTenant finds a payment and its allocations for a tenant
func (r *GormPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope("tenant_id", tenantID)).
		Preload("Allocations", preloadAllocations).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "payment not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDsForTenant loads several payments and their allocations
func (r *GormPaymentRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*ledger.Payment, error) {
	if len(ids) == 0 {
		return []*ledger.Payment{}, nil
	}
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope("tenant_id", tenantID)).
		Preload("Allocations", preloadAllocations).
		Where("id IN ?", ids).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	payments := make([]*ledger.Payment, len(rows))
	for i := range rows {
		payments[i] = rows[i].ToDomain()
	}
	return payments, nil
}

// Create inserts a payment and its allocations
func (r *GormPaymentRepository) Create(ctx context.Context, payment *ledger.Payment) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(models.PaymentModelFromDomain(payment)).Error; err != nil {
		return err
	}
	if len(payment.Allocations) == 0 {
		return nil
	}
	rows := make([]*models.AllocationModel, len(payment.Allocations))
	for i, alloc := range payment.Allocations {
		rows[i] = models.AllocationModelFromDomain(alloc)
	}
	return db.Create(&rows).Error
}

// Update writes the payment row; allocations are not touched
func (r *GormPaymentRepository) Update(ctx context.Context, payment *ledger.Payment) error {
	result := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Scopes(tenantScope("tenant_id", payment.TenantID)).
		Where("id = ?", payment.ID).
		Updates(map[string]any{
			"amount":         payment.Amount,
			"payment_date":   ledger.DateOf(payment.PaymentDate),
			"payment_method": string(payment.Method),
			"reference":      payment.Reference,
			"notes":          payment.Notes,
			"updated_at":     payment.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound, "payment not found")
	}
	return nil
}

// DeleteForTenant removes the payment row
func (r *GormPaymentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenantScope("tenant_id", tenantID)).
		Where("id = ?", id).
		Delete(&models.PaymentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound, "payment not found")
	}
	return nil
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ ledger.PaymentRepository = (*GormPaymentRepository)(nil)
