package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInstallmentRepository implements InstallmentRepository using GORM.
// Installments carry no tenant column; ownership is checked through the parent account.
type GormInstallmentRepository struct {
	db *gorm.DB
}

// NewGormInstallmentRepository creates a new GormInstallmentRepository
func NewGormInstallmentRepository(db *gorm.DB) *GormInstallmentRepository {
	return &GormInstallmentRepository{db: db}
}

func (r *GormInstallmentRepository) ownedBy(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.InstallmentModel{}).
		Joins("JOIN accounts ON accounts.id = installments.account_id").
		Scopes(tenantScope("accounts.tenant_id", tenantID))
}

// CountForTenant counts installments of the given account type owned by the tenant
func (r *GormInstallmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, accountType ledger.AccountType, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.ownedBy(ctx, tenantID).
		Where("accounts.account_type = ? AND installments.id IN ?", string(accountType), ids).
		Count(&count).Error
	return count, err
}

// FindByIDsForTenant loads installments owned by the tenant
func (r *GormInstallmentRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*ledger.Installment, error) {
	if len(ids) == 0 {
		return []*ledger.Installment{}, nil
	}
	var rows []models.InstallmentModel
	if err := r.ownedBy(ctx, tenantID).
		Select("installments.*").
		Where("installments.id IN ?", ids).
		Order("installments.account_id, installments.installment_number").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	installments := make([]*ledger.Installment, len(rows))
	for i := range rows {
		installments[i] = rows[i].ToDomain()
	}
	return installments, nil
}

// Save writes one installment, inserting it if missing
func (r *GormInstallmentRepository) Save(ctx context.Context, installment *ledger.Installment) error {
	return r.db.WithContext(ctx).Save(models.InstallmentModelFromDomain(installment)).Error
}

// DeleteByIDs removes installments
func (r *GormInstallmentRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.InstallmentModel{}).Error
}

// Ensure GormInstallmentRepository implements InstallmentRepository
var _ ledger.InstallmentRepository = (*GormInstallmentRepository)(nil)
