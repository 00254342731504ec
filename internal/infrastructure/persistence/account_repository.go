package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

func preloadInstallments(db *gorm.DB) *gorm.DB {
	return db.Order("installment_number ASC")
}

// FindByIDForTenant finds an account and its installments for a tenant
func (r *GormAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope("tenant_id", tenantID)).
		Preload("Installments", preloadInstallments).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "account not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists accounts for a tenant with filtering and pagination
func (r *GormAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.AccountFilter) ([]*ledger.Account, int64, error) {
	page := filter.Filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.AccountModel{}).
		Scopes(tenantScope("accounts.tenant_id", tenantID))
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(page.OrderBy, AccountSortFields, "created_at")
	orderDir := ValidateSortOrder(page.OrderDir)

	var accountModels []models.AccountModel
	if err := query.
		Preload("Installments", preloadInstallments).
		Order("accounts." + orderBy + " " + orderDir).
		Order("accounts.id ASC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&accountModels).Error; err != nil {
		return nil, 0, err
	}

	accounts := make([]*ledger.Account, len(accountModels))
	for i := range accountModels {
		accounts[i] = accountModels[i].ToDomain()
	}
	return accounts, total, nil
}

func (r *GormAccountRepository) applyFilter(query *gorm.DB, filter ledger.AccountFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("accounts.account_type = ?", string(*filter.Type))
	}
	if filter.CounterpartyID != nil {
		query = query.Where("accounts.counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.Status != nil {
		if *filter.Status == ledger.StatusOverdue {
			// OVERDUE is never stored; match accounts holding an open installment due before today
			query = query.Where(
				"EXISTS (SELECT 1 FROM installments i WHERE i.account_id = accounts.id AND i.status IN ? AND i.due_date < ?)",
				[]string{string(ledger.StatusPending), string(ledger.StatusPartial)},
				ledger.DateOf(filter.Today),
			)
		} else {
			query = query.Where("accounts.status = ?", string(*filter.Status))
		}
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(accounts.description) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	return query
}

// Create inserts an account and all of its installments
func (r *GormAccountRepository) Create(ctx context.Context, account *ledger.Account) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(models.AccountModelFromDomain(account)).Error; err != nil {
		return err
	}
	if len(account.Installments) == 0 {
		return nil
	}
	rows := make([]*models.InstallmentModel, len(account.Installments))
	for i, inst := range account.Installments {
		rows[i] = models.InstallmentModelFromDomain(inst)
	}
	return db.Create(&rows).Error
}

// Save writes the account's derived fields and every installment row
func (r *GormAccountRepository) Save(ctx context.Context, account *ledger.Account) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.AccountModel{}).
		Scopes(tenantScope("tenant_id", account.TenantID)).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"category_id":        account.CategoryID,
			"description":        account.Description,
			"amount":             account.Amount,
			"paid_amount":        account.PaidAmount,
			"status":             string(account.Status),
			"total_installments": account.TotalInstallments,
			"tag_ids":            models.UUIDList(account.TagIDs),
			"updated_at":         account.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound, "account not found")
	}

	installments := NewGormInstallmentRepository(r.db)
	for _, inst := range account.Installments {
		if err := installments.Save(ctx, inst); err != nil {
			return err
		}
	}
	return nil
}

// DeleteForTenant removes the account row
func (r *GormAccountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenantScope("tenant_id", tenantID)).
		Where("id = ?", id).
		Delete(&models.AccountModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound, "account not found")
	}
	return nil
}

// Ensure GormAccountRepository implements AccountRepository
var _ ledger.AccountRepository = (*GormAccountRepository)(nil)
