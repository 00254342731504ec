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
)

// ReferenceTable describes where one reference kind is stored and how it is deleted
type ReferenceTable struct {
	Name       string
	SoftDelete bool
}

// DefaultReferenceTables registers vendors, customers and categories as soft-deleted
// and tags as hard-deleted
func DefaultReferenceTables() map[ledger.ReferenceKind]ReferenceTable {
	return map[ledger.ReferenceKind]ReferenceTable{
		ledger.ReferenceKindVendor:   {Name: "vendors", SoftDelete: true},
		ledger.ReferenceKindCustomer: {Name: "customers", SoftDelete: true},
		ledger.ReferenceKindCategory: {Name: "categories", SoftDelete: true},
		ledger.ReferenceKindTag:      {Name: "tags", SoftDelete: false},
	}
}

// GormReferenceRepository implements ReferenceRepository for one table
type GormReferenceRepository struct {
	db    *gorm.DB
	kind  ledger.ReferenceKind
	table ReferenceTable
}

// NewGormReferenceRepository creates a repository for the given kind and table
func NewGormReferenceRepository(db *gorm.DB, kind ledger.ReferenceKind, table ReferenceTable) *GormReferenceRepository {
	return &GormReferenceRepository{db: db, kind: kind, table: table}
}

// Kind returns the reference kind served by this repository
func (r *GormReferenceRepository) Kind() ledger.ReferenceKind {
	return r.kind
}

// SupportsSoftDelete reports whether DeleteForTenant deactivates instead of removing
func (r *GormReferenceRepository) SupportsSoftDelete() bool {
	return r.table.SoftDelete
}

func (r *GormReferenceRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table.Name).Scopes(tenantScope("tenant_id", tenantID))
}

func (r *GormReferenceRepository) notFound() error {
	return shared.NewDomainError(shared.CodeNotFound, strings.ToLower(r.kind.String())+" not found")
}

// FindByIDForTenant finds one entity, active or not
func (r *GormReferenceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Reference, error) {
	var model models.ReferenceModel
	if err := r.scoped(ctx, tenantID).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, r.notFound()
		}
		return nil, err
	}
	return model.ToDomain(r.kind), nil
}

// FindAllForTenant lists active entities with pagination
func (r *GormReferenceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*ledger.Reference, int64, error) {
	page := filter.Normalize()
	query := r.scoped(ctx, tenantID).Where("is_active = ?", true)
	if search := strings.TrimSpace(page.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(page.OrderBy, ReferenceSortFields, "name")
	orderDir := ValidateSortOrder(page.OrderDir)

	var rows []models.ReferenceModel
	if err := query.
		Order(orderBy + " " + orderDir).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	refs := make([]*ledger.Reference, len(rows))
	for i := range rows {
		refs[i] = rows[i].ToDomain(r.kind)
	}
	return refs, total, nil
}

// Create inserts a new entity
func (r *GormReferenceRepository) Create(ctx context.Context, ref *ledger.Reference) error {
	return r.db.WithContext(ctx).Table(r.table.Name).Create(models.ReferenceModelFromDomain(ref)).Error
}

// DeleteForTenant deactivates the entity when soft delete is supported, otherwise removes it
func (r *GormReferenceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	var result *gorm.DB
	if r.table.SoftDelete {
		result = r.scoped(ctx, tenantID).
			Where("id = ? AND is_active = ?", id, true).
			Updates(map[string]any{"is_active": false, "updated_at": gorm.Expr("CURRENT_TIMESTAMP")})
	} else {
		result = r.scoped(ctx, tenantID).Where("id = ?", id).Delete(&models.ReferenceModel{})
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.notFound()
	}
	return nil
}

// CountActiveForTenant counts active entities among ids
func (r *GormReferenceRepository) CountActiveForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.scoped(ctx, tenantID).
		Where("is_active = ? AND id IN ?", true, ids).
		Count(&count).Error
	return count, err
}

// Ensure GormReferenceRepository implements ReferenceRepository
var _ ledger.ReferenceRepository = (*GormReferenceRepository)(nil)
