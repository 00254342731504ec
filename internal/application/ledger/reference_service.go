package ledger

import (
	"context"
	"fmt"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReferenceService manages vendors, customers, categories and tags
type ReferenceService struct {
	scope TransactionScope
	reads TransactionalRepositories
	settings
}

// NewReferenceService creates a new ReferenceService
func NewReferenceService(scope TransactionScope, reads TransactionalRepositories, opts ...Option) *ReferenceService {
	return &ReferenceService{
		scope:    scope,
		reads:    reads,
		settings: newSettings(opts),
	}
}

func repositoryFor(repos TransactionalRepositories, kind ledger.ReferenceKind) (ledger.ReferenceRepository, error) {
	repo := repos.References(kind)
	if repo == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "unsupported reference kind: "+kind.String())
	}
	return repo, nil
}

// Create adds a reference entity
func (s *ReferenceService) Create(ctx context.Context, tenantID uuid.UUID, kind ledger.ReferenceKind, name string) (_ *ReferenceResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reference", "create",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrReferenceKind, kind,
	)
	defer func() { telemetry.EndSpan(span, err) }()

	ref, err := ledger.NewReference(tenantID, kind, name)
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo, err := repositoryFor(repos, kind)
		if err != nil {
			return err
		}
		return repo.Create(ctx, ref)
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("Reference created",
		zap.String("kind", kind.String()),
		zap.String("id", ref.ID.String()),
	)
	resp := ToReferenceResponse(ref)
	return &resp, nil
}

// Get returns one reference entity, active or not
func (s *ReferenceService) Get(ctx context.Context, tenantID uuid.UUID, kind ledger.ReferenceKind, id uuid.UUID) (*ReferenceResponse, error) {
	repo, err := repositoryFor(s.reads, kind)
	if err != nil {
		return nil, err
	}
	ref, err := repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToReferenceResponse(ref)
	return &resp, nil
}

// List returns a page of active reference entities
func (s *ReferenceService) List(ctx context.Context, tenantID uuid.UUID, kind ledger.ReferenceKind, filter shared.Filter) (*shared.Paginated[ReferenceResponse], error) {
	repo, err := repositoryFor(s.reads, kind)
	if err != nil {
		return nil, err
	}
	filter = filter.Normalize()
	refs, total, err := repo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ReferenceResponse, 0, len(refs))
	for _, ref := range refs {
		items = append(items, ToReferenceResponse(ref))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Delete deactivates kinds that support soft delete and removes the rest.
// Accounts keep pointing at deactivated entities.
func (s *ReferenceService) Delete(ctx context.Context, tenantID uuid.UUID, kind ledger.ReferenceKind, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reference", "delete",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrReferenceKind, kind,
	)
	defer func() { telemetry.EndSpan(span, err) }()

	soft := false
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo, err := repositoryFor(repos, kind)
		if err != nil {
			return err
		}
		soft = repo.SupportsSoftDelete()
		if err := repo.DeleteForTenant(ctx, tenantID, id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", kindLabel(kind), err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log(ctx).Info("Reference deleted",
		zap.String("kind", kind.String()),
		zap.String("id", id.String()),
		zap.Bool("soft", soft),
	)
	return nil
}
