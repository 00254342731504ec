package handler

import (
	"context"
	"strings"

	ledgerapp "github.com/erp/ledger/internal/application/ledger"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReferenceService is the part of the reference application service the handler uses
type ReferenceService interface {
	Create(ctx context.Context, tenantID uuid.UUID, kind ledger.ReferenceKind, name string) (*ledgerapp.ReferenceResponse, error)
	Get(ctx context.Context, tenantID uuid.UUID, kind ledger.ReferenceKind, id uuid.UUID) (*ledgerapp.ReferenceResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, kind ledger.ReferenceKind, filter shared.Filter) (*shared.Paginated[ledgerapp.ReferenceResponse], error)
	Delete(ctx context.Context, tenantID uuid.UUID, kind ledger.ReferenceKind, id uuid.UUID) error
}

// ReferenceHandler serves vendors, customers, categories and tags under
// /references/:kind
type ReferenceHandler struct {
	BaseHandler
	service ReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(service ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

// CreateReferenceRequest is the body of POST /references/:kind
type CreateReferenceRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// Create handles POST /references/:kind
func (h *ReferenceHandler) Create(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	var req CreateReferenceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ref, err := h.service.Create(c.Request.Context(), tenantID(c), kind, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ref)
}

// Get handles GET /references/:kind/:id
func (h *ReferenceHandler) Get(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.InvalidID(c, "reference ID")
		return
	}

	ref, err := h.service.Get(c.Request.Context(), tenantID(c), kind, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ref)
}

// List handles GET /references/:kind
func (h *ReferenceHandler) List(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, queryDetails(err))
		return
	}

	page, err := h.service.List(c.Request.Context(), tenantID(c), kind, shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Delete handles DELETE /references/:kind/:id. Vendors, customers and
// categories are deactivated; tags are removed.
func (h *ReferenceHandler) Delete(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.InvalidID(c, "reference ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), tenantID(c), kind, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// kind resolves the :kind path segment, accepting singular or plural names
func (h *ReferenceHandler) kind(c *gin.Context) (ledger.ReferenceKind, bool) {
	raw := c.Param("kind")
	kind, err := ledger.ParseReferenceKind(singular(raw))
	if err != nil {
		h.HandleError(c, err)
		return "", false
	}
	return kind, true
}

func singular(s string) string {
	s = strings.ToLower(s)
	if strings.HasSuffix(s, "ies") {
		return strings.TrimSuffix(s, "ies") + "y"
	}
	return strings.TrimSuffix(s, "s")
}
