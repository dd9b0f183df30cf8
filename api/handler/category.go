package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/tasklight/backend/api/transport"
	"github.com/tasklight/backend/domain"
	"github.com/tasklight/backend/internal/store"
	"github.com/tasklight/backend/internal/view"
	"github.com/tasklight/backend/pkg/httpcontext"
)

type CategoryHandler struct {
	baseHandler
	store *store.Store
	views *view.Engine
}

func NewCategoryHandler(s *store.Store, views *view.Engine, adapter *httpcontext.Adapter, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       s,
		views:       views,
	}
}

// @Summary List categories in display order
// @Tags categories
// @Router /api/v1/categories [get]
func (h *CategoryHandler) GetCategories(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	categories := h.views.Categories()
	h.requestLogger(stdCtx).Debug("categories listed", zap.Int("count", len(categories)))
	h.respondSuccess(ctx, http.StatusOK, categories)
}

// @Summary Create category
// @Tags categories
// @Router /api/v1/categories [post]
func (h *CategoryHandler) CreateCategory(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.CategoryCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}
	if req.Name == "" {
		h.respondInvalid(ctx, "category name must not be empty")
		return
	}
	created := h.store.AddCategory(req.Name, req.Color, req.Icon)
	h.requestLogger(stdCtx).Debug("category created", zap.String("category_id", created.ID))
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update category
// @Tags categories
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.CategoryUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	id := pathID(ctx)
	if _, ok := h.store.Category(id); !ok {
		h.respondError(ctx, domain.ErrCategoryNotFound)
		return
	}

	h.store.UpdateCategory(id, store.CategoryUpdate{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	h.requestLogger(stdCtx).Debug("category updated", zap.String("category_id", id))
	cat, _ := h.store.Category(id)
	h.respondSuccess(ctx, http.StatusOK, cat)
}

// @Summary Delete category (references from tasks stay behind, inert)
// @Tags categories
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id := pathID(ctx)
	if id == "" {
		h.respondInvalid(ctx, "missing category id")
		return
	}
	h.store.DeleteCategory(id)
	h.requestLogger(stdCtx).Debug("category deleted", zap.String("category_id", id))
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Replace the category display order
// @Tags categories
// @Router /api/v1/categories/reorder [put]
func (h *CategoryHandler) ReorderCategories(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.ReorderRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}
	h.store.ReorderCategories(req.IDs)
	h.requestLogger(stdCtx).Debug("categories reordered", zap.Int("count", len(req.IDs)))
	h.respondSuccess(ctx, http.StatusOK, nil)
}
