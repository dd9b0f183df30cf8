package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/tasklight/backend/api/transport"
	"github.com/tasklight/backend/domain"
	"github.com/tasklight/backend/internal/notify"
	"github.com/tasklight/backend/internal/store"
	"github.com/tasklight/backend/pkg/httpcontext"
)

// FilterHandler exposes the transient UI state: filters and the toast feed.
type FilterHandler struct {
	baseHandler
	store  *store.Store
	toasts *notify.Feed
}

func NewFilterHandler(s *store.Store, toasts *notify.Feed, adapter *httpcontext.Adapter, logger *zap.Logger) *FilterHandler {
	return &FilterHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       s,
		toasts:      toasts,
	}
}

// @Summary Current filter state
// @Tags filters
// @Router /api/v1/filters [get]
func (h *FilterHandler) GetFilters(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	filters := h.store.Filters()
	h.requestLogger(stdCtx).Debug("filters fetched", zap.String("status", string(filters.Status)))
	h.respondSuccess(ctx, http.StatusOK, filters)
}

// @Summary Apply a partial filter-state change
// @Tags filters
// @Router /api/v1/filters [put]
func (h *FilterHandler) SetFilters(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.FiltersRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	if req.Status != nil {
		status := domain.StatusFilter(*req.Status)
		switch status {
		case domain.StatusAll, domain.StatusCompleted, domain.StatusPending:
			h.store.SetStatusFilter(status)
		default:
			h.respondInvalid(ctx, "unknown status filter")
			return
		}
	}
	if req.Search != nil {
		h.store.SetSearchQuery(*req.Search)
	}
	if req.Categories != nil {
		h.store.SetCategoryFilter(req.Categories)
	}
	if req.Tags != nil {
		h.store.SetTagFilter(req.Tags)
	}
	if req.SortBy != nil {
		h.store.SetSortBy(domain.SortField(*req.SortBy))
	}
	if req.SortOrder != nil {
		h.store.SetSortOrder(domain.SortOrder(*req.SortOrder))
	}

	filters := h.store.Filters()
	h.requestLogger(stdCtx).Debug("filters updated", zap.String("status", string(filters.Status)))
	h.respondSuccess(ctx, http.StatusOK, filters)
}

// @Summary Reset filters to defaults
// @Tags filters
// @Router /api/v1/filters [delete]
func (h *FilterHandler) ResetFilters(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.store.ResetFilters()
	h.requestLogger(stdCtx).Debug("filters reset")
	h.respondSuccess(ctx, http.StatusOK, h.store.Filters())
}

// @Summary Drain pending toast notifications
// @Tags notifications
// @Router /api/v1/notifications [get]
func (h *FilterHandler) DrainToasts(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	toasts := h.toasts.Drain()
	if toasts == nil {
		toasts = []notify.Toast{}
	}
	h.requestLogger(stdCtx).Debug("toasts drained", zap.Int("count", len(toasts)))
	h.respondSuccess(ctx, http.StatusOK, toasts)
}
