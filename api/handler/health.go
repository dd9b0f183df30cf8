package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/tasklight/backend/api/transport"
	"github.com/tasklight/backend/internal/persist"
	"github.com/tasklight/backend/internal/view"
	"github.com/tasklight/backend/pkg/httpcontext"
)

// StorageStatus reports durable-state availability for the health check.
type StorageStatus interface {
	Stats() persist.StorageStats
}

type HealthHandler struct {
	baseHandler
	appName string
	views   *view.Engine
	storage StorageStatus
}

func NewHealthHandler(appName string, views *view.Engine, storage StorageStatus, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		appName:     appName,
		views:       views,
		storage:     storage,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var storage persist.StorageStats
	if h.storage != nil {
		storage = h.storage.Stats()
	}

	payload := map[string]interface{}{
		"app":       h.appName,
		"timestamp": time.Now().UTC(),
		"stats":     h.views.Stats(),
		"storage":   storage,
	}

	if !storage.Online {
		h.requestLogger(stdCtx).Warn("health check degraded: storage offline")
		h.respondJSON(ctx, http.StatusServiceUnavailable,
			transport.NewError("DEGRADED", "storage offline", payload))
		return
	}
	h.respondSuccess(ctx, http.StatusOK, payload)
}
