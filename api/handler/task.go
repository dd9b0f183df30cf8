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

type TaskHandler struct {
	baseHandler
	store *store.Store
	views *view.Engine
}

func NewTaskHandler(s *store.Store, views *view.Engine, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       s,
		views:       views,
	}
}

// @Summary List tasks through the filter pipeline
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks := h.views.FilteredTasks()
	h.requestLogger(stdCtx).Debug("tasks listed", zap.Int("count", len(tasks)))
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Get one task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id := pathID(ctx)
	task, ok := h.store.Task(id)
	if !ok {
		h.requestLogger(stdCtx).Debug("task not found", zap.String("task_id", id))
		h.respondError(ctx, domain.ErrTaskNotFound)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.TaskCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	created, err := h.store.AddTask(store.AddTaskInput{
		Text:        req.Text,
		Description: req.Description,
		Categories:  req.Categories,
		Tags:        req.Tags,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.requestLogger(stdCtx).Debug("task created", zap.String("task_id", created.ID))
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update task fields
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.TaskUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}
	if req.Text != nil && !domain.ValidTitle(*req.Text) {
		h.respondError(ctx, domain.ErrEmptyTitle)
		return
	}

	id := pathID(ctx)
	if _, ok := h.store.Task(id); !ok {
		h.respondError(ctx, domain.ErrTaskNotFound)
		return
	}

	h.store.UpdateTask(id, store.TaskUpdate{
		Text:        req.Text,
		Description: req.Description,
		Categories:  req.Categories,
		Tags:        req.Tags,
	})
	h.requestLogger(stdCtx).Debug("task updated", zap.String("task_id", id))
	task, _ := h.store.Task(id)
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Toggle completion
// @Tags tasks
// @Router /api/v1/tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id := pathID(ctx)
	if _, ok := h.store.Task(id); !ok {
		h.respondError(ctx, domain.ErrTaskNotFound)
		return
	}
	h.store.ToggleTask(id)
	task, _ := h.store.Task(id)
	h.requestLogger(stdCtx).Debug("task toggled",
		zap.String("task_id", id),
		zap.Bool("completed", task.Completed))
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id := pathID(ctx)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}
	h.store.DeleteTask(id)
	h.requestLogger(stdCtx).Debug("task deleted", zap.String("task_id", id))
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Replace the task display order
// @Tags tasks
// @Router /api/v1/tasks/reorder [put]
func (h *TaskHandler) ReorderTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.ReorderRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}
	h.store.ReorderTasks(req.IDs)
	h.requestLogger(stdCtx).Debug("tasks reordered", zap.Int("count", len(req.IDs)))
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Set or clear the due date
// @Tags tasks
// @Router /api/v1/tasks/{id}/due [put]
func (h *TaskHandler) SetDueDate(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.DueDateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	id := pathID(ctx)
	if _, ok := h.store.Task(id); !ok {
		h.respondError(ctx, domain.ErrTaskNotFound)
		return
	}
	h.store.SetTaskDueDate(id, req.DueDate)
	h.requestLogger(stdCtx).Debug("due date set",
		zap.String("task_id", id),
		zap.Int64("due_date", req.DueDate))
	task, _ := h.store.Task(id)
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Configure the reminder
// @Tags tasks
// @Router /api/v1/tasks/{id}/reminder [put]
func (h *TaskHandler) SetReminder(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.ReminderRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	upd := store.ReminderUpdate{
		Enabled:      req.Enabled,
		NotifyBefore: req.NotifyBefore,
	}
	if req.NotificationType != nil {
		typ := domain.NotificationType(*req.NotificationType)
		switch typ {
		case domain.NotifyBrowser, domain.NotifyToast, domain.NotifyBoth:
			upd.NotificationType = &typ
		default:
			h.respondInvalid(ctx, "unknown notification type")
			return
		}
	}

	id := pathID(ctx)
	if _, ok := h.store.Task(id); !ok {
		h.respondError(ctx, domain.ErrTaskNotFound)
		return
	}
	h.store.SetTaskReminder(id, upd)
	h.requestLogger(stdCtx).Debug("reminder configured", zap.String("task_id", id))
	task, _ := h.store.Task(id)
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Aggregate task counts
// @Tags tasks
// @Router /api/v1/tasks/stats [get]
func (h *TaskHandler) GetStats(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stats := h.views.Stats()
	h.requestLogger(stdCtx).Debug("stats served", zap.Int("total", stats.Total))
	h.respondSuccess(ctx, http.StatusOK, stats)
}

// @Summary Tasks with reminders opening in the next 24h
// @Tags tasks
// @Router /api/v1/tasks/upcoming [get]
func (h *TaskHandler) GetUpcoming(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	upcoming := h.views.UpcomingReminders()
	h.requestLogger(stdCtx).Debug("upcoming reminders served", zap.Int("count", len(upcoming)))
	h.respondSuccess(ctx, http.StatusOK, upcoming)
}
