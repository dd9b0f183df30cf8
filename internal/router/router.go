package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/tasklight/backend/api/handler"
)

type Handlers struct {
	Task     *apiHandler.TaskHandler
	Category *apiHandler.CategoryHandler
	Filter   *apiHandler.FilterHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Task routes. Static segments before the {id} wildcard.
	r.GET("/api/v1/tasks", handlers.Task.GetTasks)
	r.POST("/api/v1/tasks", handlers.Task.CreateTask)
	r.GET("/api/v1/tasks/stats", handlers.Task.GetStats)
	r.GET("/api/v1/tasks/upcoming", handlers.Task.GetUpcoming)
	r.PUT("/api/v1/tasks/reorder", handlers.Task.ReorderTasks)
	r.GET("/api/v1/tasks/{id}", handlers.Task.GetTask)
	r.PUT("/api/v1/tasks/{id}", handlers.Task.UpdateTask)
	r.DELETE("/api/v1/tasks/{id}", handlers.Task.DeleteTask)
	r.POST("/api/v1/tasks/{id}/toggle", handlers.Task.ToggleTask)
	r.PUT("/api/v1/tasks/{id}/due", handlers.Task.SetDueDate)
	r.PUT("/api/v1/tasks/{id}/reminder", handlers.Task.SetReminder)

	// Category routes
	r.GET("/api/v1/categories", handlers.Category.GetCategories)
	r.POST("/api/v1/categories", handlers.Category.CreateCategory)
	r.PUT("/api/v1/categories/reorder", handlers.Category.ReorderCategories)
	r.PUT("/api/v1/categories/{id}", handlers.Category.UpdateCategory)
	r.DELETE("/api/v1/categories/{id}", handlers.Category.DeleteCategory)

	// Transient UI state
	r.GET("/api/v1/filters", handlers.Filter.GetFilters)
	r.PUT("/api/v1/filters", handlers.Filter.SetFilters)
	r.DELETE("/api/v1/filters", handlers.Filter.ResetFilters)
	r.GET("/api/v1/notifications", handlers.Filter.DrainToasts)

	return r
}
