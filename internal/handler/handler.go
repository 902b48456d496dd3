package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/gigboard/gigboard/docs" // Import generated docs
	"github.com/gigboard/gigboard/internal/handler/dto"
	"github.com/gigboard/gigboard/internal/middleware"
	"github.com/gigboard/gigboard/internal/repository"
	"github.com/gigboard/gigboard/internal/service"
	"github.com/gigboard/gigboard/internal/static"
)

// validate checks request DTO struct tags before the service layer sees them.
var validate = validator.New()

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool           *pgxpool.Pool
	taskService    *service.TaskService
	taskRepo       *repository.TaskRepository
	eventRepo      *repository.TaskEventRepository
	businessRepo   *repository.BusinessRepository
	employeeRepo   *repository.EmployeeRepository
	authMiddleware *middleware.AuthMiddleware
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool, requireAuth bool) *Handler {
	// Create repositories
	taskRepo := repository.NewTaskRepository(pool)
	eventRepo := repository.NewTaskEventRepository(pool)
	businessRepo := repository.NewBusinessRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)

	// Create services
	authorizer := service.NewAuthorizer(businessRepo, requireAuth)
	taskService := service.NewTaskService(pool, taskRepo, eventRepo, businessRepo, employeeRepo, authorizer)

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(businessRepo, employeeRepo)

	return &Handler{
		pool:           pool,
		taskService:    taskService,
		taskRepo:       taskRepo,
		eventRepo:      eventRepo,
		businessRepo:   businessRepo,
		employeeRepo:   employeeRepo,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// API quickstart for integrators
	mux.HandleFunc("GET /api.md", h.handleAPIMd)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// API v1 routes; auth is optional and resolved per request
	auth := h.authMiddleware.Resolve

	mux.Handle("GET /api/v1/tasks", auth(http.HandlerFunc(h.handleListTasks)))
	mux.Handle("POST /api/v1/tasks", auth(http.HandlerFunc(h.handleCreateTask)))
	mux.Handle("GET /api/v1/tasks/{id}", auth(http.HandlerFunc(h.handleGetTask)))
	mux.Handle("PATCH /api/v1/tasks/{id}", auth(http.HandlerFunc(h.handleUpdateTask)))
	mux.Handle("DELETE /api/v1/tasks/{id}", auth(http.HandlerFunc(h.handleDeleteTask)))
	mux.Handle("PATCH /api/v1/tasks/{id}/status", auth(http.HandlerFunc(h.handleUpdateStatus)))
	mux.Handle("POST /api/v1/tasks/{id}/assign", auth(http.HandlerFunc(h.handleAssignTask)))
	mux.Handle("POST /api/v1/tasks/{id}/unassign", auth(http.HandlerFunc(h.handleUnassignTask)))
	mux.Handle("POST /api/v1/tasks/{id}/submit", auth(http.HandlerFunc(h.handleSubmitSolution)))
	mux.Handle("POST /api/v1/tasks/{id}/review", auth(http.HandlerFunc(h.handleReviewTask)))
	mux.Handle("GET /api/v1/stats", auth(http.HandlerFunc(h.handleGetStats)))
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleAPIMd serves the embedded API quickstart.
func (h *Handler) handleAPIMd(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(static.APIMd))
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// extractTaskID extracts and validates task ID from path parameter.
// Returns (taskID, true) if valid, ("", false) if invalid (error already sent to client).
func extractTaskID(w http.ResponseWriter, r *http.Request) (string, bool) {
	taskID := r.PathValue("id")
	if taskID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id is required")
		return "", false
	}

	if _, err := uuid.Parse(taskID); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id must be a valid UUID")
		return "", false
	}

	return taskID, true
}

// decodeAndValidate decodes the JSON body into req and runs struct
// validation. Writes the error response itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return false
	}
	return true
}
