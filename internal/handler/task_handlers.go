package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gigboard/gigboard/internal/domain"
	"github.com/gigboard/gigboard/internal/handler/dto"
	"github.com/gigboard/gigboard/internal/middleware"
	"github.com/gigboard/gigboard/internal/repository"
	"github.com/gigboard/gigboard/internal/service"
)

// handleCreateTask creates a new task.
// @Summary Create a new task
// @Description Creates a new PENDING task for a business. Authenticated businesses may omit business_id.
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Task creation request"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	principalID := middleware.PrincipalID(ctx)

	// Business callers own their tasks; business_id in the body is for
	// anonymous and employee callers.
	businessID := req.BusinessID
	if principal := middleware.PrincipalFromContext(ctx); principal != nil && principal.Kind == domain.PrincipalKindBusiness {
		business, err := h.businessRepo.GetByPrincipalID(ctx, principal.ID)
		if err != nil {
			status, code, message := dto.MapDomainError(err)
			respondError(w, status, code, message)
			return
		}
		businessID = business.ID
	}

	task, err := h.taskService.CreateTask(ctx, service.CreateTaskParams{
		BusinessID:  businessID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		DueDate:     req.DueDate,
		PrincipalID: principalID,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTaskResponse(task))
}

// handleGetTask retrieves task details with events.
// @Summary Get task details
// @Description Get full task details including the lifecycle event history
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	events, err := h.eventRepo.GetByTaskID(ctx, taskID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch events")
		return
	}

	response := dto.TaskDetailResponse{
		Task:   dto.ToTaskResponse(task),
		Events: make([]dto.TaskEventInfo, len(events)),
	}
	for i, event := range events {
		response.Events[i] = dto.ToTaskEventInfo(event)
	}

	respondJSON(w, http.StatusOK, response)
}

// handleUpdateTask applies a partial update of the descriptive fields.
// @Summary Update task details
// @Description Update name, description, price or due date. Status and assignment are untouched.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [patch]
func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.UpdateTask(ctx, taskID, middleware.PrincipalID(ctx), domain.TaskUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		DueDate:     req.DueDate,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleDeleteTask deletes a task.
// @Summary Delete a task
// @Description Deletes a task and removes it from the owning business's task list
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.DeleteTaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(ctx, taskID, middleware.PrincipalID(ctx)); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.DeleteTaskResponse{
		Message: "task deleted",
		TaskID:  taskID,
	})
}

// handleUpdateStatus applies a generic status transition.
// @Summary Transition task status
// @Description Change task status along an allowed edge of the lifecycle
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.UpdateStatusRequest true "Status transition request"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/status [patch]
func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.UpdateTaskStatus(ctx, taskID, domain.TaskStatus(req.Status), req.Comments, middleware.PrincipalID(ctx))
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleAssignTask assigns a task to an employee.
// @Summary Assign a task
// @Description Hands a PENDING or REJECTED task to an employee
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.AssignTaskRequest true "Assignment request"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/assign [post]
func (h *Handler) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.AssignTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.AssignTask(ctx, taskID, req.EmployeeID, middleware.PrincipalID(ctx))
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleUnassignTask returns a task to the pool.
// @Summary Unassign a task
// @Description Returns an ASSIGNED or IN_PROGRESS task to PENDING and clears the assignee
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/unassign [post]
func (h *Handler) handleUnassignTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.UnassignTask(ctx, taskID, middleware.PrincipalID(ctx))
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleSubmitSolution submits a solution for review.
// @Summary Submit a solution
// @Description Records the solution text and moves the task to SUBMITTED
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.SubmitSolutionRequest true "Solution"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/submit [post]
func (h *Handler) handleSubmitSolution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.SubmitSolutionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.SubmitSolution(ctx, taskID, req.Solution, middleware.PrincipalID(ctx))
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleReviewTask applies the owning business's decision on a submitted task.
// @Summary Review a submitted task
// @Description Approve, reject, or request changes on a SUBMITTED task. Requires the owning business's token.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.ReviewTaskRequest true "Review decision"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/review [post]
func (h *Handler) handleReviewTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.ReviewTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.ReviewTask(ctx, taskID, middleware.PrincipalID(ctx), domain.ReviewAction(req.Action), req.Comments)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleListTasks returns a list of tasks with filters.
// @Summary List tasks
// @Description Get a list of tasks with optional filters
// @Tags tasks
// @Produce json
// @Param status query string false "Comma-separated statuses: PENDING,SUBMITTED"
// @Param business query string false "Filter by owning business UUID"
// @Param assignee query string false "Filter by assigned employee UUID"
// @Param available query bool false "Show only claimable (PENDING) tasks"
// @Param overdue query bool false "Show only tasks past their due date"
// @Param min_price query number false "Price lower bound"
// @Param max_price query number false "Price upper bound"
// @Param sort query string false "Sort fields: -price,created_at"
// @Param limit query int false "Page size (1-200, default 50)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {object} dto.TasksListResponse
// @Security BearerAuth
// @Router /tasks [get]
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	var statuses []string
	if statusParam := query.Get("status"); statusParam != "" {
		statuses = splitAndTrim(statusParam, ",")
	}

	var businessID *string
	if businessParam := query.Get("business"); businessParam != "" {
		businessID = &businessParam
	}

	var assigneeID *string
	if assigneeParam := query.Get("assignee"); assigneeParam != "" {
		assigneeID = &assigneeParam
	}

	var minPrice, maxPrice *float64
	if param := query.Get("min_price"); param != "" {
		if v, err := strconv.ParseFloat(param, 64); err == nil && v >= 0 {
			minPrice = &v
		}
	}
	if param := query.Get("max_price"); param != "" {
		if v, err := strconv.ParseFloat(param, 64); err == nil && v >= 0 {
			maxPrice = &v
		}
	}

	var sort []string
	if sortParam := query.Get("sort"); sortParam != "" {
		sort = splitAndTrim(sortParam, ",")
	}

	limit := 50
	if limitParam := query.Get("limit"); limitParam != "" {
		if n, err := strconv.Atoi(limitParam); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	offset := 0
	if offsetParam := query.Get("offset"); offsetParam != "" {
		if n, err := strconv.Atoi(offsetParam); err == nil && n >= 0 {
			offset = n
		}
	}

	results, total, err := h.taskRepo.List(ctx, repository.TaskListFilters{
		Statuses:   statuses,
		BusinessID: businessID,
		AssignedTo: assigneeID,
		Available:  query.Get("available") == "true",
		Overdue:    query.Get("overdue") == "true",
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Sort:       sort,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tasks")
		return
	}

	tasks := make([]dto.TaskResponse, len(results))
	for i, task := range results {
		tasks[i] = dto.ToTaskResponse(task)
	}

	respondJSON(w, http.StatusOK, dto.TasksListResponse{
		Tasks:  tasks,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// splitAndTrim splits a string by delimiter and trims whitespace.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
