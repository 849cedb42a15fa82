package http

import (
	"TaskLink-Backend/internal/auth"
	"TaskLink-Backend/internal/domain"
	"TaskLink-Backend/internal/duedate"
	"TaskLink-Backend/internal/repository"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Статусы задач на HTTP-поверхности; в базе хранится булево completed.
const (
	statusPending   = "pending"
	statusCompleted = "completed"
)

// TasksHandler обработчик задач
type TasksHandler struct {
	storage repository.Storage
	log     *zap.Logger
}

// NewTasksHandler создает новый обработчик задач
func NewTasksHandler(storage repository.Storage, log *zap.Logger) *TasksHandler {
	return &TasksHandler{
		storage: storage,
		log:     log,
	}
}

// CreateTaskRequest структура запроса создания задачи
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	DueDate     string  `json:"dueDate,omitempty"`
	DueTime     string  `json:"dueTime,omitempty"`
	TimeZone    string  `json:"timeZone,omitempty"`
}

// UpdateTaskRequest структура частичного обновления: отсутствующее поле не
// трогает значение, явный null очищает его.
type UpdateTaskRequest struct {
	Title       *string                 `json:"title"`
	Description domain.Optional[string] `json:"description"`
	Status      *string                 `json:"status"`
	Priority    *string                 `json:"priority"`
	DueDate     domain.Optional[string] `json:"dueDate"`
	DueTime     domain.Optional[string] `json:"dueTime"`
	TimeZone    *string                 `json:"timeZone"`
}

// TaskResponse представление задачи для клиента. Локальные dueDate/dueTime
// выводятся из сохраненного UTC момента и зоны, переданной вызывающим;
// без зоны они null, но dueAt присутствует всегда.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueAt       *time.Time `json:"dueAt"`
	DueDate     *string    `json:"dueDate"`
	DueTime     *string    `json:"dueTime"`
	UserID      string     `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateTask создает новую задачу
//
//	@Summary		Create a task
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateTaskRequest	true	"Task creation request"
//	@Success		201		{object}	TaskResponse		"Task created"
//	@Failure		400		{object}	map[string]string	"Invalid request data"
//	@Failure		401		{object}	map[string]string	"Authentication required"
//	@Router			/api/tasks [post]
func (h *TasksHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid create task request", zap.Error(err))
		writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if req.Title == "" {
		writeError(w, "title is required", http.StatusBadRequest)
		return
	}

	status := req.Status
	if status == "" {
		status = statusPending
	}
	if status != statusPending && status != statusCompleted {
		writeError(w, "status must be 'pending' or 'completed'", http.StatusBadRequest)
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		writeError(w, "priority must be 'low', 'medium' or 'high'", http.StatusBadRequest)
		return
	}

	// Неполная тройка (дата, время, зона) означает "без срока"
	dueAt, err := duedate.ToAbsolute(req.DueDate, req.DueTime, req.TimeZone)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	task := &domain.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   status == statusCompleted,
		Priority:    priority,
		DueAt:       dueAt,
	}

	if err := h.storage.CreateTask(r.Context(), task); err != nil {
		h.log.Error("failed to create task", zap.String("user_id", userID), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp, err := h.formatTask(task, req.TimeZone)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.log.Info("created task", zap.String("task_id", task.ID), zap.String("user_id", userID))
	writeJSON(w, resp, http.StatusCreated)
}

// ListTasks возвращает задачи текущего пользователя
//
//	@Summary		List own tasks
//	@Tags			Tasks
//	@Produce		json
//	@Security		BearerAuth
//	@Param			tz	query		string	false	"IANA zone for local due date/time"
//	@Success		200	{array}		TaskResponse
//	@Failure		401	{object}	map[string]string	"Authentication required"
//	@Router			/api/tasks [get]
func (h *TasksHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	tasks, err := h.storage.ListUserTasks(r.Context(), userID)
	if err != nil {
		h.log.Error("failed to list tasks", zap.String("user_id", userID), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	zone := zoneFromQuery(r)
	resp := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		formatted, err := h.formatTask(task, zone)
		if err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp = append(resp, formatted)
	}

	writeJSON(w, resp, http.StatusOK)
}

// GetTask возвращает одну задачу (владелец или админ)
func (h *TasksHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadOwnedTask(w, r)
	if !ok {
		return
	}

	resp, err := h.formatTask(task, zoneFromQuery(r))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, resp, http.StatusOK)
}

// UpdateTask частично обновляет задачу (владелец или админ)
//
//	@Summary		Update a task
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string				true	"Task id"
//	@Param			request	body		UpdateTaskRequest	true	"Fields to update"
//	@Success		200		{object}	TaskResponse
//	@Failure		400		{object}	map[string]string	"Invalid request data"
//	@Failure		403		{object}	map[string]string	"Not the owner"
//	@Failure		404		{object}	map[string]string	"Task not found"
//	@Router			/api/tasks/{id} [put]
func (h *TasksHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadOwnedTask(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid update task request", zap.Error(err))
		writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	patch, err := h.buildPatch(&req)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.storage.UpdateTask(r.Context(), task.ID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			writeError(w, "Task not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to update task", zap.String("task_id", task.ID), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	zone := ""
	if req.TimeZone != nil {
		zone = *req.TimeZone
	}
	if zone == "" {
		zone = zoneFromQuery(r)
	}

	resp, err := h.formatTask(updated, zone)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, resp, http.StatusOK)
}

// DeleteTask удаляет задачу (владелец или админ)
func (h *TasksHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadOwnedTask(w, r)
	if !ok {
		return
	}

	if err := h.storage.DeleteTask(r.Context(), task.ID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			writeError(w, "Task not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to delete task", zap.String("task_id", task.ID), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("deleted task", zap.String("task_id", task.ID))
	w.WriteHeader(http.StatusNoContent)
}

// Helper methods

// loadOwnedTask достает задачу по {id} и проверяет права: владелец или
// админ. Пишет ответ об ошибке сама; второй результат false означает,
// что обработчику делать больше нечего.
func (h *TasksHandler) loadOwnedTask(w http.ResponseWriter, r *http.Request) (*domain.Task, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authorized", http.StatusUnauthorized)
		return nil, false
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, "Task id is required", http.StatusBadRequest)
		return nil, false
	}

	task, err := h.storage.GetTask(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			writeError(w, "Task not found", http.StatusNotFound)
			return nil, false
		}
		h.log.Error("failed to get task", zap.String("task_id", id), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}

	role, _ := auth.GetUserRoleFromContext(r.Context())
	if task.UserID != userID && role != domain.RoleAdmin {
		writeError(w, "Forbidden: you do not have access to this task", http.StatusForbidden)
		return nil, false
	}

	return task, true
}

func (h *TasksHandler) buildPatch(req *UpdateTaskRequest) (*domain.TaskPatch, error) {
	patch := &domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	}

	if req.Title != nil && *req.Title == "" {
		return nil, errors.New("title cannot be empty")
	}
	if req.Priority != nil && !domain.ValidPriority(*req.Priority) {
		return nil, errors.New("priority must be 'low', 'medium' or 'high'")
	}

	if req.Status != nil {
		switch *req.Status {
		case statusPending:
			completed := false
			patch.Completed = &completed
		case statusCompleted:
			completed := true
			patch.Completed = &completed
		default:
			return nil, errors.New("status must be 'pending' or 'completed'")
		}
	}

	// Срок: явный null в dueDate или dueTime очищает его; чтобы установить
	// новый, нужна полная тройка (дата, время, зона).
	switch {
	case !req.DueDate.Set && !req.DueTime.Set:
		// поле не тронуто
	case (req.DueDate.Set && !req.DueDate.Valid) || (req.DueTime.Set && !req.DueTime.Valid):
		patch.DueAt = domain.NullOptional[time.Time]()
	default:
		zone := ""
		if req.TimeZone != nil {
			zone = *req.TimeZone
		}
		instant, err := duedate.ToAbsolute(req.DueDate.Value, req.DueTime.Value, zone)
		if err != nil {
			return nil, err
		}
		if instant == nil {
			return nil, errors.New("dueDate, dueTime and timeZone must be provided together")
		}
		patch.DueAt = domain.NewOptional(*instant)
	}

	return patch, nil
}

// formatTask проецирует сохраненный UTC момент обратно в локальные дату и
// время запрошенной зоны. Зона не хранится: вызывающий передает ее на
// каждое чтение.
func (h *TasksHandler) formatTask(task *domain.Task, zone string) (TaskResponse, error) {
	resp := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      statusPending,
		Priority:    task.Priority,
		DueAt:       task.DueAt,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.Completed {
		resp.Status = statusCompleted
	}

	if task.DueAt != nil && zone != "" {
		localDate, localTime, err := duedate.FromAbsolute(*task.DueAt, zone)
		if err != nil {
			return TaskResponse{}, err
		}
		resp.DueDate = &localDate
		resp.DueTime = &localTime
	}

	return resp, nil
}

func zoneFromQuery(r *http.Request) string {
	if tz := r.URL.Query().Get("tz"); tz != "" {
		return tz
	}
	return r.URL.Query().Get("timeZone")
}
