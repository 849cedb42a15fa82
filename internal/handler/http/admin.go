package http

import (
	"TaskLink-Backend/internal/domain"
	"TaskLink-Backend/internal/repository"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// AdminHandler обработчик админских операций; маршруты защищены
// middleware RequireAdmin, здесь роль уже проверена.
type AdminHandler struct {
	storage repository.Storage
	log     *zap.Logger
}

// NewAdminHandler создает новый обработчик админских операций
func NewAdminHandler(storage repository.Storage, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		storage: storage,
		log:     log,
	}
}

// UserResponse представление пользователя для админки, без хеша пароля
type UserResponse struct {
	ID        string    `json:"id"`
	FName     string    `json:"fname"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SetRoleRequest структура запроса смены роли
type SetRoleRequest struct {
	Role string `json:"role"`
}

// SetStatusRequest структура запроса блокировки/разблокировки
type SetStatusRequest struct {
	IsActive *bool `json:"isActive"`
}

// ListUsers возвращает всех пользователей
//
//	@Summary		List all users
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		UserResponse
//	@Failure		403	{object}	map[string]string	"Admin access required"
//	@Router			/api/admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.storage.ListUsers(r.Context())
	if err != nil {
		h.log.Error("failed to list users", zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, formatUser(user))
	}

	writeJSON(w, resp, http.StatusOK)
}

// SetUserRole меняет роль пользователя
//
//	@Summary		Change a user's role
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string				true	"User id"
//	@Param			request	body		SetRoleRequest		true	"New role"
//	@Success		200		{object}	UserResponse
//	@Failure		400		{object}	map[string]string	"Invalid role"
//	@Failure		404		{object}	map[string]string	"User not found"
//	@Router			/api/admin/users/{id}/role [put]
func (h *AdminHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if req.Role != domain.RoleUser && req.Role != domain.RoleAdmin {
		writeError(w, "role must be 'user' or 'admin'", http.StatusBadRequest)
		return
	}

	user, err := h.storage.SetUserRole(r.Context(), id, req.Role)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, "User not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to set user role", zap.String("user_id", id), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("changed user role",
		zap.String("user_id", id),
		zap.String("role", req.Role))

	writeJSON(w, formatUser(user), http.StatusOK)
}

// SetUserStatus блокирует или разблокирует пользователя
//
//	@Summary		Activate or deactivate a user
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string				true	"User id"
//	@Param			request	body		SetStatusRequest	true	"New status"
//	@Success		200		{object}	UserResponse
//	@Failure		400		{object}	map[string]string	"Invalid request data"
//	@Failure		404		{object}	map[string]string	"User not found"
//	@Router			/api/admin/users/{id}/status [put]
func (h *AdminHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if req.IsActive == nil {
		writeError(w, "isActive is required", http.StatusBadRequest)
		return
	}

	user, err := h.storage.SetUserActive(r.Context(), id, *req.IsActive)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, "User not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to set user status", zap.String("user_id", id), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("changed user status",
		zap.String("user_id", id),
		zap.Bool("is_active", *req.IsActive))

	writeJSON(w, formatUser(user), http.StatusOK)
}

// DeleteUser удаляет пользователя. Пользователь с задачами или ссылками
// не удаляется: сначала нужно убрать его данные.
//
//	@Summary		Delete a user
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	string	true	"User id"
//	@Success		204	"User deleted"
//	@Failure		404	{object}	map[string]string	"User not found"
//	@Failure		409	{object}	map[string]string	"User still owns data"
//	@Router			/api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.storage.DeleteUser(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			writeError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, repository.ErrUserReferenced):
			writeError(w, "User still owns tasks or links", http.StatusConflict)
		default:
			h.log.Error("failed to delete user", zap.String("user_id", id), zap.Error(err))
			writeError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.log.Info("deleted user", zap.String("user_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// ListAllTasks возвращает задачи всех пользователей
//
//	@Summary		List every task in the system
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			tz	query		string	false	"IANA zone for local due date/time"
//	@Success		200	{array}		TaskResponse
//	@Failure		403	{object}	map[string]string	"Admin access required"
//	@Router			/api/admin/tasks [get]
func (h *AdminHandler) ListAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.storage.ListAllTasks(r.Context())
	if err != nil {
		h.log.Error("failed to list all tasks", zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	formatter := &TasksHandler{storage: h.storage, log: h.log}
	zone := zoneFromQuery(r)

	resp := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		formatted, err := formatter.formatTask(task, zone)
		if err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp = append(resp, formatted)
	}

	writeJSON(w, resp, http.StatusOK)
}

// DeleteTask удаляет любую задачу независимо от владельца
//
//	@Summary		Delete any task
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Task id"
//	@Success		204	"Task deleted"
//	@Failure		404	{object}	map[string]string	"Task not found"
//	@Router			/api/admin/tasks/{id} [delete]
func (h *AdminHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.storage.DeleteTask(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			writeError(w, "Task not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to delete task", zap.String("task_id", id), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("admin deleted task", zap.String("task_id", id))
	w.WriteHeader(http.StatusNoContent)
}

func formatUser(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		FName:     user.FName,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
