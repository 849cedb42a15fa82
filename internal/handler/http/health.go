package http

import (
	"TaskLink-Backend/internal/repository"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthHandler обработчик проверок живости и готовности
type HealthHandler struct {
	storage repository.Storage
	log     *zap.Logger
}

// NewHealthHandler создает новый обработчик health-проверок
func NewHealthHandler(storage repository.Storage, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		log:     log,
	}
}

// Health проверка живости процесса
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// Ready проверка готовности: пробный запрос к хранилищу. Код заведомо
// не существует, ожидаемый результат — ErrCodeNotFound.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	_, err := h.storage.GetLinkByCode(r.Context(), "health-check")
	if err != nil && !errors.Is(err, repository.ErrCodeNotFound) {
		h.log.Error("storage readiness probe failed", zap.Error(err))
		writeError(w, "Storage unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, map[string]string{"status": "ready"}, http.StatusOK)
}
