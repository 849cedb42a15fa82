package http

import (
	"TaskLink-Backend/internal/domain"
	"TaskLink-Backend/internal/repository"
	"errors"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// RedirectHandler обработчик переходов по коротким ссылкам
type RedirectHandler struct {
	storage  repository.Storage
	uaParser UserAgentParser
	log      *zap.Logger
}

// UserAgentParser классифицирует устройство по строке User-Agent
type UserAgentParser interface {
	DeviceType(userAgent string) string
}

// NewRedirectHandler создает новый обработчик переходов
func NewRedirectHandler(storage repository.Storage, uaParser UserAgentParser, log *zap.Logger) *RedirectHandler {
	return &RedirectHandler{
		storage:  storage,
		uaParser: uaParser,
		log:      log,
	}
}

// Redirect обрабатывает переход по короткой ссылке
//
//	@Summary		Resolve a short code
//	@Tags			Redirect
//	@Param			code	path	string	true	"Short code"
//	@Success		302		"Redirect to the original URL"
//	@Failure		404		{object}	map[string]string	"Link not found"
//	@Router			/url/{code} [get]
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		writeError(w, "Link not found", http.StatusNotFound)
		return
	}

	link, err := h.storage.GetLinkByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			writeError(w, "Link not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to look up short code", zap.String("code", code), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	click := h.buildClick(r, link.ID)

	// Переход засчитывается только после успешной записи клика: если
	// запись не удалась, редиректа нет.
	if err := h.storage.RecordClick(r.Context(), click); err != nil {
		h.log.Error("failed to record click",
			zap.String("code", code),
			zap.String("url_id", link.ID),
			zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("redirect",
		zap.String("code", code),
		zap.Stringp("device_type", click.DeviceType))

	http.Redirect(w, r, link.OriginalURL, http.StatusFound)
}

func (h *RedirectHandler) buildClick(r *http.Request, urlID string) *domain.Click {
	click := &domain.Click{URLID: urlID}

	if ip := extractIPAddress(r); ip != "" {
		click.IP = &ip
	}

	if ua := r.Header.Get("User-Agent"); ua != "" {
		click.UserAgent = &ua
		deviceType := h.uaParser.DeviceType(ua)
		click.DeviceType = &deviceType
	}

	return click
}

// extractIPAddress извлекает IP клиента с учетом прокси
func extractIPAddress(r *http.Request) string {
	// X-Forwarded-For может содержать цепочку адресов, клиентский — первый
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
