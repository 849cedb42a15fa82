package http

import (
	"TaskLink-Backend/internal/auth"
	"TaskLink-Backend/internal/config"
	"TaskLink-Backend/internal/domain"
	"TaskLink-Backend/internal/repository"
	"TaskLink-Backend/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LinksHandler обработчик коротких ссылок
type LinksHandler struct {
	storage   repository.Storage
	shortener *service.ShortenerService
	cfg       *config.Shortener
	log       *zap.Logger
}

// NewLinksHandler создает новый обработчик ссылок
func NewLinksHandler(storage repository.Storage, shortener *service.ShortenerService, cfg *config.Shortener, log *zap.Logger) *LinksHandler {
	return &LinksHandler{
		storage:   storage,
		shortener: shortener,
		cfg:       cfg,
		log:       log,
	}
}

// ShortenRequest структура запроса создания короткой ссылки
type ShortenRequest struct {
	OriginalURL string `json:"originalUrl"`
}

// LinkResponse представление ссылки для клиента
type LinkResponse struct {
	ID          string    `json:"id"`
	OriginalURL string    `json:"originalUrl"`
	ShortCode   string    `json:"shortCode"`
	ShortURL    string    `json:"shortUrl"`
	UserID      string    `json:"userId"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Shorten создает короткую ссылку
//
//	@Summary		Shorten a URL
//	@Tags			Links
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		ShortenRequest		true	"URL to shorten"
//	@Success		201		{object}	LinkResponse		"Short link created"
//	@Failure		400		{object}	map[string]string	"Invalid request data"
//	@Failure		401		{object}	map[string]string	"Authentication required"
//	@Router			/api/url/shorten [post]
func (h *LinksHandler) Shorten(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	var req ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if !isValidURL(req.OriginalURL) {
		writeError(w, "A valid http(s) URL is required", http.StatusBadRequest)
		return
	}

	link := &domain.Link{
		OriginalURL: req.OriginalURL,
		UserID:      userID,
		IsActive:    true,
	}

	if err := h.shortener.Shorten(r.Context(), link); err != nil {
		h.log.Error("failed to shorten url", zap.String("user_id", userID), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("created short link",
		zap.String("code", link.ShortCode),
		zap.String("user_id", userID))

	writeJSON(w, h.formatLink(link), http.StatusCreated)
}

// Deactivate выключает короткую ссылку владельца
//
//	@Summary		Deactivate a short link
//	@Tags			Links
//	@Produce		json
//	@Security		BearerAuth
//	@Param			code	path		string				true	"Short code"
//	@Success		200		{object}	map[string]string	"Link deactivated"
//	@Failure		403		{object}	map[string]string	"Not the owner"
//	@Failure		404		{object}	map[string]string	"Link not found"
//	@Router			/api/url/{code} [delete]
func (h *LinksHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	code := r.PathValue("code")
	if code == "" {
		writeError(w, "Short code is required", http.StatusBadRequest)
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

	role, _ := auth.GetUserRoleFromContext(r.Context())
	if link.UserID != userID && role != domain.RoleAdmin {
		writeError(w, "Forbidden: you do not have access to this link", http.StatusForbidden)
		return
	}

	if err := h.storage.DeactivateLink(r.Context(), code); err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			writeError(w, "Link not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to deactivate link", zap.String("code", code), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("deactivated link", zap.String("code", code), zap.String("user_id", userID))
	writeJSON(w, map[string]string{"message": "Link deactivated"}, http.StatusOK)
}

func (h *LinksHandler) formatLink(link *domain.Link) LinkResponse {
	return LinkResponse{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		ShortCode:   link.ShortCode,
		ShortURL:    shortURL(h.cfg.BaseURL, link.ShortCode),
		UserID:      link.UserID,
		IsActive:    link.IsActive,
		CreatedAt:   link.CreatedAt,
	}
}

// shortURL собирает публичный адрес перехода
func shortURL(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + "/url/" + code
}

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
