package http

import (
	"TaskLink-Backend/internal/auth"
	"TaskLink-Backend/internal/config"
	"TaskLink-Backend/internal/domain"
	"TaskLink-Backend/internal/repository"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// AnalyticsHandler обработчик статистики переходов
type AnalyticsHandler struct {
	storage repository.Storage
	cfg     *config.Shortener
	log     *zap.Logger
}

// NewAnalyticsHandler создает новый обработчик статистики
func NewAnalyticsHandler(storage repository.Storage, cfg *config.Shortener, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		storage: storage,
		cfg:     cfg,
		log:     log,
	}
}

// ClickResponse одно событие перехода
type ClickResponse struct {
	ID         int64     `json:"id"`
	IP         *string   `json:"ip"`
	UserAgent  *string   `json:"userAgent"`
	DeviceType *string   `json:"deviceType"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LinkAnalyticsResponse ссылка с полным списком переходов
type LinkAnalyticsResponse struct {
	ID          string          `json:"id"`
	OriginalURL string          `json:"originalUrl"`
	ShortCode   string          `json:"shortCode"`
	ShortURL    string          `json:"shortUrl"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	ClickCount  int             `json:"clickCount"`
	Clicks      []ClickResponse `json:"clicks"`
}

// Analytics возвращает ссылки текущего пользователя с переходами
//
//	@Summary		Click analytics for own links
//	@Tags			Analytics
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		LinkAnalyticsResponse
//	@Failure		401	{object}	map[string]string	"Authentication required"
//	@Router			/api/analytics [get]
func (h *AnalyticsHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	links, err := h.storage.ListUserLinksWithClicks(r.Context(), userID)
	if err != nil {
		h.log.Error("failed to load analytics", zap.String("user_id", userID), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]LinkAnalyticsResponse, 0, len(links))
	for _, link := range links {
		resp = append(resp, h.formatLinkAnalytics(link))
	}

	writeJSON(w, resp, http.StatusOK)
}

func (h *AnalyticsHandler) formatLinkAnalytics(link *domain.Link) LinkAnalyticsResponse {
	clicks := make([]ClickResponse, 0, len(link.Clicks))
	for _, click := range link.Clicks {
		clicks = append(clicks, ClickResponse{
			ID:         click.ID,
			IP:         click.IP,
			UserAgent:  click.UserAgent,
			DeviceType: click.DeviceType,
			CreatedAt:  click.CreatedAt,
		})
	}

	return LinkAnalyticsResponse{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		ShortCode:   link.ShortCode,
		ShortURL:    shortURL(h.cfg.BaseURL, link.ShortCode),
		IsActive:    link.IsActive,
		CreatedAt:   link.CreatedAt,
		ClickCount:  len(clicks),
		Clicks:      clicks,
	}
}
