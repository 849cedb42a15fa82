package http

import (
	"TaskLink-Backend/internal/domain"
	"TaskLink-Backend/internal/repository"
	"TaskLink-Backend/internal/repository/mocks"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubUAParser struct {
	deviceType string
}

func (s *stubUAParser) DeviceType(userAgent string) string {
	return s.deviceType
}

func newRedirectHandler() (*RedirectHandler, *mocks.Storage) {
	storage := &mocks.Storage{}
	return NewRedirectHandler(storage, &stubUAParser{deviceType: "desktop"}, zap.NewNop()), storage
}

func doRedirect(h *RedirectHandler, code string, headers map[string]string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /url/{code}", h.Redirect)

	req := httptest.NewRequest(http.MethodGet, "/url/"+code, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestRedirect_UnknownCode(t *testing.T) {
	h, storage := newRedirectHandler()

	storage.On("GetLinkByCode", mock.Anything, "missing").
		Return(nil, repository.ErrCodeNotFound).Once()

	rec := doRedirect(h, "missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Link not found", body["message"])

	// Неизвестный код не порождает кликов
	storage.AssertNotCalled(t, "RecordClick", mock.Anything, mock.Anything)
	storage.AssertExpectations(t)
}

func TestRedirect_RecordsClickThenRedirects(t *testing.T) {
	h, storage := newRedirectHandler()

	link := &domain.Link{
		ID:          "link-1",
		OriginalURL: "https://example.com/page",
		ShortCode:   "abc1234",
		IsActive:    true,
	}
	storage.On("GetLinkByCode", mock.Anything, "abc1234").Return(link, nil).Once()

	var recorded *domain.Click
	storage.On("RecordClick", mock.Anything, mock.AnythingOfType("*domain.Click")).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*domain.Click)
		}).
		Return(nil).Once()

	rec := doRedirect(h, "abc1234", map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
		"X-Forwarded-For": "203.0.113.7, 10.0.0.1",
	})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.com/page", rec.Header().Get("Location"))

	require.NotNil(t, recorded)
	assert.Equal(t, "link-1", recorded.URLID)
	require.NotNil(t, recorded.IP)
	assert.Equal(t, "203.0.113.7", *recorded.IP)
	require.NotNil(t, recorded.DeviceType)
	assert.Equal(t, "desktop", *recorded.DeviceType)

	storage.AssertExpectations(t)
	storage.AssertNumberOfCalls(t, "RecordClick", 1)
}

func TestRedirect_ClickWriteFailureBlocksRedirect(t *testing.T) {
	h, storage := newRedirectHandler()

	link := &domain.Link{ID: "link-1", OriginalURL: "https://example.com", ShortCode: "abc1234"}
	storage.On("GetLinkByCode", mock.Anything, "abc1234").Return(link, nil).Once()
	storage.On("RecordClick", mock.Anything, mock.AnythingOfType("*domain.Click")).
		Return(assert.AnError).Once()

	rec := doRedirect(h, "abc1234", nil)

	// Без записанного клика перехода нет
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	storage.AssertExpectations(t)
}

func TestExtractIPAddress(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:    "forwarded chain takes first hop",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.4, 10.0.0.2"},
			remote:  "10.0.0.2:4312",
			want:    "198.51.100.4",
		},
		{
			name:    "real ip fallback",
			headers: map[string]string{"X-Real-IP": "198.51.100.9"},
			remote:  "10.0.0.2:4312",
			want:    "198.51.100.9",
		},
		{
			name:   "remote addr fallback strips port",
			remote: "192.0.2.33:5050",
			want:   "192.0.2.33",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, extractIPAddress(req))
		})
	}
}
