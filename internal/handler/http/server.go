package http

import (
	"TaskLink-Backend/internal/auth"
	"TaskLink-Backend/internal/config"
	"TaskLink-Backend/internal/repository"
	"TaskLink-Backend/internal/service"
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server HTTP сервер приложения
type Server struct {
	httpServer *http.Server
	log        *zap.Logger
}

// NewServer собирает сервер: обработчики, middleware и маршруты
func NewServer(
	cfg *config.Config,
	storage repository.Storage,
	shortener *service.ShortenerService,
	jwtService *auth.JWTService,
	uaParser UserAgentParser,
	log *zap.Logger,
) *Server {
	mw := auth.NewMiddleware(jwtService, log)
	passwordService := auth.NewPasswordService()

	authHandlers := auth.NewAuthHandlers(storage, jwtService, passwordService, log)
	tasksHandler := NewTasksHandler(storage, log)
	linksHandler := NewLinksHandler(storage, shortener, &cfg.Shortener, log)
	analyticsHandler := NewAnalyticsHandler(storage, &cfg.Shortener, log)
	adminHandler := NewAdminHandler(storage, log)
	redirectHandler := NewRedirectHandler(storage, uaParser, log)
	healthHandler := NewHealthHandler(storage, log)

	mux := http.NewServeMux()

	// Служебные маршруты
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)

	// Аутентификация
	mux.HandleFunc("POST /api/auth/register", mw.CORS(authHandlers.Register))
	mux.HandleFunc("POST /api/auth/login", mw.CORS(authHandlers.Login))

	// Задачи
	mux.HandleFunc("POST /api/tasks", mw.CORS(mw.RequireAuth(tasksHandler.CreateTask)))
	mux.HandleFunc("GET /api/tasks", mw.CORS(mw.RequireAuth(tasksHandler.ListTasks)))
	mux.HandleFunc("GET /api/tasks/{id}", mw.CORS(mw.RequireAuth(tasksHandler.GetTask)))
	mux.HandleFunc("PUT /api/tasks/{id}", mw.CORS(mw.RequireAuth(tasksHandler.UpdateTask)))
	mux.HandleFunc("DELETE /api/tasks/{id}", mw.CORS(mw.RequireAuth(tasksHandler.DeleteTask)))

	// Короткие ссылки и статистика
	mux.HandleFunc("POST /api/url/shorten", mw.CORS(mw.RequireAuth(linksHandler.Shorten)))
	mux.HandleFunc("DELETE /api/url/{code}", mw.CORS(mw.RequireAuth(linksHandler.Deactivate)))
	mux.HandleFunc("GET /api/analytics", mw.CORS(mw.RequireAuth(analyticsHandler.Analytics)))

	// Админка
	mux.HandleFunc("GET /api/admin/users", mw.CORS(mw.RequireAdmin(adminHandler.ListUsers)))
	mux.HandleFunc("PUT /api/admin/users/{id}/role", mw.CORS(mw.RequireAdmin(adminHandler.SetUserRole)))
	mux.HandleFunc("PUT /api/admin/users/{id}/status", mw.CORS(mw.RequireAdmin(adminHandler.SetUserStatus)))
	mux.HandleFunc("DELETE /api/admin/users/{id}", mw.CORS(mw.RequireAdmin(adminHandler.DeleteUser)))
	mux.HandleFunc("GET /api/admin/tasks", mw.CORS(mw.RequireAdmin(adminHandler.ListAllTasks)))
	mux.HandleFunc("DELETE /api/admin/tasks/{id}", mw.CORS(mw.RequireAdmin(adminHandler.DeleteTask)))

	// Публичный переход по короткому коду
	mux.HandleFunc("GET /url/{code}", redirectHandler.Redirect)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.HTTPServer.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log: log,
	}
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown корректно останавливает сервер
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
