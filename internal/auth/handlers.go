package auth

import (
	"TaskLink-Backend/internal/domain"
	"TaskLink-Backend/internal/repository"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// AuthHandlers обработчики аутентификации
type AuthHandlers struct {
	storage         repository.Storage
	jwtService      *JWTService
	passwordService *PasswordService
	log             *zap.Logger
}

// NewAuthHandlers создает новые обработчики аутентификации
func NewAuthHandlers(storage repository.Storage, jwtService *JWTService, passwordService *PasswordService, log *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		storage:         storage,
		jwtService:      jwtService,
		passwordService: passwordService,
		log:             log,
	}
}

// RegisterRequest структура запроса регистрации
type RegisterRequest struct {
	FName    string `json:"fname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest структура запроса входа
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse структура ответа аутентификации
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// UserInfo информация о пользователе
type UserInfo struct {
	ID    string `json:"id"`
	FName string `json:"fname"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Register обработчик регистрации
//
//	@Summary		Register a new user
//	@Description	Create a new user account and receive a JWT
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest	true	"Registration request"
//	@Success		201		{object}	AuthResponse		"User registered successfully"
//	@Failure		400		{object}	map[string]string	"Invalid request data"
//	@Failure		409		{object}	map[string]string	"Email already registered"
//	@Router			/api/auth/register [post]
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid registration request", zap.Error(err))
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	// Валидация входных данных
	req.FName = strings.TrimSpace(req.FName)
	if req.FName == "" {
		h.writeError(w, "fname is required", http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !isValidEmail(req.Email) {
		h.writeError(w, "Invalid email format", http.StatusBadRequest)
		return
	}

	if err := IsValidPassword(req.Password); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Хешируем пароль
	hashedPassword, err := h.passwordService.HashPassword(req.Password)
	if err != nil {
		h.log.Error("failed to hash password", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Создаем пользователя; дубликат email отсекает уникальный индекс,
	// поэтому гонка двух регистраций не создаст вторую запись
	user := &domain.User{
		FName:        req.FName,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	if err := h.storage.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			h.writeError(w, "User with this email already exists", http.StatusConflict)
			return
		}
		h.log.Error("failed to create user", zap.String("email", req.Email), zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Email, user.Role, user.FName)
	if err != nil {
		h.log.Error("failed to generate token", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("user registered successfully", zap.String("user_id", user.ID), zap.String("email", req.Email))
	h.writeJSON(w, AuthResponse{Token: token, User: userInfo(user)}, http.StatusCreated)
}

// Login обработчик входа
//
//	@Summary		Login user
//	@Description	Authenticate user and receive a JWT
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Login request"
//	@Success		200		{object}	AuthResponse		"Login successful"
//	@Failure		400		{object}	map[string]string	"Invalid request data"
//	@Failure		401		{object}	map[string]string	"Invalid credentials"
//	@Router			/api/auth/login [post]
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid login request", zap.Error(err))
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		h.writeError(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	// Единое сообщение для несуществующего email и неверного пароля
	user, err := h.storage.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.writeError(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		h.log.Error("failed to look up user for login", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.passwordService.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		h.log.Debug("invalid password for user", zap.String("email", req.Email))
		h.writeError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if !user.IsActive {
		h.writeError(w, "Account is deactivated", http.StatusForbidden)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Email, user.Role, user.FName)
	if err != nil {
		h.log.Error("failed to generate token", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("user logged in successfully", zap.String("user_id", user.ID), zap.String("email", req.Email))
	h.writeJSON(w, AuthResponse{Token: token, User: userInfo(user)}, http.StatusOK)
}

// Helper methods

func userInfo(user *domain.User) UserInfo {
	return UserInfo{
		ID:    user.ID,
		FName: user.FName,
		Email: user.Email,
		Role:  user.Role,
	}
}

func (h *AuthHandlers) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *AuthHandlers) writeError(w http.ResponseWriter, message string, statusCode int) {
	writeMessage(w, message, statusCode)
}

func isValidEmail(email string) bool {
	// Простая валидация email
	return strings.Contains(email, "@") && len(email) > 3 && len(email) < 255
}
