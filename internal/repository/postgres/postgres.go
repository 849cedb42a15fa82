package postgres

import (
	"TaskLink-Backend/internal/domain"
	"TaskLink-Backend/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostgresStorage реализует интерфейс Storage для PostgreSQL
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New создает новый экземпляр PostgreSQL storage
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// --- User Methods ---

// CreateUser сохраняет нового пользователя. Конфликт уникальности email
// возвращается как ErrEmailExists — гонку двух одновременных регистраций
// разрешает уникальный индекс в базе.
func (s *PostgresStorage) CreateUser(ctx context.Context, user *domain.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrEmailExists
		}
		s.log.Error("failed to create user", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("created new user", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return nil
}

// GetUserByEmail получает пользователя по email
func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User

	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		s.log.Error("failed to get user by email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUserByID получает пользователя по идентификатору
func (s *PostgresStorage) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		s.log.Error("failed to get user by id", zap.String("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// ListUsers возвращает всех пользователей (админский запрос)
func (s *PostgresStorage) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User

	err := s.db.WithContext(ctx).Order("created_at").Find(&users).Error
	if err != nil {
		s.log.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// SetUserRole меняет роль пользователя и возвращает обновленную запись
func (s *PostgresStorage) SetUserRole(ctx context.Context, id string, role string) (*domain.User, error) {
	result := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		s.log.Error("failed to set user role", zap.String("user_id", id), zap.Error(result.Error))
		return nil, fmt.Errorf("failed to set user role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrUserNotFound
	}

	return s.GetUserByID(ctx, id)
}

// SetUserActive меняет флаг активности пользователя
func (s *PostgresStorage) SetUserActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	result := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		s.log.Error("failed to set user active flag", zap.String("user_id", id), zap.Error(result.Error))
		return nil, fmt.Errorf("failed to set user active flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrUserNotFound
	}

	return s.GetUserByID(ctx, id)
}

// DeleteUser удаляет пользователя. Каскадного удаления нет: пока за
// пользователем числятся задачи или ссылки, внешний ключ отклонит удаление
// и вернется ErrUserReferenced.
func (s *PostgresStorage) DeleteUser(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return repository.ErrUserReferenced
		}
		s.log.Error("failed to delete user", zap.String("user_id", id), zap.Error(result.Error))
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	s.log.Info("deleted user", zap.String("user_id", id))
	return nil
}

// --- Task Methods ---

// CreateTask сохраняет новую задачу
func (s *PostgresStorage) CreateTask(ctx context.Context, task *domain.Task) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		s.log.Error("failed to create task", zap.String("user_id", task.UserID), zap.Error(err))
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetTask получает задачу по идентификатору
func (s *PostgresStorage) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrTaskNotFound
	}
	if err != nil {
		s.log.Error("failed to get task", zap.String("task_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &task, nil
}

// ListUserTasks возвращает задачи пользователя, новые сверху
func (s *PostgresStorage) ListUserTasks(ctx context.Context, userID string) ([]*domain.Task, error) {
	var tasks []*domain.Task

	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&tasks).Error
	if err != nil {
		s.log.Error("failed to list user tasks", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list user tasks: %w", err)
	}

	return tasks, nil
}

// ListAllTasks возвращает все задачи (админский запрос)
func (s *PostgresStorage) ListAllTasks(ctx context.Context) ([]*domain.Task, error) {
	var tasks []*domain.Task

	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&tasks).Error
	if err != nil {
		s.log.Error("failed to list all tasks", zap.Error(err))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask применяет частичное обновление одним UPDATE: только поля,
// присутствующие в патче; явный null очищает значение.
func (s *PostgresStorage) UpdateTask(ctx context.Context, id string, patch *domain.TaskPatch) (*domain.Task, error) {
	updates := make(map[string]interface{})

	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description.Set {
		if patch.Description.Valid {
			updates["description"] = patch.Description.Value
		} else {
			updates["description"] = nil
		}
	}
	if patch.Completed != nil {
		updates["completed"] = *patch.Completed
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.DueAt.Set {
		if patch.DueAt.Valid {
			updates["due_at"] = patch.DueAt.Value
		} else {
			updates["due_at"] = nil
		}
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&domain.Task{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			s.log.Error("failed to update task", zap.String("task_id", id), zap.Error(result.Error))
			return nil, fmt.Errorf("failed to update task: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, repository.ErrTaskNotFound
		}
	}

	return s.GetTask(ctx, id)
}

// DeleteTask удаляет задачу
func (s *PostgresStorage) DeleteTask(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Task{})
	if result.Error != nil {
		s.log.Error("failed to delete task", zap.String("task_id", id), zap.Error(result.Error))
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}

	return nil
}

// --- Link Methods ---

// SaveLink сохраняет новую ссылку. Конфликт short_code возвращается как
// ErrCodeExists, чтобы сервис мог перегенерировать код и повторить.
func (s *PostgresStorage) SaveLink(ctx context.Context, link *domain.Link) error {
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrCodeExists
		}
		s.log.Error("failed to save link", zap.String("short_code", link.ShortCode), zap.Error(err))
		return fmt.Errorf("failed to save link: %w", err)
	}

	s.log.Info("saved new link", zap.String("short_code", link.ShortCode), zap.String("user_id", link.UserID))
	return nil
}

// GetLinkByCode получает активную ссылку по короткому коду. Неактивные коды
// неотличимы от несуществующих: оба возвращают ErrCodeNotFound.
func (s *PostgresStorage) GetLinkByCode(ctx context.Context, code string) (*domain.Link, error) {
	var link domain.Link

	err := s.db.WithContext(ctx).Where("short_code = ? AND is_active = ?", code, true).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrCodeNotFound
	}
	if err != nil {
		s.log.Error("failed to get link", zap.String("short_code", code), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return &link, nil
}

// CodeExists проверяет, занят ли короткий код (активный или нет)
func (s *PostgresStorage) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64

	err := s.db.WithContext(ctx).Model(&domain.Link{}).Where("short_code = ?", code).Count(&count).Error
	if err != nil {
		s.log.Error("failed to check short code existence", zap.String("short_code", code), zap.Error(err))
		return false, fmt.Errorf("failed to check short code: %w", err)
	}

	return count > 0, nil
}

// DeactivateLink деактивирует ссылку (мягкое удаление)
func (s *PostgresStorage) DeactivateLink(ctx context.Context, code string) error {
	result := s.db.WithContext(ctx).Model(&domain.Link{}).
		Where("short_code = ? AND is_active = ?", code, true).
		Update("is_active", false)
	if result.Error != nil {
		s.log.Error("failed to deactivate link", zap.String("short_code", code), zap.Error(result.Error))
		return fmt.Errorf("failed to deactivate link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrCodeNotFound
	}

	s.log.Info("deactivated link", zap.String("short_code", code))
	return nil
}

// ListUserLinksWithClicks возвращает ссылки пользователя вместе с кликами
func (s *PostgresStorage) ListUserLinksWithClicks(ctx context.Context, userID string) ([]*domain.Link, error) {
	var links []*domain.Link

	err := s.db.WithContext(ctx).Preload("Clicks").
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&links).Error
	if err != nil {
		s.log.Error("failed to list user links", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list user links: %w", err)
	}

	return links, nil
}

// --- Click Methods ---

// RecordClick записывает клик. Вызывается до отправки редиректа; ошибка
// здесь означает, что редирект выдавать нельзя.
func (s *PostgresStorage) RecordClick(ctx context.Context, click *domain.Click) error {
	if err := s.db.WithContext(ctx).Create(click).Error; err != nil {
		s.log.Error("failed to record click", zap.String("url_id", click.URLID), zap.Error(err))
		return fmt.Errorf("failed to record click: %w", err)
	}

	return nil
}
