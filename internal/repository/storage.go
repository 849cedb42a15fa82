package repository

import (
	"TaskLink-Backend/internal/domain"
	"context"
	"errors"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailExists    = errors.New("email already exists")
	ErrUserReferenced = errors.New("user still owns tasks or links")
	ErrTaskNotFound = errors.New("task not found")
	ErrCodeNotFound = errors.New("short code not found")
	ErrCodeExists   = errors.New("short code already exists")
)

type Storage interface {
	// User methods
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	SetUserRole(ctx context.Context, id string, role string) (*domain.User, error)
	SetUserActive(ctx context.Context, id string, active bool) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error

	// Task methods
	CreateTask(ctx context.Context, task *domain.Task) error
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListUserTasks(ctx context.Context, userID string) ([]*domain.Task, error)
	ListAllTasks(ctx context.Context) ([]*domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch *domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error

	// Link methods
	SaveLink(ctx context.Context, link *domain.Link) error
	GetLinkByCode(ctx context.Context, code string) (*domain.Link, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	DeactivateLink(ctx context.Context, code string) error
	ListUserLinksWithClicks(ctx context.Context, userID string) ([]*domain.Link, error)

	// Click methods
	RecordClick(ctx context.Context, click *domain.Click) error
}
