package service

import (
	"TaskLink-Backend/internal/config"
	"TaskLink-Backend/internal/domain"
	"TaskLink-Backend/internal/repository"
	"TaskLink-Backend/internal/repository/mocks"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newShortener() (*ShortenerService, *mocks.Storage) {
	storage := &mocks.Storage{}
	cfg := &config.Shortener{CodeLength: 7}
	return NewShortener(storage, cfg), storage
}

func TestShorten_Success(t *testing.T) {
	svc, storage := newShortener()
	ctx := context.Background()

	storage.On("CodeExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	storage.On("SaveLink", ctx, mock.AnythingOfType("*domain.Link")).Return(nil).Once()

	link := &domain.Link{OriginalURL: "https://example.com", UserID: "u1", IsActive: true}
	err := svc.Shorten(ctx, link)

	require.NoError(t, err)
	assert.Len(t, link.ShortCode, 7)
	storage.AssertExpectations(t)
}

func TestShorten_RetriesOnPrecheckCollision(t *testing.T) {
	svc, storage := newShortener()
	ctx := context.Background()

	// First two candidates are taken, third is free.
	storage.On("CodeExists", ctx, mock.AnythingOfType("string")).Return(true, nil).Twice()
	storage.On("CodeExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	storage.On("SaveLink", ctx, mock.AnythingOfType("*domain.Link")).Return(nil).Once()

	link := &domain.Link{OriginalURL: "https://example.com", UserID: "u1"}
	err := svc.Shorten(ctx, link)

	require.NoError(t, err)
	assert.NotEmpty(t, link.ShortCode)
	storage.AssertExpectations(t)
}

func TestShorten_RetriesOnInsertRace(t *testing.T) {
	svc, storage := newShortener()
	ctx := context.Background()

	// The pre-check passes but a concurrent request inserts the same code
	// first; the unique index rejects ours and we regenerate.
	storage.On("CodeExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Twice()
	storage.On("SaveLink", ctx, mock.AnythingOfType("*domain.Link")).Return(repository.ErrCodeExists).Once()
	storage.On("SaveLink", ctx, mock.AnythingOfType("*domain.Link")).Return(nil).Once()

	link := &domain.Link{OriginalURL: "https://example.com", UserID: "u1"}
	err := svc.Shorten(ctx, link)

	require.NoError(t, err)
	storage.AssertExpectations(t)
}

func TestShorten_GivesUpAfterMaxRetries(t *testing.T) {
	svc, storage := newShortener()
	ctx := context.Background()

	storage.On("CodeExists", ctx, mock.AnythingOfType("string")).Return(true, nil).Times(maxRetries)

	link := &domain.Link{OriginalURL: "https://example.com", UserID: "u1"}
	err := svc.Shorten(ctx, link)

	assert.ErrorIs(t, err, ErrCodeSpaceExhausted)
	storage.AssertNotCalled(t, "SaveLink", mock.Anything, mock.Anything)
	storage.AssertExpectations(t)
}

func TestShorten_StoreErrorPropagates(t *testing.T) {
	svc, storage := newShortener()
	ctx := context.Background()

	storage.On("CodeExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	storage.On("SaveLink", ctx, mock.AnythingOfType("*domain.Link")).Return(assert.AnError).Once()

	link := &domain.Link{OriginalURL: "https://example.com", UserID: "u1"}
	err := svc.Shorten(ctx, link)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCodeSpaceExhausted)
	storage.AssertExpectations(t)
}
