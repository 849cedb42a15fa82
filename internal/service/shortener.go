package service

import (
	"TaskLink-Backend/internal/config"
	"TaskLink-Backend/internal/domain"
	"TaskLink-Backend/internal/repository"
	"TaskLink-Backend/pkg/random"
	"context"
	"errors"
	"fmt"
)

// maxRetries bounds code regeneration. The store's unique index is the real
// collision arbiter; the pre-check only avoids pointless inserts.
const maxRetries = 5

// ErrCodeSpaceExhausted is returned when every generated candidate collided.
var ErrCodeSpaceExhausted = errors.New("could not generate a unique short code")

type ShortenerService struct {
	storage repository.Storage
	config  *config.Shortener
}

func NewShortener(storage repository.Storage, cfg *config.Shortener) *ShortenerService {
	return &ShortenerService{
		storage: storage,
		config:  cfg,
	}
}

// Shorten generates a unique short code for the link and persists it. A
// collision, whether seen by the existence pre-check or surfacing as a
// duplicate-key conflict from a concurrent insert, triggers regeneration,
// bounded by maxRetries.
func (s *ShortenerService) Shorten(ctx context.Context, link *domain.Link) error {
	for i := 0; i < maxRetries; i++ {
		code, err := random.NewRandomString(s.config.CodeLength)
		if err != nil {
			return fmt.Errorf("failed to generate short code: %w", err)
		}

		exists, err := s.storage.CodeExists(ctx, code)
		if err != nil {
			return fmt.Errorf("failed to check short code existence: %w", err)
		}
		if exists {
			continue
		}

		link.ShortCode = code
		err = s.storage.SaveLink(ctx, link)
		if errors.Is(err, repository.ErrCodeExists) {
			// Lost the race to a concurrent insert of the same code.
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to save link: %w", err)
		}
		return nil
	}

	return ErrCodeSpaceExhausted
}
