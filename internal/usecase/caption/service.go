package caption

import (
	"context"
	"errors"
	"fmt"

	"captioncraft/internal/domain/caption"
	"captioncraft/internal/domain/profile"
	"captioncraft/internal/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultPreviousLimit = 5

var (
	ErrNotFound = errors.New("caption not found")
	ErrInternal = errors.New("internal error")
)

type History interface {
	Append(ctx context.Context, profileID uuid.UUID, r caption.GenerationResult) error
	List(ctx context.Context, profileID uuid.UUID) ([]caption.GenerationResult, error)
	MostRecent(ctx context.Context, profileID uuid.UUID) (caption.GenerationResult, bool, error)
}

type Service struct {
	generator caption.Generator
	history   History
	logger    *zap.Logger
}

func NewService(generator caption.Generator, history History, log *zap.Logger) *Service {
	return &Service{generator: generator, history: history, logger: logger.OrNop(log)}
}

// Generate calls the generator and prepends the result to the profile's history.
// A failed generation leaves history untouched.
func (s *Service) Generate(ctx context.Context, p profile.Profile, form GenerationForm) (caption.GenerationResult, error) {
	res, err := s.generator.Generate(ctx, BuildRequest(form, p))
	if err != nil {
		return caption.GenerationResult{}, err
	}

	if err := s.history.Append(ctx, p.ID, res); err != nil {
		s.logger.Error("failed to append caption history",
			zap.String("profile_id", p.ID.String()),
			zap.String("caption_id", res.ID),
			zap.Error(err),
		)
		return caption.GenerationResult{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info("caption generated",
		zap.String("profile_id", p.ID.String()),
		zap.String("caption_id", res.ID),
		zap.Int("hashtags", len(res.Hashtags)),
	)
	return res, nil
}

// List returns the history most-recent-first. limit <= 0 means all.
func (s *Service) List(ctx context.Context, profileID uuid.UUID, limit int) ([]caption.GenerationResult, error) {
	items, err := s.history.List(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Service) Latest(ctx context.Context, profileID uuid.UUID) (caption.GenerationResult, error) {
	res, ok, err := s.history.MostRecent(ctx, profileID)
	if err != nil {
		return caption.GenerationResult{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !ok {
		return caption.GenerationResult{}, ErrNotFound
	}
	return res, nil
}

// Previous returns the results-view window over the first limit history entries, dropping the
// head when it is the one being viewed. A history of one entry or none has nothing to show.
func (s *Service) Previous(ctx context.Context, profileID uuid.UUID, currentID string, limit int) ([]caption.GenerationResult, error) {
	if limit <= 0 {
		limit = DefaultPreviousLimit
	}
	items, err := s.history.List(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if len(items) <= 1 {
		return []caption.GenerationResult{}, nil
	}

	start := 0
	if items[0].ID == currentID {
		start = 1
	}
	end := min(limit, len(items))
	if start >= end {
		return []caption.GenerationResult{}, nil
	}
	return items[start:end], nil
}
