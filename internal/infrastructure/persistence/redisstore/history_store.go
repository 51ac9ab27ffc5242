package redisstore

import (
	"context"
	"encoding/json"
	"errors"

	"captioncraft/internal/domain/caption"
	"captioncraft/internal/infrastructure/cache"
	"captioncraft/internal/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const historyKeyPrefix = "captions:"

type kv interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	UpdateJSON(ctx context.Context, key string, fn func(raw []byte) (any, error)) error
}

// HistoryStore keeps each profile's generated captions as one JSON array, newest first.
type HistoryStore struct {
	kv       kv
	maxItems int
	logger   *zap.Logger
}

// NewHistoryStore caps the list at maxItems when it is positive; zero keeps every entry.
func NewHistoryStore(store kv, maxItems int, log *zap.Logger) *HistoryStore {
	if maxItems < 0 {
		maxItems = 0
	}
	return &HistoryStore{kv: store, maxItems: maxItems, logger: logger.OrNop(log)}
}

func historyKey(profileID uuid.UUID) string {
	return historyKeyPrefix + profileID.String()
}

func (s *HistoryStore) Append(ctx context.Context, profileID uuid.UUID, r caption.GenerationResult) error {
	key := historyKey(profileID)
	return s.kv.UpdateJSON(ctx, key, func(raw []byte) (any, error) {
		cur := s.decode(key, raw)
		next := make([]caption.GenerationResult, 0, len(cur)+1)
		next = append(next, r)
		next = append(next, cur...)
		if s.maxItems > 0 && len(next) > s.maxItems {
			next = next[:s.maxItems]
		}
		return next, nil
	})
}

func (s *HistoryStore) List(ctx context.Context, profileID uuid.UUID) ([]caption.GenerationResult, error) {
	key := historyKey(profileID)
	var out []caption.GenerationResult
	ok, err := s.kv.GetJSON(ctx, key, &out)
	if err != nil {
		if errors.Is(err, cache.ErrStorageCorrupt) {
			s.logger.Warn("caption history corrupt, treating as empty", zap.String("key", key), zap.Error(err))
			return []caption.GenerationResult{}, nil
		}
		return nil, err
	}
	if !ok || out == nil {
		return []caption.GenerationResult{}, nil
	}
	return out, nil
}

func (s *HistoryStore) MostRecent(ctx context.Context, profileID uuid.UUID) (caption.GenerationResult, bool, error) {
	items, err := s.List(ctx, profileID)
	if err != nil {
		return caption.GenerationResult{}, false, err
	}
	if len(items) == 0 {
		return caption.GenerationResult{}, false, nil
	}
	return items[0], true, nil
}

func (s *HistoryStore) decode(key string, raw []byte) []caption.GenerationResult {
	if len(raw) == 0 {
		return nil
	}
	var cur []caption.GenerationResult
	if err := json.Unmarshal(raw, &cur); err != nil {
		s.logger.Warn("caption history corrupt, overwriting", zap.String("key", key), zap.Error(err))
		return nil
	}
	return cur
}
