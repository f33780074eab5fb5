package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/jwebster45206/nature42/pkg/state"
)

const (
	shareKeyPrefix  = "nature42:share:"
	shareCodeLength = 8
	shareTTL        = 30 * 24 * time.Hour
)

const shareCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Postcard is a shareable snapshot of a player's progress. It carries a
// visited location and the key count, and deliberately nothing that
// would spoil puzzles for the recipient.
type Postcard struct {
	ShareCode           string    `json:"share_code"`
	LocationName        string    `json:"location_name"`
	LocationDescription string    `json:"location_description"`
	LocationImageURL    string    `json:"location_image_url"`
	KeysCollected       int       `json:"keys_collected"`
	CreatedAt           time.Time `json:"created_at"`
}

// ShareStore persists postcards in Redis under their share codes.
type ShareStore struct {
	redis  *RedisService
	logger *slog.Logger
}

func NewShareStore(redis *RedisService, logger *slog.Logger) *ShareStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShareStore{redis: redis, logger: logger}
}

// CreatePostcard builds and stores a postcard for one of the player's
// visited locations. locationID defaults to the player's position.
func (s *ShareStore) CreatePostcard(ctx context.Context, gs *state.GameState, locationID string) (*Postcard, error) {
	if locationID == "" {
		locationID = gs.PlayerLocation
	}
	loc, ok := gs.VisitedLocations[locationID]
	if !ok {
		return nil, fmt.Errorf("location %q not found in visited locations", locationID)
	}

	code, err := s.generateShareCode(ctx)
	if err != nil {
		return nil, err
	}

	postcard := &Postcard{
		ShareCode:           code,
		LocationName:        loc.ID,
		LocationDescription: loc.Description,
		LocationImageURL:    loc.ImageURL,
		KeysCollected:       len(gs.KeysCollected),
		CreatedAt:           time.Now().UTC(),
	}

	data, err := json.Marshal(postcard)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal postcard: %w", err)
	}
	if err := s.redis.Set(ctx, shareKeyPrefix+code, data, shareTTL); err != nil {
		return nil, fmt.Errorf("failed to store postcard: %w", err)
	}

	s.logger.Info("Postcard created", "share_code", code, "location", locationID)
	return postcard, nil
}

// GetPostcard retrieves a postcard by share code. Returns nil when the
// code is unknown or expired.
func (s *ShareStore) GetPostcard(ctx context.Context, code string) (*Postcard, error) {
	data, err := s.redis.Get(ctx, shareKeyPrefix+code)
	if err != nil {
		return nil, err
	}
	if data == "" {
		return nil, nil
	}

	var postcard Postcard
	if err := json.Unmarshal([]byte(data), &postcard); err != nil {
		return nil, fmt.Errorf("failed to parse stored postcard: %w", err)
	}
	return &postcard, nil
}

// DeletePostcard removes a share. Returns false when the code was not
// present.
func (s *ShareStore) DeletePostcard(ctx context.Context, code string) (bool, error) {
	deleted, err := s.redis.Del(ctx, shareKeyPrefix+code)
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

// generateShareCode produces a cryptographically random code, retrying
// on the unlikely collision with an existing share.
func (s *ShareStore) generateShareCode(ctx context.Context) (string, error) {
	for {
		code := make([]byte, shareCodeLength)
		for i := range code {
			idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(shareCodeAlphabet))))
			if err != nil {
				return "", fmt.Errorf("failed to generate share code: %w", err)
			}
			code[i] = shareCodeAlphabet[idx.Int64()]
		}

		exists, err := s.redis.Exists(ctx, shareKeyPrefix+string(code))
		if err != nil {
			return "", err
		}
		if !exists {
			return string(code), nil
		}
	}
}
