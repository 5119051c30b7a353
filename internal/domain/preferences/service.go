package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"baby-health-tracker/internal/platform/kv"

	"go.uber.org/zap"
)

var (
	ErrInvalidKey = errors.New("invalid preference key")
	ErrNotFound   = errors.New("preference not found")
)

// LastViewedBabyKey se setea solo al abrir el perfil de un bebé.
const LastViewedBabyKey = "last_viewed_baby_id"

const maxKeyLen = 64

// Service guarda preferencias por usuario en el KV, bajo prefs:<userID>:<key>.
// Sin evicción: viven hasta que se sobreescriben o se borran.
type Service struct {
	store kv.Store
	log   *zap.Logger
}

func NewService(store kv.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

func (s *Service) Get(ctx context.Context, userID, key string) (string, error) {
	k, err := storeKey(userID, key)
	if err != nil {
		return "", err
	}
	v, err := s.store.Get(ctx, k)
	if err != nil {
		if errors.Is(err, kv.ErrMiss) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get preference: %w", err)
	}
	return v, nil
}

func (s *Service) Set(ctx context.Context, userID, key, value string) error {
	k, err := storeKey(userID, key)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, k, value, 0); err != nil {
		return fmt.Errorf("set preference: %w", err)
	}
	return nil
}

// Delete es idempotente.
func (s *Service) Delete(ctx context.Context, userID, key string) error {
	k, err := storeKey(userID, key)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, k); err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	return nil
}

// RecordLastViewedBaby satisface babies.ViewRecorder.
func (s *Service) RecordLastViewedBaby(ctx context.Context, userID, babyID string) error {
	if err := s.Set(ctx, userID, LastViewedBabyKey, babyID); err != nil {
		s.log.Warn("record last viewed baby failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func storeKey(userID, key string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || !ValidKey(key) {
		return "", ErrInvalidKey
	}
	return "prefs:" + userID + ":" + key, nil
}

// ValidKey: [a-z0-9_.-], 1..64 chars.
func ValidKey(key string) bool {
	if key == "" || len(key) > maxKeyLen {
		return false
	}
	for _, c := range key {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_', c == '.', c == '-':
		default:
			return false
		}
	}
	return true
}
