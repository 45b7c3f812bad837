package store

import (
	"context"
	"sync"
	"time"

	"papyrus_back_end/internal/database"
)

// OTPStore garde les codes à usage unique (reset de mot de passe).
// Redis en production, map en mémoire en fallback dev.
type OTPStore interface {
	Set(ctx context.Context, email, code string, ttl time.Duration) error
	Verify(ctx context.Context, email, code string) bool
}

// --- Redis ---

type RedisOTPStore struct{}

func NewRedisOTPStore() *RedisOTPStore { return &RedisOTPStore{} }

func (s *RedisOTPStore) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	return database.Redis.Set(ctx, "otp:"+email, code, ttl).Err()
}

func (s *RedisOTPStore) Verify(ctx context.Context, email, code string) bool {
	stored, err := database.Redis.Get(ctx, "otp:"+email).Result()
	if err != nil || stored == "" || stored != code {
		return false
	}
	// Usage unique : on consomme le code.
	database.Redis.Del(ctx, "otp:"+email)
	return true
}

// --- Mémoire (mono-processus, dev uniquement) ---

type memoryOTP struct {
	code      string
	expiresAt time.Time
}

type MemoryOTPStore struct {
	mu    sync.Mutex
	codes map[string]memoryOTP // email → code
}

func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{codes: make(map[string]memoryOTP)}
}

func (s *MemoryOTPStore) Set(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = memoryOTP{code: code, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryOTPStore) Verify(_ context.Context, email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[email]
	if !ok || time.Now().After(entry.expiresAt) || entry.code != code {
		return false
	}
	delete(s.codes, email)
	return true
}
