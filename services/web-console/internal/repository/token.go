package repository

import (
	"context"
	"fmt"
	"sync"
)

// TokenSlot names one of the persisted session tokens. The value is the storage key.
type TokenSlot string

const (
	AccessTokenSlot    TokenSlot = "qly-access_token"
	SecondaryTokenSlot TokenSlot = "qly-aio_token"
)

var tokenSlots = []TokenSlot{AccessTokenSlot, SecondaryTokenSlot}

// TokenRepository keeps the session tokens in durable storage and mirrors them in
// memory. Reads are served from memory only; writes go to both.
type TokenRepository interface {
	Get(slot TokenSlot) string
	// Set stores value in slot. The empty string is the absent value and removes the
	// storage key. Memory is updated even when the durable write fails.
	Set(ctx context.Context, slot TokenSlot, value string) error
	Clear(ctx context.Context, slot TokenSlot) error
}

type tokenRepository struct {
	storage Storage

	// writeMu orders writes so storage ends up in the same state as memory.
	writeMu sync.Mutex
	mu      sync.RWMutex
	tokens  map[TokenSlot]string
}

// NewTokenRepository loads both token slots from storage.
func NewTokenRepository(ctx context.Context, storage Storage) (TokenRepository, error) {
	r := &tokenRepository{
		storage: storage,
		tokens:  make(map[TokenSlot]string, len(tokenSlots)),
	}

	for _, slot := range tokenSlots {
		value, ok, err := storage.Get(ctx, string(slot))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", slot, err)
		}
		if ok {
			r.tokens[slot] = value
		}
	}

	return r, nil
}

func (r *tokenRepository) Get(slot TokenSlot) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tokens[slot]
}

func (r *tokenRepository) Set(ctx context.Context, slot TokenSlot, value string) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if value == "" {
		return r.clear(ctx, slot)
	}

	r.mu.Lock()
	r.tokens[slot] = value
	r.mu.Unlock()

	if err := r.storage.Set(ctx, string(slot), value); err != nil {
		return fmt.Errorf("persist %s: %w", slot, err)
	}

	return nil
}

func (r *tokenRepository) Clear(ctx context.Context, slot TokenSlot) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	return r.clear(ctx, slot)
}

func (r *tokenRepository) clear(ctx context.Context, slot TokenSlot) error {
	r.mu.Lock()
	delete(r.tokens, slot)
	r.mu.Unlock()

	if err := r.storage.Delete(ctx, string(slot)); err != nil {
		return fmt.Errorf("remove %s: %w", slot, err)
	}

	return nil
}
