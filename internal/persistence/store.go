package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/crypto"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/stores"
)

// Store serializes the two persisted slices.
type Store struct {
	kv        KV
	encryptor *crypto.Encryptor
	logger    *zap.Logger
}

// NewStore builds a Store over kv. logger may be nil.
func NewStore(kv KV, encryptor *crypto.Encryptor, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, encryptor: encryptor, logger: logger}
}

// SaveAuth writes the auth slice with its token encrypted.
func (s *Store) SaveAuth(ctx context.Context, state stores.AuthState) error {
	token, err := s.encryptor.Encrypt(state.Token)
	if err != nil {
		return fmt.Errorf("failed to encrypt session token: %w", err)
	}
	state.Token = token
	return s.put(ctx, entities.StateKeyAuth, state)
}

// LoadAuth reads the auth slice. A token that no longer decrypts, for
// example after a key change, is deleted and reported as not found.
func (s *Store) LoadAuth(ctx context.Context) (stores.AuthState, bool, error) {
	var state stores.AuthState
	found, err := s.get(ctx, entities.StateKeyAuth, &state)
	if err != nil || !found {
		return stores.AuthState{}, found, err
	}

	token, err := s.encryptor.Decrypt(state.Token)
	if err != nil {
		s.logger.Warn("discarding persisted session token", zap.Error(err))
		if err := s.kv.Delete(ctx, entities.StateKeyAuth); err != nil {
			return stores.AuthState{}, false, fmt.Errorf("failed to drop stale session: %w", err)
		}
		return stores.AuthState{}, false, nil
	}
	state.Token = token
	return state, true, nil
}

// SaveSelections writes the library. Nil is stored as an empty list.
func (s *Store) SaveSelections(ctx context.Context, selections []entities.Selection) error {
	if selections == nil {
		selections = []entities.Selection{}
	}
	return s.put(ctx, entities.StateKeySelection, selections)
}

// LoadSelections reads the library saved by SaveSelections.
func (s *Store) LoadSelections(ctx context.Context) ([]entities.Selection, bool, error) {
	var selections []entities.Selection
	found, err := s.get(ctx, entities.StateKeySelection, &selections)
	return selections, found, err
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s state: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save %s state: %w", key, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string, v any) (bool, error) {
	data, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read %s state: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s state: %w", key, err)
	}
	return true, nil
}
