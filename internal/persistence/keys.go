package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/crypto"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// ResolveEncryptor picks the at-rest key in order: STATE_ENCRYPTION_KEY,
// a key derived from STATE_PASSPHRASE with a salt kept in kv, then a key
// file that is created on first use.
func ResolveEncryptor(ctx context.Context, kv KV, cfg config.State) (*crypto.Encryptor, error) {
	if cfg.EncryptionKey != "" {
		return crypto.NewEncryptorFromBase64(cfg.EncryptionKey)
	}

	if cfg.Passphrase != "" {
		salt, err := loadOrCreateSalt(ctx, kv)
		if err != nil {
			return nil, err
		}
		return crypto.NewEncryptorFromPassphrase(cfg.Passphrase, salt)
	}

	keyFilePath := cfg.KeyFilePath
	if keyFilePath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		keyFilePath = filepath.Join(homeDir, config.DefaultKeyFileName)
	}
	key, _, err := crypto.LoadOrCreateKeyFile(keyFilePath)
	if err != nil {
		return nil, err
	}
	return crypto.NewEncryptorFromBase64(key)
}

func loadOrCreateSalt(ctx context.Context, kv KV) ([]byte, error) {
	salt, found, err := kv.Get(ctx, entities.StateKeyKDFSalt)
	if err != nil {
		return nil, fmt.Errorf("failed to read key salt: %w", err)
	}
	if found && len(salt) == crypto.SaltSize {
		return salt, nil
	}

	salt, err = crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}
	if err := kv.Set(ctx, entities.StateKeyKDFSalt, salt); err != nil {
		return nil, fmt.Errorf("failed to save key salt: %w", err)
	}
	return salt, nil
}
