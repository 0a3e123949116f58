package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"recipe-assistant/internal/infrastructure/config"
)

// Store 回答緩存後端
type Store interface {
	// Get 未命中時返回 common.ErrCacheMiss
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Name() string
	Close() error
}

// Key 以正規化後提示的 SHA-256 產生緩存鍵
func Key(prompt string) string {
	normalized := strings.Join(strings.Fields(prompt), " ")
	hash := sha256.Sum256([]byte(normalized))
	return "ai:answer:" + hex.EncodeToString(hash[:])
}

// New 依設定建立緩存；停用時返回 nil
func New(cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	switch cfg.Cache.Backend {
	case "memory":
		return NewManager(cfg), nil
	case "redis":
		store, err := NewRedisStore(cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
