package goBlog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MrEthical07/goBlog/session"
	"github.com/redis/go-redis/v9"
)

// DefaultSessionFile is the file store location under the user config dir.
func DefaultSessionFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return filepath.Join(dir, "goblog", "session.yaml"), nil
}

// OpenStore builds the token store selected by cfg. The returned close func
// releases backend connections and is never nil.
func OpenStore(cfg SessionConfig) (session.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case SessionBackendMemory:
		return session.NewMemoryStore(), noop, nil
	case SessionBackendFile, "":
		path := cfg.FilePath
		if path == "" {
			p, err := DefaultSessionFile()
			if err != nil {
				return nil, noop, err
			}
			path = p
		}
		return session.NewFileStore(path), noop, nil
	case SessionBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return session.NewRedisStore(rdb, cfg.RedisPrefix, cfg.RedisTTL), rdb.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported session backend %q", cfg.Backend)
	}
}
