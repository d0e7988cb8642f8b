package translation

import (
	"github.com/localnerve/lexideck/internal/config"
	"github.com/localnerve/lexideck/internal/logger"
	"github.com/redis/go-redis/v9"
)

// New builds the configured translator: the inference client behind a
// redis cache when rdb is set, otherwise behind an in-process LRU.
func New(cfg *config.Config, rdb redis.UniversalClient, log *logger.Logger) (Translator, error) {
	backend := NewHTTPTranslator(cfg.TranslationURL, cfg.TranslationToken, cfg.ExternalTimeout)

	if rdb != nil {
		log.Info("Translation cache", "store", "redis", "ttl", cfg.TranslationCacheTTL)
		return NewCachedTranslator(backend, &RedisStore{Client: rdb, TTL: cfg.TranslationCacheTTL}, log), nil
	}

	store, err := NewLRUStore(cfg.TranslationCacheSize)
	if err != nil {
		return nil, err
	}
	log.Info("Translation cache", "store", "lru", "size", cfg.TranslationCacheSize)
	return NewCachedTranslator(backend, store, log), nil
}
