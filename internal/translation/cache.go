package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/localnerve/lexideck/internal/logger"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"
)

const redisKeyPrefix = "lexideck:translation:"

// Store keeps translations by normalized input
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// RedisStore keeps translations in redis with a TTL.
type RedisStore struct {
	Client redis.UniversalClient
	TTL    time.Duration
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.Client.Get(ctx, redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	return r.Client.Set(ctx, redisKey(key), value, r.TTL).Err()
}

func redisKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return redisKeyPrefix + hex.EncodeToString(sum[:])
}

// LRUStore keeps translations in process.
type LRUStore struct {
	cache *lru.Cache[string, string]
}

// NewLRUStore builds an in-process store holding at most size entries.
func NewLRUStore(size int) (*LRUStore, error) {
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &LRUStore{cache: cache}, nil
}

func (l *LRUStore) Get(_ context.Context, key string) (string, bool, error) {
	val, ok := l.cache.Get(key)
	return val, ok, nil
}

func (l *LRUStore) Set(_ context.Context, key, value string) error {
	l.cache.Add(key, value)
	return nil
}

// CachedTranslator decorates a Translator with a Store. Concurrent
// requests for the same text share one backend call. Store failures are
// logged and the backend is used directly.
type CachedTranslator struct {
	next  Translator
	store Store
	log   *logger.Logger
	group singleflight.Group
}

// NewCachedTranslator wraps next with store
func NewCachedTranslator(next Translator, store Store, log *logger.Logger) *CachedTranslator {
	return &CachedTranslator{next: next, store: store, log: log}
}

func (c *CachedTranslator) Translate(ctx context.Context, text string) (string, error) {
	key := cacheKey(text)

	if val, ok, err := c.store.Get(ctx, key); err != nil {
		c.log.Warn("Translation cache read failed", "error", err)
	} else if ok {
		return val, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// a flight that finished just before this one may have filled the store
		if val, ok, err := c.store.Get(ctx, key); err == nil && ok {
			return val, nil
		}
		translated, err := c.next.Translate(ctx, text)
		if err != nil {
			return "", err
		}
		if err := c.store.Set(ctx, key, translated); err != nil {
			c.log.Warn("Translation cache write failed", "error", err)
		}
		return translated, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func cacheKey(text string) string {
	return norm.NFC.String(strings.Join(strings.Fields(text), " "))
}
