package redisx

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Pulset/tinykit-cdn-worker/internal/domain"
)

// Edge-кеш готовых HTTP-ответов поверх Redis.
// Ответ сериализуется в JSON целиком (статус+заголовки+тело).
type Cache struct {
	rdb    *redis.Client
	logger *log.Logger
}

type Config struct {
	Addr     string
	DB       int
	Password string
}

var _ domain.ResponseCache = (*Cache)(nil)

func New(cfg Config, logger *log.Logger) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	return &Cache{rdb: rdb, logger: logger}
}

// NewWithClient — для тестов (redismock).
func NewWithClient(rdb *redis.Client, logger *log.Logger) *Cache {
	return &Cache{rdb: rdb, logger: logger}
}

func (c *Cache) Ping(ctx context.Context) error {
	err := c.rdb.Ping(ctx).Err()
	if err != nil {
		c.logger.Printf("PING failed: %v", err)
	} else {
		c.logger.Println("PING ok")
	}
	return err
}

func (c *Cache) Close() {
	if c.rdb == nil {
		c.logger.Println("nothing to close")
		return
	}
	if err := c.rdb.Close(); err != nil {
		c.logger.Printf("error while closing: %v", err)
		return
	}
	c.logger.Println("closed")
}

// Lookup: промах — (nil, nil); битые записи трактуем как промах и удаляем.
func (c *Cache) Lookup(ctx context.Context, key string) (*domain.CachedResponse, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.logger.Printf("GET %q: miss", key)
		return nil, nil
	}
	if err != nil {
		c.logger.Printf("GET %q: error: %v", key, err)
		return nil, err
	}
	var resp domain.CachedResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		c.logger.Printf("GET %q: corrupt entry, dropping: %v", key, err)
		_ = c.rdb.Del(ctx, key).Err()
		return nil, nil
	}
	c.logger.Printf("GET %q: hit (%d bytes)", key, len(resp.Body))
	return &resp, nil
}

func (c *Cache) Store(ctx context.Context, key string, resp *domain.CachedResponse, ttlSeconds int) error {
	b, err := json.Marshal(resp)
	if err != nil {
		c.logger.Printf("SET %q: marshal failed: %v", key, err)
		return err
	}
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	err = c.rdb.Set(ctx, key, b, ttl).Err()
	if err != nil {
		c.logger.Printf("SET %q failed: %v", key, err)
	} else {
		c.logger.Printf("SET %q ok (ttl=%s)", key, ttl)
	}
	return err
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	n, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		c.logger.Printf("DEL %v failed: %v", keys, err)
	} else {
		c.logger.Printf("DEL %v: deleted=%d", keys, n)
	}
	return err
}
