package domain

import "context"

// Ключи кеша — единое место, чтобы не расползались по коду.
func CacheKeyResponse(path string) string { return "resp:" + path }

// Сохранённый HTTP-ответ целиком; ядро обращается с ним как с чёрным ящиком.
type CachedResponse struct {
	Status  int                 `json:"status"`
	Headers map[string][]string `json:"headers"`
	Body    []byte              `json:"body"`
}

// Edge-кеш готовых ответов. Реализация — Redis.
type ResponseCache interface {
	// Lookup: промах — (nil, nil), ошибки кеша не фатальны для чтения.
	Lookup(ctx context.Context, key string) (*CachedResponse, error)
	// Store — best-effort: вызывается из отдельной горутины после ответа.
	Store(ctx context.Context, key string, resp *CachedResponse, ttlSeconds int) error
	// Del — инвалидация после успешной записи объекта.
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close()
}
