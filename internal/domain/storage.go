package domain

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Метаданные объекта, как их сообщает стор. Ядро читает их per-request,
// никогда не персистит.
type ObjectMeta struct {
	Key          string
	Size         int64
	ContentType  string // может быть пуст → резолвим по расширению
	ETag         string // опаковый сильный валидатор, может быть пуст
	LastModified time.Time
}

// Хранилище бинарного контента (S3/MinIO)
type ObjectStore interface {
	// Stat — метаданные без тела. Отсутствие объекта → ErrNotFound.
	Stat(ctx context.Context, key string) (ObjectMeta, error)
	// Get — поток тела вместе с метаданными.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectMeta, error)
	// Put — сохранение под заданным ключом.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (ObjectMeta, error)
	Ping(ctx context.Context) error
}

// EvaluateConditional решает 200-vs-304 по валидаторам.
// If-None-Match, когда присутствует, всегда приоритетнее If-Modified-Since:
// за запрос вычисляется ровно одна ветка ревалидации.
func EvaluateConditional(meta ObjectMeta, ifNoneMatch, ifModifiedSince string) bool {
	if ifNoneMatch != "" {
		// строгое побайтовое сравнение, weak-формы не поддерживаем
		return meta.ETag != "" && ifNoneMatch == meta.ETag
	}
	if ifModifiedSince != "" {
		t, err := http.ParseTime(ifModifiedSince)
		if err != nil {
			return false
		}
		// HTTP-даты имеют секундную точность
		return !meta.LastModified.Truncate(time.Second).After(t)
	}
	return false
}
