package upload

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Pulset/tinykit-cdn-worker/internal/auth/uploadtoken"
	"github.com/Pulset/tinykit-cdn-worker/internal/domain"
	"github.com/Pulset/tinykit-cdn-worker/internal/transport/web/logx"
	"github.com/Pulset/tinykit-cdn-worker/internal/transport/web/mw"
	v1 "github.com/Pulset/tinykit-cdn-worker/internal/transport/web/v1"
)

const storeTimeout = 10 * time.Second

type Handler struct {
	Log            *log.Logger
	Store          domain.ObjectStore
	Cache          domain.ResponseCache
	Verifier       *uploadtoken.Verifier
	PublicBaseURL  string
	AllowedOrigins string // пусто = проверка origin для загрузок выключена
	MatchMode      domain.OriginMatchMode
	MaxFileSize    int64 // глобальный потолок, 0 = без лимита
}

// Post обслуживает POST /upload/<key>.
// Порядок: ключ → origin → верификация токена → авторизация скоупа →
// размер (заявленный, затем фактический) → put.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	const op = "upload.post"
	reqID := mw.RequestIDFromCtx(r.Context())

	key := r.PathValue("key")

	// ключ проверяем до токена: traversal отклоняется независимо
	// от валидности credentials
	if err := domain.ValidateKey(key); err != nil {
		logx.Error(h.Log, reqID, op, "bad key", err, "key", key)
		v1.WriteDomainError(w, r, err)
		return
	}

	if h.AllowedOrigins != "" &&
		!domain.OriginAllowed(r.Header.Get("Origin"), r.Header.Get("Referer"), h.AllowedOrigins, h.MatchMode) {
		logx.Error(h.Log, reqID, op, "origin rejected", domain.ErrUnauth, "origin", r.Header.Get("Origin"))
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	raw := extractBearer(r.Header.Get("Authorization"))
	if raw == "" {
		logx.Error(h.Log, reqID, op, "missing bearer token", domain.ErrUnauth)
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}
	claims, err := h.Verifier.Verify(raw, time.Now())
	if err != nil {
		logx.Error(h.Log, reqID, op, "token rejected", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	if err := uploadtoken.Authorize(claims, key); err != nil {
		logx.Error(h.Log, reqID, op, "token scope rejected", err, "app", claims.App, "key", key)
		v1.WriteDomainError(w, r, err)
		return
	}

	maxSize := claims.EffectiveMaxSize(h.MaxFileSize)

	// заявленный размер до чтения тела
	if maxSize > 0 && r.ContentLength > maxSize {
		logx.Error(h.Log, reqID, op, "declared size over limit", domain.ErrTooLarge,
			"declared", r.ContentLength, "max", maxSize)
		v1.WriteDomainError(w, r, domain.ErrTooLarge)
		return
	}

	body, err := readBody(r.Body, maxSize)
	if err != nil {
		logx.Error(h.Log, reqID, op, "body read", err, "key", key)
		v1.WriteDomainError(w, r, err)
		return
	}

	contentType := domain.ResolveContentType(key)

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()
	meta, err := h.Store.Put(ctx, key, bytes.NewReader(body), int64(len(body)), contentType)
	if err != nil {
		logx.Error(h.Log, reqID, op, "put failed", err, "key", key)
		v1.WriteDomainError(w, r, err)
		return
	}

	// закешированный ответ по этому пути больше не актуален
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := h.Cache.Del(ctx, domain.CacheKeyResponse("/"+key)); err != nil {
			logx.Error(h.Log, reqID, op, "cache invalidate failed", err, "key", key)
		}
	}()

	logx.Info(h.Log, reqID, op, "upload ok", "app", claims.App, "key", key, "size", meta.Size)
	v1.WriteJSON(w, r, http.StatusOK, domain.OkUpload(domain.UploadResult{
		Key:         key,
		Size:        meta.Size,
		ContentType: meta.ContentType,
		URL:         strings.TrimSuffix(h.PublicBaseURL, "/") + "/" + key,
		Timestamp:   time.Now().UTC(),
		App:         claims.App,
	}))
}

// readBody читает тело с жёсткой границей: фактический размер проверяется
// даже когда Content-Length лжёт.
func readBody(rc io.ReadCloser, maxSize int64) ([]byte, error) {
	defer rc.Close()
	var r io.Reader = rc
	if maxSize > 0 {
		r = io.LimitReader(rc, maxSize+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, domain.ErrStorage
	}
	if maxSize > 0 && int64(len(body)) > maxSize {
		return nil, domain.ErrTooLarge
	}
	return body, nil
}

func extractBearer(h string) string {
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
