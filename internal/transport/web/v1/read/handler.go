package read

import (
	"context"
	"io"
	"log"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/Pulset/tinykit-cdn-worker/internal/domain"
	"github.com/Pulset/tinykit-cdn-worker/internal/transport/web/logx"
	"github.com/Pulset/tinykit-cdn-worker/internal/transport/web/mw"
	v1 "github.com/Pulset/tinykit-cdn-worker/internal/transport/web/v1"
)

const (
	storeTimeout     = 10 * time.Second
	cacheFillTimeout = 10 * time.Second
)

type Handler struct {
	Log            *log.Logger
	Store          domain.ObjectStore
	Cache          domain.ResponseCache
	AllowedOrigins string
	MatchMode      domain.OriginMatchMode
}

// Get обслуживает GET/HEAD /<key>: edge-кеш → origin-гейт → стор →
// ревалидация → полный ответ → асинхронное наполнение кеша.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "read.get"
	reqID := mw.RequestIDFromCtx(r.Context())

	// 1) edge-кеш до всего остального; ошибки кеша не фатальны
	cacheKey := domain.CacheKeyResponse(r.URL.Path)
	if cached, err := h.Cache.Lookup(r.Context(), cacheKey); err == nil && cached != nil {
		h.replay(w, r, cached)
		logx.Info(h.Log, reqID, op, "cache hit", "path", r.URL.Path)
		return
	} else if err != nil {
		logx.Error(h.Log, reqID, op, "cache lookup failed", err, "path", r.URL.Path)
	}

	// 2) анти-хотлинк
	if !domain.OriginAllowed(r.Header.Get("Origin"), r.Header.Get("Referer"), h.AllowedOrigins, h.MatchMode) {
		logx.Error(h.Log, reqID, op, "origin rejected", domain.ErrForbidden,
			"origin", r.Header.Get("Origin"), "referer", r.Header.Get("Referer"))
		v1.WriteDomainError(w, r, domain.ErrForbidden)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/")
	if err := domain.ValidateKey(key); err != nil {
		logx.Error(h.Log, reqID, op, "bad key", err, "key", key)
		v1.WriteDomainError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	meta, err := h.Store.Stat(ctx, key)
	if err != nil {
		logx.Error(h.Log, reqID, op, "stat failed", err, "key", key)
		v1.WriteDomainError(w, r, err)
		return
	}

	policy := domain.ClassifyCachePolicy(key)

	// 3) ревалидация: 304 без тела
	if domain.EvaluateConditional(meta, r.Header.Get("If-None-Match"), r.Header.Get("If-Modified-Since")) {
		if meta.ETag != "" {
			w.Header().Set("ETag", meta.ETag)
		}
		w.Header().Set("Cache-Control", policy.CacheControl)
		if !meta.LastModified.IsZero() {
			w.Header().Set("Last-Modified", v1.HTTPTime(meta.LastModified))
		}
		w.WriteHeader(http.StatusNotModified)
		logx.Info(h.Log, reqID, op, "not modified", "key", key)
		return
	}

	setObjectHeaders(w.Header(), meta, policy, key)
	w.Header().Set("X-Cache", "MISS")

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		logx.Info(h.Log, reqID, op, "head ok", "key", key, "size", meta.Size)
		return
	}

	// мета из Stat: заголовки уже записаны из неё, кеш должен совпадать
	rc, _, err := h.Store.Get(ctx, key)
	if err != nil {
		logx.Error(h.Log, reqID, op, "storage get failed", err, "key", key)
		v1.WriteDomainError(w, r, err)
		return
	}
	defer rc.Close()

	// тело читаем целиком: оно же уходит в кеш ответов
	body, err := io.ReadAll(rc)
	if err != nil {
		logx.Error(h.Log, reqID, op, "body read failed", err, "key", key)
		v1.WriteDomainError(w, r, domain.ErrStorage)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	logx.Info(h.Log, reqID, op, "ok", "key", key, "size", len(body), "tier", policy.Tier)

	// 4) наполнение кеша отвязано от ответа: ошибки только логируются
	h.fillCache(reqID, cacheKey, meta, policy, key, body)
}

func (h *Handler) fillCache(reqID, cacheKey string, meta domain.ObjectMeta, policy domain.CachePolicy, key string, body []byte) {
	hdr := http.Header{}
	setObjectHeaders(hdr, meta, policy, key)
	hdr.Set("X-Cache", "HIT")

	resp := &domain.CachedResponse{
		Status:  http.StatusOK,
		Headers: hdr,
		Body:    body,
	}
	go func() {
		const op = "read.cache_fill"
		ctx, cancel := context.WithTimeout(context.Background(), cacheFillTimeout)
		defer cancel()
		if err := h.Cache.Store(ctx, cacheKey, resp, policy.TTLSeconds); err != nil {
			logx.Error(h.Log, reqID, op, "store failed", err, "key", key)
		}
	}()
}

// replay отдаёт сохранённый ответ как есть.
func (h *Handler) replay(w http.ResponseWriter, r *http.Request, cached *domain.CachedResponse) {
	for k, vv := range cached.Headers {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("X-Cache", "HIT")
	w.WriteHeader(cached.Status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(cached.Body)
}

func setObjectHeaders(hdr http.Header, meta domain.ObjectMeta, policy domain.CachePolicy, key string) {
	hdr.Set("Content-Type", meta.ContentType)
	hdr.Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	hdr.Set("Cache-Control", policy.CacheControl)
	hdr.Set("CDN-Cache-Control", policy.CacheControl)
	hdr.Set("X-Content-Type-Options", "nosniff")
	hdr.Set("Vary", "Origin")
	if meta.ETag != "" {
		hdr.Set("ETag", meta.ETag)
	}
	if !meta.LastModified.IsZero() {
		hdr.Set("Last-Modified", v1.HTTPTime(meta.LastModified))
	}
	if policy.Tier == domain.TierDownload {
		hdr.Set("Content-Disposition", `attachment; filename="`+path.Base(key)+`"`)
	}
}
