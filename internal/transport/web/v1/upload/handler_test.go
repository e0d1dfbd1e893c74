package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pulset/tinykit-cdn-worker/internal/auth/uploadtoken"
	"github.com/Pulset/tinykit-cdn-worker/internal/domain"
	"github.com/Pulset/tinykit-cdn-worker/internal/secrets"
)

type fakeStore struct {
	objects map[string][]byte
}

func (s *fakeStore) Stat(_ context.Context, key string) (domain.ObjectMeta, error) {
	b, ok := s.objects[key]
	if !ok {
		return domain.ObjectMeta{}, domain.ErrNotFound
	}
	return domain.ObjectMeta{Key: key, Size: int64(len(b))}, nil
}

func (s *fakeStore) Get(_ context.Context, key string) (io.ReadCloser, domain.ObjectMeta, error) {
	b, ok := s.objects[key]
	if !ok {
		return nil, domain.ObjectMeta{}, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), domain.ObjectMeta{Key: key, Size: int64(len(b))}, nil
}

func (s *fakeStore) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) (domain.ObjectMeta, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return domain.ObjectMeta{}, err
	}
	s.objects[key] = b
	return domain.ObjectMeta{
		Key: key, Size: int64(len(b)), ContentType: contentType,
		ETag: `"put"`, LastModified: time.Now(),
	}, nil
}

func (s *fakeStore) Ping(context.Context) error { return nil }

type fakeCache struct {
	deleted chan string
}

func (c *fakeCache) Lookup(context.Context, string) (*domain.CachedResponse, error) { return nil, nil }
func (c *fakeCache) Store(context.Context, string, *domain.CachedResponse, int) error {
	return nil
}
func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.deleted <- k
	}
	return nil
}
func (c *fakeCache) Ping(context.Context) error { return nil }
func (c *fakeCache) Close()                     {}

func mint(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func defaultToken(t *testing.T) string {
	return mint(t, "secret-one", jwt.MapClaims{
		"appName":      "app1",
		"exp":          float64(time.Now().Add(time.Hour).Unix()),
		"allowedPaths": []string{"app1/*"},
	})
}

func newHandler(t *testing.T) (*Handler, *fakeStore, *fakeCache) {
	t.Helper()
	reg, err := secrets.Load(`{"app1":"secret-one","app2":"secret-two"}`)
	require.NoError(t, err)

	store := &fakeStore{objects: map[string][]byte{}}
	cache := &fakeCache{deleted: make(chan string, 8)}
	h := &Handler{
		Log:           log.New(io.Discard, "", 0),
		Store:         store,
		Cache:         cache,
		Verifier:      uploadtoken.New(reg),
		PublicBaseURL: "https://cdn.example.com",
		MaxFileSize:   1 << 20,
	}
	return h, store, cache
}

func doUpload(h *Handler, key, token string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/upload/"+key, body)
	req.SetPathValue("key", key)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.Post(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) domain.ErrorEnvelope {
	t.Helper()
	var env domain.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestUploadOK(t *testing.T) {
	h, store, cache := newHandler(t)

	rec := doUpload(h, "app1/img.png", defaultToken(t), bytes.NewReader([]byte("png-bytes")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env domain.UploadEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	require.NotNil(t, env.Data)
	assert.Equal(t, "app1/img.png", env.Data.Key)
	assert.EqualValues(t, 9, env.Data.Size)
	assert.Equal(t, "image/png", env.Data.ContentType)
	assert.Equal(t, "https://cdn.example.com/app1/img.png", env.Data.URL)
	assert.Equal(t, "app1", env.Data.App)
	assert.False(t, env.Data.Timestamp.IsZero())

	assert.Equal(t, []byte("png-bytes"), store.objects["app1/img.png"])

	// закешированный ответ по пути инвалидирован
	select {
	case key := <-cache.deleted:
		assert.Equal(t, "resp:/app1/img.png", key)
	case <-time.After(2 * time.Second):
		t.Fatal("cache invalidation never happened")
	}
}

// Повторная идентичная загрузка даёт тот же payload
func TestUploadIdempotent(t *testing.T) {
	h, _, _ := newHandler(t)
	token := defaultToken(t)

	first := doUpload(h, "app1/img.png", token, bytes.NewReader([]byte("png-bytes")))
	second := doUpload(h, "app1/img.png", token, bytes.NewReader([]byte("png-bytes")))
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	var e1, e2 domain.UploadEnvelope
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &e1))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &e2))
	assert.Equal(t, e1.Data.Key, e2.Data.Key)
	assert.Equal(t, e1.Data.Size, e2.Data.Size)
	assert.Equal(t, e1.Data.ContentType, e2.Data.ContentType)
}

func TestUploadPathOutsideScope(t *testing.T) {
	h, _, _ := newHandler(t)

	rec := doUpload(h, "app2/img.png", defaultToken(t), bytes.NewReader([]byte("x")))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, domain.CodeUnauthorized, decodeError(t, rec).Code)
}

// Traversal отклоняется как INVALID_PATH независимо от валидности токена
func TestUploadTraversalKey(t *testing.T) {
	h, _, _ := newHandler(t)

	for _, key := range []string{"app1/../etc.png", "/app1/img.png", "app1//img.png"} {
		rec := doUpload(h, key, "garbage-token", bytes.NewReader([]byte("x")))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "key=%q", key)
		assert.Equal(t, domain.CodeInvalidPath, decodeError(t, rec).Code, "key=%q", key)
	}
}

func TestUploadMissingToken(t *testing.T) {
	h, _, _ := newHandler(t)

	rec := doUpload(h, "app1/img.png", "", bytes.NewReader([]byte("x")))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, domain.CodeUnauthorized, decodeError(t, rec).Code)
}

func TestUploadExpiredToken(t *testing.T) {
	h, _, _ := newHandler(t)
	token := mint(t, "secret-one", jwt.MapClaims{
		"appName":      "app1",
		"exp":          float64(time.Now().Add(-time.Minute).Unix()),
		"allowedPaths": []string{"app1/*"},
	})

	rec := doUpload(h, "app1/img.png", token, bytes.NewReader([]byte("x")))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadDeclaredSizeOverLimit(t *testing.T) {
	h, _, _ := newHandler(t)
	token := mint(t, "secret-one", jwt.MapClaims{
		"appName":      "app1",
		"exp":          float64(time.Now().Add(time.Hour).Unix()),
		"allowedPaths": []string{"app1/*"},
		"maxFileSize":  10,
	})

	rec := doUpload(h, "app1/img.png", token, bytes.NewReader(bytes.Repeat([]byte("a"), 20)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, domain.CodeFileTooLarge, decodeError(t, rec).Code)
}

// Content-Length лжёт: фактический размер всё равно проверяется
func TestUploadActualSizeOverLimit(t *testing.T) {
	h, _, _ := newHandler(t)
	token := mint(t, "secret-one", jwt.MapClaims{
		"appName":      "app1",
		"exp":          float64(time.Now().Add(time.Hour).Unix()),
		"allowedPaths": []string{"app1/*"},
		"maxFileSize":  10,
	})

	// reader без Len(): httptest не проставит ContentLength
	body := io.MultiReader(bytes.NewReader(bytes.Repeat([]byte("a"), 20)))
	rec := doUpload(h, "app1/img.png", token, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, domain.CodeFileTooLarge, decodeError(t, rec).Code)
}

func TestUploadExtensionNotAllowed(t *testing.T) {
	h, _, _ := newHandler(t)
	token := mint(t, "secret-one", jwt.MapClaims{
		"appName":           "app1",
		"exp":               float64(time.Now().Add(time.Hour).Unix()),
		"allowedPaths":      []string{"app1/*"},
		"allowedExtensions": []string{"png"},
	})

	rec := doUpload(h, "app1/anim.gif", token, bytes.NewReader([]byte("x")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.CodeExtNotAllowed, decodeError(t, rec).Code)
}

func TestUploadOriginGate(t *testing.T) {
	h, _, _ := newHandler(t)
	h.AllowedOrigins = "example.com"

	req := httptest.NewRequest(http.MethodPost, "/upload/app1/img.png", bytes.NewReader([]byte("x")))
	req.SetPathValue("key", "app1/img.png")
	req.Header.Set("Origin", "https://evil.io")
	req.Header.Set("Authorization", "Bearer "+defaultToken(t))
	rec := httptest.NewRecorder()
	h.Post(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, domain.CodeUnauthorized, decodeError(t, rec).Code)
}
