package domain

import (
	"strings"
	"time"
)

// UploadClaims — аутентифицированный payload upload-токена.
// Конструируется только верификатором (internal/auth/uploadtoken),
// живёт в рамках одного запроса.
type UploadClaims struct {
	App               string
	ExpiresAt         time.Time
	IssuedAt          time.Time // информационное поле, не проверяется
	AllowedPaths      []string
	AllowedExtensions []string
	MaxFileSize       *int64
}

const pathWildcard = "*"

// PathAllowed: пустой список или "*" — любой путь; иначе точное совпадение
// либо префиксная запись вида "app1/*".
func (c UploadClaims) PathAllowed(key string) bool {
	if len(c.AllowedPaths) == 0 {
		return true
	}
	for _, p := range c.AllowedPaths {
		if p == pathWildcard || p == key {
			return true
		}
		if prefix, ok := cutStar(p); ok && len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func cutStar(p string) (string, bool) {
	if n := len(p); n >= 2 && p[n-2] == '/' && p[n-1] == '*' {
		return p[:n-1], true
	}
	return "", false
}

// ExtensionAllowed — регистронезависимое членство в allowedExtensions.
func (c UploadClaims) ExtensionAllowed(ext string) bool {
	if len(c.AllowedExtensions) == 0 {
		return true
	}
	for _, e := range c.AllowedExtensions {
		if strings.EqualFold(strings.TrimPrefix(e, "."), ext) {
			return true
		}
	}
	return false
}

// EffectiveMaxSize: min(глобальный лимит, лимит токена); 0 — без лимита.
func (c UploadClaims) EffectiveMaxSize(globalMax int64) int64 {
	switch {
	case c.MaxFileSize == nil:
		return globalMax
	case globalMax <= 0:
		return *c.MaxFileSize
	case *c.MaxFileSize < globalMax:
		return *c.MaxFileSize
	default:
		return globalMax
	}
}
