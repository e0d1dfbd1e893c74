package domain

import "strings"

type CacheTier int

const (
	TierDefault CacheTier = iota
	TierStatic
	TierDownload
)

func (t CacheTier) String() string {
	switch t {
	case TierStatic:
		return "static"
	case TierDownload:
		return "download"
	default:
		return "default"
	}
}

type CachePolicy struct {
	Tier         CacheTier
	CacheControl string
	TTLSeconds   int
}

// Расширения, которые считаем неизменяемыми ассетами
var staticExts = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true,
	"svg": true, "ico": true, "woff": true, "woff2": true, "ttf": true, "otf": true,
}

// ClassifyCachePolicy — чистая функция от ключа. Сегмент downloads/
// проверяется раньше расширения: скачиваемым файлам нужна быстрая
// инвалидация, даже если расширение из статического набора.
func ClassifyCachePolicy(key string) CachePolicy {
	if strings.Contains(key, "/downloads/") || strings.HasPrefix(key, "downloads/") {
		return CachePolicy{Tier: TierDownload, CacheControl: "public, max-age=3600", TTLSeconds: 3600}
	}
	if staticExts[Ext(key)] {
		return CachePolicy{Tier: TierStatic, CacheControl: "public, max-age=31536000, immutable", TTLSeconds: 31536000}
	}
	return CachePolicy{Tier: TierDefault, CacheControl: "public, max-age=86400", TTLSeconds: 86400}
}
