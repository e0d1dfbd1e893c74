package domain

import (
	"net/url"
	"strings"
)

// Режим сопоставления origin с allowlist.
type OriginMatchMode int

const (
	// MatchHost — точное совпадение хоста либо совпадение по суффиксу меток
	// (запись "example.com" пускает "cdn.example.com", но не "notexample.com").
	MatchHost OriginMatchMode = iota
	// MatchSubstring — режим совместимости с исходным воркером: запись
	// считается подстрокой Origin. Известная слабость: "evil.com" матчит
	// "notevil.com". Включается явно через ORIGIN_MATCH_MODE=substring.
	MatchSubstring
)

func ParseOriginMatchMode(s string) OriginMatchMode {
	if strings.EqualFold(s, "substring") {
		return MatchSubstring
	}
	return MatchHost
}

// OriginAllowed решает, разрешён ли запрос по заявленным Origin/Referer.
// Запрос без обоих заголовков (curl, server-to-server) пропускается:
// цель allowlist — запрет встраивания на чужих сайтах, а не закрытие API.
func OriginAllowed(origin, referer, allowlist string, mode OriginMatchMode) bool {
	if allowlist == "*" {
		return true
	}
	if origin == "" && referer == "" {
		return true
	}

	declared := origin
	if declared == "" {
		declared = referer
	}

	for _, entry := range strings.Split(allowlist, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		switch mode {
		case MatchSubstring:
			if strings.Contains(declared, entry) {
				return true
			}
		default:
			if hostMatches(declared, entry) {
				return true
			}
		}
	}
	return false
}

func hostMatches(declared, entry string) bool {
	host := declared
	if u, err := url.Parse(declared); err == nil && u.Host != "" {
		host = u.Host
	}
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	host = strings.ToLower(host)
	entry = strings.ToLower(entry)
	return host == entry || strings.HasSuffix(host, "."+entry)
}
