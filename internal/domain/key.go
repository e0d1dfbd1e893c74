package domain

import "strings"

const maxKeyLen = 500

// ValidateKey проверяет нормализованный относительный путь ресурса:
// без ведущего слеша, без traversal ("..", "//"), длина ≤ 500,
// расширение обязано присутствовать в MIME-таблице.
func ValidateKey(key string) error {
	if key == "" || len(key) > maxKeyLen {
		return ErrInvalidPath
	}
	if strings.HasPrefix(key, "/") {
		return ErrInvalidPath
	}
	if strings.Contains(key, "..") || strings.Contains(key, "//") {
		return ErrInvalidPath
	}
	if !KnownExt(Ext(key)) {
		return ErrInvalidPath
	}
	return nil
}
