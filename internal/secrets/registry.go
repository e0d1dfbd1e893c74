package secrets

import (
	"encoding/json"
	"fmt"
)

// Registry — иммутабельный реестр appName→секрет подписи.
// Загружается один раз на старте процесса, после этого только читается,
// поэтому безопасен для конкурентного доступа без синхронизации.
type Registry struct {
	m map[string]string
}

// Load разбирает JSON вида {"app1":"secret1",...}.
// Пустой секрет — ошибка конфигурации: лучше упасть на старте,
// чем молча принимать неподписанные токены.
func Load(raw string) (*Registry, error) {
	if raw == "" {
		return nil, fmt.Errorf("secrets: empty registry config")
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("secrets: parse registry: %w", err)
	}
	for app, s := range m {
		if app == "" || s == "" {
			return nil, fmt.Errorf("secrets: empty app name or secret in registry")
		}
	}
	return &Registry{m: m}, nil
}

// Secret возвращает секрет приложения; false — приложение не зарегистрировано.
func (r *Registry) Secret(app string) (string, bool) {
	s, ok := r.m[app]
	return s, ok
}

func (r *Registry) Len() int { return len(r.m) }
