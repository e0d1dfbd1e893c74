package uploadtoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Pulset/tinykit-cdn-worker/internal/domain"
	"github.com/Pulset/tinykit-cdn-worker/internal/secrets"
)

// Ошибки верификации. Все оборачивают доменные сентинелы,
// чтобы transport/web мог замапить их на HTTP-статусы через errors.Is.
var (
	ErrMalformed      = fmt.Errorf("%w: malformed token", domain.ErrUnauth)
	ErrNoSecretForApp = fmt.Errorf("%w: no secret for app", domain.ErrUnauth)
	ErrExpired        = fmt.Errorf("%w: token expired", domain.ErrUnauth)
	ErrExpiryTooFar   = fmt.Errorf("%w: token expiry too far in the future", domain.ErrUnauth)
	ErrBadAlgorithm   = fmt.Errorf("%w: unsupported token algorithm", domain.ErrUnauth)
	ErrBadSignature   = fmt.Errorf("%w: invalid token signature", domain.ErrUnauth)

	ErrPathNotAllowed = fmt.Errorf("%w: path not allowed by token", domain.ErrForbidden)
	ErrExtNotAllowed  = fmt.Errorf("%w: extension not allowed by token", domain.ErrExtNotAllowed)
)

// Верхняя граница правдоподобного exp: защита от токенов
// с повреждённым или намеренно раздутым сроком.
const maxTokenLifetime = 365 * 24 * time.Hour

type header struct {
	Typ string `json:"typ"`
	Alg string `json:"alg"`
}

type payload struct {
	AppName           string   `json:"appName"`
	Exp               *float64 `json:"exp"`
	Created           *float64 `json:"created"`
	AllowedPaths      []string `json:"allowedPaths"`
	AllowedExtensions []string `json:"allowedExtensions"`
	MaxFileSize       *int64   `json:"maxFileSize"`
}

// Verifier проверяет подписанные upload-токены против реестра секретов.
// Реестр иммутабелен, поэтому Verifier безопасен для конкурентного
// использования.
type Verifier struct {
	reg *secrets.Registry
}

func New(reg *secrets.Registry) *Verifier {
	return &Verifier{reg: reg}
}

// Verify разбирает и криптографически проверяет токен.
// Порядок проверок фиксирован: структура → payload/appName → секрет →
// срок → заголовок/алгоритм → подпись. Возвращает клеймы только при
// полном успехе; сырые декодированные значения наружу не выходят.
func (v *Verifier) Verify(token string, now time.Time) (domain.UploadClaims, error) {
	var zero domain.UploadClaims

	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return zero, ErrMalformed
	}

	payloadJSON, err := b64decode(parts[1])
	if err != nil {
		return zero, ErrMalformed
	}
	var pl payload
	if err := json.Unmarshal(payloadJSON, &pl); err != nil || pl.AppName == "" {
		return zero, ErrMalformed
	}

	secret, ok := v.reg.Secret(pl.AppName)
	if !ok {
		return zero, ErrNoSecretForApp
	}
	if secret == "" {
		return zero, fmt.Errorf("%w: empty secret for app %q", domain.ErrConfig, pl.AppName)
	}

	if pl.Exp == nil {
		return zero, ErrMalformed
	}
	exp := time.Unix(int64(*pl.Exp), 0)
	if exp.Before(now) {
		return zero, ErrExpired
	}
	if exp.After(now.Add(maxTokenLifetime)) {
		return zero, ErrExpiryTooFar
	}

	headerJSON, err := b64decode(parts[0])
	if err != nil {
		return zero, ErrMalformed
	}
	var hd header
	if err := json.Unmarshal(headerJSON, &hd); err != nil {
		return zero, ErrMalformed
	}
	// закрытый список, не согласуемый набор: только HS256
	if hd.Typ != "JWT" || hd.Alg != "HS256" {
		return zero, ErrBadAlgorithm
	}

	sig, err := b64decode(parts[2])
	if err != nil {
		return zero, ErrMalformed
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(parts[0] + "." + parts[1]))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return zero, ErrBadSignature
	}

	claims := domain.UploadClaims{
		App:               pl.AppName,
		ExpiresAt:         exp,
		AllowedPaths:      pl.AllowedPaths,
		AllowedExtensions: pl.AllowedExtensions,
		MaxFileSize:       pl.MaxFileSize,
	}
	if pl.Created != nil {
		claims.IssuedAt = time.Unix(int64(*pl.Created), 0)
	}
	return claims, nil
}

// Authorize применяет скоуп уже проверенного токена к запрошенному ключу.
// Отдельный шаг: верификация отвечает на «кто подписал», авторизация —
// на «что ему можно».
func Authorize(claims domain.UploadClaims, key string) error {
	if !claims.PathAllowed(key) {
		return ErrPathNotAllowed
	}
	if !claims.ExtensionAllowed(domain.Ext(key)) {
		return ErrExtNotAllowed
	}
	return nil
}

// base64url с восстановлением паддинга: источники токенов
// сериализуют без '='.
func b64decode(s string) ([]byte, error) {
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}
	return base64.URLEncoding.DecodeString(s)
}
