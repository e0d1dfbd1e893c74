package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Pulset/tinykit-cdn-worker/internal/domain"
	"github.com/Pulset/tinykit-cdn-worker/internal/transport/web/mw"
)

// MapDomainError решает HTTP-статус + code/error для конверта.
// Внутренние детали (stack, причины стора) наружу не утекают.
func MapDomainError(err error) (int, domain.ErrorEnvelope) {
	switch {
	case errors.Is(err, domain.ErrUnauth):
		return http.StatusUnauthorized, domain.Fail(domain.CodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		// статус различает «нет прав» и «нет credentials», код един
		return http.StatusForbidden, domain.Fail(domain.CodeUnauthorized, "forbidden")
	case errors.Is(err, domain.ErrInvalidPath):
		return http.StatusBadRequest, domain.Fail(domain.CodeInvalidPath, "invalid path")
	case errors.Is(err, domain.ErrExtNotAllowed):
		return http.StatusBadRequest, domain.Fail(domain.CodeExtNotAllowed, "extension not allowed")
	case errors.Is(err, domain.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, domain.Fail(domain.CodeFileTooLarge, "file too large")
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.Fail(domain.CodeNotFound, "not found")
	case errors.Is(err, domain.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, domain.Fail(domain.CodeMethodNotAllowed, "method not allowed")
	default:
		// таймауты/отмены/конфиг — как 500
		return http.StatusInternalServerError, domain.Fail(domain.CodeUploadError, "internal error")
	}
}

// WriteJSON пишет произвольный JSON-ответ; для HEAD — без тела
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", mw.RequestIDFromCtx(r.Context()))
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, env := MapDomainError(err)
	WriteJSON(w, r, status, env)
}

// Стандартный формат времени заголовков
func HTTPTime(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}
