package domain

import "errors"

// Бизнес-ошибки (маппятся на HTTP коды на уровне transport/web)
var (
	ErrUnauth           = errors.New("unauthorized")        // 401: origin/токен отклонён
	ErrForbidden        = errors.New("forbidden")           // 403: токен валиден, но путь/расширение не разрешены
	ErrInvalidPath      = errors.New("invalid_path")        // 400: traversal, длина, неизвестное расширение
	ErrTooLarge         = errors.New("file_too_large")      // 413
	ErrExtNotAllowed    = errors.New("ext_not_allowed")     // 400
	ErrNotFound         = errors.New("not_found")           // 404
	ErrMethodNotAllowed = errors.New("method_not_allowed")  // 405
	ErrStorage          = errors.New("storage_unavailable") // 500: стор недоступен или таймаут
	ErrConfig           = errors.New("bad_config")          // 500: реестр секретов повреждён
)

// Машиночитаемые коды для JSON-ответов об ошибке
const (
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInvalidPath      = "INVALID_PATH"
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeExtNotAllowed    = "EXTENSION_NOT_ALLOWED"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeUploadError      = "UPLOAD_ERROR"
)
