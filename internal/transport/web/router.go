package web

import (
	"log"
	"net/http"
	"strings"

	"github.com/rs/cors"

	"github.com/Pulset/tinykit-cdn-worker/internal/domain"
	"github.com/Pulset/tinykit-cdn-worker/internal/transport/web/mw"
	v1 "github.com/Pulset/tinykit-cdn-worker/internal/transport/web/v1"
	"github.com/Pulset/tinykit-cdn-worker/internal/transport/web/v1/health"
	"github.com/Pulset/tinykit-cdn-worker/internal/transport/web/v1/read"
	"github.com/Pulset/tinykit-cdn-worker/internal/transport/web/v1/upload"
)

// newRouter собирает таблицу маршрутизации. Порядок специфичности
// обеспечивает mux: health и upload раньше catch-all чтения.
func newRouter(hh *health.Handler, rh *read.Handler, uh *upload.Handler, co *cors.Cors, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	// health ("GET" в mux покрывает и HEAD)
	mux.HandleFunc("GET /health", hh.Liveness)
	mux.HandleFunc("GET /ready", hh.Readiness)
	mux.HandleFunc("GET /{$}", hh.Liveness)

	// запись
	mux.HandleFunc("POST /upload/{key...}", uh.Post)

	// чтение
	mux.HandleFunc("GET /{key...}", rh.Get)

	// остальные методы: 405 с машиночитаемым кодом; простой OPTIONS — 204
	mux.HandleFunc("/{key...}", methodNotAllowed)

	// 🔗 middleware
	return mw.WithRequestID(mw.Logging(logger)(co.Handler(mux)))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	v1.WriteDomainError(w, r, domain.ErrMethodNotAllowed)
}

// newCORS настраивает preflight тем же валидатором, что и хендлеры:
// preflight на /upload/ решается по upload-списку, прочие — по списку чтения.
func newCORS(readAllowlist, uploadAllowlist string, mode domain.OriginMatchMode) *cors.Cors {
	return cors.New(cors.Options{
		AllowOriginRequestFunc: func(r *http.Request, origin string) bool {
			if uploadAllowlist != "" && strings.HasPrefix(r.URL.Path, "/upload/") {
				return domain.OriginAllowed(origin, "", uploadAllowlist, mode)
			}
			return domain.OriginAllowed(origin, "", readAllowlist, mode)
		},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Authorization", "Content-Type", "Content-Length",
			"If-None-Match", "If-Modified-Since", "X-Request-ID",
		},
		ExposedHeaders: []string{"ETag", "X-Cache", "X-Request-ID"},
		MaxAge:         86400,
	})
}
