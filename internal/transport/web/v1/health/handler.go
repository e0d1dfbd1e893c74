package health

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Pulset/tinykit-cdn-worker/internal/domain"
	"github.com/Pulset/tinykit-cdn-worker/internal/transport/web/logx"
	"github.com/Pulset/tinykit-cdn-worker/internal/transport/web/mw"
	v1 "github.com/Pulset/tinykit-cdn-worker/internal/transport/web/v1"
)

const serviceName = "tinykit-cdn-worker"

type Pinger interface {
	Ping(context.Context) error
}

type Handler struct {
	Log     *log.Logger
	Storage Pinger
	Cache   Pinger
}

type status struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// Liveness не зависит от стора/кеша: процесс жив — сервис жив.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	const op = "health.liveness"
	reqID := mw.RequestIDFromCtx(r.Context())

	logx.Info(h.Log, reqID, op, "ok")
	v1.WriteJSON(w, r, http.StatusOK, status{
		Status:    "ok",
		Service:   serviceName,
		Timestamp: time.Now().UTC(),
	})
}

// Readiness пингует стор и кеш.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	const op = "health.readiness"
	reqID := mw.RequestIDFromCtx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Storage.Ping(ctx); err != nil {
		logx.Error(h.Log, reqID, op, "storage ping failed", err)
		v1.WriteDomainError(w, r, domain.ErrStorage)
		return
	}
	if err := h.Cache.Ping(ctx); err != nil {
		logx.Error(h.Log, reqID, op, "cache ping failed", err)
		v1.WriteDomainError(w, r, domain.ErrStorage)
		return
	}

	logx.Info(h.Log, reqID, op, "ready")
	v1.WriteJSON(w, r, http.StatusOK, status{
		Status:    "ready",
		Service:   serviceName,
		Timestamp: time.Now().UTC(),
	})
}
