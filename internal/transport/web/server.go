package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Pulset/tinykit-cdn-worker/internal/auth/uploadtoken"
	"github.com/Pulset/tinykit-cdn-worker/internal/config"
	"github.com/Pulset/tinykit-cdn-worker/internal/domain"
	"github.com/Pulset/tinykit-cdn-worker/internal/transport/web/v1/health"
	"github.com/Pulset/tinykit-cdn-worker/internal/transport/web/v1/read"
	"github.com/Pulset/tinykit-cdn-worker/internal/transport/web/v1/upload"
)

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, store domain.ObjectStore, cache domain.ResponseCache, verifier *uploadtoken.Verifier) *Server {
	healthLog := log.New(logger.Writer(), logger.Prefix()+"[health] ", logger.Flags())
	readLog := log.New(logger.Writer(), logger.Prefix()+"[read] ", logger.Flags())
	uploadLog := log.New(logger.Writer(), logger.Prefix()+"[upload] ", logger.Flags())

	mode := domain.ParseOriginMatchMode(cfg.OriginMatchMode)

	healthHandler := &health.Handler{Log: healthLog, Storage: store, Cache: cache}
	readHandler := &read.Handler{
		Log:            readLog,
		Store:          store,
		Cache:          cache,
		AllowedOrigins: cfg.AllowedOrigins,
		MatchMode:      mode,
	}
	uploadHandler := &upload.Handler{
		Log:            uploadLog,
		Store:          store,
		Cache:          cache,
		Verifier:       verifier,
		PublicBaseURL:  cfg.PublicBaseURL,
		AllowedOrigins: cfg.UploadAllowedOrigins,
		MatchMode:      mode,
		MaxFileSize:    cfg.MaxFileSize,
	}

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           newRouter(healthHandler, readHandler, uploadHandler, newCORS(cfg.AllowedOrigins, cfg.UploadAllowedOrigins, mode), logger),
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}
