package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Pulset/tinykit-cdn-worker/internal/auth/uploadtoken"
	"github.com/Pulset/tinykit-cdn-worker/internal/config"
	"github.com/Pulset/tinykit-cdn-worker/internal/domain"
	redisx "github.com/Pulset/tinykit-cdn-worker/internal/infra/cache/redis"
	s3storage "github.com/Pulset/tinykit-cdn-worker/internal/infra/storage/s3"
	"github.com/Pulset/tinykit-cdn-worker/internal/secrets"
	"github.com/Pulset/tinykit-cdn-worker/internal/transport/web"
)

type App struct {
	config  *config.Config
	server  *web.Server
	log     *log.Logger
	storage domain.ObjectStore
	cache   domain.ResponseCache
}

func Build(ctx context.Context) (*App, error) {
	base := log.New(os.Stdout, "[app] ", log.LstdFlags)

	serverLog := log.New(base.Writer(), base.Prefix()+"[server] ", base.Flags())
	s3Log := log.New(base.Writer(), base.Prefix()+"[s3] ", base.Flags())
	redisLog := log.New(base.Writer(), base.Prefix()+"[redis] ", base.Flags())

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}
	base.Printf("\n  configuration: %s-------------------", cfg)

	base.Println("load secret registry")
	reg, err := secrets.Load(cfg.AppSecrets)
	if err != nil {
		return nil, fmt.Errorf("failed load secrets: %w", err)
	}
	base.Printf("secret registry loaded (%d apps)", reg.Len())

	base.Println("init S3 storage")
	s3cfg := s3storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
		PathStyle: cfg.S3PathStyle,
	}
	store, err := s3storage.New(s3cfg, s3Log)
	if err != nil {
		return nil, fmt.Errorf("failed init s3: %w", err)
	}

	base.Println("init Redis")
	rc := redisx.New(redisx.Config{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	}, redisLog)
	if err := rc.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed init redis: %w", err)
	}
	base.Println("Redis is initialized")

	verifier := uploadtoken.New(reg)

	base.Println("init Server")
	server := web.New(serverLog, cfg, store, rc, verifier)
	base.Println("Server is initialized")

	base.Println("build ended")
	return &App{
		config:  cfg,
		server:  server,
		log:     base,
		storage: store,
		cache:   rc,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Println("start application...")
	go a.server.Run()
	<-ctx.Done()
	a.log.Println("stop application...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.server.Close(stopCtx)
	a.cache.Close()

	return nil
}
