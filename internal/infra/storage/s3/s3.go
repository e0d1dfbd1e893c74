package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Pulset/tinykit-cdn-worker/internal/domain"
)

type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PathStyle bool
}

type Store struct {
	cl     *minio.Client
	bucket string
	log    *log.Logger
}

var _ domain.ObjectStore = (*Store)(nil)

func New(cfg Config, logger *log.Logger) (*Store, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.PathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}
	cl, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, err
	}
	return &Store{cl: cl, bucket: cfg.Bucket, log: logger}, nil
}

// Stat возвращает метаданные объекта без тела (HEAD).
func (s *Store) Stat(ctx context.Context, key string) (domain.ObjectMeta, error) {
	info, err := s.cl.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return domain.ObjectMeta{}, s.mapError("STAT", key, err)
	}
	return metaFromInfo(key, info), nil
}

// Get открывает поток тела вместе с метаданными.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, domain.ObjectMeta, error) {
	// HEAD отдельно: у GetObject мета ленивая и ошибка всплыла бы при чтении
	info, err := s.cl.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, domain.ObjectMeta{}, s.mapError("STAT", key, err)
	}
	obj, err := s.cl.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, domain.ObjectMeta{}, s.mapError("GET", key, err)
	}
	return obj, metaFromInfo(key, info), nil
}

// Put сохраняет объект под заданным ключом и перечитывает мету:
// ETag и Last-Modified назначает стор, не мы.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (domain.ObjectMeta, error) {
	info, err := s.cl.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return domain.ObjectMeta{}, s.mapError("PUT", key, err)
	}
	stat, err := s.cl.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return domain.ObjectMeta{}, s.mapError("STAT", key, err)
	}
	s.log.Printf("PUT %q ok (%d bytes)", key, info.Size)
	return metaFromInfo(key, stat), nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.cl.BucketExists(ctx, s.bucket)
	if err != nil {
		s.log.Printf("PING failed: %v", err)
	}
	return err
}

func (s *Store) mapError(op, key string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.log.Printf("%s %q: timeout: %v", op, key, err)
		return fmt.Errorf("%w: %s timeout", domain.ErrStorage, op)
	}
	s.log.Printf("%s %q: error: %v", op, key, err)
	return fmt.Errorf("%w: %v", domain.ErrStorage, err)
}

func metaFromInfo(key string, info minio.ObjectInfo) domain.ObjectMeta {
	ct := info.ContentType
	if ct == "" {
		ct = domain.ResolveContentType(key)
	}
	etag := info.ETag
	if etag != "" && etag[0] != '"' {
		etag = `"` + etag + `"`
	}
	return domain.ObjectMeta{
		Key:          key,
		Size:         info.Size,
		ContentType:  ct,
		ETag:         etag,
		LastModified: info.LastModified,
	}
}
