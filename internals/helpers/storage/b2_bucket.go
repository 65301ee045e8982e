package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kurin/blazer/b2"
)

type B2Config struct {
	AccountID  string
	AppKey     string
	Bucket     string
	PublicBase string
	Prefix     string
}

type B2Bucket struct {
	client     *b2.Client
	bucket     *b2.Bucket
	publicBase string
	prefix     string
}

func NewB2Bucket(ctx context.Context, cfg B2Config) (*B2Bucket, error) {
	if cfg.AccountID == "" || cfg.AppKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("missing env: B2_ACCOUNT_ID/B2_APP_KEY/B2_BUCKET")
	}
	client, err := b2.NewClient(ctx, cfg.AccountID, cfg.AppKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create b2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}
	return &B2Bucket{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(strings.TrimSpace(cfg.PublicBase), "/"),
		prefix:     cfg.Prefix,
	}, nil
}

func (s *B2Bucket) Name() string { return "b2:" + s.bucket.Name() }

func (s *B2Bucket) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	w := s.bucket.Object(joinKey(s.prefix, key)).NewWriter(ctx, b2.WithAttrsOption(&b2.Attrs{ContentType: contentType}))
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}

func (s *B2Bucket) Remove(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	return s.bucket.Object(joinKey(s.prefix, key)).Delete(ctx)
}

func (s *B2Bucket) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	full := joinKey(s.prefix, key)
	if s.publicBase != "" {
		return s.publicBase + "/" + full
	}
	return fmt.Sprintf("%s/file/%s/%s", s.bucket.BaseURL(), s.bucket.Name(), full)
}

func (s *B2Bucket) Ping(ctx context.Context) error {
	_, err := s.bucket.Attrs(ctx)
	return err
}
