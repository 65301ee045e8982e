package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type OSSConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	SecurityToken string
	Bucket        string
	PublicBase    string
	Prefix        string
}

/* =======================================================================
   OSS bucket
======================================================================= */

type OSSBucket struct {
	client     *oss.Client
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
	publicBase string
	prefix     string
}

func NewOSSBucket(cfg OSSConfig) (*OSSBucket, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var (
		client *oss.Client
		err    error
	)
	if cfg.SecurityToken != "" {
		client, err = oss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, oss.SecurityToken(cfg.SecurityToken))
	} else {
		client, err = oss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey)
	}
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	if loc, err := client.GetBucketLocation(cfg.Bucket); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 && se.Code == "AccessDenied" {
			log.Printf("[STORAGE] warn: skip location check due to AccessDenied (bucket=%s)", cfg.Bucket)
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Printf("[STORAGE] oss bucket %s location: %s", cfg.Bucket, loc)
	}

	return &OSSBucket{
		client:     client,
		bucket:     bkt,
		endpoint:   cfg.Endpoint,
		bucketName: cfg.Bucket,
		publicBase: strings.TrimRight(strings.TrimSpace(cfg.PublicBase), "/"),
		prefix:     cfg.Prefix,
	}, nil
}

func (s *OSSBucket) Name() string { return "oss:" + s.bucketName }

func (s *OSSBucket) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=3600"),
	}
	if size > 0 {
		opts = append(opts, oss.ContentLength(size))
	}
	return s.bucket.PutObject(joinKey(s.prefix, key), r, opts...)
}

func (s *OSSBucket) Remove(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	return s.bucket.DeleteObject(joinKey(s.prefix, key), oss.WithContext(ctx))
}

func (s *OSSBucket) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	full := joinKey(s.prefix, key)
	if s.publicBase != "" {
		return s.publicBase + "/" + full
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.bucketName, end, full)
}

func (s *OSSBucket) Ping(ctx context.Context) error {
	_, err := s.client.GetBucketInfo(s.bucketName, oss.WithContext(ctx))
	return err
}
