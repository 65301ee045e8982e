// Package storage holds the object-storage bucket job PDFs live in.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"kizuna_web/internals/configs"
)

// Bucket is the minimal object store the PDF gateway needs.
type Bucket interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PublicURL(key string) string
	Remove(ctx context.Context, key string) error
	// Ping reports whether the bucket is reachable with the configured credentials.
	Ping(ctx context.Context) error
	Name() string
}

// Open builds the bucket selected by STORAGE_DRIVER.
func Open(ctx context.Context, s *configs.Settings) (Bucket, error) {
	switch s.StorageDriver {
	case "oss", "":
		b, err := NewOSSBucket(OSSConfig{
			Endpoint:      s.OSSEndpoint,
			AccessKey:     s.OSSAccessKey,
			SecretKey:     s.OSSSecretKey,
			SecurityToken: s.OSSSecurityToken,
			Bucket:        s.OSSBucket,
			PublicBase:    s.OSSPublicBase,
			Prefix:        s.StoragePrefix,
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	case "b2":
		b, err := NewB2Bucket(ctx, B2Config{
			AccountID:  s.B2AccountID,
			AppKey:     s.B2AppKey,
			Bucket:     s.B2Bucket,
			PublicBase: s.B2PublicBase,
			Prefix:     s.StoragePrefix,
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	case "memory":
		if !s.IsDevelopment() {
			return nil, fmt.Errorf("STORAGE_DRIVER=memory is only allowed with APP_ENV=development")
		}
		return NewMemoryBucket("http://localhost:" + s.Port + "/_objects"), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q (want oss or b2)", s.StorageDriver)
	}
}

// KeyFromURL recovers an object key from its public URL by taking the last
// path segment. Only used for rows written before keys were stored.
func KeyFromURL(publicURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(publicURL))
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	key := path.Base(u.Path)
	if key == "" || key == "." || key == "/" {
		return "", fmt.Errorf("cannot extract key from url: %s", publicURL)
	}
	return key, nil
}

func joinKey(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}
