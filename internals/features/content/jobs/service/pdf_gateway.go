package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"kizuna_web/internals/helpers/storage"
)

const pdfMIME = "application/pdf"

var (
	ErrNotPDF   = errors.New("PDFファイルのみアップロード可能です。")
	ErrTooLarge = errors.New("PDFファイルが大きすぎます。")
	ErrNoFile   = errors.New("PDFファイルが選択されていません。")

	ErrUploadFailed = errors.New("PDFのアップロードに失敗しました")
)

// PDFUpload is a file picked in the job form, not yet stored.
type PDFUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// StoredPDF is what gets written to the job row after a successful upload.
type StoredPDF struct {
	URL      string
	Filename string
	Key      string
}

// Columns is the column set persisted alongside the job.
func (s StoredPDF) Columns() map[string]any {
	return map[string]any{
		"pdf_url":         &s.URL,
		"pdf_filename":    &s.Filename,
		"pdf_storage_key": &s.Key,
	}
}

type PDFGateway struct {
	bucket   storage.Bucket
	maxBytes int64
	now      func() time.Time
}

func NewPDFGateway(bucket storage.Bucket, maxBytes int64) *PDFGateway {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &PDFGateway{bucket: bucket, maxBytes: maxBytes, now: time.Now}
}

func (g *PDFGateway) MaxBytes() int64 { return g.maxBytes }

// Upload checks that the file really is a PDF before anything reaches the
// bucket, then stores it under a fresh key.
func (g *PDFGateway) Upload(ctx context.Context, in *PDFUpload) (*StoredPDF, error) {
	if in == nil || in.Body == nil || strings.TrimSpace(in.Filename) == "" {
		return nil, ErrNoFile
	}
	if in.Size > g.maxBytes {
		return nil, ErrTooLarge
	}
	if !declaredPDF(in.ContentType) {
		return nil, ErrNotPDF
	}

	data, err := io.ReadAll(io.LimitReader(in.Body, g.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > g.maxBytes {
		return nil, ErrTooLarge
	}
	if !mimetype.Detect(data).Is(pdfMIME) {
		return nil, ErrNotPDF
	}

	key := NewObjectKey(g.now())
	if err := g.bucket.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), pdfMIME); err != nil {
		log.Printf("[STORAGE] upload %s failed: %v", key, err)
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	log.Printf("[STORAGE] uploaded %s (%d bytes, %q)", key, len(data), in.Filename)

	return &StoredPDF{
		URL:      g.bucket.PublicURL(key),
		Filename: in.Filename,
		Key:      key,
	}, nil
}

// Remove deletes an object, falling back to the last URL segment for rows
// that predate stored keys. Failures are logged, never returned.
func (g *PDFGateway) Remove(ctx context.Context, key, publicURL *string) {
	k := ""
	switch {
	case key != nil && *key != "":
		k = *key
	case publicURL != nil && *publicURL != "":
		var err error
		if k, err = storage.KeyFromURL(*publicURL); err != nil {
			log.Printf("[STORAGE] cannot derive key: %v", err)
			return
		}
	default:
		return
	}
	if err := g.bucket.Remove(ctx, k); err != nil {
		log.Printf("[STORAGE] remove %s failed: %v", k, err)
		return
	}
	log.Printf("[STORAGE] removed %s", k)
}

func declaredPDF(ct string) bool {
	if strings.TrimSpace(ct) == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	// Some browsers send octet-stream for files dragged in; the sniff decides.
	return mt == pdfMIME || mt == "application/octet-stream"
}

// NewObjectKey is "<unix millis>-<random base36>.pdf". It avoids collisions
// in practice and makes no stronger promise.
func NewObjectKey(now time.Time) string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	suffix := strconv.FormatUint(binary.BigEndian.Uint64(b[:])>>24, 36)
	return fmt.Sprintf("%d-%s.pdf", now.UnixMilli(), suffix)
}
