package storage

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kizuna_web/internals/configs"
)

func TestKeyFromURL(t *testing.T) {
	cases := map[string]string{
		"https://files.example.com/public/job-pdfs/1712-abc.pdf":          "1712-abc.pdf",
		"https://bucket.oss-ap-northeast-1.aliyuncs.com/job-pdfs/1-z.pdf": "1-z.pdf",
		"https://cdn.example.com/1-z.pdf?download=1":                      "1-z.pdf",
	}
	for in, want := range cases {
		got, err := KeyFromURL(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := KeyFromURL("https://cdn.example.com/")
	assert.Error(t, err)
}

func TestJoinKey(t *testing.T) {
	assert.Equal(t, "job-pdfs/a.pdf", joinKey("/job-pdfs/", "a.pdf"))
	assert.Equal(t, "a.pdf", joinKey("", "a.pdf"))
}

func TestMemoryBucket(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBucket("https://files.test/")

	require.NoError(t, b.Upload(ctx, "k.pdf", bytes.NewReader([]byte("%PDF-1.4")), 8, "application/pdf"))
	assert.Equal(t, "https://files.test/k.pdf", b.PublicURL("k.pdf"))
	obj, ok := b.Get("k.pdf")
	require.True(t, ok)
	assert.Equal(t, "application/pdf", obj.ContentType)

	require.NoError(t, b.Remove(ctx, "k.pdf"))
	assert.Error(t, b.Remove(ctx, "k.pdf"))
	assert.Empty(t, b.Keys())
	assert.Equal(t, 1, b.Uploads)
}

func TestOpen_RejectsUnknownDrivers(t *testing.T) {
	_, err := Open(context.Background(), &configs.Settings{StorageDriver: "ftp"})
	assert.Error(t, err)

	_, err = Open(context.Background(), &configs.Settings{StorageDriver: "memory", AppEnv: "production"})
	assert.Error(t, err)

	b, err := Open(context.Background(), &configs.Settings{StorageDriver: "memory", AppEnv: "development", Port: "3000"})
	require.NoError(t, err)
	assert.Equal(t, "memory", b.Name())
}

func TestOpen_OSSNeedsCredentials(t *testing.T) {
	_, err := Open(context.Background(), &configs.Settings{StorageDriver: "oss"})
	assert.ErrorContains(t, err, "missing env")
}
