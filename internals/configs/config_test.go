package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_TrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "")
	assert.Empty(t, FromEnv().TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, 172.16.0.1 ,")
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.1"}, FromEnv().TrustedProxies)
}

func TestFromEnv_BadIntegersFallBack(t *testing.T) {
	t.Setenv("PDF_MAX_BYTES", "lots")
	t.Setenv("SESSION_TTL_HOURS", "-2")
	s := FromEnv()
	assert.Equal(t, int64(10*1024*1024), s.PDFMaxBytes)
	assert.Equal(t, 24, int(s.SessionTTL.Hours()))
}
