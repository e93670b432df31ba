package httpapi_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zzptax/zzptax/internal/adapters/inbound/httpapi"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ZZPTAX_ADDR", "LOG_LEVEL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	clearEnv(t)

	s, warnings := httpapi.LoadSettings(filepath.Join(t.TempDir(), ".env"))
	assert.Empty(t, warnings)
	assert.Equal(t, httpapi.DefaultSettings(), s)
}

func TestLoadSettings_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ZZPTAX_ADDR", "127.0.0.1:9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "5")

	s, warnings := httpapi.LoadSettings("")
	assert.Empty(t, warnings)
	assert.Equal(t, "127.0.0.1:9090", s.Addr)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 2.5, s.RateLimitRPS)
	assert.Equal(t, 5, s.RateLimitBurst)
}

func TestLoadSettings_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_RPS", "fast")
	t.Setenv("RATE_LIMIT_BURST", "0")

	s, warnings := httpapi.LoadSettings("")
	assert.Len(t, warnings, 2)
	assert.Equal(t, float64(10), s.RateLimitRPS)
	assert.Equal(t, 30, s.RateLimitBurst)
}

func TestLoadSettings_DotEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ZZPTAX_ADDR=:7070\nRATE_LIMIT_BURST=12\n"), 0644))
	t.Setenv("RATE_LIMIT_BURST", "3")

	s, warnings := httpapi.LoadSettings(envFile)
	assert.Empty(t, warnings)
	assert.Equal(t, ":7070", s.Addr)
	assert.Equal(t, 3, s.RateLimitBurst, "the process environment wins over .env")
}
