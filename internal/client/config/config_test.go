package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"kelascli"}, args...)
}

func TestLoadConfig_Defaults(t *testing.T) {
	setArgs(t)

	cfg := LoadConfig()

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "session.db", cfg.SessionDBPath)
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	setArgs(t)
	t.Setenv("INFOKELAS_API_BASE_URL", "http://localhost:8080/api")
	t.Setenv("INFOKELAS_REQUEST_TIMEOUT", "3s")
	t.Setenv("INFOKELAS_SESSION_DB", "/tmp/s.db")

	cfg := LoadConfig()

	assert.Equal(t, "http://localhost:8080/api", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "/tmp/s.db", cfg.SessionDBPath)
}

func TestLoadConfig_InvalidTimeoutEnvIgnored(t *testing.T) {
	setArgs(t)
	t.Setenv("INFOKELAS_REQUEST_TIMEOUT", "soon")

	cfg := LoadConfig()
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_JsonFileOverridesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"api_base_url":"http://json:9999/api","request_timeout":"7s"}`), 0o600))

	setArgs(t, "-c", path)
	t.Setenv("INFOKELAS_API_BASE_URL", "http://env:8080/api")

	cfg := LoadConfig()

	assert.Equal(t, "http://json:9999/api", cfg.APIBaseURL)
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
	// Field absent from the file keeps the earlier value.
	assert.Equal(t, "session.db", cfg.SessionDBPath)
}

func TestLoadConfig_FlagsWinOverEverything(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_base_url":"http://json:9999/api"}`), 0o600))

	setArgs(t, "-c", path, "-a", "http://flag:7777/api", "-t", "30", "-d", "flag.db")
	t.Setenv("INFOKELAS_API_BASE_URL", "http://env:8080/api")

	cfg := LoadConfig()

	assert.Equal(t, "http://flag:7777/api", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "flag.db", cfg.SessionDBPath)
}
