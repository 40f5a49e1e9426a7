package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 30*time.Second, cfg.TimeoutDuration())
	assert.True(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL())
	assert.False(t, cfg.GetAcceptAllStatuses())
	assert.False(t, cfg.GetHistoryEnabled())
	assert.Equal(t, ":8811", cfg.Server.Addr)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.True(t, cfg.IsDefault())
	assert.NoError(t, cfg.Validate())
}

func TestGettersOnZeroConfig(t *testing.T) {
	var cfg Config

	assert.True(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL())
	assert.False(t, cfg.GetAcceptAllStatuses())
	assert.False(t, cfg.GetNoColor())
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".reqline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
timeout: 5000
followRedirects: false
acceptAllStatuses: true
headers:
  X-Api-Key: secret
variables:
  host: https://api.example.com
server:
  addr: 127.0.0.1:9000
history:
  enabled: true
  path: /tmp/h.db
log:
  level: debug
  format: json
`), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.TimeoutDuration())
	assert.False(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL(), "unset values keep their defaults")
	assert.True(t, cfg.GetAcceptAllStatuses())
	assert.Equal(t, "secret", cfg.Headers["X-Api-Key"])
	assert.Equal(t, "https://api.example.com", cfg.Variables["host"])
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.True(t, cfg.GetHistoryEnabled())
	assert.Equal(t, "/tmp/h.db", cfg.History.Path)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
	assert.Equal(t, DefaultMaxRedirects, cfg.MaxRedirects)
	assert.False(t, cfg.IsDefault())
}

func TestFindAndLoadConfig_LookupOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reqline.yaml"), []byte("timeout: 2000\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".reqlinerc"), []byte("timeout: 3000\n"), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 2000, cfg.Timeout)
}

func TestFindAndLoadConfig_NoFile(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.IsDefault())
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("timeout: [1, 2"), 0644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("log:\n  format: xml\n"), 0644))
	_, err = LoadConfig(invalid)
	assert.ErrorContains(t, err, "unknown log format")
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Headers = map[string]string{"A": "1", "B": "2"}
	base.Variables = map[string]string{"host": "a"}

	merged := base.Merge(&Config{
		Timeout:     1000,
		ValidateSSL: BoolPtr(false),
		Headers:     map[string]string{"B": "3"},
		Variables:   map[string]string{"id": "7"},
		Log:         LogConfig{Level: "warn"},
	})

	assert.Equal(t, 1000, merged.Timeout)
	assert.False(t, merged.GetValidateSSL())
	assert.True(t, merged.GetFollowRedirects())
	assert.Equal(t, map[string]string{"A": "1", "B": "3"}, merged.Headers)
	assert.Equal(t, map[string]string{"host": "a", "id": "7"}, merged.Variables)
	assert.Equal(t, "warn", merged.Log.Level)
	assert.Equal(t, "text", merged.Log.Format)

	assert.Equal(t, "2", base.Headers["B"], "merge does not mutate the receiver")
	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reqline.yaml")

	cfg := DefaultConfig()
	cfg.Proxy = "http://proxy:8080"
	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://proxy:8080", loaded.Proxy)
	assert.Equal(t, cfg.Server, loaded.Server)
}
