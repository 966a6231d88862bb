package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)

	assert.Equal(t, "./templates", cfg.TemplateDir)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.False(t, cfg.TLS.Enable)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeSettings(t, `{
		"template_dir": "/srv/templates",
		"server": {"address": ":9090", "read_timeout": "30s"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/templates", cfg.TemplateDir)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	// Unset keys keep their defaults.
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeSettings(t, `{"template_dir": "/srv/templates"}`)
	t.Setenv("SCIWYRM_TEMPLATE_DIR", "/env/templates")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/env/templates", cfg.TemplateDir)
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := writeSettings(t, `{not json`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigEmptyTemplateDir(t *testing.T) {
	path := writeSettings(t, `{"template_dir": ""}`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigTLS(t *testing.T) {
	path := writeSettings(t, `{
		"tls": {
			"enable": true,
			"cert_file": "/certs/server.crt",
			"key_file": "/certs/server.key",
			"hostnames": ["sciwyrm.example.org"]
		}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.TLS.Enable)
	assert.Equal(t, "/certs/server.crt", cfg.TLS.CertFile)
	assert.Equal(t, "/certs/server.key", cfg.TLS.KeyFile)
	assert.Equal(t, []string{"sciwyrm.example.org"}, cfg.TLS.Hostnames)
}
