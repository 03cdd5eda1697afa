package providers

import (
	"os"
	"path/filepath"
	"plantao/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNewConfigProvider_Defaults(t *testing.T) {
	site := t.TempDir()
	conf, err := NewConfigProvider(&structures.CliFlags{SiteDir: site})
	require.NoError(t, err)

	assert.Equal(t, AppName, conf.AppName)
	assert.Equal(t, "0.0.0.0", conf.WebServer.Host)
	assert.Equal(t, 5000, conf.WebServer.Port)
	assert.Equal(t, site, conf.Site.Dir)
	assert.Equal(t, filepath.Join(site, "data"), conf.Persistence.DataDir)
	assert.Equal(t, filepath.Join(site, "data", "plantao.json"), RecordPath(conf))
	assert.Equal(t, filepath.Join(site, "data", "logs"), conf.Logger.Dir)
	assert.Equal(t, filepath.Join(site, "data", "snapshots"), conf.Snapshot.Dir)
	assert.Equal(t, "*", conf.Cors.AllowOrigin)
	assert.True(t, conf.Watcher.Enabled)
	assert.False(t, conf.Cache.Enabled)

	_, err = os.Stat(conf.Logger.Dir)
	assert.NoError(t, err)
}

func TestNewConfigProvider_MissingFileUsesDefaults(t *testing.T) {
	conf, err := NewConfigProvider(&structures.CliFlags{
		ConfigPath: filepath.Join(t.TempDir(), "absent.yaml"),
		SiteDir:    t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, 5000, conf.WebServer.Port)
}

func TestNewConfigProvider_ReadsYaml(t *testing.T) {
	data := t.TempDir()
	path := writeConfig(t, `
webServer:
  host: 127.0.0.1
  port: 8088
persistence:
  dataDir: `+data+`
  fileName: escala.json
record:
  supportContact:
    name: MARIA
    phone: "555-0100"
rateLimit:
  enabled: true
  requests: 5
  window: 30s
snapshot:
  enabled: true
  interval: 15m
  keep: 3
`)
	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, SiteDir: t.TempDir(), DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", conf.WebServer.Host)
	assert.Equal(t, 8088, conf.WebServer.Port)
	assert.Equal(t, filepath.Join(data, "escala.json"), RecordPath(conf))
	assert.Equal(t, "MARIA", conf.Record.SupportContact.Name)
	assert.Equal(t, "555-0100", conf.Record.SupportContact.Phone)
	assert.Equal(t, 30*time.Second, conf.RateLimit.Window)
	assert.Equal(t, 15*time.Minute, conf.Snapshot.Interval)
	assert.Equal(t, 3, conf.Snapshot.Keep)
	assert.True(t, conf.Debug)
	assert.Equal(t, path, conf.Path)
}

func TestNewConfigProvider_EnvAndFlagsOverride(t *testing.T) {
	t.Setenv("PLANTAO_HOST", "10.0.0.1")
	t.Setenv("PLANTAO_PORT", "7000")
	path := writeConfig(t, "webServer:\n  host: 127.0.0.1\n  port: 8088\n")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, SiteDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", conf.WebServer.Host)
	assert.Equal(t, 7000, conf.WebServer.Port)

	conf, err = NewConfigProvider(&structures.CliFlags{ConfigPath: path, SiteDir: t.TempDir(), Port: 9000})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", conf.WebServer.Host)
	assert.Equal(t, 9000, conf.WebServer.Port)
}

func TestNewConfigProvider_InvalidYaml(t *testing.T) {
	path := writeConfig(t, "webServer: [\n")
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, SiteDir: t.TempDir()})
	assert.Error(t, err)
}

func TestNewConfigProvider_InvalidValues(t *testing.T) {
	path := writeConfig(t, "logger:\n  level: verbose\n")
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, SiteDir: t.TempDir()})
	assert.Error(t, err)
}
