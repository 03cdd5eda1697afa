package providers

import (
	"plantao/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 5000,
		},
		Site: structures.Site{Dir: "/srv/plantao"},
		Persistence: structures.Persistence{
			DataDir:  "/srv/plantao/data",
			FileName: "plantao.json",
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_PortOutOfRange(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 70000
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyFileName(t *testing.T) {
	c := validConfig()
	c.Persistence.FileName = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_RateLimitNeedsWindow(t *testing.T) {
	c := validConfig()
	c.RateLimit = structures.RateLimitConfig{Enabled: true, Requests: 10}
	assert.Error(t, NewCnfValidator(c).Validate())

	c.RateLimit.Window = time.Minute
	assert.NoError(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_SnapshotNeedsInterval(t *testing.T) {
	c := validConfig()
	c.Snapshot = structures.SnapshotConfig{Enabled: true, Dir: "/tmp/snap"}
	assert.Error(t, NewCnfValidator(c).Validate())

	c.Snapshot.Interval = time.Hour
	assert.NoError(t, NewCnfValidator(c).Validate())

	c.Snapshot.Dir = ""
	assert.Error(t, NewCnfValidator(c).Validate())
}
