package providers

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"plantao/internal/structures"
	"time"

	"github.com/spf13/viper"
)

const AppName = "PlantaoHost"

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 5000)
	v.SetDefault("persistence.fileName", "plantao.json")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.maxSizeMB", 10)
	v.SetDefault("logger.maxBackups", 5)
	v.SetDefault("logger.maxAgeDays", 30)
	v.SetDefault("cache.size", 8)
	v.SetDefault("cache.ttl", 60)
	v.SetDefault("cors.allowOrigin", "*")
	v.SetDefault("rateLimit.requests", 60)
	v.SetDefault("rateLimit.window", time.Minute)
	v.SetDefault("rateLimit.burst", 10)
	v.SetDefault("snapshot.interval", time.Hour)
	v.SetDefault("snapshot.keep", 24)
	v.SetDefault("watcher.enabled", true)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	v.BindEnv("webServer.host", "PLANTAO_HOST")
	v.BindEnv("webServer.port", "PLANTAO_PORT")
	v.BindEnv("site.dir", "PLANTAO_SITE_DIR")
	v.BindEnv("persistence.dataDir", "PLANTAO_DATA_DIR")
	v.BindEnv("logger.level", "PLANTAO_LOG_LEVEL")
	v.BindEnv("cache.enabled", "PLANTAO_CACHE_ENABLED")
	v.BindEnv("metrics.enabled", "PLANTAO_METRICS_ENABLED")

	if flags.ConfigPath != "" {
		v.SetConfigFile(flags.ConfigPath)
		v.SetConfigType("yaml")
		err := v.ReadInConfig()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if flags.Host != "" {
		v.Set("webServer.host", flags.Host)
	}
	if flags.Port != 0 {
		v.Set("webServer.port", flags.Port)
	}
	if flags.SiteDir != "" {
		v.Set("site.dir", flags.SiteDir)
	}
	if flags.DataDir != "" {
		v.Set("persistence.dataDir", flags.DataDir)
	}

	err := v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if err = resolvePaths(&conf); err != nil {
		return nil, err
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{conf.Persistence.DataDir, conf.Logger.Dir} {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("unable to create %s: %w", dir, err)
		}
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

// resolvePaths makes directories absolute and derives the ones left empty:
// site dir defaults to the working directory, everything else lives under
// the data dir.
func resolvePaths(conf *structures.Config) error {
	if conf.Site.Dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("unable to resolve working directory: %w", err)
		}
		conf.Site.Dir = wd
	}
	site, err := filepath.Abs(conf.Site.Dir)
	if err != nil {
		return err
	}
	conf.Site.Dir = site

	if conf.Persistence.DataDir == "" {
		conf.Persistence.DataDir = filepath.Join(conf.Site.Dir, "data")
	}
	if conf.Persistence.DataDir, err = filepath.Abs(conf.Persistence.DataDir); err != nil {
		return err
	}
	if conf.Logger.Dir == "" {
		conf.Logger.Dir = filepath.Join(conf.Persistence.DataDir, "logs")
	}
	if conf.Snapshot.Dir == "" {
		conf.Snapshot.Dir = filepath.Join(conf.Persistence.DataDir, "snapshots")
	}
	return nil
}

// RecordPath is the location of the record file.
func RecordPath(conf *structures.Config) string {
	return filepath.Join(conf.Persistence.DataDir, conf.Persistence.FileName)
}
