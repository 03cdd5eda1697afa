package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1|max:65535"`
}

type Site struct {
	Dir string `yaml:"dir" validate:"required"`
}

type Persistence struct {
	DataDir  string `yaml:"dataDir" validate:"required"`
	FileName string `yaml:"fileName" validate:"required"`
}

type LoggerConfig struct {
	Level      string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode       uint32 `yaml:"mode" validate:"required|uint"`
	Dir        string `yaml:"dir" validate:"required"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

type SupportContactConfig struct {
	Name     string `yaml:"name"`
	Whatsapp string `yaml:"whatsapp"`
	Phone    string `yaml:"phone"`
	Email    string `yaml:"email"`
	Note     string `yaml:"note"`
}

type RecordConfig struct {
	SupportContact SupportContactConfig `yaml:"supportContact"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type CorsConfig struct {
	AllowOrigin string `yaml:"allowOrigin"`
}

type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
	Burst    int           `yaml:"burst"`
}

type SnapshotConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Dir      string        `yaml:"dir"`
	Interval time.Duration `yaml:"interval"`
	Keep     int           `yaml:"keep"`
}

type WatcherConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server          `yaml:"webServer"`
	Site        Site            `yaml:"site"`
	Persistence Persistence     `yaml:"persistence"`
	Record      RecordConfig    `yaml:"record"`
	Logger      LoggerConfig    `yaml:"logger"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	Cors        CorsConfig      `yaml:"cors"`
	RateLimit   RateLimitConfig `yaml:"rateLimit"`
	Snapshot    SnapshotConfig  `yaml:"snapshot"`
	Watcher     WatcherConfig   `yaml:"watcher"`
}
