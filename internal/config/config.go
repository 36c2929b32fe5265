package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Tracker   TrackerConfig   `yaml:"tracker"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type TrackerConfig struct {
	SchedulePath   string `yaml:"schedule_path"`
	CatalogPath    string `yaml:"catalog_path"`
	ExportPath     string `yaml:"export_path"`
	ExportFormat   string `yaml:"export_format"`
	RecommendCount int    `yaml:"recommend_count"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File, when set, sends logs to a size-rotated file instead of stdout.
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 8080},
		Tailscale: TailscaleConfig{
			Hostname: "weeklog",
			StateDir: ".tsnet",
		},
		Tracker: TrackerConfig{
			SchedulePath:   "week.txt",
			CatalogPath:    "catalog.yaml",
			ExportPath:     "week-export.txt",
			ExportFormat:   "text",
			RecommendCount: 3,
		},
		Log: LogConfig{Level: "info", Format: "text", MaxSizeMB: 50},
	}
}

// Load reads config from a YAML file on top of Default(), then applies
// environment variable overrides. An empty path skips the file.
// Env vars use the prefix WEEKLOG_:
//
//	WEEKLOG_SERVER_HOST, WEEKLOG_SERVER_PORT, WEEKLOG_AUTH_API_KEY,
//	WEEKLOG_TAILSCALE_ENABLED, WEEKLOG_TAILSCALE_HOSTNAME,
//	WEEKLOG_SCHEDULE_PATH, WEEKLOG_CATALOG_PATH, WEEKLOG_EXPORT_PATH,
//	WEEKLOG_EXPORT_FORMAT, WEEKLOG_RECOMMEND_COUNT,
//	WEEKLOG_LOG_LEVEL, WEEKLOG_LOG_FORMAT, WEEKLOG_LOG_FILE
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WEEKLOG_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("WEEKLOG_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WEEKLOG_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("WEEKLOG_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("WEEKLOG_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("WEEKLOG_SCHEDULE_PATH"); v != "" {
		cfg.Tracker.SchedulePath = v
	}
	if v := os.Getenv("WEEKLOG_CATALOG_PATH"); v != "" {
		cfg.Tracker.CatalogPath = v
	}
	if v := os.Getenv("WEEKLOG_EXPORT_PATH"); v != "" {
		cfg.Tracker.ExportPath = v
	}
	if v := os.Getenv("WEEKLOG_EXPORT_FORMAT"); v != "" {
		cfg.Tracker.ExportFormat = v
	}
	if v := os.Getenv("WEEKLOG_RECOMMEND_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Tracker.RecommendCount = n
		}
	}
	if v := os.Getenv("WEEKLOG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("WEEKLOG_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("WEEKLOG_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Tracker.RecommendCount < 1 {
		return fmt.Errorf("tracker.recommend_count must be at least 1")
	}
	switch c.Tracker.ExportFormat {
	case "text", "records":
	default:
		return fmt.Errorf("tracker.export_format must be text or records, got %q", c.Tracker.ExportFormat)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Log.File != "" && c.Log.MaxSizeMB < 1 {
		return fmt.Errorf("log.max_size_mb must be at least 1 when log.file is set")
	}
	return nil
}
