package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all cv-site configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Source   SourceConfig   `yaml:"source"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// HTTPConfig governs the fiber server.
type HTTPConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// SourceConfig says where the CV XML comes from. URL wins over Path.
type SourceConfig struct {
	Path     string `yaml:"path"`
	URL      string `yaml:"url"`
	Timeout  string `yaml:"timeout"`
	Retries  int    `yaml:"retries"`
	Watch    bool   `yaml:"watch"`
	Debounce string `yaml:"debounce"`
}

// SnapshotConfig configures the headless capture. An empty URL means the
// server's own page.
type SnapshotConfig struct {
	URL        string `yaml:"url"`
	OutputDir  string `yaml:"output_dir"`
	PDF        bool   `yaml:"pdf"`
	BaseHref   string `yaml:"base_href"`
	ChromePath string `yaml:"chrome_path"`
	Selector   string `yaml:"selector"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Settle     string `yaml:"settle"`
	Timeout    string `yaml:"timeout"`
	Attempts   int    `yaml:"attempts"`

	Meta MetaConfig `yaml:"meta"`
}

// MetaConfig holds the SEO tags injected into snapshots.
type MetaConfig struct {
	Description string `yaml:"description"`
	Keywords    string `yaml:"keywords"`
	Author      string `yaml:"author"`
	Title       string `yaml:"title"`
	SiteURL     string `yaml:"site_url"`
}

// StorageConfig selects the snapshot repository. An empty DatabaseURL keeps
// snapshots in memory.
type StorageConfig struct {
	DatabaseURL string `yaml:"database_url"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "10s",
			WriteTimeout:    "15s",
			ShutdownTimeout: "10s",
		},
		Source: SourceConfig{
			Path:     "data/cv-data.xml",
			Timeout:  "10s",
			Retries:  3,
			Debounce: "250ms",
		},
		Snapshot: SnapshotConfig{
			OutputDir: ".",
			BaseHref:  "/",
			Selector:  "main.cv[data-loaded]",
			Width:     1200,
			Height:    800,
			Settle:    "3s",
			Timeout:   "30s",
			Attempts:  3,
			Meta: MetaConfig{
				Description: "Professional CV showcasing skills, experience, and projects",
				Keywords:    "CV, Resume, Software Engineer, Professional",
				Title:       "Professional CV",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads defaults, then the optional YAML file at path, then environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		c.HTTP.Host = v
	}
	// SERVER_PORT wins over the platform-provided PORT.
	for _, key := range []string{"PORT", "SERVER_PORT"} {
		port, err := parsePort(key, c.HTTP.Port)
		if err != nil {
			return err
		}
		c.HTTP.Port = port
	}

	if v := os.Getenv("CV_SOURCE_PATH"); v != "" {
		c.Source.Path = v
	}
	if v := os.Getenv("CV_SOURCE_URL"); v != "" {
		c.Source.URL = v
	}
	c.Source.Watch = parseBoolWithDefault("CV_WATCH", c.Source.Watch)

	if v := os.Getenv("SNAPSHOT_URL"); v != "" {
		c.Snapshot.URL = v
	}
	if v := os.Getenv("SNAPSHOT_OUTPUT"); v != "" {
		c.Snapshot.OutputDir = v
	}
	c.Snapshot.PDF = parseBoolWithDefault("SNAPSHOT_PDF", c.Snapshot.PDF)
	if v := os.Getenv("SNAPSHOT_BASE_HREF"); v != "" {
		c.Snapshot.BaseHref = v
	}
	if v := os.Getenv("CHROME_PATH"); v != "" {
		c.Snapshot.ChromePath = v
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Storage.DatabaseURL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	return nil
}

// Validate checks ports and every duration string.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.HTTP.Port)
	}
	if c.Source.Path == "" && c.Source.URL == "" {
		return fmt.Errorf("no CV source configured: set source.path or source.url")
	}
	durations := map[string]string{
		"http.read_timeout":     c.HTTP.ReadTimeout,
		"http.write_timeout":    c.HTTP.WriteTimeout,
		"http.shutdown_timeout": c.HTTP.ShutdownTimeout,
		"source.timeout":        c.Source.Timeout,
		"source.debounce":       c.Source.Debounce,
		"snapshot.settle":       c.Snapshot.Settle,
		"snapshot.timeout":      c.Snapshot.Timeout,
	}
	for name, v := range durations {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

func duration(v string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func (c *Config) GetReadTimeout() time.Duration { return duration(c.HTTP.ReadTimeout, 10*time.Second) }

func (c *Config) GetWriteTimeout() time.Duration {
	return duration(c.HTTP.WriteTimeout, 15*time.Second)
}

func (c *Config) GetShutdownTimeout() time.Duration {
	return duration(c.HTTP.ShutdownTimeout, 10*time.Second)
}

func (c *Config) GetSourceTimeout() time.Duration { return duration(c.Source.Timeout, 10*time.Second) }

func (c *Config) GetDebounce() time.Duration {
	return duration(c.Source.Debounce, 250*time.Millisecond)
}

func (c *Config) GetSettleDelay() time.Duration { return duration(c.Snapshot.Settle, 3*time.Second) }

func (c *Config) GetSnapshotTimeout() time.Duration {
	return duration(c.Snapshot.Timeout, 30*time.Second)
}

func parsePort(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	port, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid %s: %d out of range", key, port)
	}
	return port, nil
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}
