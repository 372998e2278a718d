package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/viewroute/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "viewroute.json"

	// DefaultManifest is the default route manifest path.
	DefaultManifest = "routes.yaml"

	// DefaultPort is the default preview server port.
	DefaultPort = 4000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultMetricsPath is where the preview server exposes Prometheus metrics.
	DefaultMetricsPath = "/metrics"

	// DefaultScriptTimeout bounds a single component script run.
	DefaultScriptTimeout = "250ms"
)

// Config represents the complete viewroute.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Manifest is the route manifest location: a path relative to the
	// config file, an absolute path, or an s3://bucket/key URL.
	Manifest string `json:"manifest,omitempty"`

	// BasePath overrides the manifest's base path when set.
	BasePath string `json:"basePath,omitempty"`

	// Preview contains preview server configuration.
	Preview PreviewConfig `json:"preview,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// S3 configures manifest loading from S3.
	S3 S3Config `json:"s3,omitempty"`

	// Scripts configures component scripts.
	Scripts ScriptsConfig `json:"scripts,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// PreviewConfig contains preview server settings.
type PreviewConfig struct {
	// Port is the port to run the preview server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Metrics exposes Prometheus metrics on MetricsPath.
	Metrics bool `json:"metrics,omitempty"`

	// MetricsPath is the metrics endpoint (default: "/metrics").
	MetricsPath string `json:"metricsPath,omitempty"`

	// AllowedOrigins lists origins accepted for WebSocket upgrades.
	// Empty means same origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default: info).
	Level string `json:"level,omitempty"`

	// Format is text or json (default: text).
	Format string `json:"format,omitempty"`
}

// S3Config contains settings for s3:// manifests.
type S3Config struct {
	// Region is the AWS region of the bucket.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, for S3 compatible stores.
	Endpoint string `json:"endpoint,omitempty"`

	// UsePathStyle addresses buckets by path instead of subdomain.
	UsePathStyle bool `json:"usePathStyle,omitempty"`

	// Anonymous reads public buckets without signing requests.
	Anonymous bool `json:"anonymous,omitempty"`
}

// ScriptsConfig contains component script settings.
type ScriptsConfig struct {
	// Timeout bounds one script run (e.g., "250ms").
	Timeout string `json:"timeout,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Manifest: DefaultManifest,
		Preview: PreviewConfig{
			Port:        DefaultPort,
			Host:        DefaultHost,
			Metrics:     true,
			MetricsPath: DefaultMetricsPath,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Scripts: ScriptsConfig{
			Timeout: DefaultScriptTimeout,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for viewroute.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No viewroute.json found in " + filepath.Dir(path)).
				WithSuggestion("Create viewroute.json or pass --manifest")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse viewroute.json: " + err.Error()).
			WithSuggestion("Check that viewroute.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}

	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPort
	}
	if c.Preview.Host == "" {
		c.Preview.Host = DefaultHost
	}
	if c.Preview.MetricsPath == "" {
		c.Preview.MetricsPath = DefaultMetricsPath
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Scripts.Timeout == "" {
		c.Scripts.Timeout = DefaultScriptTimeout
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Preview.Port))
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return errors.Newf(errors.CategoryConfig, "unknown log format %q", c.Log.Format).
			WithSuggestion(`Use "text" or "json"`)
	}
	if _, err := c.ScriptTimeout(); err != nil {
		return err
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return errors.Newf(errors.CategoryConfig, "basePath %q must start with /", c.BasePath)
	}
	return nil
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.New("E123").WithDetail("Got " + strconv.Quote(c.Log.Level))
}

// ScriptTimeout parses Scripts.Timeout.
func (c *Config) ScriptTimeout() (time.Duration, error) {
	s := c.Scripts.Timeout
	if s == "" {
		s = DefaultScriptTimeout
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, errors.Newf(errors.CategoryConfig, "invalid scripts.timeout %q", c.Scripts.Timeout).
			WithSuggestion(`Use a Go duration such as "250ms"`)
	}
	return d, nil
}

// PreviewAddress returns the address string for the preview server.
func (c *Config) PreviewAddress() string {
	return net.JoinHostPort(c.Preview.Host, strconv.Itoa(c.Preview.Port))
}

// PreviewURL returns the full URL for the preview server.
func (c *Config) PreviewURL() string {
	return "http://" + c.PreviewAddress()
}

// ManifestPath returns the manifest location, resolving relative file paths
// against the config directory. S3 URLs are returned unchanged.
func (c *Config) ManifestPath() string {
	path := c.Manifest
	if path == "" {
		path = DefaultManifest
	}
	if strings.HasPrefix(path, "s3://") || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing viewroute.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No viewroute.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
