package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Version is set at build time.
var Version = "dev"

// Server roles.
const (
	ModeAll      = "all"
	ModeGateway  = "gateway"
	ModeFrontend = "frontend"
)

var ErrGatewayURLMissing = errors.New("gateway.base_url is required when running the frontend without a local gateway")

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Gateway  GatewayConfig  `mapstructure:"gateway" yaml:"gateway"`
	TMDB     TMDBConfig     `mapstructure:"tmdb" yaml:"tmdb"`
	Frontend FrontendConfig `mapstructure:"frontend" yaml:"frontend"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
	// Mode selects which roles this process serves: all, gateway or frontend.
	Mode string `mapstructure:"mode" yaml:"mode"`
	// RequestsPerMinute caps /search and /suggest calls per client IP.
	RequestsPerMinute int `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
}

// GatewayConfig tells the frontend where the search gateway lives.
type GatewayConfig struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	Timeout        int    `mapstructure:"timeout" yaml:"timeout"`
	MaxListResults int    `mapstructure:"max_list_results" yaml:"max_list_results"`
}

// TMDBConfig holds TMDB API configuration. Only the gateway role uses it.
type TMDBConfig struct {
	APIKey            string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL           string  `mapstructure:"base_url" yaml:"base_url"`
	WebBaseURL        string  `mapstructure:"web_base_url" yaml:"web_base_url"`
	Language          string  `mapstructure:"language" yaml:"language"`
	Region            string  `mapstructure:"region" yaml:"region"`
	Timeout           int     `mapstructure:"timeout" yaml:"timeout"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	ScrapeWatchPage   bool    `mapstructure:"scrape_watch_page" yaml:"scrape_watch_page"`
	UseMock           bool    `mapstructure:"use_mock" yaml:"use_mock"`
}

// FrontendConfig holds search view tuning.
type FrontendConfig struct {
	BlurDelay          time.Duration `mapstructure:"blur_delay" yaml:"blur_delay"`
	RevealStep         int           `mapstructure:"reveal_step" yaml:"reveal_step"`
	SessionIdleTimeout time.Duration `mapstructure:"session_idle_timeout" yaml:"session_idle_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			Mode:              ModeAll,
			RequestsPerMinute: 120,
		},
		Gateway: GatewayConfig{
			Timeout:        15,
			MaxListResults: 10,
		},
		TMDB: TMDBConfig{
			APIKey:            EmbeddedTMDBKey,
			BaseURL:           "https://api.themoviedb.org/3",
			WebBaseURL:        "https://www.themoviedb.org",
			Language:          "it-IT",
			Region:            "IT",
			Timeout:           15,
			RequestsPerSecond: 40,
			ScrapeWatchPage:   true,
		},
		Frontend: FrontendConfig{
			BlurDelay:          150 * time.Millisecond,
			RevealStep:         3,
			SessionIdleTimeout: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults.
// A .env file in the working directory is loaded into the environment first.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.cinefinder")
	}

	v.SetEnvPrefix("CINEFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.resolveGateway(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.requests_per_minute", d.Server.RequestsPerMinute)

	// No default base URL: it must come from config or env, or from the local listener.
	v.SetDefault("gateway.base_url", "")
	v.SetDefault("gateway.timeout", d.Gateway.Timeout)
	v.SetDefault("gateway.max_list_results", d.Gateway.MaxListResults)

	v.SetDefault("tmdb.api_key", d.TMDB.APIKey)
	v.SetDefault("tmdb.base_url", d.TMDB.BaseURL)
	v.SetDefault("tmdb.web_base_url", d.TMDB.WebBaseURL)
	v.SetDefault("tmdb.language", d.TMDB.Language)
	v.SetDefault("tmdb.region", d.TMDB.Region)
	v.SetDefault("tmdb.timeout", d.TMDB.Timeout)
	v.SetDefault("tmdb.requests_per_second", d.TMDB.RequestsPerSecond)
	v.SetDefault("tmdb.scrape_watch_page", d.TMDB.ScrapeWatchPage)
	v.SetDefault("tmdb.use_mock", d.TMDB.UseMock)

	v.SetDefault("frontend.blur_delay", d.Frontend.BlurDelay)
	v.SetDefault("frontend.reveal_step", d.Frontend.RevealStep)
	v.SetDefault("frontend.session_idle_timeout", d.Frontend.SessionIdleTimeout)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", d.Logging.Path)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", d.Logging.Compress)
}

// resolveGateway validates the mode and fills the gateway base URL when the
// gateway runs in this same process.
func (c *Config) resolveGateway() error {
	switch c.Server.Mode {
	case ModeAll, ModeGateway, ModeFrontend:
	default:
		return fmt.Errorf("invalid server.mode %q", c.Server.Mode)
	}

	c.Gateway.BaseURL = strings.TrimRight(c.Gateway.BaseURL, "/")
	if c.Gateway.BaseURL != "" {
		return nil
	}

	switch c.Server.Mode {
	case ModeFrontend:
		return ErrGatewayURLMissing
	case ModeAll:
		c.Gateway.BaseURL = "http://" + net.JoinHostPort(c.Server.DialHost(), strconv.Itoa(c.Server.Port))
	}
	return nil
}

// DialHost is the address this process reaches its own listener on.
// Wildcard binds are reached through loopback.
func (c *ServerConfig) DialHost() string {
	switch c.Host {
	case "", "0.0.0.0", "::", "[::]":
		return "127.0.0.1"
	}
	return strings.Trim(c.Host, "[]")
}

// ServesGateway reports whether the /search and /suggest routes are mounted.
func (c *ServerConfig) ServesGateway() bool {
	return c.Mode == ModeAll || c.Mode == ModeGateway
}

// ServesFrontend reports whether the HTML pages are mounted.
func (c *ServerConfig) ServesFrontend() bool {
	return c.Mode == ModeAll || c.Mode == ModeFrontend
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Dump renders the effective configuration as YAML with secrets masked.
func Dump(cfg *Config) ([]byte, error) {
	masked := *cfg
	if masked.TMDB.APIKey != "" {
		masked.TMDB.APIKey = "********"
	}
	out, err := yaml.Marshal(&masked)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return out, nil
}
