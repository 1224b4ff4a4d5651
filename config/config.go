package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Mode string `mapstructure:"mode" json:"mode,omitempty"`

	Server struct {
		Host       string        `mapstructure:"host" json:"host,omitempty"`
		Port       int64         `mapstructure:"port" json:"port,omitempty"`
		CSRFKey    string        `mapstructure:"csrf_key" json:"csrf_key,omitempty"`
		SessionTTL time.Duration `mapstructure:"session_ttl" json:"session_ttl,omitempty"`
	} `mapstructure:"server" json:"server"`

	// Api points at the review backend. Both the admin listing and the
	// feedback submission use the same base URL.
	Api struct {
		BaseURL string        `mapstructure:"base_url" json:"base_url,omitempty"`
		Timeout time.Duration `mapstructure:"timeout" json:"timeout,omitempty"`
	} `mapstructure:"api" json:"api"`

	Viewer struct {
		PageSize   int    `mapstructure:"page_size" json:"page_size,omitempty"`
		DateLayout string `mapstructure:"date_layout" json:"date_layout,omitempty"`
		Timezone   string `mapstructure:"timezone" json:"timezone,omitempty"`
	} `mapstructure:"viewer" json:"viewer"`

	Redis struct {
		Host     string `mapstructure:"host" json:"host,omitempty"`
		Port     string `mapstructure:"port" json:"port,omitempty"`
		User     string `mapstructure:"user" json:"user,omitempty"`
		Password string `mapstructure:"password" json:"password,omitempty"`
		DB       int    `mapstructure:"db" json:"db,omitempty"`
	} `mapstructure:"redis" json:"redis,omitempty"`

	Datadog struct {
		Host string `mapstructure:"host" json:"host,omitempty"`
		Port string `mapstructure:"port" json:"port,omitempty"`
	} `mapstructure:"datadog" json:"datadog"`

	Log struct {
		Level string `mapstructure:"level" json:"level,omitempty"`
	} `mapstructure:"log" json:"log"`
}

func GetConfigure() (*Config, error) {
	configName := os.Getenv("FP_CONFIG_NAME")
	if configName == "" {
		configName = "config"
	}

	return ReadConfig(configName, ".")
}

func ReadConfig(configName string, paths ...string) (*Config, error) {
	// .env only fills variables that are not set yet
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName(configName)
	for _, path := range paths {
		v.AddConfigPath(path)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("fail to reading config file, %w", err)
		}
	}
	var cfg Config
	err := v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "portal")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.csrf_key", "")
	v.SetDefault("server.session_ttl", 24*time.Hour)
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("viewer.page_size", 100)
	v.SetDefault("viewer.date_layout", "1/2/2006, 3:04:05 PM")
	v.SetDefault("viewer.timezone", "Local")
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.user", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("datadog.host", "")
	v.SetDefault("datadog.port", "8125")
	v.SetDefault("log.level", "info")
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Api.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q", c.Api.BaseURL)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Server.CSRFKey != "" && len(c.Server.CSRFKey) != 32 {
		return fmt.Errorf("server.csrf_key must be 32 bytes long")
	}
	if c.Viewer.PageSize < 0 {
		return fmt.Errorf("invalid viewer.page_size %d", c.Viewer.PageSize)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves viewer.timezone, empty means the server's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Viewer.Timezone == "" || c.Viewer.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Viewer.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid viewer.timezone %q: %w", c.Viewer.Timezone, err)
	}
	return loc, nil
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

func (c *Config) DatadogEnabled() bool {
	return c.Datadog.Host != ""
}
