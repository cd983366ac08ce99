package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the Canvas MCP server.
type Config struct {
	AppName        string
	AppEnv         string
	HTTPPort       string
	BaseURL        string `validate:"required,url"`
	APIToken       string `validate:"required"`
	RequestTimeout time.Duration
	PageSize       int
}

// HTTPAddress returns the address the HTTP bridge should listen on, or an
// empty string when the bridge is disabled.
func (c Config) HTTPAddress() string {
	if c.HTTPPort == "" {
		return ""
	}
	if strings.HasPrefix(c.HTTPPort, ":") {
		return c.HTTPPort
	}

	return fmt.Sprintf(":%s", c.HTTPPort)
}

// Load reads configuration values from environment variables and optional .env file.
// A missing API token is a fatal startup condition surfaced here, not per call.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CANVAS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Canvas MCP")
	v.SetDefault("app.env", "development")
	v.SetDefault("http.port", "3000")
	v.SetDefault("base.url", "https://canvas.instructure.com")
	v.SetDefault("request_timeout_ms", 15000)
	v.SetDefault("page.size", 50)

	timeoutMs := v.GetInt("request_timeout_ms")
	if timeoutMs <= 0 {
		timeoutMs = 15000
	}

	cfg := Config{
		AppName:        v.GetString("app.name"),
		AppEnv:         v.GetString("app.env"),
		HTTPPort:       v.GetString("http.port"),
		BaseURL:        strings.TrimRight(v.GetString("base.url"), "/"),
		APIToken:       v.GetString("api.token"),
		RequestTimeout: time.Duration(timeoutMs) * time.Millisecond,
		PageSize:       v.GetInt("page.size"),
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
