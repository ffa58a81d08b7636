package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// APIKeyEnv is the environment variable holding the Gemini API key.
const APIKeyEnv = "GEMINI_API_KEY"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	CORS    CORSConfig
	Gemini  GeminiConfig
	Scraper ScraperConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// MaxUploadBytes returns the multipart body limit in bytes.
func (s *ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB * 1024 * 1024
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GeminiConfig holds settings for the Gemini generateContent client.
type GeminiConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	Model           string  `mapstructure:"model"`
	Endpoint        string  `mapstructure:"endpoint"`
	TimeoutSecs     int     `mapstructure:"timeout_secs"`
	Temperature     float64 `mapstructure:"temperature"`
	TopP            float64 `mapstructure:"top_p"`
	TopK            int     `mapstructure:"top_k"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens"`
	AttachImage     bool    `mapstructure:"attach_image"`
}

// ResolveAPIKey returns the API key, preferring the live GEMINI_API_KEY
// environment variable so that key rotation does not need a restart.
func (g *GeminiConfig) ResolveAPIKey() string {
	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		return key
	}
	return strings.TrimSpace(g.APIKey)
}

// ScraperConfig holds settings for the web table scraper.
type ScraperConfig struct {
	TimeoutSecs       int     `mapstructure:"timeout_secs"`
	UserAgent         string  `mapstructure:"user_agent"`
	MaxRows           int     `mapstructure:"max_rows"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// Load reads configuration from an optional .env file and environment
// variables with the ANALYST_ prefix.
func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ANALYST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 32)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "*")

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.endpoint", "")
	v.SetDefault("gemini.timeout_secs", 120)
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.top_p", 0.9)
	v.SetDefault("gemini.top_k", 40)
	v.SetDefault("gemini.max_output_tokens", 8192)
	v.SetDefault("gemini.attach_image", false)

	// Scraper defaults
	v.SetDefault("scraper.timeout_secs", 10)
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("scraper.max_rows", 100)
	v.SetDefault("scraper.requests_per_second", 0)
	v.SetDefault("scraper.burst", 1)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "ANALYST_SERVER_PORT",
		"server.read_timeout":         "ANALYST_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "ANALYST_SERVER_WRITE_TIMEOUT",
		"server.environment":          "ANALYST_SERVER_ENVIRONMENT",
		"server.max_upload_mb":        "ANALYST_SERVER_MAX_UPLOAD_MB",
		"log.level":                   "ANALYST_LOG_LEVEL",
		"log.format":                  "ANALYST_LOG_FORMAT",
		"cors.allowed_origins":        "ANALYST_CORS_ALLOWED_ORIGINS",
		"gemini.api_key":              "ANALYST_GEMINI_API_KEY",
		"gemini.model":                "ANALYST_GEMINI_MODEL",
		"gemini.endpoint":             "ANALYST_GEMINI_ENDPOINT",
		"gemini.timeout_secs":         "ANALYST_GEMINI_TIMEOUT_SECS",
		"gemini.temperature":          "ANALYST_GEMINI_TEMPERATURE",
		"gemini.top_p":                "ANALYST_GEMINI_TOP_P",
		"gemini.top_k":                "ANALYST_GEMINI_TOP_K",
		"gemini.max_output_tokens":    "ANALYST_GEMINI_MAX_OUTPUT_TOKENS",
		"gemini.attach_image":         "ANALYST_GEMINI_ATTACH_IMAGE",
		"scraper.timeout_secs":        "ANALYST_SCRAPER_TIMEOUT_SECS",
		"scraper.user_agent":          "ANALYST_SCRAPER_USER_AGENT",
		"scraper.max_rows":            "ANALYST_SCRAPER_MAX_ROWS",
		"scraper.requests_per_second": "ANALYST_SCRAPER_REQUESTS_PER_SECOND",
		"scraper.burst":               "ANALYST_SCRAPER_BURST",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a bare PORT. Use it if ANALYST_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("ANALYST_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Gemini = GeminiConfig{
		APIKey:          v.GetString("gemini.api_key"),
		Model:           v.GetString("gemini.model"),
		Endpoint:        v.GetString("gemini.endpoint"),
		TimeoutSecs:     v.GetInt("gemini.timeout_secs"),
		Temperature:     v.GetFloat64("gemini.temperature"),
		TopP:            v.GetFloat64("gemini.top_p"),
		TopK:            v.GetInt("gemini.top_k"),
		MaxOutputTokens: v.GetInt("gemini.max_output_tokens"),
		AttachImage:     v.GetBool("gemini.attach_image"),
	}
	cfg.Scraper = ScraperConfig{
		TimeoutSecs:       v.GetInt("scraper.timeout_secs"),
		UserAgent:         v.GetString("scraper.user_agent"),
		MaxRows:           v.GetInt("scraper.max_rows"),
		RequestsPerSecond: v.GetFloat64("scraper.requests_per_second"),
		Burst:             v.GetInt("scraper.burst"),
	}

	return cfg, nil
}

// splitList parses a comma-separated string, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
