package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultAppName       = "ASL Dictionary API"
	defaultEnv           = "development"
	defaultPort          = 8000
	defaultCacheTTL      = 3600
	defaultDailyLimit    = 10
	defaultRateLimit     = 10
	defaultLLMModel      = "gemini-2.5-flash"
	defaultLLMType       = "openai-compatible"
	defaultDBHost        = "127.0.0.1"
	defaultDBPort        = 3306
	defaultDBUser        = "root"
	defaultDBPassword    = "password"
	defaultDBName        = "asl_dict"
	defaultDBCharset     = "utf8mb4"
	defaultLLMTimeoutSec = 60
)

// AppConfig holds runtime configuration loaded from YAML with
// environment-variable overrides.
type AppConfig struct {
	AppName             string
	Env                 string // "development" | "production" | "test"
	Port                int
	DSN                 string
	RedisURL            string // empty disables the result cache
	CacheTTL            int    // seconds
	LLM                 LLMConfig
	SharedAPIKey        string
	SharedKeyDailyLimit int
	AdminPassword       string
	RateLimitPerMinute  int
	AllowedOrigins      []string
}

// LLMConfig describes the default LLM credential and endpoint. A request
// may override the credential via header; the rest stays fixed.
type LLMConfig struct {
	Type       string // "openai" | "openai-compatible" | "anthropic"
	APIKey     string
	Endpoint   string
	Model      string
	TimeoutSec int
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

type rawConfig struct {
	AppName  string `yaml:"app_name"`
	Env      string `yaml:"env"`
	Port     int    `yaml:"port"`
	DSN      string `yaml:"dsn"`
	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		Charset  string `yaml:"charset"`
	} `yaml:"database"`
	RedisURL string `yaml:"redis_url"`
	CacheTTL *int   `yaml:"cache_ttl"`
	LLM      struct {
		Type       string `yaml:"type"`
		APIKey     string `yaml:"api_key"`
		Endpoint   string `yaml:"endpoint"`
		Model      string `yaml:"model"`
		TimeoutSec *int   `yaml:"timeout_seconds"`
	} `yaml:"llm"`
	SharedAPIKey        string   `yaml:"shared_api_key"`
	SharedKeyDailyLimit *int     `yaml:"shared_key_daily_limit"`
	AdminPassword       string   `yaml:"admin_password"`
	RateLimitPerMinute  *int     `yaml:"rate_limit_per_minute"`
	AllowedOrigins      []string `yaml:"allowed_origins"`
}

// Load reads the YAML config file (optional) and applies environment
// overrides. A missing file is not an error; env vars alone are enough.
func Load(path string) (*AppConfig, error) {
	var raw rawConfig

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// fall through to env-only configuration
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := normalize(raw)
	applyEnv(cfg)

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

func normalize(raw rawConfig) *AppConfig {
	cfg := &AppConfig{
		AppName:             strOr(raw.AppName, defaultAppName),
		Env:                 strOr(strings.ToLower(raw.Env), defaultEnv),
		Port:                intOr(raw.Port, defaultPort),
		RedisURL:            raw.RedisURL,
		CacheTTL:            intPtrOr(raw.CacheTTL, defaultCacheTTL),
		SharedAPIKey:        raw.SharedAPIKey,
		SharedKeyDailyLimit: intPtrOr(raw.SharedKeyDailyLimit, defaultDailyLimit),
		AdminPassword:       raw.AdminPassword,
		RateLimitPerMinute:  intPtrOr(raw.RateLimitPerMinute, defaultRateLimit),
		AllowedOrigins:      raw.AllowedOrigins,
	}

	cfg.LLM = LLMConfig{
		Type:       strOr(strings.ToLower(raw.LLM.Type), defaultLLMType),
		APIKey:     raw.LLM.APIKey,
		Endpoint:   raw.LLM.Endpoint,
		Model:      strOr(raw.LLM.Model, defaultLLMModel),
		TimeoutSec: intPtrOr(raw.LLM.TimeoutSec, defaultLLMTimeoutSec),
	}

	cfg.DSN = raw.DSN
	if cfg.DSN == "" {
		host := strOr(raw.Database.Host, defaultDBHost)
		port := intOr(raw.Database.Port, defaultDBPort)
		user := strOr(raw.Database.User, defaultDBUser)
		pass := strOr(raw.Database.Password, defaultDBPassword)
		name := strOr(raw.Database.Name, defaultDBName)
		charset := strOr(raw.Database.Charset, defaultDBCharset)
		cfg.DSN = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
			user, pass, host, port, name, charset)
	}
	return cfg
}

func applyEnv(cfg *AppConfig) {
	setStr(&cfg.AppName, "APP_NAME")
	setStr(&cfg.Env, "ENVIRONMENT")
	setInt(&cfg.Port, "PORT")
	setStr(&cfg.DSN, "DATABASE_DSN")
	setStr(&cfg.RedisURL, "REDIS_URL")
	setInt(&cfg.CacheTTL, "CACHE_TTL")
	setStr(&cfg.LLM.Type, "LLM_PROVIDER_TYPE")
	setStr(&cfg.LLM.APIKey, "LLM_API_KEY")
	setStr(&cfg.LLM.Endpoint, "LLM_ENDPOINT")
	setStr(&cfg.LLM.Model, "LLM_MODEL")
	setStr(&cfg.SharedAPIKey, "SHARED_API_KEY")
	setInt(&cfg.SharedKeyDailyLimit, "SHARED_KEY_DAILY_LIMIT")
	setStr(&cfg.AdminPassword, "ADMIN_PASSWORD")
	setInt(&cfg.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE")

	if origins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); origins != "" {
		parts := strings.Split(origins, ",")
		cfg.AllowedOrigins = cfg.AllowedOrigins[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, p)
			}
		}
	}
	cfg.Env = strings.ToLower(cfg.Env)
}

func setStr(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func strOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func intOr(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func intPtrOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
