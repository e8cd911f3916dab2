package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

const defaultSecretKey = "dev_key_change_this_in_production"

// Config holds application level configuration loaded from defaults, an
// optional neurochat.yaml and environment variables (highest precedence).
type Config struct {
	Env         string
	ServerPort  string
	LogLevel    string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	SecretKey   string
	SwaggerHost string

	// EncryptionKey is the message codec key in URL-safe base64, padded or not.
	EncryptionKey string
	SessionTTL    time.Duration

	LLMProvider       string
	LLMModel          string
	CompletionTimeout time.Duration
	// EnvFile is the secrets file consulted last when resolving API credentials.
	EnvFile string

	ChatRateLimit float64
	ChatBurst     int

	v *viper.Viper
}

// Load builds Config with sensible development defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("neurochat")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/neurochat")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		Env:               strings.ToLower(v.GetString("APP_ENV")),
		ServerPort:        v.GetString("SERVER_PORT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		MySQLDSN:          mysqlDSN(v),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisDB:           v.GetInt("REDIS_DB"),
		RedisPass:         v.GetString("REDIS_PASSWORD"),
		SecretKey:         v.GetString("SECRET_KEY"),
		SwaggerHost:       v.GetString("SWAGGER_HOST"),
		EncryptionKey:     strings.TrimSpace(v.GetString("ENCRYPTION_KEY")),
		SessionTTL:        v.GetDuration("SESSION_TTL"),
		LLMProvider:       strings.ToLower(v.GetString("LLM_PROVIDER")),
		LLMModel:          v.GetString("LLM_MODEL"),
		CompletionTimeout: v.GetDuration("COMPLETION_TIMEOUT"),
		EnvFile:           v.GetString("ENV_FILE"),
		ChatRateLimit:     v.GetFloat64("CHAT_RATE_LIMIT"),
		ChatBurst:         v.GetInt("CHAT_RATE_BURST"),
		v:                 v,
	}

	if cfg.IsProduction() && cfg.SecretKey == defaultSecretKey {
		return nil, fmt.Errorf("SECRET_KEY must be set in production")
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Lookup returns a raw configuration value by key. It backs the first stage
// of API credential resolution.
func (c *Config) Lookup(key string) string {
	if c == nil || c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MYSQL_HOST", "localhost:3306")
	v.SetDefault("MYSQL_USER", "neurochat")
	v.SetDefault("MYSQL_PASSWORD", "neurochat")
	v.SetDefault("MYSQL_DATABASE", "neurochat")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SECRET_KEY", defaultSecretKey)
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("COMPLETION_TIMEOUT", 30*time.Second)
	v.SetDefault("ENV_FILE", ".env")
	v.SetDefault("CHAT_RATE_LIMIT", 1.0)
	v.SetDefault("CHAT_RATE_BURST", 5)
}

// mysqlDSN prefers MYSQL_DSN verbatim and otherwise builds one from the
// individual settings so special characters in passwords survive.
func mysqlDSN(v *viper.Viper) string {
	if dsn := v.GetString("MYSQL_DSN"); dsn != "" {
		return dsn
	}
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = v.GetString("MYSQL_HOST")
	mc.User = v.GetString("MYSQL_USER")
	mc.Passwd = v.GetString("MYSQL_PASSWORD")
	mc.DBName = v.GetString("MYSQL_DATABASE")
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}
