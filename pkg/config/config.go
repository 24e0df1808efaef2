package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config groups the application configuration (read via Viper from env and
// optionally from file).
type Config struct {
	App    AppConfig
	DB     DBConfig
	HTTP   HTTPConfig
	JWT    JWTConfig
	Risk   RiskConfig
	Intent IntentConfig
	Chat   ChatConfig
}

// AppConfig general application settings.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig PostgreSQL settings. If DatabaseURL is non-empty it is used as the
// full connection string.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString returns the DSN to use: DatabaseURL when set, otherwise
// one built from the individual fields.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN builds the PostgreSQL connection string with URL encoding for special
// characters in the password.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// HTTPConfig webhook server settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig token settings for operator/reviewer identity.
type JWTConfig struct {
	Secret     string
	Expiration int // minutes
	Issuer     string
}

// RiskConfig selects the risk policy and its parameters.
type RiskConfig struct {
	Policy    string // role_gated | threshold
	SaleLimit string // decimal string; threshold policy only
}

// IntentConfig settings for the LLM intent classifier.
type IntentConfig struct {
	APIKey              string
	Model               string
	ConfidenceThreshold float64 // below this the clarification prompt is surfaced verbatim
}

// ChatConfig settings for the reviewer/requester messaging bridge.
type ChatConfig struct {
	WebhookURL      string
	TimeoutSeconds  int
	IdempotencyTTL  int // seconds the duplicate-submission cache holds a fingerprint
	MutationRetries int // bounded retries on version conflict
}

// Load reads configuration from environment variables (and optionally from a
// .env/config file). Env vars take precedence.
func Load() (*Config, error) {
	v := viper.New()

	// Optional config file (.env or config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignore when absent

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignore when absent

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "thanledger"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "thanledger"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "thanledger"),
		},
		Risk: RiskConfig{
			Policy:    getString(v, "RISK_POLICY", "role_gated"),
			SaleLimit: getString(v, "RISK_SALE_LIMIT", "0"),
		},
		Intent: IntentConfig{
			APIKey:              getString(v, "INTENT_API_KEY", ""),
			Model:               getString(v, "INTENT_MODEL", "gemini-1.5-flash"),
			ConfidenceThreshold: getFloat(v, "INTENT_CONFIDENCE_THRESHOLD", 0.75),
		},
		Chat: ChatConfig{
			WebhookURL:      getString(v, "CHAT_WEBHOOK_URL", ""),
			TimeoutSeconds:  getInt(v, "CHAT_TIMEOUT_SECONDS", 10),
			IdempotencyTTL:  getInt(v, "IDEMPOTENCY_TTL_SECONDS", 30),
			MutationRetries: getInt(v, "MUTATION_RETRY_LIMIT", 3),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		if s := v.GetString(key); s != "" {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
		return v.GetFloat64(key)
	}
	return def
}
