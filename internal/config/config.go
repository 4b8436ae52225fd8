// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTPrivateKey is the PEM-encoded signing key (RSA or ECDSA) or a path to a file.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded verify key or a path to a file.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTIssuer is the iss claim set on every issued credential.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim set on every issued credential.
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// JWTAccessTTL is the access credential lifetime (e.g. "15m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// JWTRefreshTTL is the renewal credential lifetime (e.g. "168h").
	JWTRefreshTTL string `mapstructure:"JWT_REFRESH_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// MFAChallengeTTL is how long an issued MFA challenge reference stays redeemable (e.g. "10m").
	MFAChallengeTTL string `mapstructure:"MFA_CHALLENGE_TTL"`
	// MFARequiredAlways forces the MFA gate for every login regardless of enrollment.
	MFARequiredAlways bool `mapstructure:"MFA_REQUIRED_ALWAYS"`
	// SessionSweepInterval is how often expired sessions are marked revoked (e.g. "5m"). Empty disables the sweep.
	SessionSweepInterval string `mapstructure:"SESSION_SWEEP_INTERVAL"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// OTLPEndpoint is the OTLP gRPC collector endpoint (e.g. http://localhost:4317).
	// When set, monitoring alerts are emitted as OTel log records.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// MonitorKafkaBrokers is a comma-separated list of Kafka broker addresses; when set,
	// monitoring alerts are produced to Kafka instead of OTel.
	MonitorKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// MonitorKafkaTopic is the Kafka topic for monitoring alerts (default auth-monitor).
	MonitorKafkaTopic string `mapstructure:"MONITOR_KAFKA_TOPIC"`

	// Worker-only: Loki URL to push monitoring alerts to (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`
	// KafkaGroupID is the consumer group ID for the monitoring worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_ISSUER", "auth-control-plane")
	v.SetDefault("JWT_AUDIENCE", "auth-api")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TTL", "168h") // 7d
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("MFA_CHALLENGE_TTL", "10m")
	v.SetDefault("MFA_REQUIRED_ALWAYS", false)
	v.SetDefault("SESSION_SWEEP_INTERVAL", "5m")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("MONITOR_KAFKA_TOPIC", "auth-monitor")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("KAFKA_GROUP_ID", "auth-monitor-worker")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// RefreshTTL parses JWTRefreshTTL as a time.Duration. Returns 168h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTRefreshTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// ChallengeTTL parses MFAChallengeTTL as a time.Duration. Returns 10m if unset or invalid.
func (c *Config) ChallengeTTL() time.Duration {
	d, err := time.ParseDuration(c.MFAChallengeTTL)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

// SweepInterval parses SessionSweepInterval as a time.Duration.
// Returns 0 when the sweep is disabled (empty or invalid value).
func (c *Config) SweepInterval() time.Duration {
	if c.SessionSweepInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(c.SessionSweepInterval)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

// MonitorKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if Kafka monitoring is enabled (non-empty list) and to create the producer.
func (c *Config) MonitorKafkaBrokersList() []string {
	if c == nil || c.MonitorKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.MonitorKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
