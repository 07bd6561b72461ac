package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"coursesite/internal/auth"
	"coursesite/internal/secrets"
	"coursesite/pkg/mail"
)

// Config represents the runtime configuration for the course-site backend.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Email       EmailConfig       `mapstructure:"email"`
	Features    FeatureConfig     `mapstructure:"features"`
	Frontend    FrontendConfig    `mapstructure:"frontend"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
}

// DatabaseConfig describes connection options and the secret-store fallbacks
// used to resolve a connection string when none is configured directly.
type DatabaseConfig struct {
	Driver  string        `mapstructure:"driver"`
	Path    string        `mapstructure:"path"`
	URL     string        `mapstructure:"url"`
	Host    string        `mapstructure:"host"`
	Name    string        `mapstructure:"name"`
	Port    int           `mapstructure:"port"`
	Params  string        `mapstructure:"params"`
	Secrets SecretsConfig `mapstructure:"secrets"`
}

// SecretsConfig points at the AWS Secrets Manager entries holding database credentials.
type SecretsConfig struct {
	Region              string `mapstructure:"region"`
	ConnectionStringARN string `mapstructure:"connection_string_arn"`
	UserPassARN         string `mapstructure:"userpass_arn"`
}

// AuthConfig captures authentication settings.
type AuthConfig struct {
	JWT       JWTSettings       `mapstructure:"jwt"`
	Bootstrap BootstrapSettings `mapstructure:"bootstrap"`
}

// JWTSettings configures signed session tokens.
type JWTSettings struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"token_ttl"`
}

// BootstrapSettings describe the admin account seeded on first start.
type BootstrapSettings struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// EmailConfig captures outbound email settings.
type EmailConfig struct {
	SMTP SMTPConfig `mapstructure:"smtp"`
}

// SMTPConfig defines SMTP dialer settings for sending email.
type SMTPConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from"`
	UseTLS   bool          `mapstructure:"use_tls"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// FeatureConfig toggles optional platform features.
type FeatureConfig struct {
	EmailVerification EmailVerificationConfig `mapstructure:"email_verification"`
}

// EmailVerificationConfig controls the signup verification flow.
type EmailVerificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// FrontendConfig describes how the embedded web client reaches the API.
type FrontendConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// MaintenanceConfig tunes the background cleanup job.
type MaintenanceConfig struct {
	TokenRetentionDays int    `mapstructure:"token_retention_days"`
	Schedule           string `mapstructure:"schedule"`
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("COURSESITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	applyEnvAliases(&config)

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5001)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.path", "./data/coursesite.sqlite")
	// database.port intentionally has no default: zero means "unset" so the
	// resolver can prefer a port carried inside the credentials secret before
	// falling back to 3306.
	v.SetDefault("database.secrets.region", secrets.DefaultRegion)

	v.SetDefault("auth.jwt.token_ttl", "24h")

	v.SetDefault("email.smtp.enabled", false)
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.use_tls", false)
	v.SetDefault("email.smtp.timeout", "10s")

	v.SetDefault("features.email_verification.enabled", false)

	v.SetDefault("frontend.base_url", "http://localhost:5001")

	v.SetDefault("maintenance.token_retention_days", 30)
	v.SetDefault("maintenance.schedule", "@daily")
}

// applyEnvAliases honours the plain environment variables the deployment
// scripts have always used, taking precedence over file values.
func applyEnvAliases(cfg *Config) {
	if port, ok := envInt("PORT"); ok {
		cfg.Server.Port = port
	}
	if v, ok := env("JWT_SECRET"); ok {
		cfg.Auth.JWT.Secret = v
	}
	if v, ok := env("DATABASE_URL"); ok {
		cfg.Database.URL = v
	}
	if v, ok := env("DB_HOST"); ok {
		cfg.Database.Host = v
	}
	if v, ok := env("DB_NAME"); ok {
		cfg.Database.Name = v
	}
	if port, ok := envInt("DB_PORT"); ok {
		cfg.Database.Port = port
	}
	if v, ok := env("DB_PARAMS"); ok {
		cfg.Database.Params = v
	}
	if v, ok := env("DB_CONNECTION_STRING_SECRET_ARN"); ok {
		cfg.Database.Secrets.ConnectionStringARN = v
	}
	if v, ok := env("DB_USERPASS_SECRET_ARN"); ok {
		cfg.Database.Secrets.UserPassARN = v
	}
	if v, ok := env("AWS_REGION"); ok {
		cfg.Database.Secrets.Region = v
	} else if v, ok := env("AWS_DEFAULT_REGION"); ok {
		cfg.Database.Secrets.Region = v
	}
	if v, ok := env("SMTP_HOST"); ok {
		cfg.Email.SMTP.Host = v
		cfg.Email.SMTP.Enabled = true
	}
	if port, ok := envInt("SMTP_PORT"); ok {
		cfg.Email.SMTP.Port = port
	}
	if v, ok := env("SMTP_USER"); ok {
		cfg.Email.SMTP.Username = v
	}
	if v, ok := env("SMTP_PASS"); ok {
		cfg.Email.SMTP.Password = v
	}
	if v, ok := env("SMTP_FROM"); ok {
		cfg.Email.SMTP.From = v
	}
	if v, ok := env("EMAIL_VERIFICATION_ENABLED"); ok {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Features.EmailVerification.Enabled = enabled
		}
	}
	if v, ok := env("BASE_URL"); ok {
		cfg.Frontend.BaseURL = v
	}
}

func env(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	return value, value != ""
}

func envInt(key string) (int, bool) {
	value, ok := env(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SecretsResolverConfig converts the database section into resolver inputs.
func (c *Config) SecretsResolverConfig() secrets.Config {
	return secrets.Config{
		DatabaseURL:         c.Database.URL,
		Region:              c.Database.Secrets.Region,
		ConnectionStringARN: c.Database.Secrets.ConnectionStringARN,
		UserPassARN:         c.Database.Secrets.UserPassARN,
		Host:                c.Database.Host,
		Name:                c.Database.Name,
		Port:                c.Database.Port,
		Params:              c.Database.Params,
	}
}

// JWTServiceConfig converts the auth section into JWT service inputs.
func (c *Config) JWTServiceConfig() auth.JWTConfig {
	return auth.JWTConfig{
		Secret:   c.Auth.JWT.Secret,
		Issuer:   c.Auth.JWT.Issuer,
		TokenTTL: c.Auth.JWT.TTL,
	}
}

// SMTPSettings converts the email section into mailer inputs.
func (c *Config) SMTPSettings() mail.SMTPSettings {
	return mail.SMTPSettings{
		Enabled:  c.Email.SMTP.Enabled,
		Host:     c.Email.SMTP.Host,
		Port:     c.Email.SMTP.Port,
		Username: c.Email.SMTP.Username,
		Password: c.Email.SMTP.Password,
		From:     c.Email.SMTP.From,
		UseTLS:   c.Email.SMTP.UseTLS,
		Timeout:  c.Email.SMTP.Timeout,
	}
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
