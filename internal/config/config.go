package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	JWT       JWTConfig       `yaml:"jwt"`
	Chain     ChainConfig     `yaml:"chain"`
	OTP       OTPConfig       `yaml:"otp"`
	Loan      LoanConfig      `yaml:"loan"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// RedisConfig contains the OTP/lock store settings
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SMTPConfig contains email service settings
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// JWTConfig contains JWT validation settings. Tokens are minted by the
// identity provider with the shared secret; this service only validates.
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// ChainConfig contains the LoanLedger relayer settings
type ChainConfig struct {
	RelayerURL     string `yaml:"relayer_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// OTPConfig contains OTP gate settings
type OTPConfig struct {
	GatewayURL         string `yaml:"gateway_url"` // SMS relay endpoint
	CodeTTLSeconds     int    `yaml:"code_ttl_seconds"`
	VerifiedTTLSeconds int    `yaml:"verified_ttl_seconds"`
}

// LoanConfig contains loan engine settings
type LoanConfig struct {
	BaseCap        int64 `yaml:"base_cap"`         // default group safety ceiling
	ReminderDays   int   `yaml:"reminder_days"`    // EMI reminder window
	PayLockSeconds int   `yaml:"pay_lock_seconds"` // per-loan payment lock TTL
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SendEmiReminders     string `yaml:"send_emi_reminders"`
	SendOverdueNotices   string `yaml:"send_overdue_notices"`
	RecomputeTrustScores string `yaml:"recompute_trust_scores"`
	TakeTrustSnapshots   string `yaml:"take_trust_snapshots"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Redis
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Redis.Addr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}

	// SMTP
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.SMTP.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.SMTP.Port)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.SMTP.User = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.SMTP.Password = val
	}
	if val := os.Getenv("SMTP_FROM"); val != "" {
		c.SMTP.From = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Chain
	if val := os.Getenv("CHAIN_RELAYER_URL"); val != "" {
		c.Chain.RelayerURL = val
	}

	// OTP
	if val := os.Getenv("OTP_GATEWAY_URL"); val != "" {
		c.OTP.GatewayURL = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Redis validation
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required")
	}

	// SMTP validation
	if c.SMTP.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTP.Port)
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	// Chain validation
	if c.Chain.RelayerURL == "" {
		return fmt.Errorf("chain relayer URL is required")
	}
	if c.Chain.TimeoutSeconds == 0 {
		c.Chain.TimeoutSeconds = 30
	}

	// OTP defaults
	if c.OTP.CodeTTLSeconds == 0 {
		c.OTP.CodeTTLSeconds = 300 // 5 minutes
	}
	if c.OTP.VerifiedTTLSeconds == 0 {
		c.OTP.VerifiedTTLSeconds = 300
	}

	// Loan defaults
	if c.Loan.BaseCap == 0 {
		c.Loan.BaseCap = 90000
	}
	if c.Loan.ReminderDays == 0 {
		c.Loan.ReminderDays = 3
	}
	if c.Loan.PayLockSeconds == 0 {
		c.Loan.PayLockSeconds = 60
	}

	// Scheduler defaults
	if c.Scheduler.SendEmiReminders == "" {
		c.Scheduler.SendEmiReminders = "0 0 9 * * *" // 9 AM UTC
	}
	if c.Scheduler.SendOverdueNotices == "" {
		c.Scheduler.SendOverdueNotices = "0 0 10 * * *" // 10 AM UTC
	}
	if c.Scheduler.RecomputeTrustScores == "" {
		c.Scheduler.RecomputeTrustScores = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.TakeTrustSnapshots == "" {
		c.Scheduler.TakeTrustSnapshots = "0 0 4 1 * *" // 1st of every month at 4 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
