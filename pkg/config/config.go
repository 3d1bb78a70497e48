package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	Checkout  CheckoutConfig
	Session   SessionConfig
	Admin     AdminConfig
	RateLimit RateLimitConfig
	Outbox    OutboxConfig
	Features  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STATIONERY_APP_ENV" required:"true"`
	Port         string `envconfig:"STATIONERY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STATIONERY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STATIONERY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STATIONERY_DB_DSN"`
	Driver string `envconfig:"STATIONERY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STATIONERY_DB_HOST"`
	LegacyPort     int    `envconfig:"STATIONERY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STATIONERY_DB_USER"`
	LegacyPassword string `envconfig:"STATIONERY_DB_PASSWORD"`
	LegacyName     string `envconfig:"STATIONERY_DB_NAME"`
	LegacySSLMode  string `envconfig:"STATIONERY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STATIONERY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STATIONERY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STATIONERY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STATIONERY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STATIONERY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STATIONERY_REDIS_ADDR"`
	Password     string        `envconfig:"STATIONERY_REDIS_PASSWORD"`
	DB           int           `envconfig:"STATIONERY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STATIONERY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STATIONERY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STATIONERY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STATIONERY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STATIONERY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SMTPConfig struct {
	Host        string        `envconfig:"STATIONERY_SMTP_HOST" required:"true"`
	Port        string        `envconfig:"STATIONERY_SMTP_PORT" default:"587"`
	Username    string        `envconfig:"STATIONERY_SMTP_USERNAME"`
	Password    string        `envconfig:"STATIONERY_SMTP_PASSWORD"`
	From        string        `envconfig:"STATIONERY_SMTP_FROM" default:"orders@stationeryworks.in"`
	FromName    string        `envconfig:"STATIONERY_SMTP_FROM_NAME" default:"Wholesale Stationery"`
	AdminEmail  string        `envconfig:"STATIONERY_ADMIN_EMAIL" required:"true"`
	SendTimeout time.Duration `envconfig:"STATIONERY_SMTP_SEND_TIMEOUT" default:"15s"`
}

// CheckoutConfig carries the delivery fee schedule and the minimum order
// threshold. The schedule is the tiered variant from the storefront:
// subtotal >= FreeDeliveryAbove ships free, subtotal >= ReducedFeeAbove pays
// ReducedFee, everything else pays BaseFee.
type CheckoutConfig struct {
	MinimumOrderTotal decimal.Decimal `envconfig:"STATIONERY_CHECKOUT_MIN_ORDER_TOTAL" default:"1200"`
	FreeDeliveryAbove decimal.Decimal `envconfig:"STATIONERY_CHECKOUT_FREE_DELIVERY_ABOVE" default:"1500"`
	ReducedFeeAbove   decimal.Decimal `envconfig:"STATIONERY_CHECKOUT_REDUCED_FEE_ABOVE" default:"1200"`
	ReducedFee        decimal.Decimal `envconfig:"STATIONERY_CHECKOUT_REDUCED_FEE" default:"30"`
	BaseFee           decimal.Decimal `envconfig:"STATIONERY_CHECKOUT_BASE_FEE" default:"60"`
}

func (c CheckoutConfig) validate() error {
	if c.MinimumOrderTotal.IsNegative() {
		return fmt.Errorf("minimum order total cannot be negative")
	}
	if c.ReducedFee.IsNegative() || c.BaseFee.IsNegative() {
		return fmt.Errorf("delivery fees cannot be negative")
	}
	if c.FreeDeliveryAbove.LessThan(c.ReducedFeeAbove) {
		return fmt.Errorf("free delivery threshold must not be below the reduced fee threshold")
	}
	return nil
}

type SessionConfig struct {
	CookieName string        `envconfig:"STATIONERY_SESSION_COOKIE" default:"session_id"`
	TTL        time.Duration `envconfig:"STATIONERY_SESSION_TTL" default:"24h"`
	Secure     bool          `envconfig:"STATIONERY_SESSION_SECURE" default:"false"`
}

type AdminConfig struct {
	APIKey string `envconfig:"STATIONERY_ADMIN_API_KEY" required:"true"`
}

// RateLimitConfig throttles enquiry submission per client. Zero window or
// zero limits disable the check.
type RateLimitConfig struct {
	EnquiryWindow       time.Duration `envconfig:"STATIONERY_RATE_LIMIT_ENQUIRY_WINDOW" default:"1m"`
	EnquirySessionLimit int           `envconfig:"STATIONERY_RATE_LIMIT_ENQUIRY_SESSION_LIMIT" default:"5"`
	EnquiryIPLimit      int           `envconfig:"STATIONERY_RATE_LIMIT_ENQUIRY_IP_LIMIT" default:"20"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"STATIONERY_OUTBOX_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"STATIONERY_OUTBOX_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"STATIONERY_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STATIONERY_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
