package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Bot          BotConfig
	Promo        PromoConfig
	Referral     ReferralConfig
	JWT          JWTConfig
	Storefront   StorefrontConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"INKO_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"INKO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"INKO_LOG_WARN_STACK" default:"false"`
	Currency     string `envconfig:"INKO_CURRENCY" default:"₽"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"INKO_DB_DRIVER" default:"sqlite"`
	// Path is the sqlite database file; used when Driver is sqlite.
	Path string `envconfig:"INKO_DB_PATH" default:"store.db"`
	// DSN is the postgres connection string; required when Driver is postgres.
	DSN string `envconfig:"INKO_DB_DSN"`

	MaxOpenConns    int           `envconfig:"INKO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"INKO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"INKO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"INKO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d DBConfig) validate() error {
	switch strings.ToLower(d.Driver) {
	case DriverSQLite:
		if d.Path == "" {
			return fmt.Errorf("sqlite driver requires INKO_DB_PATH")
		}
	case DriverPostgres:
		if d.DSN == "" {
			return fmt.Errorf("postgres driver requires INKO_DB_DSN")
		}
	default:
		return fmt.Errorf("unsupported db driver %q", d.Driver)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"INKO_REDIS_URL"`
	Address      string        `envconfig:"INKO_REDIS_ADDR"`
	Password     string        `envconfig:"INKO_REDIS_PASSWORD"`
	DB           int           `envconfig:"INKO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"INKO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"INKO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"INKO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"INKO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"INKO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether the session store should use redis at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type BotConfig struct {
	Token           string `envconfig:"INKO_BOT_TOKEN" required:"true"`
	Username        string `envconfig:"INKO_BOT_USERNAME" default:"InkoShopBot"`
	AdminChatID     int64  `envconfig:"INKO_ADMIN_CHAT_ID" required:"true"`
	ChannelUsername string `envconfig:"INKO_CHANNEL_USERNAME" default:"@Inkoshop"`
	Debug           bool   `envconfig:"INKO_BOT_DEBUG" default:"false"`
	// MetricsPort exposes /metrics and /healthz from the bot process when set.
	MetricsPort string `envconfig:"INKO_BOT_METRICS_PORT"`
}

type PromoConfig struct {
	// MaxPercent caps any promo discount regardless of the stored value.
	MaxPercent             int `envconfig:"INKO_PROMO_MAX_PERCENT" default:"25"`
	PartnerDiscountPercent int `envconfig:"INKO_PARTNER_DISCOUNT_PERCENT" default:"5"`
	PartnerCommissionPct   int `envconfig:"INKO_PARTNER_COMMISSION_PERCENT" default:"5"`
	ReviewBonusPercent     int `envconfig:"INKO_REVIEW_BONUS_PERCENT" default:"5"`
}

type ReferralConfig struct {
	Cap int `envconfig:"INKO_REFERRAL_CAP" default:"40"`
}

type JWTConfig struct {
	Secret            string `envconfig:"INKO_JWT_SECRET"`
	Issuer            string `envconfig:"INKO_JWT_ISSUER" default:"inko-shop"`
	ExpirationMinutes int    `envconfig:"INKO_JWT_EXPIRATION_MINUTES" default:"60"`
}

// TokenTTL returns the admin token TTL configured in minutes.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type StorefrontConfig struct {
	Port           string   `envconfig:"INKO_STOREFRONT_PORT" default:"8080"`
	AllowedOrigins []string `envconfig:"INKO_STOREFRONT_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	AdminAPIKey    string   `envconfig:"INKO_STOREFRONT_ADMIN_API_KEY"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"INKO_AUTO_MIGRATE" default:"true"`
}
