package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SHORELINE_DB_DSN"
	EnvDBHost = "SHORELINE_DB_HOST"
	EnvDBUser = "SHORELINE_DB_USER"
	EnvDBName = "SHORELINE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Admin        AdminConfig
	FeatureFlags FeatureFlagsConfig
	Stripe       StripeConfig
	Sendgrid     SendgridConfig
	Shop         ShopConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHORELINE_APP_ENV" required:"true"`
	Port         string `envconfig:"SHORELINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHORELINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHORELINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHORELINE_DB_DSN"`
	Driver string `envconfig:"SHORELINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHORELINE_DB_HOST"`
	LegacyPort     int    `envconfig:"SHORELINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHORELINE_DB_USER"`
	LegacyPassword string `envconfig:"SHORELINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHORELINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHORELINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHORELINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHORELINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHORELINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHORELINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHORELINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHORELINE_REDIS_ADDR"`
	Password     string        `envconfig:"SHORELINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHORELINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHORELINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHORELINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHORELINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHORELINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHORELINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AdminConfig carries the shared capability token for the admin surface.
type AdminConfig struct {
	Token string `envconfig:"SHORELINE_ADMIN_TOKEN"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHORELINE_AUTO_MIGRATE" default:"false"`
}

type StripeConfig struct {
	APIKey string `envconfig:"SHORELINE_STRIPE_API_KEY"`
	Secret string `envconfig:"SHORELINE_STRIPE_SECRET"`
	Env    string `envconfig:"SHORELINE_STRIPE_ENV" default:"test"`

	// WebhookEventTTL bounds the redis replay guard for provider event IDs.
	WebhookEventTTL time.Duration `envconfig:"SHORELINE_STRIPE_WEBHOOK_EVENT_TTL" default:"72h"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"SHORELINE_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"SHORELINE_SENDGRID_FROM_EMAIL"`
	FromName    string `envconfig:"SHORELINE_SENDGRID_FROM_NAME" default:"Shoreline Studio"`
}

// ShopConfig carries shop-level settings consumed by notification composition.
type ShopConfig struct {
	Name       string `envconfig:"SHORELINE_SHOP_NAME" default:"Shoreline Studio"`
	AdminEmail string `envconfig:"SHORELINE_SHOP_ADMIN_EMAIL"`
	BaseURL    string `envconfig:"SHORELINE_SHOP_BASE_URL"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
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
