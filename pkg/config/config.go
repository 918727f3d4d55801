package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Razorpay     RazorpayConfig
	Settlement   SettlementConfig
	Earnings     EarningsConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"RENTEASE_APP_ENV" required:"true"`
	Port         string `envconfig:"RENTEASE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RENTEASE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RENTEASE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RENTEASE_DB_DSN"`
	Driver string `envconfig:"RENTEASE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RENTEASE_DB_HOST"`
	LegacyPort     int    `envconfig:"RENTEASE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RENTEASE_DB_USER"`
	LegacyPassword string `envconfig:"RENTEASE_DB_PASSWORD"`
	LegacyName     string `envconfig:"RENTEASE_DB_NAME"`
	LegacySSLMode  string `envconfig:"RENTEASE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RENTEASE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RENTEASE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RENTEASE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RENTEASE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RENTEASE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RENTEASE_REDIS_ADDR"`
	Password     string        `envconfig:"RENTEASE_REDIS_PASSWORD"`
	DB           int           `envconfig:"RENTEASE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RENTEASE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RENTEASE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RENTEASE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RENTEASE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RENTEASE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"RENTEASE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RENTEASE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"RENTEASE_JWT_EXPIRATION_MINUTES" default:"60"`
}

// RazorpayConfig holds the gateway credentials. KeyID is the publishable key
// handed to checkout clients; KeySecret never leaves this service.
type RazorpayConfig struct {
	KeyID     string `envconfig:"RENTEASE_RAZORPAY_KEY_ID" required:"true"`
	KeySecret string `envconfig:"RENTEASE_RAZORPAY_KEY_SECRET" required:"true"`
}

type SettlementConfig struct {
	// DedupTTL bounds the per-order settle-once marker in Redis. It only needs
	// to outlive the longest plausible duplicate verification delivery.
	DedupTTL time.Duration `envconfig:"RENTEASE_SETTLEMENT_DEDUP_TTL" default:"24h"`
}

type EarningsConfig struct {
	// BaselineTarget seeds newly created monthly periods, in whole rupees.
	BaselineTarget int64 `envconfig:"RENTEASE_EARNINGS_BASELINE_TARGET" default:"50000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"RENTEASE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"RENTEASE_AUTO_MIGRATE" default:"false"`
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
