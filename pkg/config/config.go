package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cron          CronConfig
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
	Env          string `envconfig:"STITCHBOOK_APP_ENV" required:"true"`
	Port         string `envconfig:"STITCHBOOK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STITCHBOOK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STITCHBOOK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"STITCHBOOK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"STITCHBOOK_DB_DSN"`
	Driver string `envconfig:"STITCHBOOK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STITCHBOOK_DB_HOST"`
	LegacyPort     int    `envconfig:"STITCHBOOK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STITCHBOOK_DB_USER"`
	LegacyPassword string `envconfig:"STITCHBOOK_DB_PASSWORD"`
	LegacyName     string `envconfig:"STITCHBOOK_DB_NAME"`
	LegacySSLMode  string `envconfig:"STITCHBOOK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STITCHBOOK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STITCHBOOK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STITCHBOOK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STITCHBOOK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STITCHBOOK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STITCHBOOK_REDIS_ADDR"`
	Password     string        `envconfig:"STITCHBOOK_REDIS_PASSWORD"`
	DB           int           `envconfig:"STITCHBOOK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STITCHBOOK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STITCHBOOK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STITCHBOOK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STITCHBOOK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STITCHBOOK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"STITCHBOOK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"STITCHBOOK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"STITCHBOOK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"STITCHBOOK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STITCHBOOK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STITCHBOOK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STITCHBOOK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STITCHBOOK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STITCHBOOK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"STITCHBOOK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"STITCHBOOK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"STITCHBOOK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STITCHBOOK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STITCHBOOK_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval      time.Duration `envconfig:"STITCHBOOK_CRON_INTERVAL" default:"24h"`
	LockTTL       time.Duration `envconfig:"STITCHBOOK_CRON_LOCK_TTL" default:"25h"`
	LedgerRepair  bool          `envconfig:"STITCHBOOK_CRON_LEDGER_REPAIR" default:"true"`
	RepairBatchSz int           `envconfig:"STITCHBOOK_CRON_LEDGER_REPAIR_BATCH" default:"200"`
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
