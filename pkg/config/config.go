package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SAVORA"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "SAVORA_DB_DSN"
	EnvDBHost = "SAVORA_DB_HOST"
	EnvDBUser = "SAVORA_DB_USER"
	EnvDBName = "SAVORA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Midtrans     MidtransConfig
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
	Env          string `envconfig:"SAVORA_APP_ENV" required:"true"`
	Port         string `envconfig:"SAVORA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SAVORA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SAVORA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SAVORA_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SAVORA_DB_DSN"`
	Driver string `envconfig:"SAVORA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SAVORA_DB_HOST"`
	LegacyPort     int    `envconfig:"SAVORA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SAVORA_DB_USER"`
	LegacyPassword string `envconfig:"SAVORA_DB_PASSWORD"`
	LegacyName     string `envconfig:"SAVORA_DB_NAME"`
	LegacySSLMode  string `envconfig:"SAVORA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SAVORA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SAVORA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SAVORA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SAVORA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SAVORA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SAVORA_REDIS_ADDR"`
	Password     string        `envconfig:"SAVORA_REDIS_PASSWORD"`
	DB           int           `envconfig:"SAVORA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SAVORA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SAVORA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SAVORA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SAVORA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SAVORA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SAVORA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SAVORA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SAVORA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SAVORA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SAVORA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SAVORA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SAVORA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SAVORA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SAVORA_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SAVORA_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SAVORA_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"SAVORA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SAVORA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"SAVORA_PUBSUB_DOMAIN_TOPIC" required:"true"`
	DomainSubscription string `envconfig:"SAVORA_PUBSUB_DOMAIN_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SAVORA_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SAVORA_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"SAVORA_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type MidtransConfig struct {
	ServerKey string `envconfig:"SAVORA_MIDTRANS_SERVER_KEY" required:"true"`
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
