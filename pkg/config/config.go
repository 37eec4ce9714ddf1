package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the shared prefix for every environment variable the service
// reads.
const EnvPrefix = "FUELDESK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names referenced outside the struct tags, mostly by
// error messages and tests.
const (
	EnvAppEnv                 = "FUELDESK_APP_ENV"
	EnvPort                   = "FUELDESK_APP_PORT"
	EnvDBDSN                  = "FUELDESK_DB_DSN"
	EnvDBHost                 = "FUELDESK_DB_HOST"
	EnvDBUser                 = "FUELDESK_DB_USER"
	EnvDBName                 = "FUELDESK_DB_NAME"
	EnvRedisURL               = "FUELDESK_REDIS_URL"
	EnvJWTSecret              = "FUELDESK_JWT_SECRET"
	EnvJWTIssuer              = "FUELDESK_JWT_ISSUER"
	EnvJWTExpMins             = "FUELDESK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "FUELDESK_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCPProjectID           = "FUELDESK_GCP_PROJECT_ID"
	EnvGCSBucket              = "FUELDESK_GCS_BUCKET_NAME"
	EnvGCSUploadExpiry        = "FUELDESK_GCS_UPLOAD_URL_EXPIRY"
	EnvGCSDownloadExpiry      = "FUELDESK_GCS_DOWNLOAD_URL_EXPIRY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Invoices      InvoicesConfig
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
	Env          string `envconfig:"FUELDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"FUELDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FUELDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FUELDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FUELDESK_DB_DSN"`
	Driver string `envconfig:"FUELDESK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FUELDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"FUELDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FUELDESK_DB_USER"`
	LegacyPassword string `envconfig:"FUELDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"FUELDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"FUELDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FUELDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FUELDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FUELDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FUELDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FUELDESK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FUELDESK_REDIS_ADDR"`
	Password     string        `envconfig:"FUELDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"FUELDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FUELDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FUELDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FUELDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FUELDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FUELDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FUELDESK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FUELDESK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FUELDESK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FUELDESK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FUELDESK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FUELDESK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FUELDESK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FUELDESK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FUELDESK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FUELDESK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FUELDESK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FUELDESK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FUELDESK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FUELDESK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FUELDESK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FUELDESK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FUELDESK_AUTO_MIGRATE" default:"false"`
	// StrictResourceRefs makes booking creation fail when a referenced tank,
	// equipment, or site cannot be resolved instead of silently dropping it.
	StrictResourceRefs bool `envconfig:"FUELDESK_STRICT_RESOURCE_REFS" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FUELDESK_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"FUELDESK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"FUELDESK_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"FUELDESK_GCS_BUCKET_NAME" required:"true"`
	UploadURLExpiry   time.Duration `envconfig:"FUELDESK_GCS_UPLOAD_URL_EXPIRY" required:"true"`
	DownloadURLExpiry time.Duration `envconfig:"FUELDESK_GCS_DOWNLOAD_URL_EXPIRY" required:"true"`
}

type InvoicesConfig struct {
	MaxUploadMB int `envconfig:"FUELDESK_INVOICE_MAX_UPLOAD_MB" default:"25"`
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
