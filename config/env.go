package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config is built once at startup and handed to every component that needs it.
type Config struct {
	AppEnv string `env:"APP_ENV,default=local"`
	Port   string `env:"PORT,default=5000"`

	DBDriver string `env:"DB_DRIVER,default=mongo"`
	DBUser   string `env:"DB_USER"`
	DBPass   string `env:"DB_PASS"`
	DBHost   string `env:"DB_HOST,default=cluster0.laxvf.mongodb.net"`
	DBName   string `env:"DB_NAME,default=Jantrick"`
	MongoURL string `env:"MONGODB_URI"`

	TokenSecret string `env:"ACCESS_TOKEN_SECRET"`

	// STRIP_SECRET_KEY is the name the deployed environment already uses.
	PaymentSecretKey string `env:"STRIP_SECRET_KEY"`
	PaymentCurrency  string `env:"PAYMENT_CURRENCY,default=inr"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	// CacheTTL is how long the tool listing stays cached in Redis; 0 disables it.
	CacheTTL time.Duration `env:"CACHE_TTL,default=30s"`

	RateLimitPerMinute int   `env:"RATE_LIMIT_PER_MINUTE,default=200"`
	MaxBodyBytes       int64 `env:"MAX_BODY_BYTES,default=4194304"`
	// TrustedProxyHops is the number of reverse proxies in front of the
	// server. X-Forwarded-For is ignored while it is 0.
	TrustedProxyHops int `env:"TRUSTED_PROXY_HOPS,default=0"`

	RequireAuthForMutations bool          `env:"REQUIRE_AUTH_FOR_MUTATIONS,default=false"`
	ShutdownTimeout         time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	// SeedAdminEmail, when set, is promoted to admin by `jantrick seed`.
	SeedAdminEmail string `env:"SEED_ADMIN_EMAIL"`
}

// Load reads the optional dotenv files (".env" when none are given) into the
// process environment and decodes the environment into a Config.
func Load(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", p, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("config: decode env: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	c.PaymentCurrency = strings.ToLower(strings.TrimSpace(c.PaymentCurrency))
	c.SeedAdminEmail = strings.TrimSpace(c.SeedAdminEmail)
	if c.Port == "" {
		c.Port = "5000"
	}
}

// Validate reports configuration that would make the server unusable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TokenSecret) == "" {
		return errors.New("config: ACCESS_TOKEN_SECRET is required")
	}
	switch c.DBDriver {
	case DriverMongo:
		if c.MongoURL == "" && (c.DBUser == "" || c.DBPass == "") {
			return errors.New("config: DB_USER and DB_PASS (or MONGODB_URI) are required for the mongo driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q (supported: mongo, memory)", c.DBDriver)
	}
	return nil
}

// MongoURI returns MONGODB_URI when set, otherwise the Atlas SRV URI built
// from the user/pass/host keys.
func (c *Config) MongoURI() string {
	if c.MongoURL != "" {
		return c.MongoURL
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.DBHost,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String()
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}
