package config

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT, default=8080"`
	Env      string `env:"ENV, default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	BusinessName   string `env:"BUSINESS_NAME, default=eventhall"`
	ReleaseVersion string `env:"RELEASE_VERSION, default=v1"`

	UploadDir       string   `env:"UPLOAD_DIR, default=uploads"`
	PackageCacheTTL Duration `env:"PACKAGE_CACHE_TTL, default=5m"`
	BcryptCost      int      `env:"BCRYPT_COST, default=10"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type JWTConfig struct {
	AccessSecret   string   `env:"JWT_ACCESS_SECRET, required"`
	RefreshSecret  string   `env:"JWT_REFRESH_SECRET, required"`
	AccessExpires  Duration `env:"JWT_ACCESS_EXPIRES, default=15m"`
	RefreshExpires Duration `env:"JWT_REFRESH_EXPIRES, default=7d"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB, default=event_booking"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// BasePath is the prefix every business route is mounted under.
func (c *Config) BasePath() string {
	return "/" + strings.Trim(c.BusinessName, "/") + "/api/" + strings.Trim(c.ReleaseVersion, "/")
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads a .env file when one exists, then the process environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return loadWith(ctx, envconfig.OsLookuper())
}

func loadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		errs = append(errs, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ"))
	}
	if c.JWT.AccessExpires <= 0 || c.JWT.RefreshExpires <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if strings.Trim(c.BusinessName, "/") == "" || strings.Trim(c.ReleaseVersion, "/") == "" {
		errs = append(errs, errors.New("BUSINESS_NAME and RELEASE_VERSION are required"))
	}
	return errors.Join(errs...)
}

// Duration accepts anything time.ParseDuration does plus a whole-day form
// such as "7d".
type Duration time.Duration

func (d *Duration) EnvDecode(val string) error {
	val = strings.TrimSpace(val)
	if days, ok := strings.CutSuffix(val, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return fmt.Errorf("invalid duration %q", val)
		}
		*d = Duration(time.Duration(n) * 24 * time.Hour)
		return nil
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
