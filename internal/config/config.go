package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/shopspring/decimal"
)

type Config struct {
	Address         string          `env:"RUN_ADDRESS"      envDefault:"localhost:8080"`
	Database        string          `env:"DATABASE_URI"     envDefault:""`
	RedisAddress    string          `env:"REDIS_ADDRESS"    envDefault:""`
	LogLvl          string          `env:"LOG_LVL"          envDefault:"info"`
	LogFormat       string          `env:"LOG_FORMAT"       envDefault:"console"`
	JWTSecret       string          `env:"JWT_SECRET"       envDefault:"marketplace-secret-key"`
	TokenTTL        time.Duration   `env:"TOKEN_TTL"        envDefault:"24h"`
	StartingBalance decimal.Decimal `env:"STARTING_BALANCE" envDefault:"500"`
	SettlePurchases bool            `env:"SETTLE_PURCHASES" envDefault:"true"`
	VerifyPasswords bool            `env:"VERIFY_PASSWORDS" envDefault:"true"`
	SeedDemoData    bool            `env:"SEED_DEMO_DATA"   envDefault:"true"`
}

// FromEnv reads the configuration from the environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("can't parse environment: %w", err)
	}

	flag.StringVar(&cfg.Address, "a", cfg.Address, "address and port to run server")
	flag.StringVar(&cfg.Database, "d", cfg.Database, "database DSN, in-memory storage when empty")
	flag.StringVar(&cfg.RedisAddress, "r", cfg.RedisAddress, "redis address for sessions, in-memory when empty")
	flag.StringVar(&cfg.LogLvl, "l", cfg.LogLvl, "log level")
	flag.Parse()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.StartingBalance.IsNegative() || !c.StartingBalance.Equal(c.StartingBalance.Truncate(2)) {
		return fmt.Errorf("STARTING_BALANCE must be non-negative with at most two decimal places, got %s", c.StartingBalance)
	}
	return nil
}

// UsesPostgres reports whether a database DSN was configured.
func (c *Config) UsesPostgres() bool {
	return c.Database != ""
}

// UsesRedis reports whether sessions go to redis.
func (c *Config) UsesRedis() bool {
	return c.RedisAddress != ""
}
