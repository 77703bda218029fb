package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"fleet-schedule-backend/internal/domain/fleet"
	"fleet-schedule-backend/internal/finance"

	env "github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	MySQLHost string `env:"MYSQL_HOST" envDefault:"mysql"`
	MySQLPort string `env:"MYSQL_PORT" envDefault:"3306"`
	MySQLDB   string `env:"MYSQL_DB" envDefault:"fleet"`
	MySQLUser string `env:"MYSQL_USER" envDefault:"fleet"`
	MySQLPass string `env:"MYSQL_PASS" envDefault:"fleet"`

	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"redis:6379"`
	RedisPass string `env:"REDIS_PASS"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	IdempTTLSecs       int `env:"IDEMPOTENCY_TTL_SECONDS" envDefault:"300"`
	StatsCacheTTLSecs  int `env:"STATS_CACHE_TTL_SECONDS" envDefault:"60"`
	PaymentLockTTLSecs int `env:"PAYMENT_LOCK_TTL_SECONDS" envDefault:"10"`
	PaymentLockWaitMs  int `env:"PAYMENT_LOCK_WAIT_MS" envDefault:"2000"`

	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	TruckUsefulLifeYears   int             `env:"TRUCK_USEFUL_LIFE_YEARS" envDefault:"7"`
	TrailerUsefulLifeYears int             `env:"TRAILER_USEFUL_LIFE_YEARS" envDefault:"10"`
	SalvagePercent         decimal.Decimal `env:"SALVAGE_PERCENT" envDefault:"0"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 bytes")
	}
	if c.TruckUsefulLifeYears <= 0 || c.TrailerUsefulLifeYears <= 0 {
		return errors.New("useful life years must be positive")
	}
	if c.SalvagePercent.IsNegative() || c.SalvagePercent.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("SALVAGE_PERCENT %s out of range 0..100", c.SalvagePercent)
	}
	if c.PaymentLockTTLSecs <= 0 {
		return errors.New("PAYMENT_LOCK_TTL_SECONDS must be positive")
	}
	// a zero TTL would make redis keep the entry forever
	if c.StatsCacheTTLSecs <= 0 {
		return errors.New("STATS_CACHE_TTL_SECONDS must be positive")
	}
	if c.IdempTTLSecs <= 0 {
		return errors.New("IDEMPOTENCY_TTL_SECONDS must be positive")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true for migrations; parseTime needed for DATE/DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// Policy is the depreciation assumption the schedules use.
func (c *Config) Policy() finance.Policy {
	return finance.Policy{
		UsefulLifeYears: map[fleet.VehicleType]int{
			fleet.VehicleTruck:   c.TruckUsefulLifeYears,
			fleet.VehicleTrailer: c.TrailerUsefulLifeYears,
		},
		SalvagePercent: c.SalvagePercent,
	}
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }
func (c *Config) StatsCacheTTL() time.Duration  { return time.Duration(c.StatsCacheTTLSecs) * time.Second }
func (c *Config) PaymentLockTTL() time.Duration { return time.Duration(c.PaymentLockTTLSecs) * time.Second }
func (c *Config) PaymentLockWait() time.Duration {
	return time.Duration(c.PaymentLockWaitMs) * time.Millisecond
}
