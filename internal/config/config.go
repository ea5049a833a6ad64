package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Distribution DistributionConfig
	Sweeper      SweeperConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	DSN string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type DistributionConfig struct {
	// MaxProviders bounds the fan-out of a single distribution pass.
	// Admin-configurable between 1 and 50.
	MaxProviders int
}

type SweeperConfig struct {
	PremiumSpec   string
	ExpireSpec    string
	ReminderSpec  string
	RetentionSpec string
}

// Load reads configuration from the environment. Defaults keep a local
// sqlite setup working without any variables set.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_URL", "rihla.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("DISTRIBUTION_MAX_PROVIDERS", 10)
	v.SetDefault("SWEEP_PREMIUM_SPEC", "30 * * * *")
	v.SetDefault("SWEEP_EXPIRE_SPEC", "0 * * * *")
	v.SetDefault("SWEEP_REMINDER_SPEC", "0 8 * * *")
	v.SetDefault("SWEEP_RETENTION_SPEC", "0 3 * * *")

	ttl, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			DSN: v.GetString("DATABASE_URL"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    ttl,
		},
		Distribution: DistributionConfig{
			MaxProviders: v.GetInt("DISTRIBUTION_MAX_PROVIDERS"),
		},
		Sweeper: SweeperConfig{
			PremiumSpec:   v.GetString("SWEEP_PREMIUM_SPEC"),
			ExpireSpec:    v.GetString("SWEEP_EXPIRE_SPEC"),
			ReminderSpec:  v.GetString("SWEEP_REMINDER_SPEC"),
			RetentionSpec: v.GetString("SWEEP_RETENTION_SPEC"),
		},
	}, nil
}
