package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Env               string `mapstructure:"ENV"`
	Port              string `mapstructure:"PORT"`
	DBURL             string `mapstructure:"DB_URL"`
	AccessTokenSecret string `mapstructure:"ACCESS_TOKEN_SECRET"`
	AccessExpiryMin   int    `mapstructure:"ACCESS_TOKEN_EXPIRY"`
	BcryptCost        int    `mapstructure:"BCRYPT_COST"`
	MaxFailedAttempts int    `mapstructure:"MAX_FAILED_ATTEMPTS"`
	AttemptWindowMin  int    `mapstructure:"ATTEMPT_WINDOW_MIN"`
	LockoutMin        int    `mapstructure:"LOCKOUT_MIN"`
	SessionTTLHours   int    `mapstructure:"SESSION_TTL_HOURS"`
	RetentionDays     int    `mapstructure:"ACTIVITY_RETENTION_DAYS"`
	SweepIntervalMin  int    `mapstructure:"SWEEP_INTERVAL_MIN"`
}

func Load() (*Config, error) {
	viper.SetDefault("ENV", "development")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ACCESS_TOKEN_EXPIRY", 15)
	viper.SetDefault("BCRYPT_COST", 12)
	viper.SetDefault("MAX_FAILED_ATTEMPTS", 5)
	viper.SetDefault("ATTEMPT_WINDOW_MIN", 15)
	viper.SetDefault("LOCKOUT_MIN", 15)
	viper.SetDefault("SESSION_TTL_HOURS", 24)
	viper.SetDefault("ACTIVITY_RETENTION_DAYS", 90)
	viper.SetDefault("SWEEP_INTERVAL_MIN", 10)

	viper.AutomaticEnv()

	viper.BindEnv("DB_URL")
	viper.BindEnv("ACCESS_TOKEN_SECRET")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.DBURL == "" {
		return nil, fmt.Errorf("missing required config: DB_URL")
	}
	if cfg.AccessTokenSecret == "" {
		return nil, fmt.Errorf("missing required config: ACCESS_TOKEN_SECRET")
	}

	return &cfg, nil
}
