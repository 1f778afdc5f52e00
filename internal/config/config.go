package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings. Values come from an optional YAML file
// (CONFIG_FILE) with environment variables taking precedence.
type Config struct {
	Port          string `yaml:"port"`
	JWTSecret     string `yaml:"jwt_secret"`
	DatabaseDSN   string `yaml:"database_dsn"`
	RedisAddr     string `yaml:"redis_addr"`
	SweepSchedule string `yaml:"sweep_schedule"`
}

func Load() (*Config, error) {
	config := &Config{
		Port:      "8080",
		RedisAddr: "redis:6379",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&config.Port, "PORT")
	applyEnv(&config.JWTSecret, "JWT_SECRET")
	applyEnv(&config.DatabaseDSN, "DATABASE_DSN")
	applyEnv(&config.RedisAddr, "REDIS_ADDR")
	applyEnv(&config.SweepSchedule, "SWEEP_SCHEDULE")

	if err := validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validate(config *Config) error {
	if config.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if config.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN is required")
	}
	return nil
}

func applyEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}
