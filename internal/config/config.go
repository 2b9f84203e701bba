package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Slots   SlotsConfig   `mapstructure:"slots"`
	Sweeper SweeperConfig `mapstructure:"sweeper"`
	Seed    SeedConfig    `mapstructure:"seed"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

type SlotsConfig struct {
	Count int `mapstructure:"count"`
}

type SweeperConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type SeedConfig struct {
	Enabled  bool  `mapstructure:"enabled"`
	RandSeed int64 `mapstructure:"rand_seed"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func Load() (*Config, error) {
	// Set default values
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("slots.count", 25)
	viper.SetDefault("sweeper.interval", time.Minute)
	viper.SetDefault("seed.enabled", true)
	viper.SetDefault("seed.rand_seed", 1)
	viper.SetDefault("log.level", "info")

	// Configuration file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/sokoclick/")

	// Environment variable support
	viper.AutomaticEnv()

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.host", "SERVER_HOST")
	viper.BindEnv("slots.count", "SLOTS_COUNT")
	viper.BindEnv("sweeper.interval", "SWEEPER_INTERVAL")
	viper.BindEnv("seed.enabled", "SEED_ENABLED")
	viper.BindEnv("seed.rand_seed", "SEED_RAND_SEED")
	viper.BindEnv("log.level", "LOG_LEVEL")

	// Read configuration file (optional - will use defaults/env vars if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Slots.Count < 1 {
		return nil, fmt.Errorf("slots.count must be at least 1, got %d", config.Slots.Count)
	}
	if config.Sweeper.Interval <= 0 {
		return nil, fmt.Errorf("sweeper.interval must be positive, got %s", config.Sweeper.Interval)
	}

	return &config, nil
}
