package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `yaml:"env" env-default:"local"`
	StoragePath string `yaml:"storage_path" env-required:"true"`
	RedisAddr   string `yaml:"redis_addr" env-default:"localhost:6379"`
	HTTPServer  `yaml:"http_server"`
	Calendar    `yaml:"calendar"`
	Schedule    `yaml:"schedule"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

// Calendar controls how availability grids are built and navigated.
type Calendar struct {
	TimeZone               string        `yaml:"time_zone" env-default:"Europe/London"`
	Weeks                  int           `yaml:"weeks" env-default:"5"`
	MaxAppointmentsPerHour int           `yaml:"max_appointments_per_hour" env-default:"4"`
	ReachLastDay           bool          `yaml:"reach_last_day" env-default:"false"`
	SessionTTL             time.Duration `yaml:"session_ttl" env-default:"2h"`
	LockTTL                time.Duration `yaml:"lock_ttl" env-default:"5s"`
}

// Schedule bounds the vendor's working day. Polling is configured on the
// schedule-watch side.
type Schedule struct {
	StartHour int `yaml:"start_hour" env-default:"8"`
	EndHour   int `yaml:"end_hour" env-default:"22"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
