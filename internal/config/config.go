package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Port     string `yaml:"port"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`

	RedisURL  string `yaml:"redis_url"`
	RedisPass string `yaml:"redis_password"`
	RedisDB   int    `yaml:"redis_db"`

	JWTSecret string        `yaml:"jwt_secret"`
	JWTTTL    time.Duration `yaml:"jwt_ttl"`

	ScoreFile       string        `yaml:"score_file"`
	SessionMaxIdle  time.Duration `yaml:"session_max_idle"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

const DefaultScoreFile = "PUNTUACIONES BUSCAMINAS.txt"

func Default() *Config {
	return &Config{
		Port:            "8080",
		Env:             "development",
		LogLevel:        "info",
		RedisURL:        "localhost:6379",
		JWTTTL:          24 * time.Hour,
		ScoreFile:       DefaultScoreFile,
		SessionMaxIdle:  10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE, then environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.Env, "ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.RedisPass, "REDIS_PASSWORD")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.ScoreFile, "SCORE_FILE")

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		c.RedisDB = db
	}

	durations := map[string]*time.Duration{
		"JWT_TTL":          &c.JWTTTL,
		"SESSION_MAX_IDLE": &c.SessionMaxIdle,
		"CLEANUP_INTERVAL": &c.CleanupInterval,
	}
	for name, dst := range durations {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
		*dst = d
	}

	return nil
}

func setString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("jwt ttl must be positive, got %s", c.JWTTTL)
	}
	if c.SessionMaxIdle <= 0 || c.CleanupInterval <= 0 {
		return fmt.Errorf("session idle and cleanup intervals must be positive")
	}
	if c.ScoreFile == "" {
		return fmt.Errorf("score file path is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
