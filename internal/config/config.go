package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds service configuration. Values come from an optional YAML
// file named by CONFIG_FILE; environment variables override the file.
type Config struct {
	HTTPPort      string `yaml:"httpPort"`
	MongoURI      string `yaml:"mongoUri"`
	MongoDatabase string `yaml:"mongoDatabase"`
	RedisAddr     string `yaml:"redisAddr"`
	LogMode       string `yaml:"logMode"` // "production" or "development"

	Auth AuthConfig `yaml:"auth"`
	CORS CORSConfig `yaml:"cors"`

	DraftTTL time.Duration `yaml:"draftTtl"` // How long unsubmitted answers live in Redis
}

type AuthConfig struct {
	AuthorUsername string        `yaml:"authorUsername"`
	AuthorPassword string        `yaml:"authorPassword"`
	JWTSecret      string        `yaml:"jwtSecret"`
	CandidateTTL   time.Duration `yaml:"candidateTtl"` // Lifetime of candidate invite tokens
}

type CORSConfig struct {
	AllowedOrigins string `yaml:"allowedOrigins"`
	AllowedMethods string `yaml:"allowedMethods"`
	AllowedHeaders string `yaml:"allowedHeaders"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		HTTPPort:      "8080",
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "talentflow",
		RedisAddr:     "localhost:6379",
		LogMode:       "development",
		Auth: AuthConfig{
			AuthorUsername: "admin",
			AuthorPassword: "password123",
			JWTSecret:      "super-secret-key-change-in-production",
			CandidateTTL:   7 * 24 * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET, POST, PUT, DELETE, OPTIONS",
			AllowedHeaders: "Content-Type, Authorization",
		},
		DraftTTL: 7 * 24 * time.Hour,
	}
}

// Load reads CONFIG_FILE (if set) and then applies environment overrides
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.HTTPPort = getEnv("PORT", cfg.HTTPPort)
	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDatabase = getEnv("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.RedisAddr = strings.TrimPrefix(getEnv("REDIS_URI", cfg.RedisAddr), "redis://")
	cfg.LogMode = getEnv("LOG_MODE", cfg.LogMode)

	cfg.Auth.AuthorUsername = getEnv("AUTHOR_USERNAME", cfg.Auth.AuthorUsername)
	cfg.Auth.AuthorPassword = getEnv("AUTHOR_PASSWORD", cfg.Auth.AuthorPassword)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)

	cfg.CORS.AllowedOrigins = getEnv("CORS_ALLOWED_ORIGINS", cfg.CORS.AllowedOrigins)
	cfg.CORS.AllowedMethods = getEnv("CORS_ALLOWED_METHODS", cfg.CORS.AllowedMethods)
	cfg.CORS.AllowedHeaders = getEnv("CORS_ALLOWED_HEADERS", cfg.CORS.AllowedHeaders)

	var err error
	if cfg.DraftTTL, err = getDuration("DRAFT_TTL", cfg.DraftTTL); err != nil {
		return nil, err
	}
	if cfg.Auth.CandidateTTL, err = getDuration("CANDIDATE_TOKEN_TTL", cfg.Auth.CandidateTTL); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
