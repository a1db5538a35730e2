package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Session  SessionConfig
	DynamoDB DynamoDBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Signup   SignupConfig
	Plans    PlansConfig
	LogLevel string
}

type ServerConfig struct {
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	CORSAllowedOrigin string
}

type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
	Token   string
}

const (
	SessionBackendRedis    = "redis"
	SessionBackendDynamoDB = "dynamodb"
	SessionBackendMemory   = "memory"
)

type SessionConfig struct {
	Backend string
	TTL     time.Duration
}

type DynamoDBConfig struct {
	Endpoint  string
	Region    string
	TableName string
}

type RedisConfig struct {
	Endpoint string
	Password string
	DB       int
}

// JWTConfig is optional. Without a secret, bearer tokens are only checked for expiry
// before being forwarded upstream.
type JWTConfig struct {
	SecretKey string
}

type SignupConfig struct {
	OTPLength          int
	RedirectRoute      string
	RedirectDelay      time.Duration
	RequireVerifiedOTP bool
}

type PlansConfig struct {
	CacheTTL time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnv("PORT", "8080"),
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		},
		Upstream: UpstreamConfig{
			BaseURL: strings.TrimRight(getEnv("UPSTREAM_BASE_URL", "http://localhost:8081"), "/"),
			Timeout: getEnvAsDuration("UPSTREAM_TIMEOUT", 10*time.Second),
			Token:   getEnv("UPSTREAM_TOKEN", ""),
		},
		Session: SessionConfig{
			Backend: strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendRedis)),
			TTL:     getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		},
		DynamoDB: DynamoDBConfig{
			Endpoint:  getEnv("DYNAMODB_ENDPOINT", ""),
			Region:    getEnv("DYNAMODB_REGION", "us-east-1"),
			TableName: getEnv("DYNAMODB_TABLE_NAME", "MemberSignupTable"),
		},
		Redis: RedisConfig{
			Endpoint: getEnv("REDIS_ENDPOINT", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", ""),
		},
		Signup: SignupConfig{
			OTPLength:          getEnvAsInt("SIGNUP_OTP_LENGTH", 6),
			RedirectRoute:      getEnv("SIGNUP_REDIRECT_ROUTE", "/home"),
			RedirectDelay:      getEnvAsDuration("SIGNUP_REDIRECT_DELAY", time.Second),
			RequireVerifiedOTP: getEnvAsBool("SIGNUP_REQUIRE_VERIFIED_OTP", false),
		},
		Plans: PlansConfig{
			CacheTTL: getEnvAsDuration("PLANS_CACHE_TTL", 30*time.Second),
		},
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Backend {
	case SessionBackendRedis, SessionBackendDynamoDB, SessionBackendMemory:
	default:
		return fmt.Errorf("SESSION_BACKEND must be one of redis, dynamodb, memory (got %q)", c.Session.Backend)
	}

	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL environment variable is required")
	}

	if c.Signup.OTPLength <= 0 {
		return fmt.Errorf("SIGNUP_OTP_LENGTH must be positive")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.JWT.SecretKey != "" && len(c.JWT.SecretKey) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 bytes (256 bits)")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
