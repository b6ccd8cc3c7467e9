package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Feed     FeedConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
	AllowOrigins   []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
	// require issued tokens to be registered in redis
	RedisSessions bool
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type NATSConfig struct {
	URL string
}

type FeedConfig struct {
	CandidateLimit    int
	FallbackLimit     int
	PriceCeiling      float64
	ContextTTL        time.Duration
	BoostFetchTimeout time.Duration
	FetchRetries      int
	SessionIdleTTL    time.Duration
	MaxInstances      int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	priceCeiling, err := strconv.ParseFloat(getEnv("FEED_PRICE_CEILING", "1000000"), 64)
	if err != nil {
		return nil, errors.New("invalid feed price ceiling")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Swap Market Feed"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RequestTimeout: getEnvDuration("SERVER_REQUEST_TIMEOUT", 10*time.Second),
			AllowOrigins:   []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "swap_market"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:     getEnv("JWT_SECRET", ""),
			RedisSessions: getEnv("JWT_REDIS_SESSIONS", "false") == "true",
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Feed: FeedConfig{
			CandidateLimit:    getEnvInt("FEED_CANDIDATE_LIMIT", 200),
			FallbackLimit:     getEnvInt("FEED_FALLBACK_LIMIT", 20),
			PriceCeiling:      priceCeiling,
			ContextTTL:        getEnvDuration("FEED_CONTEXT_TTL", 30*time.Second),
			BoostFetchTimeout: getEnvDuration("FEED_BOOST_TIMEOUT", 300*time.Millisecond),
			FetchRetries:      getEnvInt("FEED_FETCH_RETRIES", 3),
			SessionIdleTTL:    getEnvDuration("FEED_SESSION_IDLE_TTL", 30*time.Minute),
			MaxInstances:      getEnvInt("FEED_MAX_INSTANCES_PER_VIEWER", 8),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Feed.FallbackLimit <= 0 || cfg.Feed.CandidateLimit <= 0 {
		return nil, errors.New("feed limits must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}

	return defaultVal
}
