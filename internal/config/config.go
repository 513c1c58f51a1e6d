package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"newsAggregator/internal/database"
	"newsAggregator/internal/password"
	"newsAggregator/internal/service"
)

type Log struct {
	Level  string
	Format string
}

type Mirror struct {
	BaseURL  string
	Origin   string
	Limit    int
	Comments int
	Workers  int
	Interval time.Duration
}

type Config struct {
	ServerPort       int
	Stores           map[database.Domain]string
	Pool             database.PoolOptions
	Origin           string
	RequestTimeout   time.Duration
	ShutdownTimeout  time.Duration
	RegisterAttempts int
	Argon2           password.Params
	Log              Log
	Mirror           Mirror
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func LoadStores() map[database.Domain]string {
	return map[database.Domain]string{
		database.Users:    getEnv("USERS_DATABASE_URI", ""),
		database.Blog:     getEnv("BLOG_DATABASE_URI", ""),
		database.External: getEnv("EXTERNAL_DATABASE_URI", ""),
	}
}

func LoadArgon2() password.Params {
	params := password.DefaultParams()
	params.Time = uint32(getEnvAsInt("ARGON2_TIME", int(params.Time)))
	params.Memory = uint32(getEnvAsInt("ARGON2_MEMORY", int(params.Memory)))
	params.Threads = uint8(getEnvAsInt("ARGON2_THREADS", int(params.Threads)))
	return params
}

func LoadMirror() Mirror {
	return Mirror{
		BaseURL:  getEnv("MIRROR_BASE_URL", "https://hacker-news.firebaseio.com/v0"),
		Origin:   getEnv("MIRROR_ORIGIN", "hacker_news"),
		Limit:    getEnvAsInt("MIRROR_LIMIT", 500),
		Comments: getEnvAsInt("MIRROR_COMMENTS", 10),
		Workers:  getEnvAsInt("MIRROR_WORKERS", 8),
		Interval: getEnvAsDuration("MIRROR_INTERVAL", 0),
	}
}

// LoadConfig reads .env when present and then the process environment.
// Store URIs have no default; a missing one fails when the stores are opened.
func LoadConfig(log logrus.FieldLogger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not found, using environment variables")
	}

	return &Config{
		ServerPort: getEnvAsInt("SERVER_PORT", 8080),
		Stores:     LoadStores(),
		Pool: database.PoolOptions{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Origin:           getEnv("ORIGIN", "my_blog"),
		RequestTimeout:   getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
		ShutdownTimeout:  getEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		RegisterAttempts: getEnvAsInt("REGISTER_MAX_ATTEMPTS", service.DefaultRegisterAttempts),
		Argon2:           LoadArgon2(),
		Log: Log{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Mirror: LoadMirror(),
	}
}
