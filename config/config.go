package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Config struct {
	ServerPort string
	GinMode    string
	DBDriver   string
	DBDSN      string
	RedisURL   string
	AMQPURL    string
	TicketSink string
	CacheTTL   int // seconds
}

// Load reads configuration from the environment, .env first if present.
func Load() *Config {
	godotenv.Load()

	return &Config{
		ServerPort: getEnv("PORT", "8080"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBDSN:      getEnv("DB_DSN", "root:@tcp(127.0.0.1:3306)/dinepos?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisURL:   getEnv("REDIS_URL", ""),
		AMQPURL:    getEnv("AMQP_URL", ""),
		TicketSink: getEnv("TICKET_SINK", "console"),
		CacheTTL:   getEnvAsInt("CACHE_TTL", 30),
	}
}

// InitDB opens the configured database. sqlite is supported for local
// development and tests.
func (c *Config) InitDB() (*gorm.DB, error) {
	switch c.DBDriver {
	case "mysql":
		return gorm.Open(mysql.Open(c.DBDSN), &gorm.Config{})
	case "postgres":
		return gorm.Open(postgres.Open(c.DBDSN), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(c.DBDSN), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
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
