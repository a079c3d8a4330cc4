package config

import (
	"time"

	"github.com/joho/godotenv"

	"github.com/adamspd/QuizTrack/utils"
)

// Config holds application configuration
type Config struct {
	Port              string
	DBDriver          string
	DatabaseURL       string
	RedisURL          string
	SessionTTL        time.Duration
	RankRecomputeCron string
	AdminEmail        string
	AdminPassword     string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.LogInfo("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Port:              utils.GetEnvOrDefault("PORT", "8043"),
		DBDriver:          utils.GetEnvOrDefault("DB_DRIVER", "sqlite3"),
		DatabaseURL:       utils.GetEnvOrDefault("DATABASE_URL", "./quiztrack.db"),
		RedisURL:          utils.GetEnvOrDefault("REDIS_URL", ""),
		SessionTTL:        time.Duration(utils.GetEnvInt("SESSION_TTL_HOURS", 72)) * time.Hour,
		RankRecomputeCron: utils.GetEnvOrDefault("RANK_RECOMPUTE_CRON", "@every 15m"),
		AdminEmail:        utils.GetEnvOrDefault("ADMIN_EMAIL", ""),
		AdminPassword:     utils.GetEnvOrDefault("ADMIN_PASSWORD", ""),
	}

	if cfg.SessionTTL <= 0 {
		utils.LogError("SESSION_TTL_HOURS must be positive, falling back to 72h")
		cfg.SessionTTL = 72 * time.Hour
	}

	utils.LogStartup("Config: port=%s driver=%s redis=%t", cfg.Port, cfg.DBDriver, cfg.RedisURL != "")
	return cfg
}

// UsesRedis reports whether sessions and jobs should go through Redis.
func (c *Config) UsesRedis() bool {
	return c.RedisURL != ""
}
