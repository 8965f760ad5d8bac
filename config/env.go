package config

import (
	"fmt"
	"os"
	"strconv"

	"pitlane/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var Env = GetDefaultConfig()

func LoadEnv() error {
	// .env is optional, real environment variables always win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	if value := os.Getenv("DB_DRIVER"); value != "" {
		switch value {
		case "mysql", "sqlite":
			Env.DBDriver = value
		default:
			return fmt.Errorf("DB_DRIVER env must be mysql or sqlite, got %q", value)
		}
	}
	if value := os.Getenv("DB_HOST"); value != "" {
		Env.DBHost = value
	}
	if value := os.Getenv("DB_PORT"); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("DB_PORT env is not a valid integer: %w", err)
		}
		Env.DBPort = port
	}
	if value := os.Getenv("DB_NAME"); value != "" {
		Env.DBName = value
	}
	if value := os.Getenv("DB_USER"); value != "" {
		Env.DBUser = value
	}
	if value := os.Getenv("DB_PASSWORD"); value != "" {
		Env.DBPassword = value
	}
	if value := os.Getenv("CACHING"); value != "" {
		caching, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("CACHING env is not a valid boolean: %w", err)
		}
		Env.Caching = caching
	}
	if Env.Caching && Env.DBDriver == "mysql" && Env.DBPassword == "" {
		zap.S().Warn("CACHING is enabled but DB_PASSWORD is not set")
	}
	if value := os.Getenv("HTTP_PROXY"); value != "" {
		Env.HTTPProxy = value
	}
	if value := os.Getenv("HTTPS_PROXY"); value != "" {
		Env.HTTPSProxy = value
	}
	if value := os.Getenv("NO_PROXY"); value != "" {
		Env.NoProxy = value
	}
	if value := os.Getenv("EXT_CONFIG_PATH"); value != "" {
		Env.ExtractorConfigPath = value
	}
	if value := os.Getenv("COOKIES_DIR"); value != "" {
		Env.CookiesDirectory = value
	}
	if value := os.Getenv("DEBUG_DIR"); value != "" {
		Env.DebugDirectory = value
	}
	if value := os.Getenv("DEBUG_DUMP"); value != "" {
		dump, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("DEBUG_DUMP env is not a valid boolean: %w", err)
		}
		Env.DebugDump = dump
	}
	if value := os.Getenv("CONCURRENCY"); value != "" {
		concurrency, err := strconv.Atoi(value)
		if err != nil || concurrency <= 0 {
			return fmt.Errorf("CONCURRENCY env is not a valid positive integer: %q", value)
		}
		Env.Concurrency = concurrency
	} else {
		zap.S().Debugf("CONCURRENCY is not set, using default %d", Env.Concurrency)
	}
	if value := os.Getenv("LOG_LEVEL"); value != "" {
		Env.LogLevel = value
	}
	return nil
}

func GetDefaultConfig() *models.EnvConfig {
	return &models.EnvConfig{
		DBDriver: "mysql",
		DBHost:   "localhost",
		DBPort:   3306,
		DBName:   "pitlane",
		DBUser:   "pitlane",

		ExtractorConfigPath: "ext-cfg.yaml",
		CookiesDirectory:    "cookies",
		DebugDirectory:      "debug",

		Concurrency: 4,
		LogLevel:    "info",
	}
}
