package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env             string
	AppSecret       string
	DatabaseURL     string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	JWTExpiry       time.Duration
	Port            string
	SiteName        string
	SiteUrl         string
	AutoSeed        bool
	CatalogPath     string
	LoginRatePerMin int
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load 加载配置
func Load() *Config {
	expiryHours := getEnvInt("JWT_EXPIRY_HOURS", 72)

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		dbUser := getEnv("DB_USER", "postgres")
		dbPass := getEnv("DB_PASSWORD", "postgres")
		dbHost := getEnv("DB_HOST", "localhost")
		dbPort := getEnv("DB_PORT", "5432")
		dbName := getEnv("DB_NAME", "movierate")
		dbSSL := getEnv("DB_SSLMODE", "disable")

		dbURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)
	}

	appSecret := getEnv("APP_SECRET", getEnv("JWT_SECRET", defaultSecret))
	env := getEnv("APP_ENV", "development")

	if env == "production" && appSecret == defaultSecret {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	return &Config{
		Env:             env,
		AppSecret:       appSecret,
		DatabaseURL:     dbURL,
		DBMaxOpenConns:  getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  getEnvInt("DB_MAX_IDLE_CONNS", 5),
		JWTExpiry:       time.Duration(expiryHours) * time.Hour,
		Port:            getEnv("PORT", "5005"),
		SiteName:        getEnv("SITE_NAME", "MovieRate"),
		SiteUrl:         getEnv("SITE_URL", "http://localhost:5005"),
		AutoSeed:        getEnvBool("AUTO_SEED", true),
		CatalogPath:     getEnv("CATALOG_PATH", ""),
		LoginRatePerMin: getEnvInt("LOGIN_RATE_PER_MIN", 20),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(getEnv(key, "")) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}
