package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AppAll     = "all"
	AppLearner = "learner"
	AppHub     = "hub"
)

type Config struct {
	Environment string
	AppMode     string
	ServerPort  string

	APIURL     string
	APITimeout time.Duration

	LogMode      string
	LogRedaction bool
	LogHashSalt  string

	CORSOrigins []string

	SessionStore   string
	SessionTTL     time.Duration
	MeSyncInterval time.Duration
	RefreshSkew    time.Duration
	CookieSecure   bool

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr    string
	RedisChannel string

	RoadmapCacheTTL time.Duration
	TagCacheTTL     time.Duration
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		AppMode:         strings.ToLower(getEnv("APP_MODE", AppAll)),
		ServerPort:      getEnv("PORT", "8080"),
		APIURL:          strings.TrimRight(getEnv("API_URL", os.Getenv("NEXT_PUBLIC_API_URL")), "/"),
		APITimeout:      getSeconds("API_TIMEOUT_SECONDS", 15),
		LogMode:         getEnv("LOG_MODE", "development"),
		LogRedaction:    getBool("LOG_REDACTION_ENABLED", true),
		LogHashSalt:     os.Getenv("LOG_HASH_SALT"),
		CORSOrigins:     getList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:3001"}),
		SessionStore:    strings.ToLower(getEnv("SESSION_STORE", "memory")),
		SessionTTL:      time.Duration(getInt("SESSION_TTL_HOURS", 24*30)) * time.Hour,
		MeSyncInterval:  getSeconds("ME_SYNC_SECONDS", 300),
		RefreshSkew:     getSeconds("REFRESH_SKEW_SECONDS", 60),
		CookieSecure:    getBool("COOKIE_SECURE", false),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getInt("DB_PORT", 5432),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", ""),
		DBName:          getEnv("DB_NAME", "codelegends"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisChannel:    getEnv("REDIS_CHANNEL", "codelegends:progress"),
		RoadmapCacheTTL: getSeconds("ROADMAP_CACHE_SECONDS", 60),
		TagCacheTTL:     getSeconds("TAG_CACHE_SECONDS", 30),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("API_URL (or NEXT_PUBLIC_API_URL) is required")
	}
	switch c.AppMode {
	case AppAll, AppLearner, AppHub:
	default:
		return fmt.Errorf("unknown APP_MODE %q", c.AppMode)
	}
	switch c.SessionStore {
	case "memory":
	case "postgres":
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required when SESSION_STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore)
	}
	return nil
}

func (c *Config) ServesLearner() bool { return c.AppMode == AppAll || c.AppMode == AppLearner }

func (c *Config) ServesHub() bool { return c.AppMode == AppAll || c.AppMode == AppHub }

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getSeconds(key string, def int) time.Duration {
	return time.Duration(getInt(key, def)) * time.Second
}

func getBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func getList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
