package util

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

//nolint:gochecknoglobals // here its ok
var once sync.Once

func init() {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	})
}

const (
	defaultServerAddr      = "localhost:8080"
	defaultWriteTimeout    = 10 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultIdleTimeout     = 30 * time.Second
	defaultGracefulTimeout = 5 * time.Second

	defaultAccessCookieName  = "access_token"
	defaultRefreshCookieName = "refresh_token"
	defaultAccessExpiryMin   = 15
	defaultRefreshExpiryMin  = 24 * 60

	defaultRateLimit     = 10
	defaultRateInterval  = 1 * time.Minute
	defaultRateBlockTime = 5 * time.Minute
)

type ServerConfig struct {
	ServerAddr      string
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
}

func NewServerConfig() *ServerConfig {
	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = defaultServerAddr
	}

	return &ServerConfig{
		ServerAddr:      addr,
		WriteTimeout:    parseDurationOrDefault("WRITE_TIMEOUT", defaultWriteTimeout),
		ReadTimeout:     parseDurationOrDefault("READ_TIMEOUT", defaultReadTimeout),
		IdleTimeout:     parseDurationOrDefault("IDLE_TIMEOUT", defaultIdleTimeout),
		GracefulTimeout: parseDurationOrDefault("GRACEFUL_TIMEOUT", defaultGracefulTimeout),
	}
}

// TokenCookieConfig describes one token cookie: its name and how long a
// token placed in it stays valid.
type TokenCookieConfig struct {
	Name   string
	Expiry time.Duration
}

type CookieConfig struct {
	AccessToken  TokenCookieConfig
	RefreshToken TokenCookieConfig
}

// JwtConfig is built once at startup and passed by reference into every
// component that needs it. There are no package-level settings.
type JwtConfig struct {
	Issuer    string
	Audience  string
	SecretKey []byte
	Algorithm string
	Cookies   CookieConfig
}

func NewJwtConfig() *JwtConfig {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	return &JwtConfig{
		Issuer:    getEnvOrDefault("JWT_ISSUER", "IB.React"),
		Audience:  getEnvOrDefault("JWT_AUDIENCE", "IB.React"),
		SecretKey: []byte(secret),
		Algorithm: getEnvOrDefault("JWT_ALGORITHM", "sha256"),
		Cookies: CookieConfig{
			AccessToken: TokenCookieConfig{
				Name:   getEnvOrDefault("ACCESS_TOKEN_COOKIE", defaultAccessCookieName),
				Expiry: parseMinutesOrDefault("ACCESS_TOKEN_EXPIRY_MIN", defaultAccessExpiryMin),
			},
			RefreshToken: TokenCookieConfig{
				Name:   getEnvOrDefault("REFRESH_TOKEN_COOKIE", defaultRefreshCookieName),
				Expiry: parseMinutesOrDefault("REFRESH_TOKEN_EXPIRY_MIN", defaultRefreshExpiryMin),
			},
		},
	}
}

type RateLimiterConfig struct {
	Limit     int
	Interval  time.Duration
	BlockTime time.Duration
}

func NewRateLimiterConfig() *RateLimiterConfig {
	limitStr := os.Getenv("RATE_LIMIT_LIMIT")
	limit := defaultRateLimit
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		} else {
			log.Printf("Invalid RATE_LIMIT_LIMIT: %s, using default %d", limitStr, defaultRateLimit)
		}
	}

	return &RateLimiterConfig{
		Limit:     limit,
		Interval:  parseDurationOrDefault("RATE_LIMIT_INTERVAL", defaultRateInterval),
		BlockTime: parseDurationOrDefault("RATE_LIMIT_BLOCK_TIME", defaultRateBlockTime),
	}
}

func GetLoginWebhookURL() string {
	return os.Getenv("LOGIN_WEBHOOK_URL")
}

func getEnvOrDefault(varName, def string) string {
	if v := os.Getenv(varName); v != "" {
		return v
	}
	return def
}

func parseDurationOrDefault(varName string, def time.Duration) time.Duration {
	if v := os.Getenv(varName); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("Invalid duration in %s: %s, using default %s", varName, v, def)
	}
	return def
}

// parseMinutesOrDefault reads a whole number of minutes, matching the
// Cookies.*.Expiry configuration contract.
func parseMinutesOrDefault(varName string, defMinutes int) time.Duration {
	if v := os.Getenv(varName); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			return time.Duration(m) * time.Minute
		}
		log.Printf("Invalid minutes in %s: %s, using default %d", varName, v, defMinutes)
	}
	return time.Duration(defMinutes) * time.Minute
}
