package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// The one privileged credential pair. Sign-in attempts with this pair get the
	// fallback ladder (sign-in -> sign-up -> degraded local admin session), and the
	// email alone grants the admin flag regardless of the profile row.
	AdminEmail    string
	AdminPassword string

	WhatsAppNumber string

	OTLPEndpoint string

	SeedCatalog bool
}

func Load() Config {
	// .env is optional; real env vars always win
	_ = godotenv.Load()

	return Config{
		Env:   getEnv("APP_ENV", "dev"),
		Port:  getEnvInt("PORT", 8080),
		DBURL: buildDBURL(),

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-me"),
		AccessTTL:  getEnvDuration("ACCESS_TTL", 15*time.Minute),
		RefreshTTL: getEnvDuration("REFRESH_TTL", 7*24*time.Hour),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		WhatsAppNumber: getEnv("WHATSAPP_NUMBER", "2349130587083"),

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),

		SeedCatalog: getEnvBool("SEED_CATALOG", false),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "coursehub")
	pass := getEnv("DB_PASSWORD", "coursehub")
	name := getEnv("DB_NAME", "coursehub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return b
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return d
	}
	return fallback
}
