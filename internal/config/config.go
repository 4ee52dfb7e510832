package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string

	// Optional reminder-list cache. Empty addr disables it.
	RedisAddr     string
	RedisPassword string

	SMTP   SMTPConfig
	Twilio TwilioConfig
	Worker WorkerConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

type WorkerConfig struct {
	ID           string
	PollInterval time.Duration
	JobRetention time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.JWTSecret = mustGetenv("JWT_SECRET")

	cfg.SMTP = SMTPConfig{
		Host:     getenv("SMTP_HOST", "localhost"),
		Port:     getenvInt("SMTP_PORT", 587),
		Username: getenv("SMTP_USERNAME", ""),
		Password: getenv("SMTP_PASSWORD", ""),
		From:     getenv("SMTP_FROM", "reminders@localhost"),
	}

	cfg.Twilio = TwilioConfig{
		AccountSID: getenv("TWILIO_ACCOUNT_SID", ""),
		AuthToken:  getenv("TWILIO_AUTH_TOKEN", ""),
		FromNumber: getenv("TWILIO_FROM_NUMBER", ""),
	}

	cfg.Worker = WorkerConfig{
		ID:           getenv("WORKER_ID", "worker-1"),
		PollInterval: getenvDuration("WORKER_POLL_INTERVAL", 800*time.Millisecond),
		JobRetention: getenvDuration("JOB_RETENTION", 7*24*time.Hour),
	}

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
