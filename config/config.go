package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Env         string // "development" or "production"; controls cookie flags
	MongoURI    string
	DBName      string
	JWTSecret   string
	CORSOrigins []string

	// Object storage for product images; optional, uploads 503 when unset.
	S3Bucket      string
	S3Region      string
	S3AccessKeyID string
	S3SecretKey   string
	MaxUploadMB   int64

	// SMTP receipts; optional, subscribe skips mail when unset.
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	StripeSecretKey string
	// Membership price in cents, charged by create-payment-intent.
	MembershipPriceCents int64
}

func Load() (*Config, error) {
	maxMB := int64(5)
	if v := getEnv("MAX_UPLOAD_MB", "5"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxMB = n
		}
	}
	smtpPort := 587
	if v := getEnv("SMTP_PORT", "587"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			smtpPort = n
		}
	}
	price := int64(999)
	if v := getEnv("MEMBERSHIP_PRICE_CENTS", "999"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			price = n
		}
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "5000"),
		Env:                  getEnv("APP_ENV", "development"),
		MongoURI:             getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:               getEnv("MONGODB_DB", "nexsyDB"),
		JWTSecret:            getEnv("SECRET_KEY", ""),
		CORSOrigins:          splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		S3Bucket:             getEnv("AWS_S3_BUCKET", ""),
		S3Region:             getEnv("AWS_REGION", "us-east-1"),
		S3AccessKeyID:        getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:          getEnv("AWS_SECRET_ACCESS_KEY", ""),
		MaxUploadMB:          maxMB,
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             smtpPort,
		SMTPUser:             getEnv("SMTP_USER", ""),
		SMTPPass:             getEnv("SMTP_PASS", ""),
		MailFrom:             getEnv("MAIL_FROM", ""),
		StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
		MembershipPriceCents: price,
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}
	return cfg, nil
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
