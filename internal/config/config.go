package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	APIPort string
	Env     string

	AWSRegion   string
	S3Bucket    string
	S3ConfigKey string

	EncryptionKey string

	OutcomeWebhookURL    string
	EscalationWebhookURL string
	ChatWebhookURL       string
	VoiceGatewayURL      string

	EmailFrom    string
	ContactEmail string
	ContactPhone string

	MaxJobAttempts int
	BackoffBase    time.Duration
	BackoffCap     time.Duration
	Concurrency    int
}

func Load() Config {
	return Config{
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		APIPort: getEnv("API_PORT", "3000"),
		Env:     getEnv("APP_ENV", "development"),

		AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:    getEnv("S3_BUCKET_NAME", ""),
		S3ConfigKey: getEnv("S3_CONFIG_KEY", "encrypted-prompts.json"),

		EncryptionKey: getEnv("ENCRYPTION_KEY", ""),

		OutcomeWebhookURL:    getEnv("OUTCOME_WEBHOOK_URL", ""),
		EscalationWebhookURL: getEnv("ESCALATION_WEBHOOK_URL", ""),
		ChatWebhookURL:       getEnv("CHAT_WEBHOOK_URL", "https://chat.example.com/webhook"),
		VoiceGatewayURL:      getEnv("VOICE_GATEWAY_URL", ""),

		EmailFrom:    getEnv("EMAIL_FROM", ""),
		ContactEmail: getEnv("CONTACT_EMAIL", "customer@example.com"),
		ContactPhone: getEnv("CONTACT_PHONE", "+1234567890"),

		MaxJobAttempts: getEnvInt("MAX_JOB_ATTEMPTS", 3),
		BackoffBase:    time.Duration(getEnvInt("BACKOFF_BASE_MS", 2000)) * time.Millisecond,
		BackoffCap:     time.Duration(getEnvInt("BACKOFF_CAP_MS", 30000)) * time.Millisecond,
		Concurrency:    getEnvInt("WORKER_CONCURRENCY", 5),
	}
}

// Production reports whether real channel adapters should be used instead of
// the mocks.
func (c Config) Production() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		_, err := fmt.Sscanf(v, "%d", &n)
		if err == nil {
			return n
		}
	}
	return def
}
