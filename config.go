package main

import (
	"context"
	"encoding/json"
	"os"

	"freight-portal/awsx"
)

// Config holds all runtime configuration for the portal.
type Config struct {
	Port             string
	JWTSecret        string
	RedisURL         string
	StripeSecretKey  string
	StripeWebhookKey string
	SNSTopicARN      string
	SQSQueueURL      string
	DocumentsBucket  string
}

// LoadConfig reads configuration from environment variables with optional
// Secrets Manager override for the sensitive keys.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookKey: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		SNSTopicARN:      os.Getenv("NOTIFICATION_SNS_TOPIC_ARN"),
		SQSQueueURL:      os.Getenv("NOTIFICATION_SQS_QUEUE_URL"),
		DocumentsBucket:  getEnv("DOCUMENTS_BUCKET", "freight-portal-documents"),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awsx.LoadConfig(context.Background()); err == nil {
			sm := awsx.NewSecretsClient(awsCfg)
			if raw, err := sm.GetSecret(context.Background(), "freight-portal/APP_SECRETS"); err == nil && raw != "" {
				var m map[string]string
				if err := json.Unmarshal([]byte(raw), &m); err == nil {
					if v := m["JWT_SECRET"]; v != "" {
						cfg.JWTSecret = v
						os.Setenv("JWT_SECRET", v)
					}
					if v := m["STRIPE_SECRET_KEY"]; v != "" {
						cfg.StripeSecretKey = v
					}
					if v := m["STRIPE_WEBHOOK_SECRET"]; v != "" {
						cfg.StripeWebhookKey = v
					}
				}
			}
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
