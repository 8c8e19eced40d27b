// Package config loads process configuration from the environment.
// Secrets (the RSA private key, SMTP credentials) are required and the
// process refuses to start without them.
package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Addr string

	DBPath      string
	SagaLogPath string

	// RedisAddr is optional; when empty the catalog cache is a no-op.
	RedisAddr string

	// PrivateKeyPEM decrypts payment envelopes. PublicKeyPEM is served to
	// clients; when unset it is derived from the private key at startup.
	PrivateKeyPEM string
	PublicKeyPEM  string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string
}

// Load reads the environment. All missing required variables are reported
// together.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:          ":" + getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "./data/checkout.db"),
		SagaLogPath:   getEnv("SAGA_LOG_PATH", "./data/sagalog.db"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		PrivateKeyPEM: os.Getenv("PRIVATE_KEY"),
		PublicKeyPEM:  os.Getenv("PUBLIC_KEY"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      os.Getenv("SMTP_PORT"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		MailFrom:      getEnv("MAIL_FROM", "orders@example.com"),
	}

	var missing []string
	for name, val := range map[string]string{
		"PRIVATE_KEY": cfg.PrivateKeyPEM,
		"SMTP_HOST":   cfg.SMTPHost,
		"SMTP_PORT":   cfg.SMTPPort,
		"SMTP_USER":   cfg.SMTPUser,
		"SMTP_PASS":   cfg.SMTPPass,
	} {
		if val == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("config: missing required env variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
