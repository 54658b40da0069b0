package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Postgres DSN for state slots and the local identity provider.
	DatabaseDSN string

	// External identity backend. When BaseURL is empty the storefront runs
	// its own provider against the database.
	IdentityBaseURL string
	IdentityAPIKey  string
	ProviderTimeout time.Duration

	// Secret for tokens issued by the local provider.
	JWTSecret string

	// Checkout hand-off.
	WhatsAppNumber string
	PaymentDelay   time.Duration

	RabbitURL string

	CORSAllowOrigins []string
}

func Load() Config {
	return Config{
		Port:        getenv("PORT", "8080"),
		DatabaseDSN: os.Getenv("STOREFRONT_DB_DSN"),

		IdentityBaseURL: os.Getenv("IDENTITY_BASE_URL"),
		IdentityAPIKey:  os.Getenv("IDENTITY_API_KEY"),
		ProviderTimeout: parseDuration(getenv("PROVIDER_TIMEOUT", "10s"), 10*time.Second),

		JWTSecret: getenv("JWT_SECRET", "dev-secret-change-me"),

		WhatsAppNumber: getenv("WHATSAPP_NUMBER", "528134478045"),
		PaymentDelay:   parseDuration(getenv("PAYMENT_DELAY", "2s"), 2*time.Second),

		RabbitURL: os.Getenv("RABBITMQ_URL"),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
