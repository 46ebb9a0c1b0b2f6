// Package config reads process configuration from the environment.
// Callers load .env files with godotenv before calling Load.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// Config is the validated runtime configuration.
type Config struct {
	APIBaseURL   string        `validate:"required,url"`
	AppKey       string        `validate:"required"`
	APIToken     string        `validate:"-"`
	APITokenFile string        `validate:"-"`
	APITimeout   time.Duration `validate:"gt=0"`

	OnlinePaymentMethods  string
	DefaultTaxPercent     decimal.Decimal
	DefaultServicePercent decimal.Decimal
	Lang                  string `validate:"oneof=en ar"`

	SessionStore  string        `validate:"oneof=memory sqlite postgres"`
	SessionDBPath string        `validate:"required_if=SessionStore sqlite"`
	DatabaseURL   string        `validate:"required_if=SessionStore postgres"`
	SessionTTL    time.Duration `validate:"gt=0"`
	SessionKey    string        `validate:"required"`

	ReceiptDir           string
	ReceiptS3Bucket      string
	ReceiptS3Region      string        `validate:"required_with=ReceiptS3Bucket"`
	ReceiptRedirectDelay time.Duration `validate:"gte=0"`

	ServerPort     string  `validate:"required,numeric"`
	AllowedOrigins string  `validate:"-"`
	RateLimit      float64 `validate:"gt=0"`
	RateBurst      int     `validate:"gt=0"`

	LogLevel       string `validate:"oneof=debug info warn error"`
	RestaurantName string `validate:"required"`
	CurrencyLabel  string `validate:"required"`
}

// Load reads the environment, applies defaults and validates the result.
func Load() (*Config, error) {
	var errs []string
	dur := func(key string, def time.Duration) time.Duration {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
		return d
	}
	dec := func(key string, def int64) decimal.Decimal {
		v := os.Getenv(key)
		if v == "" {
			return decimal.NewFromInt(def)
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		} else if d.IsNegative() {
			errs = append(errs, fmt.Sprintf("%s: must not be negative", key))
		}
		return d
	}
	num := func(key string, def float64) float64 {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
		return f
	}

	cfg := &Config{
		APIBaseURL:   os.Getenv("API_BASE_URL"),
		AppKey:       os.Getenv("APP_KEY"),
		APIToken:     os.Getenv("API_TOKEN"),
		APITokenFile: os.Getenv("API_TOKEN_FILE"),
		APITimeout:   dur("API_TIMEOUT", 30*time.Second),

		OnlinePaymentMethods:  getenv("ONLINE_PAYMENT_METHODS", "card"),
		DefaultTaxPercent:     dec("DEFAULT_TAX_PERCENT", 10),
		DefaultServicePercent: dec("DEFAULT_SERVICE_PERCENT", 10),
		Lang:                  strings.ToLower(getenv("POS_LANG", "en")),

		SessionStore:  strings.ToLower(getenv("SESSION_STORE", "sqlite")),
		SessionDBPath: getenv("SESSION_DB_PATH", defaultSessionPath()),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SessionTTL:    dur("SESSION_TTL", 2*time.Hour),
		SessionKey:    getenv("SESSION_KEY", defaultSessionKey()),

		ReceiptDir:           getenv("RECEIPT_DIR", "receipts"),
		ReceiptS3Bucket:      os.Getenv("RECEIPT_S3_BUCKET"),
		ReceiptS3Region:      os.Getenv("RECEIPT_S3_REGION"),
		ReceiptRedirectDelay: dur("RECEIPT_REDIRECT_DELAY", 1500*time.Millisecond),

		ServerPort:     getenv("SERVER_PORT", "8080"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		RateLimit:      num("RATE_LIMIT", 20),
		RateBurst:      int(num("RATE_BURST", 40)),

		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		RestaurantName: getenv("RESTAURANT_NAME", "Le Monde Café"),
		CurrencyLabel:  getenv("CURRENCY_LABEL", "EGP"),
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func defaultSessionPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return dir + "/pos-billing/session.db"
}

func defaultSessionKey() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "default"
	}
	return "terminal:" + host
}
