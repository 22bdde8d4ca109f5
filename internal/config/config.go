package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Supabase storage (mandatory for accepting submissions)
	SupabaseURL            string
	SupabaseServiceRoleKey string
	SupabaseTable          string
	StorageTimeout         time.Duration

	// Lead classification (optional, presence of a key enables it)
	ClassifierProvider string
	ClassifierModel    string
	ClassifierTimeout  time.Duration
	OpenAIAPIKey       string
	GeminiAPIKey       string

	// SMS alerts (optional, all four values must be present to enable)
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	AlertPhoneNumber string

	// Email alerts (optional)
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	AlertEmail        string

	// Phone normalization region for numbers entered without a country code
	DefaultPhoneRegion string

	// Per-IP rate limiting on the public intake route
	RateLimitPerSecond int
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		SupabaseURL:            strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseTable:          getEnv("SUPABASE_LEADS_TABLE", "leads"),
		StorageTimeout:         getEnvAsDuration("STORAGE_TIMEOUT", 10*time.Second),

		ClassifierProvider: strings.ToLower(strings.TrimSpace(getEnv("CLASSIFIER_PROVIDER", "auto"))),
		ClassifierModel:    getEnv("CLASSIFIER_MODEL", ""),
		ClassifierTimeout:  getEnvAsDuration("CLASSIFIER_TIMEOUT", 15*time.Second),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),

		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
		AlertPhoneNumber: getEnv("ALERT_PHONE_NUMBER", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Direct Auto Brokerage"),
		AlertEmail:        getEnv("ALERT_EMAIL", ""),

		DefaultPhoneRegion: getEnv("DEFAULT_PHONE_REGION", "US"),

		RateLimitPerSecond: getEnvAsInt("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
	}
}

// StorageConfigured reports whether the mandatory storage credentials are present.
func (c *Config) StorageConfigured() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceRoleKey != ""
}

// SMSConfigured reports whether all four SMS credentials are present.
func (c *Config) SMSConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" &&
		c.TwilioFromNumber != "" && c.AlertPhoneNumber != ""
}

// EmailConfigured reports whether email alerts can be sent.
func (c *Config) EmailConfigured() bool {
	return c.SendGridAPIKey != "" && c.SendGridFromEmail != "" && c.AlertEmail != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
