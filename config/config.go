package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DefaultRecaptchaMinScore is the minimum reCAPTCHA score accepted when
	// RECAPTCHA_MIN_SCORE is not set
	DefaultRecaptchaMinScore = 0.5
)

type Config struct {
	ServerPort  string
	Environment string
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	ContactTo     string
	EmailTestMode bool // When true, emails are logged to console instead of sent
	// Google reCAPTCHA
	RecaptchaSecret   string
	RecaptchaMinScore float64
	// Google Sheets ledger
	GoogleServiceAccountEmail string
	GooglePrivateKey          string
	GoogleSheetsID            string
	LedgerTestMode            bool   // When true, leads are appended to a local xlsx instead of Google Sheets
	LedgerFile                string // Path of the local xlsx used in test mode
	// Other
	AllowedOrigins []string
	AppURL         string
	StaticDir      string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:                getEnv("SERVER_PORT", "8080"),
		Environment:               getEnv("ENVIRONMENT", "development"),
		ResendAPIKey:              getEnv("RESEND_API_KEY", ""),
		EmailFrom:                 getEnv("EMAIL_FROM", "onboarding@resend.dev"),
		EmailFromName:             getEnv("EMAIL_FROM_NAME", "PrinTera"),
		ContactTo:                 getEnv("CONTACT_TO", ""),
		EmailTestMode:             getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		RecaptchaSecret:           getEnv("RECAPTCHA_SECRET", ""),
		RecaptchaMinScore:         getEnvFloat("RECAPTCHA_MIN_SCORE", DefaultRecaptchaMinScore),
		GoogleServiceAccountEmail: getEnv("GOOGLE_SERVICE_ACCOUNT_EMAIL", ""),
		GooglePrivateKey:          normalizePrivateKey(getEnv("GOOGLE_PRIVATE_KEY", "")),
		GoogleSheetsID:            getEnv("GOOGLE_SHEETS_ID", ""),
		LedgerTestMode:            getEnvBool("LEDGER_TEST_MODE", true), // Default true for safety
		LedgerFile:                getEnv("LEDGER_FILE", "db/leads.xlsx"),
		AllowedOrigins:            strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		AppURL:                    getEnv("APP_URL", "http://localhost:8080"),
		StaticDir:                 getEnv("STATIC_DIR", "static"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("[WARNING] Invalid float for %s: %q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// normalizePrivateKey converts the escaped "\n" sequences that hosting dashboards
// store in single-line env vars back into real newlines, as PEM parsing requires
func normalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}
