package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPPort    string

	ProjectID    string
	FunctionName string

	// PaymentsEnabled selects the provisioning profile: when true, account
	// creation also provisions a processor customer and setup intent.
	PaymentsEnabled bool

	StripeSecretKey string

	StoreBackend    string
	IdentityBackend string
	ErrorReporter   string
}

const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"

	IdentityFirebase = "firebase"
	IdentityMemory   = "memory"

	ReporterCloudLogging = "cloudlogging"
	ReporterLog          = "log"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:         getenv("APP_SERVICE", "teacherspace-functions"),
		AppVersion:      getenv("APP_VERSION", "0.1.0"),
		Environment:     getenv("ENVIRONMENT", "development"),
		HTTPPort:        getenv("HTTP_PORT", "8080"),
		ProjectID:       getenv("GOOGLE_PROJECT_ID", os.Getenv("GCLOUD_PROJECT")),
		FunctionName:    getenv("FUNCTION_NAME", "api"),
		PaymentsEnabled: getenvBool("PAYMENTS_ENABLED", true),
		StripeSecretKey: strings.TrimSpace(getenv("STRIPE_SECRET_KEY", "")),
		StoreBackend:    normalizeBackend(getenv("STORE_BACKEND", StoreFirestore), StoreFirestore, StoreMemory),
		IdentityBackend: normalizeBackend(getenv("IDENTITY_BACKEND", IdentityFirebase), IdentityFirebase, IdentityMemory),
		ErrorReporter:   normalizeBackend(getenv("ERROR_REPORTER", ReporterCloudLogging), ReporterCloudLogging, ReporterLog),
	}
}

var Module = fx.Module("config",
	fx.Provide(Load),
)

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func normalizeBackend(raw, def string, allowed ...string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return def
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
