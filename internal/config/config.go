// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"compreg/internal/logger"
)

// Variables available everywhere
var (
	baseDir          string
	teacherRoster    string
	teamRoster       string
	reportsDirectory string
	billingDirectory string
	logsDirectory    string
	ledgerPath       string
	catalogPath      string

	rendererEndpoint string
	rendererAPIKey   string
	invoiceIssuer    string
	invoiceLogoURL   string
	invoiceNotes     string

	standardChallengeRate float64
	multiChallengeRate    float64
	lunchSliceRate        float64
	invoicePrefix         string
	invoiceSeqStart       int
)

// Pricing and sequence defaults; all overridable from the environment.
const (
	defaultStandardRate = 15.00
	defaultMultiRate    = 25.00
	defaultSliceRate    = 3.75
	defaultPrefix       = "INV-"
	defaultSeqStart     = 1
)

//
// --- Utility Helpers ---
//

// Helper: get a setting, falling back to a default when unset
func GetEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.LogWarn("Invalid %s: %q, using default %.2f", key, v, fallback)
		return fallback
	}
	return f
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.LogWarn("Invalid %s: %q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

//
// --- Loaders ---
//

// LoadEnv reads .env file
func LoadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		log.Printf("Could not determine working directory: %v", err)
	} else {
		log.Printf("Current working directory: %s", wd)
	}

	err = godotenv.Load(".env")
	if err != nil {
		log.Printf("No .env file found in %s. Using system environment variables.", wd)
	} else {
		log.Printf("Loaded environment variables from .env file in %s", wd)
	}
}

// LoggerConfig returns a logger.Config struct populated from environment
func LoggerConfig() logger.Config {
	logDir := GetEnvDefault("LOGS_DIRECTORY", "./logs")
	logFormat := GetEnvDefault("LOG_FILE_FORMAT", "run_%s.log")
	timezone := GetEnvDefault("TIME_ZONE", "Local")

	return logger.Config{
		LogsDirectory: logDir,
		LogFileFormat: logFormat,
		TimeZone:      timezone,
	}
}

// ConfigurePaths sets up folders and paths
func ConfigurePaths() {
	wd, err := os.Getwd()
	if err != nil {
		logger.LogFatal("Failed to get working directory: %v", err)
	}
	baseDir = wd

	teacherRoster = GetEnvDefault("TEACHER_ROSTER", filepath.Join(baseDir, "data", "teacher_registration.csv"))
	teamRoster = GetEnvDefault("TEAM_ROSTER", filepath.Join(baseDir, "data", "team_registration.csv"))
	reportsDirectory = GetEnvDefault("REPORTS_DIRECTORY", filepath.Join(baseDir, "reports"))
	billingDirectory = GetEnvDefault("BILLING_DIRECTORY", filepath.Join(baseDir, "invoices"))
	logsDirectory = GetEnvDefault("LOGS_DIRECTORY", filepath.Join(baseDir, "logs"))

	// Optional: empty means the feature stays off
	ledgerPath = os.Getenv("LEDGER_PATH")
	catalogPath = os.Getenv("CATALOG_PATH")
}

// LoadBillingConfig sets up invoice renderer and pricing info
func LoadBillingConfig() error {
	rendererEndpoint = os.Getenv("RENDERER_ENDPOINT")
	if rendererEndpoint == "" {
		return fmt.Errorf("invoice renderer endpoint is missing (set RENDERER_ENDPOINT)")
	}
	rendererAPIKey = os.Getenv("RENDERER_API_KEY")
	if rendererAPIKey == "" {
		logger.LogWarn("RENDERER_API_KEY is not set in environment")
	}

	invoiceIssuer = GetEnvDefault("INVOICE_ISSUER", "Competition Organizing Committee")
	invoiceLogoURL = os.Getenv("INVOICE_LOGO_URL")
	invoiceNotes = GetEnvDefault("INVOICE_NOTES",
		"Payment due within 30 days. Cheques payable to the organizing committee; include the invoice number in the memo.")

	standardChallengeRate = getEnvFloat("STANDARD_CHALLENGE_RATE", defaultStandardRate)
	multiChallengeRate = getEnvFloat("MULTI_CHALLENGE_RATE", defaultMultiRate)
	lunchSliceRate = getEnvFloat("LUNCH_SLICE_RATE", defaultSliceRate)
	invoicePrefix = GetEnvDefault("INVOICE_PREFIX", defaultPrefix)
	invoiceSeqStart = getEnvInt("INVOICE_SEQ_START", defaultSeqStart)

	logger.LogInfo("Billing configured: renderer %s, rates %.2f/%.2f per student, %.2f per slice",
		rendererEndpoint, standardChallengeRate, multiChallengeRate, lunchSliceRate)
	return nil
}

//
// --- Getters (exported) ---
//

func TeacherRosterPath() string {
	return teacherRoster
}

func TeamRosterPath() string {
	return teamRoster
}

func ReportsDirectory() string {
	return reportsDirectory
}

func BillingDirectory() string {
	return billingDirectory
}

func LogsDirectory() string {
	return logsDirectory
}

func LedgerPath() string {
	return ledgerPath
}

func CatalogPath() string {
	return catalogPath
}

func RendererEndpoint() string {
	return rendererEndpoint
}

func RendererAPIKey() string {
	return rendererAPIKey
}

func InvoiceIssuer() string {
	return invoiceIssuer
}

func InvoiceLogoURL() string {
	return invoiceLogoURL
}

func InvoiceNotes() string {
	return invoiceNotes
}

func StandardChallengeRate() float64 {
	return standardChallengeRate
}

func MultiChallengeRate() float64 {
	return multiChallengeRate
}

func LunchSliceRate() float64 {
	return lunchSliceRate
}

func InvoicePrefix() string {
	return invoicePrefix
}

func InvoiceSeqStart() int {
	return invoiceSeqStart
}
