package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultWarehouse = "Inventory Report"

type Config struct {
	DBPath    string
	OutputDir string
	ShareDir  string
	LogLevel  string

	DefaultWarehouse string
	UnlockSecret     string
	UnlockSecretHash string

	HTTPAddr       string
	MetricsEnabled bool

	CatalogFetchTimeoutMs int
	CatalogFetchRetries   int
	CSVCharset            string

	ChromeBin      string
	PDFLandscape   bool
	ReportLogoPath string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	WedgeWindowMs int
}

// Load reads .env, then an optional YAML/TOML/JSON file named by CONFIG_FILE
// (or ./iow.yaml when present). Environment variables take precedence over the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.AutomaticEnv()
	if err := readConfigFile(v, cwd); err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv(v, "DB_PATH", filepath.Join(cwd, "data", "iow.db")),
		OutputDir: getEnv(v, "OUTPUT_DIR", filepath.Join(cwd, "out")),
		ShareDir:  getEnv(v, "SHARE_DIR", filepath.Join(cwd, "out", "shared")),
		LogLevel:  getEnv(v, "LOG_LEVEL", "info"),

		DefaultWarehouse: getEnv(v, "DEFAULT_WAREHOUSE", DefaultWarehouse),
		UnlockSecret:     getEnv(v, "UNLOCK_SECRET", "IoWP@ssw0rd"),
		UnlockSecretHash: getEnv(v, "UNLOCK_SECRET_HASH", ""),

		HTTPAddr:       getEnv(v, "HTTP_ADDR", ":8080"),
		MetricsEnabled: getEnvBool(v, "METRICS_ENABLED", true),

		CatalogFetchTimeoutMs: getEnvInt(v, "CATALOG_FETCH_TIMEOUT_MS", 30000),
		CatalogFetchRetries:   getEnvInt(v, "CATALOG_FETCH_RETRIES", 5),
		CSVCharset:            getEnv(v, "CATALOG_CSV_CHARSET", "auto"),

		ChromeBin:      getEnv(v, "CHROME_BIN", ""),
		PDFLandscape:   getEnvBool(v, "PDF_LANDSCAPE", true),
		ReportLogoPath: getEnv(v, "REPORT_LOGO_PATH", ""),

		SMTPHost:     getEnv(v, "SMTP_HOST", ""),
		SMTPPort:     getEnvInt(v, "SMTP_PORT", 587),
		SMTPUser:     getEnv(v, "SMTP_USER", ""),
		SMTPPassword: getEnv(v, "SMTP_PASSWORD", ""),
		MailFrom:     getEnv(v, "MAIL_FROM", ""),

		WedgeWindowMs: getEnvInt(v, "SCANNER_WEDGE_WINDOW_MS", 500),
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper, cwd string) error {
	path, explicit := os.LookupEnv("CONFIG_FILE")
	if !explicit {
		path = filepath.Join(cwd, "iow.yaml")
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required setting: %s", name)
	}
	return nil
}

func getEnv(v *viper.Viper, key, fallback string) string {
	if !v.IsSet(key) {
		return fallback
	}
	return v.GetString(key)
}

func getEnvInt(v *viper.Viper, key string, fallback int) int {
	value := strings.TrimSpace(getEnv(v, key, ""))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(v *viper.Viper, key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(v, key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
