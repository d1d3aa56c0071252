package config

import (
	"log"
	"os"
	"strconv"

	"github.com/batmedia/docpress/internal/paginate"
	"github.com/batmedia/docpress/internal/store"
)

type Config struct {
	Port         string
	Env          string
	DatabasePath string

	// Storage keys are configurable because historical builds shipped with
	// different suffixes; loading an older device store just needs the keys
	// pointed at the old names.
	HistoryKey string
	SalesKey   string

	// Export defaults; the UI can override per request.
	ExportDPI  int
	PDFQuality float64

	// PDF assembly behavior.
	PDFMultiPage   bool
	PDFImageFormat string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		DatabasePath:   getEnv("DATABASE_PATH", "docpress.db"),
		HistoryKey:     getEnv("HISTORY_KEY", store.DefaultHistoryKey),
		SalesKey:       getEnv("SALES_KEY", store.DefaultSalesKey),
		ExportDPI:      getEnvInt("EXPORT_DPI", 200),
		PDFQuality:     getEnvFloat("PDF_QUALITY", 0.85),
		PDFMultiPage:   ParseBool("PDF_MULTI_PAGE", true),
		PDFImageFormat: getEnv("PDF_IMAGE_FORMAT", paginate.FormatJPEG),
	}
}

// PDFOptions bundles the paginator configuration.
func (c Config) PDFOptions() paginate.Options {
	return paginate.Options{
		Quality:   c.PDFQuality,
		Format:    c.PDFImageFormat,
		MultiPage: c.PDFMultiPage,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Printf("invalid float for %s: %s", key, v)
			return def
		}
		return f
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
