package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"sjsage522/propertydealworker/pkg/errors"
)

// Extraction modes
const (
	ExtractModeDOM      = "dom"
	ExtractModeSnapshot = "snapshot"
)

// Config represents the application configuration
type Config struct {
	// Portal configuration
	PortalURL string
	CityName  string

	// Scrape configuration
	CrawlInterval     time.Duration
	ScrapeTimeout     time.Duration
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
	KeystrokeDelay    time.Duration
	ExtractMode       string

	// Browser configuration
	BrowserHeadless bool
	BrowserProxy    string
	BrowserInstall  bool

	// Classification services
	ClassifyURL     string
	AnomalyURL      string
	ClassifyTimeout time.Duration

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr    string
	FailureCooldown time.Duration

	// Storage configuration
	SQLitePath string

	// HTTP API
	HTTPAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	return &Config{
		PortalURL:            getEnv("PORTAL_URL", "https://srem.moj.gov.sa/transactions-info"),
		CityName:             getEnv("CITY_NAME", "مدينة الرياض"),
		CrawlInterval:        getSeconds("CRAWL_INTERVAL_SECONDS", 86400),
		ScrapeTimeout:        getSeconds("SCRAPE_TIMEOUT_SECONDS", 300),
		NavigationTimeout:    getSeconds("NAVIGATION_TIMEOUT_SECONDS", 60),
		SettleDelay:          getMillis("SETTLE_DELAY_MS", 5000),
		KeystrokeDelay:       getMillis("KEYSTROKE_DELAY_MS", 100),
		ExtractMode:          strings.ToLower(getEnv("EXTRACT_MODE", ExtractModeDOM)),
		BrowserHeadless:      getBool("BROWSER_HEADLESS", true),
		BrowserProxy:         getEnv("BROWSER_PROXY", ""),
		BrowserInstall:       getBool("BROWSER_INSTALL", false),
		ClassifyURL:          getEnv("CLASSIFY_URL", "https://faisalalmane2.pythonanywhere.com/classify"),
		AnomalyURL:           getEnv("ANOMALY_URL", "https://faisalalmane.pythonanywhere.com/classify"),
		ClassifyTimeout:      getSeconds("CLASSIFY_TIMEOUT_SECONDS", 60),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              getInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "property_anomalies"),
		RedisStreamCount:     getInt("REDIS_STREAM_COUNT", 1),
		RedisStreamMaxLength: getInt("REDIS_STREAM_MAX_LENGTH", 1000),
		MemcacheAddr:         lookupEnv("MEMCACHE_ADDR", "localhost:11211"),
		FailureCooldown:      getSeconds("FAILURE_COOLDOWN_SECONDS", 600),
		SQLitePath:           getEnv("SQLITE_PATH", "properties.db"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":5000"),
		Environment:          getEnv("PROPERTY_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the worker cannot run with
func (c *Config) Validate() error {
	switch {
	case c.PortalURL == "":
		return errors.NewConfiguration("PORTAL_URL is required", nil)
	case c.CrawlInterval <= 0:
		return errors.NewConfiguration("CRAWL_INTERVAL_SECONDS must be positive", nil)
	case c.ScrapeTimeout <= 0:
		return errors.NewConfiguration("SCRAPE_TIMEOUT_SECONDS must be positive", nil)
	case c.NavigationTimeout <= 0:
		return errors.NewConfiguration("NAVIGATION_TIMEOUT_SECONDS must be positive", nil)
	case c.ExtractMode != ExtractModeDOM && c.ExtractMode != ExtractModeSnapshot:
		return errors.NewConfiguration("EXTRACT_MODE must be 'dom' or 'snapshot'", nil)
	case c.ClassifyURL == "" || c.AnomalyURL == "":
		return errors.NewConfiguration("CLASSIFY_URL and ANOMALY_URL are required", nil)
	case c.RedisStreamCount < 1:
		return errors.NewConfiguration("REDIS_STREAM_COUNT must be at least 1", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// lookupEnv is getEnv for keys where an explicit empty value means "off"
func lookupEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return b
}

func getSeconds(key string, defaultValue int) time.Duration {
	return time.Duration(getInt(key, defaultValue)) * time.Second
}

func getMillis(key string, defaultValue int) time.Duration {
	return time.Duration(getInt(key, defaultValue)) * time.Millisecond
}
