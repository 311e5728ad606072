package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds importer configuration.
type Config struct {
	ReferenceLanguage string
	PreviewLimit      int
	Timeout           time.Duration
	LinkTimeout       time.Duration
	LinkMaxRedirects  int
	ValidateLinks     bool
	ResyncAll         bool
	CatalogPath       string
	ReportDir         string
	UploadsDir        string
	LogDir            string
	UserAgent         string
	MetricsAddr       string
	Verbose           bool
}

// DefaultConfig returns conservative defaults for a local catalog.
func DefaultConfig() *Config {
	return &Config{
		ReferenceLanguage: "english",
		PreviewLimit:      10,
		Timeout:           10 * time.Second,
		LinkTimeout:       10 * time.Second,
		LinkMaxRedirects:  3,
		ValidateLinks:     true,
		ResyncAll:         true,
		CatalogPath:       "data/catalog.sqlite",
		ReportDir:         "data/reports",
		UploadsDir:        "data/uploads",
		LogDir:            "data/logs",
		UserAgent:         "bookfeed-import/1.0",
		MetricsAddr:       "",
		Verbose:           false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.ReferenceLanguage == "" {
		return fmt.Errorf("reference language cannot be empty")
	}
	if c.PreviewLimit <= 0 {
		return fmt.Errorf("preview limit must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.LinkTimeout <= 0 {
		return fmt.Errorf("link timeout must be positive")
	}
	if c.LinkMaxRedirects < 0 {
		return fmt.Errorf("link max redirects cannot be negative")
	}
	if c.CatalogPath == "" {
		return fmt.Errorf("catalog path cannot be empty")
	}
	if c.ReportDir == "" {
		return fmt.Errorf("report dir cannot be empty")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	return nil
}

// EnvString reads a string environment variable.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer environment variable.
func EnvInt(key string) (int, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, true, nil
}

// EnvBool reads a boolean environment variable.
func EnvBool(key string) (bool, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return false, false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, true, nil
}
