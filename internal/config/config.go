package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

const (
	defaultAPIBaseURL = "http://localhost:8000/api/v1"
	defaultPageSize   = 9
)

// Config holds runtime settings for the client.
type Config struct {
	APIBaseURL string
	DBPath     string
	PageSize   int
	LogFile    string
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		APIBaseURL: os.Getenv("FEEDFUSION_API_BASE_URL"),
		DBPath:     os.Getenv("FEEDFUSION_DB_PATH"),
		LogFile:    os.Getenv("FEEDFUSION_LOG_FILE"),
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "feedfusion.db"
	}

	cfg.PageSize = defaultPageSize
	if raw := os.Getenv("FEEDFUSION_PAGE_SIZE"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("FEEDFUSION_PAGE_SIZE must be a number: %s", raw)
		}
		cfg.PageSize = size
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("APIBaseURL is required")
	}
	if c.APIBaseURL[len(c.APIBaseURL)-1] == '/' {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("PageSize must be between 1 and 100: %d", c.PageSize)
	}
	return nil
}
