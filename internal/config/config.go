package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"lps/internal/browser"
	"lps/internal/formatter"
	"lps/internal/search"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration.
type Config struct {
	Browser string // empty picks the OS default
	Site    string
	Prefix  string

	Format string
	Output string

	Headless        bool
	ProxyURL        string
	UserAgent       string
	DownloadBrowser bool

	// Timing
	PageTimeout     time.Duration
	ImageWait       time.Duration
	StopTimeout     time.Duration
	ShutdownTimeout time.Duration
	Tick            time.Duration

	Buffer int

	Debug    bool
	Advanced bool
}

// Load reads .env from the working directory, if present, then returns the
// defaults with environment overrides applied.
func Load() Config {
	_ = godotenv.Load()
	return Default()
}

// Default returns a Config populated from LPS_* variables or sensible
// defaults.
func Default() Config {
	return Config{
		Browser: getEnv("LPS_BROWSER", ""),
		Site:    getEnv("LPS_SITE", "ebay"),
		Prefix:  getEnv("LPS_PREFIX", search.DefaultPrefix),

		Format: getEnv("LPS_FORMAT", "text"),

		Headless:        getEnvBool("LPS_HEADLESS", true),
		ProxyURL:        getEnv("LPS_PROXY", ""),
		UserAgent:       getEnv("LPS_USER_AGENT", ""),
		DownloadBrowser: getEnvBool("LPS_DOWNLOAD_BROWSER", false),

		PageTimeout:     getEnvDuration("LPS_PAGE_TIMEOUT", 30*time.Second),
		ImageWait:       getEnvDuration("LPS_IMAGE_WAIT", 100*time.Millisecond),
		StopTimeout:     getEnvDuration("LPS_STOP_TIMEOUT", 2*time.Second),
		ShutdownTimeout: getEnvDuration("LPS_SHUTDOWN_TIMEOUT", 5*time.Second),
		Tick:            getEnvDuration("LPS_TICK", 100*time.Millisecond),

		Buffer: getEnvInt("LPS_BUFFER", 256),
	}
}

func (c Config) Validate() error {
	var errs []error
	valid := false
	for _, f := range formatter.Formats {
		if c.Format == f {
			valid = true
		}
	}
	if !valid {
		errs = append(errs, fmt.Errorf("invalid output format: %s", c.Format))
	}
	if c.Browser != "" {
		if _, err := browser.ParseKind(c.Browser); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Tick <= 0 {
		errs = append(errs, fmt.Errorf("tick must be positive, got %s", c.Tick))
	}
	if c.ImageWait <= 0 {
		errs = append(errs, fmt.Errorf("image wait must be positive, got %s", c.ImageWait))
	}
	if c.ShutdownTimeout < 0 || c.StopTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	return errors.Join(errs...)
}

// BrowserKind resolves the configured browser, falling back to the default
// for goos.
func (c Config) BrowserKind(goos string) (browser.Kind, error) {
	if c.Browser != "" {
		return browser.ParseKind(c.Browser)
	}
	return browser.DefaultKind(goos)
}

func (c Config) BrowserConfig() browser.Config {
	return browser.Config{
		Headless:        c.Headless,
		ProxyURL:        c.ProxyURL,
		UserAgent:       c.UserAgent,
		PageTimeout:     c.PageTimeout,
		DownloadBrowser: c.DownloadBrowser,
	}
}

func (c Config) SearchOptions(kind browser.Kind) search.Options {
	return search.Options{
		Kind:      kind,
		Prefix:    c.Prefix,
		ImageWait: c.ImageWait,
		Buffer:    c.Buffer,
	}
}

func getEnv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
