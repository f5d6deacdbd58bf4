package config

import (
	"testing"
	"time"

	"lps/internal/browser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "ebay", cfg.Site)
	assert.Equal(t, "LPS", cfg.Prefix)
	assert.Equal(t, "text", cfg.Format)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 100*time.Millisecond, cfg.ImageWait)
	assert.Equal(t, 100*time.Millisecond, cfg.Tick)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 2*time.Second, cfg.StopTimeout)
	require.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LPS_BROWSER", "chrome")
	t.Setenv("LPS_IMAGE_WAIT", "750ms")
	t.Setenv("LPS_HEADLESS", "false")
	t.Setenv("LPS_BUFFER", "16")
	t.Setenv("LPS_SHUTDOWN_TIMEOUT", "not-a-duration")

	cfg := Default()
	assert.Equal(t, "chrome", cfg.Browser)
	assert.Equal(t, 750*time.Millisecond, cfg.ImageWait)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 16, cfg.Buffer)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)

	opts := cfg.SearchOptions(browser.Chrome)
	assert.Equal(t, 750*time.Millisecond, opts.ImageWait)
	assert.Equal(t, 16, opts.Buffer)
	assert.False(t, cfg.BrowserConfig().Headless)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Format = "yaml"
	cfg.Browser = "safari"
	cfg.Tick = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format: yaml")
	assert.Contains(t, err.Error(), "safari")
	assert.Contains(t, err.Error(), "tick must be positive")
}

func TestBrowserKind(t *testing.T) {
	cfg := Default()
	cfg.Browser = ""
	k, err := cfg.BrowserKind("linux")
	require.NoError(t, err)
	assert.Equal(t, browser.Firefox, k)

	cfg.Browser = "chrome"
	k, err = cfg.BrowserKind("linux")
	require.NoError(t, err)
	assert.Equal(t, browser.Chrome, k)

	cfg.Browser = ""
	_, err = cfg.BrowserKind("plan9")
	assert.Error(t, err)
	_, err = cfg.BrowserKind("darwin")
	assert.Error(t, err)

	cfg.Browser = "chrome"
	k, err = cfg.BrowserKind("darwin")
	require.NoError(t, err)
	assert.Equal(t, browser.Chrome, k)
}
