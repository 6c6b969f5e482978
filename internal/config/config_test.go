package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"APP_ENV", "PORT", "DEBUG_ERRORS", "BODY_LIMIT", "SITE_TAG", "SITE_TIMEZONE",
	"SMTP_HOST", "SMTP_PORT", "SMTP_FROM", "REVALIDATE_WINDOW", "LOG_PRETTY", "SITE_ALLOWLIST",
}

// unsetEnv clears keys for the duration of the test.
func unsetEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	unsetEnv(t)

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.DebugErrors)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "noreply@involv.com.au", cfg.SMTPFrom)
	assert.Empty(t, cfg.SMTPHost)
	assert.Equal(t, "lane", cfg.SiteTag)
	assert.Equal(t, 1<<20, cfg.BodyLimit)
	assert.Equal(t, 5*time.Minute, cfg.RevalidateWindow)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvProductionDisablesDebugErrors(t *testing.T) {
	unsetEnv(t)
	t.Setenv("APP_ENV", "production")

	cfg := FromEnv()

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.DebugErrors)
	assert.False(t, cfg.LogPretty)
}

func TestFromEnvInvalidValuesFallBack(t *testing.T) {
	unsetEnv(t)
	t.Setenv("SMTP_PORT", "not-a-port")
	t.Setenv("REVALIDATE_WINDOW", "soon")

	cfg := FromEnv()

	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 5*time.Minute, cfg.RevalidateWindow)
}

func TestValidate(t *testing.T) {
	unsetEnv(t)
	base := FromEnv

	cfg := base()
	cfg.Port = "http"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.BodyLimit = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.SiteTimezone = "Mars/Olympus_Mons"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.SiteTag = "  "
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Env = "production"
	cfg.DebugErrors = true
	assert.ErrorContains(t, cfg.Validate(), "DEBUG_ERRORS")

	cfg.DebugErrors = false
	assert.NoError(t, cfg.Validate())
}

func TestSiteAllowed(t *testing.T) {
	unsetEnv(t)
	t.Setenv("SITE_ALLOWLIST", " involv, ,lane-au ")

	cfg := FromEnv()

	assert.Equal(t, []string{"involv", "lane-au"}, cfg.AllowedSites)
	assert.True(t, cfg.SiteAllowed("lane"))
	assert.True(t, cfg.SiteAllowed("involv"))
	assert.False(t, cfg.SiteAllowed("acme"))
	assert.False(t, cfg.SiteAllowed(""))

	unsetEnv(t)
	cfg = FromEnv()
	assert.Empty(t, cfg.AllowedSites)
	assert.False(t, cfg.SiteAllowed("involv"))
}
