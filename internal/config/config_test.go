package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// chdirTemp moves into an empty directory so no .env or config.yaml is found,
// and clears every bound variable for the duration of the test.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30, cfg.Server.SMSRatePerMin)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "json", cfg.Store.Driver)
	assert.Equal(t, "data/seeds/centers.json", cfg.Store.SeedPath)
	assert.Equal(t, "http://localhost:8080/send-sms", cfg.Notify.URL)
	assert.Equal(t, 3, cfg.Notify.MaxAttempts)
	assert.Equal(t, "none", cfg.Geocode.Provider)
	assert.Equal(t, "none", cfg.Geocode.Cache)
	assert.Empty(t, cfg.SMS.AuthToken)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", " SQLite ")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret-token")
	t.Setenv("SMS_FROM", "+15005550006")
	t.Setenv("GEOCODER", "ors")
	t.Setenv("NOTIFY_TIMEOUT_SECS", "4")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "AC123", cfg.SMS.AccountSID)
	assert.Equal(t, "secret-token", cfg.SMS.AuthToken)
	assert.Equal(t, "ors", cfg.Geocode.Provider)
	assert.Equal(t, "4s", cfg.NotifyTimeout().String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.NoError(t, cfg.RequireSMSCredentials())
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SMS_FROM=+15005550006\nLOG_LEVEL=debug\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "+15005550006", cfg.SMS.From)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	yaml := `
server:
  port: 7070
log:
  level: warn
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("PORT", "6060")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestRequireSMSCredentials(t *testing.T) {
	cfg := &Config{SMS: SMSConfig{AccountSID: "AC1"}}
	err := cfg.RequireSMSCredentials()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TWILIO_AUTH_TOKEN")
	assert.Contains(t, err.Error(), "SMS_FROM")
	assert.NotContains(t, err.Error(), "TWILIO_ACCOUNT_SID")
}

func TestLogFieldsNeverContainSecrets(t *testing.T) {
	cfg := &Config{
		SMS:     SMSConfig{AccountSID: "AC-secret-sid", AuthToken: "tok-secret", From: "+1500"},
		Geocode: GeocodeConfig{ORSKey: "ors-secret", GoogleKey: "gm-secret"},
		Store:   StoreConfig{DatabaseURL: "postgres://u:pw-secret@h/db"},
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range cfg.LogFields() {
		f.AddTo(enc)
	}
	for k, v := range enc.Fields {
		s, ok := v.(string)
		if !ok {
			continue
		}
		assert.False(t, strings.Contains(s, "secret"), "field %s leaks a secret", k)
	}
	assert.Equal(t, true, enc.Fields["sms_token_set"])
}

func TestInitLogger(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.True(t, zap.L().Core().Enabled(zapcore.DebugLevel))

	assert.Error(t, InitLogger(LogConfig{Level: "loud"}))
}
