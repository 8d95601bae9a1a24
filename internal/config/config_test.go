package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gnemet/SlideGen/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProps(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "application.properties")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAPIKeyReturnsExactValue(t *testing.T) {
	for _, key := range []string{"X", "AIzaSyD-abc_123", "with spaces inside", "abc${def}ghi", "k${GEMINI_API_KEY}"} {
		path := writeProps(t, "# comment\nOTHER=1\nGEMINI_API_KEY="+key+"\n")
		got, err := LoadAPIKey(path)
		require.NoError(t, err)
		assert.Equal(t, key, got)
	}
}

func TestLoadAPIKeyMissingFile(t *testing.T) {
	_, err := LoadAPIKey(filepath.Join(t.TempDir(), "nope.properties"))
	require.Error(t, err)
	assert.Equal(t, errs.Config, errs.KindOf(err))
}

func TestLoadAPIKeyMissingKey(t *testing.T) {
	path := writeProps(t, "SOMETHING_ELSE=abc\n")
	_, err := LoadAPIKey(path)
	require.Error(t, err)
	assert.Equal(t, errs.Config, errs.KindOf(err))
	assert.Contains(t, err.Error(), APIKeyName)
}

func TestLoadAPIKeyIgnoresEnvironment(t *testing.T) {
	t.Setenv(APIKeyName, "from-env")
	path := writeProps(t, "SOMETHING_ELSE=abc\n")
	_, err := LoadAPIKey(path)
	assert.Error(t, err)
}

func TestLoadKeepsPlaceholdersVerbatim(t *testing.T) {
	path := writeProps(t, "GEMINI_API_KEY=k${x}\napplication.prompt=Talk about ${topic}\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "k${x}", cfg.Gemini.APIKey)
	assert.Equal(t, "Talk about ${topic}", cfg.Application.Prompt)
}

func TestLoadDefaults(t *testing.T) {
	path := writeProps(t, "GEMINI_API_KEY=k\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "k", cfg.Gemini.APIKey)
	assert.Equal(t, DefaultEndpoint, cfg.Gemini.Endpoint)
	assert.Equal(t, DefaultModel, cfg.Gemini.Model)
	assert.Equal(t, "rest", cfg.Gemini.Driver)
	assert.Equal(t, 2*time.Minute, cfg.Gemini.Timeout)
	assert.Equal(t, DefaultOutput, cfg.Application.Output)
	assert.Equal(t, DefaultMaxLines, cfg.Application.MaxLines)
	assert.Equal(t, "plain", cfg.Application.Layout)
	assert.Equal(t, "info", cfg.Application.LogLevel)
	assert.False(t, cfg.Database.Enabled())
}

func TestLoadFromPropertiesFile(t *testing.T) {
	path := writeProps(t, `GEMINI_API_KEY=k
gemini.model=gemini-2.0-flash
gemini.timeout=45s
application.max_lines=12
application.layout=titled
database.url=postgres://u:p@localhost:5432/slides
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, 45*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 12, cfg.Application.MaxLines)
	assert.Equal(t, "titled", cfg.Application.Layout)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "postgres://u:p@localhost:5432/slides", cfg.Database.GetConnectStr())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "env-model")
	t.Setenv("SLIDEGEN_OUTPUT", "env.pptx")
	path := writeProps(t, "GEMINI_API_KEY=k\ngemini.model=file-model\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.Gemini.Model)
	assert.Equal(t, "env.pptx", cfg.Application.Output)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := map[string]string{
		"driver":    "gemini.driver=grpc\n",
		"layout":    "application.layout=fancy\n",
		"max lines": "application.max_lines=0\n",
		"log level": "application.log_level=verbose\n",
	}
	for name, extra := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeProps(t, "GEMINI_API_KEY=k\n"+extra)
			_, err := Load(path)
			require.Error(t, err)
			assert.Equal(t, errs.Config, errs.KindOf(err))
		})
	}
}

func TestGetConnectStr(t *testing.T) {
	c := DatabaseConfig{
		Host:     "db",
		User:     "slides",
		Password: "secret",
		DBName:   "slidegen",
		Options:  "-c search_path=slidegen",
	}
	assert.True(t, c.Enabled())
	assert.Equal(t,
		"postgres://slides:secret@db:5432/slidegen?sslmode=disable&options=-c%20search_path=slidegen",
		c.GetConnectStr())
}
