package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gnemet/SlideGen/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/magiconair/properties"
	"github.com/spf13/viper"
)

const (
	// DefaultPath is the properties file read when no --config flag is given.
	DefaultPath = "application.properties"

	// APIKeyName is the properties key holding the Gemini credential.
	APIKeyName = "GEMINI_API_KEY"

	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	DefaultModel    = "gemini-1.5-pro-latest"
	DefaultOutput   = "generated_presentation.pptx"
	DefaultMaxLines = 10
)

type Config struct {
	Gemini      GeminiConfig      `mapstructure:"gemini"`
	Application ApplicationConfig `mapstructure:"application"`
	Database    DatabaseConfig    `mapstructure:"database"`
}

type GeminiConfig struct {
	// APIKey only ever comes from the properties file.
	APIKey   string        `mapstructure:"-" validate:"required"`
	Endpoint string        `mapstructure:"endpoint" validate:"required,url"`
	Model    string        `mapstructure:"model" validate:"required"`
	Driver   string        `mapstructure:"driver" validate:"oneof=rest sdk"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type ApplicationConfig struct {
	Prompt    string `mapstructure:"prompt"`
	Output    string `mapstructure:"output" validate:"required"`
	MaxLines  int    `mapstructure:"max_lines" validate:"gt=0"`
	Layout    string `mapstructure:"layout" validate:"oneof=plain titled"`
	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	WatchDir  string `mapstructure:"watch_dir"`
	OutputDir string `mapstructure:"output_dir"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Options  string `mapstructure:"options"`
}

// Enabled reports whether enough is configured to reach a database.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != "" || (c.Host != "" && c.DBName != "")
}

func (c *DatabaseConfig) GetConnectStr() string {
	if c.URL != "" {
		return c.URL
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	port := c.Port
	if port == "" {
		port = "5432"
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, port, c.DBName, sslmode)

	if c.Options != "" {
		// Basic URL encoding for the options value: space -> %20
		encodedOptions := strings.ReplaceAll(c.Options, " ", "%20")
		connStr += fmt.Sprintf("&options=%s", encodedOptions)
	}

	return connStr
}

// LoadAPIKey reads the properties file at path and returns the exact value of
// GEMINI_API_KEY. There is no fallback credential.
func LoadAPIKey(path string) (string, error) {
	p, err := readProperties(path)
	if err != nil {
		return "", err
	}
	return apiKey(p, path)
}

// Load builds the full configuration. The properties file is mandatory since it
// carries the credential; every other setting may also come from the
// environment (including a .env file) and falls back to a default.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	p, err := readProperties(path)
	if err != nil {
		return nil, err
	}
	key, err := apiKey(p, path)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	mappings := []struct {
		key, env string
	}{
		{"gemini.endpoint", "GEMINI_ENDPOINT"},
		{"gemini.model", "GEMINI_MODEL"},
		{"gemini.driver", "GEMINI_DRIVER"},
		{"gemini.timeout", "GEMINI_TIMEOUT"},

		{"application.prompt", "SLIDEGEN_PROMPT"},
		{"application.output", "SLIDEGEN_OUTPUT"},
		{"application.max_lines", "SLIDEGEN_MAX_LINES"},
		{"application.layout", "SLIDEGEN_LAYOUT"},
		{"application.log_level", "LOG_LEVEL"},
		{"application.watch_dir", "SLIDEGEN_WATCH_DIR"},
		{"application.output_dir", "SLIDEGEN_OUTPUT_DIR"},

		{"database.url", "DB_URL"},
		{"database.host", "PG_HOST"},
		{"database.port", "PG_PORT"},
		{"database.user", "PG_USER"},
		{"database.password", "PG_PASSWORD"},
		{"database.dbname", "PG_DB"},
		{"database.sslmode", "PG_SSLMODE"},
		{"database.options", "PG_OPTIONS"},
	}
	for _, m := range mappings {
		if err := v.BindEnv(m.key, m.env); err != nil {
			return nil, errs.E(errs.Config, "bind env "+m.env, err)
		}
	}

	if err := v.MergeConfigMap(nest(p.Map())); err != nil {
		return nil, errs.E(errs.Config, "merge "+path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errs.E(errs.Config, "decode "+path, err)
	}
	cfg.Gemini.APIKey = key

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and reports the first violation as a
// config error.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errs.Errorf(errs.Config, "validate config", "%s fails %q (value %v)",
				fe.Namespace(), fe.Tag(), fe.Value())
		}
		return errs.E(errs.Config, "validate config", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gemini.endpoint", DefaultEndpoint)
	v.SetDefault("gemini.model", DefaultModel)
	v.SetDefault("gemini.driver", "rest")
	v.SetDefault("gemini.timeout", 2*time.Minute)

	v.SetDefault("application.prompt", "")
	v.SetDefault("application.output", DefaultOutput)
	v.SetDefault("application.max_lines", DefaultMaxLines)
	v.SetDefault("application.layout", "plain")
	v.SetDefault("application.log_level", "info")
	v.SetDefault("application.watch_dir", "prompts")
	v.SetDefault("application.output_dir", "decks")

	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "")
	v.SetDefault("database.sslmode", "")
	v.SetDefault("database.options", "")
}

func readProperties(path string) (*properties.Properties, error) {
	// Values are taken verbatim; ${...} is not a reference.
	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := l.LoadFile(path)
	if err != nil {
		return nil, errs.E(errs.Config, "read "+path, err)
	}
	return p, nil
}

func apiKey(p *properties.Properties, path string) (string, error) {
	key, ok := p.Get(APIKeyName)
	if !ok || key == "" {
		return "", errs.Errorf(errs.Config, "read "+path, "%s not set", APIKeyName)
	}
	return key, nil
}

// nest turns dotted property keys into the nested maps viper expects.
// The credential and other top-level keys stay out of the tree.
func nest(flat map[string]string) map[string]any {
	out := make(map[string]any)
	for k, val := range flat {
		parts := strings.Split(strings.ToLower(k), ".")
		if len(parts) < 2 {
			continue
		}
		m := out
		for _, part := range parts[:len(parts)-1] {
			next, ok := m[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				m[part] = next
			}
			m = next
		}
		m[parts[len(parts)-1]] = val
	}
	return out
}
