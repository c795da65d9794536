package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rflorenc/resource-console/internal/logging"
	"github.com/rflorenc/resource-console/internal/models"
)

// Config holds all configuration (config file + environment + CLI flags).
type Config struct {
	Listen  string        `yaml:"listen" env:"CONSOLE_LISTEN" env-default:":8080"`
	API     APIConfig     `yaml:"api"`
	Console ConsoleConfig `yaml:"console"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig describes the remote resource API.
type APIConfig struct {
	BaseURL  string            `yaml:"base_url" env:"CONSOLE_API_BASE_URL" env-default:"http://localhost:3000"`
	Timeout  time.Duration     `yaml:"timeout"  env:"CONSOLE_API_TIMEOUT"  env-default:"30s"`
	Insecure bool              `yaml:"insecure" env:"CONSOLE_API_INSECURE"`
	CACert   string            `yaml:"ca_cert"  env:"CONSOLE_API_CA_CERT"` // path to a PEM bundle
	Paths    map[string]string `yaml:"paths"`                              // kind name -> API path override
}

// ConsoleConfig holds operator-facing behavior.
type ConsoleConfig struct {
	DefaultKind string        `yaml:"default_kind" env:"CONSOLE_DEFAULT_KIND" env-default:"users"`
	NotifyDelay time.Duration `yaml:"notify_delay" env:"CONSOLE_NOTIFY_DELAY" env-default:"3s"`
	// Operator sessions not touched for this long are dropped.
	SessionIdle time.Duration `yaml:"session_idle" env:"CONSOLE_SESSION_IDLE" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Load reads the YAML file at path (if path is non-empty), then environment
// variables. Priority: ENV > YAML > defaults. An explicit path that does not
// exist is an error.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	return &cfg, nil
}

// Validate checks the loaded configuration against the kind registry.
func (c *Config) Validate() error {
	var errs []error
	if c.Listen == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if c.Console.NotifyDelay <= 0 {
		errs = append(errs, errors.New("console.notify_delay must be positive"))
	}
	if c.Console.SessionIdle <= 0 {
		errs = append(errs, errors.New("console.session_idle must be positive"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, fmt.Errorf("log.format: %w", err))
	}
	reg, err := c.Registry()
	if err != nil {
		errs = append(errs, err)
	} else if _, err := reg.Describe(c.Console.DefaultKind); err != nil {
		errs = append(errs, fmt.Errorf("console.default_kind: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Registry builds the kind registry with any configured path overrides.
func (c *Config) Registry() (*models.Registry, error) {
	return models.NewRegistry(c.API.Paths)
}

// Target builds the remote API target, reading the CA bundle if configured.
func (c *Config) Target() (models.Target, error) {
	t := models.Target{
		BaseURL:  c.API.BaseURL,
		Timeout:  c.API.Timeout,
		Insecure: c.API.Insecure,
	}
	if c.API.CACert != "" {
		pem, err := os.ReadFile(c.API.CACert)
		if err != nil {
			return t, fmt.Errorf("reading %s: %w", c.API.CACert, err)
		}
		t.CACert = string(pem)
	}
	return t, nil
}
