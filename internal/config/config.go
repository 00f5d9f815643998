package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

type Config struct {
	Server struct {
		Port         int           `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"readTimeout"`
		WriteTimeout time.Duration `yaml:"writeTimeout"`
		CORSOrigins  []string      `yaml:"corsOrigins"`
		SessionIdle  time.Duration `yaml:"sessionIdle"`
	} `yaml:"server"`

	AI struct {
		Provider  string        `yaml:"provider"`
		Model     string        `yaml:"model"`
		BaseURL   string        `yaml:"baseURL"`
		APIKey    string        `yaml:"apiKey"`
		APIKeyEnv string        `yaml:"apiKeyEnv"`
		Timeout   time.Duration `yaml:"timeout"`
		MaxTokens int           `yaml:"maxTokens"`
		Azure     struct {
			Endpoint   string `yaml:"endpoint"`
			Deployment string `yaml:"deployment"`
		} `yaml:"azure"`
	} `yaml:"ai"`

	Auth struct {
		// APIKeys maps a client name to its key. Empty disables auth.
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rateLimit"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Telemetry struct {
		TraceExporter string `yaml:"traceExporter"`
		OTLPEndpoint  string `yaml:"otlpEndpoint"`
		OTLPInsecure  bool   `yaml:"otlpInsecure"`
	} `yaml:"telemetry"`

	Diagnostics struct {
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"diagnostics"`

	Quarantine struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"quarantine"`
}

// Default returns a config that runs the HTTP server against the Gemini
// endpoint with the key taken from API_KEY.
func Default() *Config {
	var c Config
	c.Server.Port = 8080
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 120 * time.Second
	c.Server.SessionIdle = 30 * time.Minute
	c.AI.Provider = "gemini"
	c.AI.APIKeyEnv = "API_KEY"
	c.AI.Timeout = 90 * time.Second
	c.AI.MaxTokens = 8192
	c.RateLimit.RPS = 1
	c.RateLimit.Burst = 5
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Telemetry.TraceExporter = "none"
	c.Diagnostics.SSLMode = "disable"
	return &c
}

// Load reads path over the defaults. A missing file is only an error when
// required is set; callers pass required=true for an explicit path.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !required:
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Credential returns the provider key: apiKey when set, otherwise the
// environment variable named by apiKeyEnv.
func (c *Config) Credential() string {
	if strings.TrimSpace(c.AI.APIKey) != "" {
		return c.AI.APIKey
	}
	if c.AI.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.AI.APIKeyEnv)
}

// Validate rejects settings that cannot be wired. A missing credential is
// not rejected here; it surfaces as a configuration error per request.
func (c *Config) Validate() error {
	var errs []error
	switch c.AI.Provider {
	case "openai", "gemini":
	case "azure":
		if c.AI.Azure.Endpoint == "" || c.AI.Azure.Deployment == "" {
			errs = append(errs, errors.New("ai.azure.endpoint and ai.azure.deployment are required for provider azure"))
		}
	default:
		errs = append(errs, fmt.Errorf("ai.provider %q: want openai, gemini or azure", c.AI.Provider))
	}
	switch c.Diagnostics.Driver {
	case "", "mysql", "postgres":
	default:
		errs = append(errs, fmt.Errorf("diagnostics.driver %q: want mysql or postgres", c.Diagnostics.Driver))
	}
	switch c.Telemetry.TraceExporter {
	case "", "none", "stdout", "otlp":
	default:
		errs = append(errs, fmt.Errorf("telemetry.traceExporter %q: want none, stdout or otlp", c.Telemetry.TraceExporter))
	}
	if c.Quarantine.Enabled && (c.Quarantine.Endpoint == "" || c.Quarantine.BucketName == "") {
		errs = append(errs, errors.New("quarantine.endpoint and quarantine.bucketName are required when quarantine is enabled"))
	}
	// quarantined payloads are referenced from failure records
	if c.Quarantine.Enabled && c.Diagnostics.Driver == "" {
		errs = append(errs, errors.New("quarantine.enabled requires diagnostics.driver"))
	}
	if c.AI.MaxTokens < 0 || c.AI.MaxTokens > math.MaxInt32 {
		errs = append(errs, fmt.Errorf("ai.maxTokens %d out of range", c.AI.MaxTokens))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	return errors.Join(errs...)
}

// MySQLDSN builds the diagnostics DSN for go-sql-driver/mysql.
func (c *Config) MySQLDSN() string {
	d := c.Diagnostics
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
	)
}

// PostgresDSN builds the diagnostics DSN for lib/pq.
func (c *Config) PostgresDSN() string {
	d := c.Diagnostics
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}
