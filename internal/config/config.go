package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"PageIngest/internal/domain"
)

const (
	configPathEnv = "PAGE_INGEST_CONFIG"
	urlEnv        = "PAGE_INGEST_URL"
	logLevelEnv   = "PAGE_INGEST_LOG_LEVEL"
	databaseEnv   = "PAGE_INGEST_DB"
	envFileEnv    = "PAGE_INGEST_ENV_FILE"
	timeoutEnv    = "PAGE_INGEST_TIMEOUT_SECONDS"

	defaultURL = "https://cbarkinozer.medium.com/an-overview-of-the-llamaindex-framework-9ee9db787d16"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Secrets SecretsConfig `yaml:"secrets"`
	Storage StorageConfig `yaml:"storage"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// IngestConfig describes the page to ingest and how.
type IngestConfig struct {
	URL            string  `yaml:"url"`
	StripHTML      *bool   `yaml:"stripHtml"`
	TimeoutSeconds float64 `yaml:"timeoutSeconds"`
	Format         string  `yaml:"format"`
	UserAgent      string  `yaml:"userAgent"`
	MaxBodyBytes   int64   `yaml:"maxBodyBytes"`
}

// Options converts the section into per-call ingestion options.
func (c IngestConfig) Options() domain.IngestOptions {
	opts := domain.DefaultIngestOptions()
	if c.StripHTML != nil {
		opts.StripHTML = *c.StripHTML
	}
	if c.TimeoutSeconds != 0 {
		opts.Timeout = time.Duration(c.TimeoutSeconds * float64(time.Second))
	}
	if c.Format != "" {
		opts.Format = domain.Format(c.Format)
	}
	return opts
}

// SecretsConfig points at credentials needed by the downstream indexing step.
type SecretsConfig struct {
	EnvFile string   `yaml:"envFile"`
	Keys    []string `yaml:"keys"`
}

// StorageConfig enables the ingestion audit log when DSN is set.
type StorageConfig struct {
	DSN string `yaml:"dsn"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(urlEnv); v != "" {
		c.Ingest.URL = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(databaseEnv); v != "" {
		c.Storage.DSN = v
	}

	if v := os.Getenv(envFileEnv); v != "" {
		c.Secrets.EnvFile = v
	}

	if v := os.Getenv(timeoutEnv); v != "" {
		seconds, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Printf("config: invalid %s=%q: %v (keeping %.1fs)", timeoutEnv, v, err, c.Ingest.TimeoutSeconds)
		} else {
			c.Ingest.TimeoutSeconds = seconds
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Ingest.URL != "" {
		base.Ingest.URL = override.Ingest.URL
	}
	if override.Ingest.StripHTML != nil {
		base.Ingest.StripHTML = override.Ingest.StripHTML
	}
	if override.Ingest.TimeoutSeconds != 0 {
		base.Ingest.TimeoutSeconds = override.Ingest.TimeoutSeconds
	}
	if override.Ingest.Format != "" {
		base.Ingest.Format = override.Ingest.Format
	}
	if override.Ingest.UserAgent != "" {
		base.Ingest.UserAgent = override.Ingest.UserAgent
	}
	if override.Ingest.MaxBodyBytes != 0 {
		base.Ingest.MaxBodyBytes = override.Ingest.MaxBodyBytes
	}

	if override.Secrets.EnvFile != "" {
		base.Secrets.EnvFile = override.Secrets.EnvFile
	}
	if override.Secrets.Keys != nil {
		base.Secrets.Keys = override.Secrets.Keys
	}

	if override.Storage.DSN != "" {
		base.Storage.DSN = override.Storage.DSN
	}

	return base
}

func defaultConfig() Config {
	stripHTML := true
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Ingest: IngestConfig{
			URL:            defaultURL,
			StripHTML:      &stripHTML,
			TimeoutSeconds: domain.DefaultIngestTimeout.Seconds(),
			Format:         string(domain.FormatText),
			UserAgent:      "PageIngest/1.0",
			MaxBodyBytes:   10 << 20,
		},
		Secrets: SecretsConfig{
			EnvFile: ".env",
			Keys:    []string{"OPENAI_API_KEY"},
		},
	}
}
