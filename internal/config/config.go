// Package config loads settings for both binaries. A YAML file named by PIXELSINAV_CONFIG
// supplies defaults; environment variables override it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type IdentityBackend string

const (
	IdentityFile    IdentityBackend = "file"
	IdentityKeyring IdentityBackend = "keyring"
)

type Config struct {
	// client
	APIBaseURL      string          `yaml:"api_base_url"`
	RequestTimeout  time.Duration   `yaml:"request_timeout"`
	Locale          string          `yaml:"locale"`
	IdentityBackend IdentityBackend `yaml:"identity_backend"`
	IdentityPath    string          `yaml:"identity_path"`
	RedisAddr       string          `yaml:"redis_addr"`
	Autosave        bool            `yaml:"autosave"`
	MetricsFile     string          `yaml:"metrics_file"`

	// devapi
	HTTPAddr      string        `yaml:"http_addr"`
	DBDriver      string        `yaml:"db_driver"`
	DBDSN         string        `yaml:"db_dsn"`
	BlobBasePath  string        `yaml:"blob_base_path"`
	HMACSecret    string        `yaml:"hmac_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	CORSOrigins   []string      `yaml:"cors_origins"`
	LoginPerMin   int           `yaml:"login_per_minute"`
	AdminEmail    string        `yaml:"admin_email"`
	AdminPassHash string        `yaml:"admin_pass_hash"` // bcrypt
}

func Defaults() Config {
	return Config{
		APIBaseURL:      "http://localhost:8080",
		RequestTimeout:  15 * time.Second,
		Locale:          "tr",
		IdentityBackend: IdentityFile,
		Autosave:        true,
		HTTPAddr:        ":8080",
		DBDriver:        "sqlite",
		BlobBasePath:    "./data",
		TokenTTL:        8 * time.Hour,
		CORSOrigins:     []string{"http://localhost:3000"},
		LoginPerMin:     10,
	}
}

// FromEnv reads the optional config file and applies environment overrides.
func FromEnv() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("PIXELSINAV_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.APIBaseURL = envOr("PIXELSINAV_API_URL", cfg.APIBaseURL)
	cfg.RequestTimeout = envDuration("PIXELSINAV_TIMEOUT", cfg.RequestTimeout)
	cfg.Locale = envOr("PIXELSINAV_LOCALE", cfg.Locale)
	cfg.IdentityBackend = IdentityBackend(envOr("PIXELSINAV_IDENTITY", string(cfg.IdentityBackend)))
	cfg.IdentityPath = envOr("PIXELSINAV_IDENTITY_PATH", cfg.IdentityPath)
	cfg.RedisAddr = envOr("PIXELSINAV_REDIS_ADDR", cfg.RedisAddr)
	cfg.Autosave = envBool("PIXELSINAV_AUTOSAVE", cfg.Autosave)
	cfg.MetricsFile = envOr("PIXELSINAV_METRICS_FILE", cfg.MetricsFile)

	cfg.HTTPAddr = envOr("HTTP_ADDR", cfg.HTTPAddr)
	cfg.DBDriver = envOr("DB_DRIVER", cfg.DBDriver)
	cfg.DBDSN = envOr("DB_DSN", cfg.DBDSN)
	cfg.BlobBasePath = envOr("BLOB_BASE_PATH", cfg.BlobBasePath)
	cfg.HMACSecret = envOr("JWT_HMAC_SECRET", cfg.HMACSecret)
	cfg.TokenTTL = envDuration("JWT_TTL", cfg.TokenTTL)
	cfg.CORSOrigins = csvOr("CORS_ORIGINS", strings.Join(cfg.CORSOrigins, ","))
	cfg.LoginPerMin = envInt("LOGIN_PER_MINUTE", cfg.LoginPerMin)
	cfg.AdminEmail = envOr("ADMIN_EMAIL", cfg.AdminEmail)
	cfg.AdminPassHash = envOr("ADMIN_PASS_HASH", cfg.AdminPassHash)

	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.IdentityBackend {
	case IdentityFile, IdentityKeyring:
	default:
		return fmt.Errorf("config: unknown identity backend %q", c.IdentityBackend)
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unknown db driver %q", c.DBDriver)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("config: request timeout must be positive")
	}
	return nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return n
}
func envDuration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil {
		return def
	}
	return d
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
