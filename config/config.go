// Package config resolves runtime settings for the Harmony client.
//
// Settings come from three layers, lowest precedence first: built-in
// defaults, an optional config file (harmony.yaml under the user config
// directory), and HARMONY_* environment variables. The package also owns
// the mapping from a deployment environment to its service hostname.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment identifies a Harmony deployment.
type Environment string

const (
	// SBX is the sandbox environment.
	SBX Environment = "sbx"
	// SIT is the systems-integration environment.
	SIT Environment = "sit"
	// UAT is the user-acceptance environment. New clients default here so
	// that experiments do not land on production.
	UAT Environment = "uat"
	// PROD is the production environment.
	PROD Environment = "prod"
)

var hostnames = map[Environment]string{
	SBX:  "harmony.sbx.earthdata.nasa.gov",
	SIT:  "harmony.sit.earthdata.nasa.gov",
	UAT:  "harmony.uat.earthdata.nasa.gov",
	PROD: "harmony.earthdata.nasa.gov",
}

// ParseEnvironment converts a case-insensitive environment name to an
// Environment value.
func ParseEnvironment(name string) (Environment, error) {
	env := Environment(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := hostnames[env]; !ok {
		return "", fmt.Errorf("config: unknown environment %q", name)
	}
	return env, nil
}

// Hostname returns the service hostname for the environment.
func (e Environment) Hostname() string {
	return hostnames[e]
}

// Config holds resolved client settings.
type Config struct {
	Environment       Environment
	DownloadWorkers   int
	DownloadChunkSize int64
	HTTPTimeout       time.Duration
}

// Option adjusts how Load resolves a Config.
type Option func(*loader)

type loader struct {
	env        Environment
	configFile string
}

// WithEnvironment pins the deployment environment, overriding file and
// env-var settings.
func WithEnvironment(env Environment) Option {
	return func(l *loader) {
		l.env = env
	}
}

// WithConfigFile reads settings from an explicit file instead of the
// default search path.
func WithConfigFile(path string) Option {
	return func(l *loader) {
		l.configFile = path
	}
}

// Load resolves a Config from defaults, the optional config file, and
// HARMONY_* environment variables.
func Load(opts ...Option) (*Config, error) {
	var l loader
	for _, opt := range opts {
		opt(&l)
	}

	v := viper.New()
	v.SetDefault("environment", string(UAT))
	v.SetDefault("download_workers", 3)
	v.SetDefault("download_chunk_size", 4*1024*1024)
	v.SetDefault("http_timeout", "60s")

	v.SetEnvPrefix("HARMONY")
	v.AutomaticEnv()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", l.configFile, err)
		}
	} else {
		v.SetConfigName("harmony")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "harmony"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: reading config file: %w", err)
			}
		}
	}

	env := l.env
	if env == "" {
		parsed, err := ParseEnvironment(v.GetString("environment"))
		if err != nil {
			return nil, err
		}
		env = parsed
	}

	cfg := &Config{
		Environment:       env,
		DownloadWorkers:   v.GetInt("download_workers"),
		DownloadChunkSize: v.GetInt64("download_chunk_size"),
		HTTPTimeout:       v.GetDuration("http_timeout"),
	}
	if cfg.DownloadWorkers <= 0 {
		return nil, fmt.Errorf("config: download_workers must be positive, got %d", cfg.DownloadWorkers)
	}
	if cfg.DownloadChunkSize <= 0 {
		return nil, fmt.Errorf("config: download_chunk_size must be positive, got %d", cfg.DownloadChunkSize)
	}
	return cfg, nil
}

// RootURL returns the base URL for the configured environment.
func (c *Config) RootURL() string {
	return "https://" + c.Environment.Hostname()
}

// JobsURL returns the jobs listing endpoint for the configured
// environment.
func (c *Config) JobsURL() string {
	return c.RootURL() + "/jobs"
}

// EDLValidationURL returns the endpoint used to validate Earthdata Login
// credentials. Listing jobs requires authentication, so a 200 from this
// URL proves the credentials work.
func (c *Config) EDLValidationURL() string {
	return c.JobsURL()
}
