// Package cmdutil holds helpers shared by the harmony subcommands:
// logger plumbing through context, the saved CLI configuration, and
// client construction from persistent flags.
package cmdutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/earthdata-go/harmony/auth"
	harmonyclient "github.com/earthdata-go/harmony/client"
	"github.com/earthdata-go/harmony/config"
)

// NewLogger creates a logger with timestamp formatting that writes to w.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a new context with the given logger attached.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// LoggerFromContext retrieves the logger from ctx, falling back to the
// default logger so commands always have one.
func LoggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// FileConfig is the saved CLI configuration.
type FileConfig struct {
	Environment string `toml:"environment,omitempty"`
	Token       string `toml:"token,omitempty"`
	OutputDir   string `toml:"output_dir,omitempty"`
}

// ConfigPath returns the location of the saved CLI configuration.
func ConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "harmony", "config.toml"), nil
}

// LoadFileConfig reads the saved CLI configuration. A missing file is
// not an error; it yields the zero config.
func LoadFileConfig() (*FileConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return &FileConfig{}, nil
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveFileConfig writes the CLI configuration, creating the directory
// as needed. The file is user-readable only since it may hold a token.
func SaveFileConfig(cfg *FileConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(cfg)
}

// NewClient builds a Harmony client from the command's persistent flags,
// the environment, and the saved CLI configuration. Credential
// precedence: --token flag, EDL_* environment variables, saved token.
func NewClient(cmd *cobra.Command) (*harmonyclient.Client, error) {
	fileCfg, err := LoadFileConfig()
	if err != nil {
		return nil, err
	}

	creds := auth.Credentials{}
	if token, _ := cmd.Flags().GetString("token"); token != "" {
		creds = auth.Credentials{Token: token}
	} else if envCreds := auth.FromEnv(); !envCreds.Empty() {
		creds = envCreds
	} else if fileCfg.Token != "" {
		creds = auth.Credentials{Token: fileCfg.Token}
	}

	opts := []harmonyclient.ClientOption{
		harmonyclient.WithLogger(LoggerFromContext(cmd.Context())),
	}
	if !creds.Empty() {
		opts = append(opts, harmonyclient.WithCredentials(creds))
	}

	if baseURL, _ := cmd.Flags().GetString("url"); baseURL != "" {
		opts = append(opts, harmonyclient.WithBaseURL(baseURL))
	} else {
		name, _ := cmd.Flags().GetString("environment")
		if name == "" {
			name = fileCfg.Environment
		}
		if name == "" {
			name = string(config.UAT)
		}
		env, err := config.ParseEnvironment(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, harmonyclient.WithEnvironment(env))
	}

	return harmonyclient.New(opts...)
}

// WriteJSON prints v as indented JSON on stdout.
func WriteJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
