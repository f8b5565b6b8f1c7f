// Package config loads pdfnarrator settings from flags, environment, .env
// and an optional YAML file through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	pdfnarrator "github.com/porticus-lab/go-pdf-narrator"
	"github.com/porticus-lab/go-pdf-narrator/internal/logging"
	"github.com/porticus-lab/go-pdf-narrator/pdf"
)

// EnvPrefix is prepended to every environment variable, with dots in keys
// replaced by underscores: server.addr is read from PDFNARRATOR_SERVER_ADDR.
const EnvPrefix = "PDFNARRATOR"

// Keys.
const (
	KeyBackend        = "backend"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyServerAddr     = "server.addr"
	KeyAllowedOrigins = "server.allowed_origins"
	KeyMaxUpload      = "server.max_upload_bytes"
	KeyChromePath     = "chrome.path"
	KeyNoSandbox      = "chrome.no_sandbox"
	KeyHeadless       = "chrome.headless"
	KeyAutoDownload   = "chrome.auto_download"
	KeyChromeTimeout  = "chrome.timeout"
)

// Config is the resolved configuration.
type Config struct {
	Backend string
	Log     LogConfig
	Server  ServerConfig
	Chrome  ChromeConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	MaxUploadBytes int64
}

type ChromeConfig struct {
	Path         string
	NoSandbox    bool
	Headless     bool
	AutoDownload bool
	Timeout      time.Duration
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBackend, pdf.BackendRows)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, logging.FormatJSON)
	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyAllowedOrigins, []string{"http://localhost:5173"})
	v.SetDefault(KeyMaxUpload, int64(32<<20))
	v.SetDefault(KeyChromePath, "")
	v.SetDefault(KeyNoSandbox, false)
	v.SetDefault(KeyHeadless, true)
	v.SetDefault(KeyAutoDownload, false)
	v.SetDefault(KeyChromeTimeout, 30*time.Second)
}

// Init prepares v for Load: it loads .env into the process environment,
// binds PDFNARRATOR_* variables and reads the config file. An explicit file
// must exist; otherwise pdfnarrator.yaml is searched in the working
// directory and ~/.config/pdfnarrator, and its absence is not an error.
func Init(v *viper.Viper, file string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config: loading .env: %w", err)
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("pdfnarrator")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "pdfnarrator"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: reading %s: %w", v.ConfigFileUsed(), err)
	}
	return nil
}

// Load resolves v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Backend: v.GetString(KeyBackend),
		Log: LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
		Server: ServerConfig{
			Addr:           v.GetString(KeyServerAddr),
			AllowedOrigins: splitList(v.GetStringSlice(KeyAllowedOrigins)),
			MaxUploadBytes: v.GetInt64(KeyMaxUpload),
		},
		Chrome: ChromeConfig{
			Path:         v.GetString(KeyChromePath),
			NoSandbox:    v.GetBool(KeyNoSandbox),
			Headless:     v.GetBool(KeyHeadless),
			AutoDownload: v.GetBool(KeyAutoDownload),
			Timeout:      v.GetDuration(KeyChromeTimeout),
		},
	}

	if _, err := pdf.NewOpener(cfg.Backend); err != nil {
		return nil, fmt.Errorf("config: %s: %w", KeyBackend, err)
	}
	switch cfg.Log.Format {
	case logging.FormatJSON, logging.FormatConsole:
	default:
		return nil, fmt.Errorf("config: %s: unknown format %q", KeyLogFormat, cfg.Log.Format)
	}
	if cfg.Server.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("config: %s must be positive", KeyMaxUpload)
	}
	return cfg, nil
}

// Options converts the Chrome settings into speech engine options.
func (c ChromeConfig) Options(logger *zap.Logger) []pdfnarrator.Option {
	opts := []pdfnarrator.Option{
		pdfnarrator.WithTimeout(c.Timeout),
		pdfnarrator.WithHeadless(c.Headless),
		pdfnarrator.WithLogger(logger),
	}
	if c.Path != "" {
		opts = append(opts, pdfnarrator.WithChromePath(c.Path))
	}
	if c.NoSandbox {
		opts = append(opts, pdfnarrator.WithNoSandbox())
	}
	if c.AutoDownload {
		opts = append(opts, pdfnarrator.WithAutoDownload())
	}
	return opts
}

// splitList accepts both YAML lists and comma-separated environment values.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
