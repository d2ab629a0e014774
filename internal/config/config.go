// Package config resolves runtime settings from defaults, an optional
// config.yml in the data directory, MYTODO_* environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	yaml "gopkg.in/yaml.v3"

	"github.com/sandeepkv93/mytodo/internal/storage"
)

const (
	EnvPrefix      = "MYTODO"
	FileName       = "config"
	FileType       = "yml"
	LogFileName    = "mytodo.log"
	defaultBuffer  = 64
	defaultMDStyle = "dark"
)

var (
	ErrInvalidBackend  = errors.New("config: invalid backend")
	ErrInvalidLogLevel = errors.New("config: invalid log level")
	ErrInvalidBuffer   = errors.New("config: scheduler buffer must be positive")
)

type Config struct {
	DataDir              string `mapstructure:"data_dir" yaml:"data_dir"`
	Backend              string `mapstructure:"backend" yaml:"backend"`
	LogLevel             string `mapstructure:"log_level" yaml:"log_level"`
	LogDevelopment       bool   `mapstructure:"log_development" yaml:"log_development"`
	DesktopNotifications bool   `mapstructure:"desktop_notifications" yaml:"desktop_notifications"`
	SchedulerBuffer      int    `mapstructure:"scheduler_buffer" yaml:"scheduler_buffer"`
	MarkdownStyle        string `mapstructure:"markdown_style" yaml:"markdown_style"`
}

// Default returns the settings used when nothing else is configured. An
// unresolvable home directory leaves DataDir empty.
func Default() Config {
	dir, _ := storage.DefaultDataDir()
	return Config{
		DataDir:              dir,
		Backend:              storage.BackendFile,
		LogLevel:             "info",
		LogDevelopment:       false,
		DesktopNotifications: false,
		SchedulerBuffer:      defaultBuffer,
		MarkdownStyle:        defaultMDStyle,
	}
}

// Flag names bound by BindFlags, keyed by config key.
var flagNames = map[string]string{
	"data_dir":  "data-dir",
	"backend":   "backend",
	"log_level": "log-level",
}

// BindFlags registers the persistent flags that override configuration.
func BindFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String("data-dir", def.DataDir, "directory holding tasks and lists")
	fs.String("backend", def.Backend, "storage backend: file or sqlite")
	fs.String("log-level", def.LogLevel, "log level: debug, info, warn, error")
}

// Load resolves the configuration. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("backend", def.Backend)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_development", def.LogDevelopment)
	v.SetDefault("desktop_notifications", def.DesktopNotifications)
	v.SetDefault("scheduler_buffer", def.SchedulerBuffer)
	v.SetDefault("markdown_style", def.MarkdownStyle)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for key, name := range flagNames {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("config: bind %s: %w", name, err)
				}
			}
		}
	}

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if dir := v.GetString("data_dir"); dir != "" {
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case storage.BackendFile, storage.BackendSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.Backend)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	if c.SchedulerBuffer <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBuffer, c.SchedulerBuffer)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("config: data directory is not set and home directory is unknown")
	}
	return nil
}

func (c Config) Path() string {
	return filepath.Join(c.DataDir, FileName+"."+FileType)
}

func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, LogFileName)
}

// WriteYAML renders c in the config.yml format.
func (c Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return enc.Close()
}

// Save writes c to its config.yml, creating the data directory.
func (c Config) Save() error {
	if err := storage.EnsureDataDir(c.DataDir); err != nil {
		return err
	}
	f, err := os.Create(c.Path())
	if err != nil {
		return fmt.Errorf("config: create %s: %w", c.Path(), err)
	}
	if err := c.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
