// Package config loads gpush settings from the config file, GPUSH_*
// environment variables and defaults, in that order of precedence after flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/samzong/gpush/internal/gitutil"
	"github.com/spf13/viper"
)

type Config struct {
	Remote         string `mapstructure:"remote"`
	Branch         string `mapstructure:"branch"`
	DefaultMessage string `mapstructure:"default_message"`
	StopOnFailure  bool   `mapstructure:"stop_on_failure"`
	Verbose        bool   `mapstructure:"verbose"`
}

const (
	DefaultRemote     = "origin"
	DefaultBranch     = "main"
	DefaultMessage    = "Initial Commit"
	DefaultConfigName = "config"
	DefaultConfigDir  = "gpush"
	EnvPrefix         = "GPUSH"
)

const (
	KeyRemote         = "remote"
	KeyBranch         = "branch"
	KeyDefaultMessage = "default_message"
	KeyStopOnFailure  = "stop_on_failure"
	KeyVerbose        = "verbose"
)

var keys = []string{KeyRemote, KeyBranch, KeyDefaultMessage, KeyStopOnFailure, KeyVerbose}

// Keys lists the settable configuration keys in display order.
func Keys() []string {
	return append([]string(nil), keys...)
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/gpush/config.yaml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultConfigPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to find home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, DefaultConfigDir, DefaultConfigName+".yaml"), nil
}

// InitConfig points viper at cfgFile (or the default path) and reads it.
// A missing file is not an error; defaults apply. Without cfgFile, an
// unresolvable default path also leaves defaults and environment in effect.
func InitConfig(cfgFile string) error {
	viper.SetDefault(KeyRemote, DefaultRemote)
	viper.SetDefault(KeyBranch, DefaultBranch)
	viper.SetDefault(KeyDefaultMessage, DefaultMessage)
	viper.SetDefault(KeyStopOnFailure, false)
	viper.SetDefault(KeyVerbose, false)

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	path := cfgFile
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return nil
		}
	}

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read configuration file: %w", err)
	}
	return nil
}

func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that remote and branch are usable as git arguments.
// The default message may be anything, including empty.
func (c *Config) Validate() error {
	if err := gitutil.ValidateRemoteName(c.Remote); err != nil {
		return fmt.Errorf("invalid %s: %w", KeyRemote, err)
	}
	if err := gitutil.ValidateBranchName(c.Branch); err != nil {
		return fmt.Errorf("invalid %s: %w", KeyBranch, err)
	}
	return nil
}

func SetConfigValue(key string, value any) {
	viper.Set(key, value)
}

// ParseValue converts a command-line string into the type stored under key.
func ParseValue(key, raw string) (any, error) {
	switch key {
	case KeyRemote:
		return raw, gitutil.ValidateRemoteName(raw)
	case KeyBranch:
		return raw, gitutil.ValidateBranchName(raw)
	case KeyDefaultMessage:
		return raw, nil
	case KeyStopOnFailure, KeyVerbose:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false, got %q", key, raw)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown configuration key %q (valid keys: %v)", key, keys)
	}
}

// SaveConfig writes the current settings to the file InitConfig resolved,
// creating its directory. The file is private to the user.
func SaveConfig() error {
	path := viper.ConfigFileUsed()
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to set configuration file permissions: %w", err)
	}
	return nil
}
