// Package config resolves server settings from flags, VARNAM_* environment
// variables, an optional YAML file and built-in defaults, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. VARNAM_DATA_DIR.
const EnvPrefix = "VARNAM"

// Keys.
const (
	KeyListen       = "listen"
	KeyDatabase     = "database"
	KeyDataDir      = "data_dir"
	KeyDocsDir      = "docs_dir"
	KeySchemesDir   = "schemes_dir"
	KeyReadTimeout  = "read_timeout"
	KeyWriteTimeout = "write_timeout"
)

// Config holds the resolved settings.
type Config struct {
	Listen       string
	Database     string
	DataDir      string
	DocsDir      string
	SchemesDir   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"listen":        KeyListen,
	"database":      KeyDatabase,
	"data-dir":      KeyDataDir,
	"docs-dir":      KeyDocsDir,
	"schemes-dir":   KeySchemesDir,
	"read-timeout":  KeyReadTimeout,
	"write-timeout": KeyWriteTimeout,
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyListen, ":3000")
	v.SetDefault(KeyDatabase, "varnam.db")
	v.SetDefault(KeyDataDir, "")
	v.SetDefault(KeyDocsDir, "docs")
	v.SetDefault(KeySchemesDir, "")
	v.SetDefault(KeyReadTimeout, 10*time.Second)
	v.SetDefault(KeyWriteTimeout, 30*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// BindFlags binds every known flag present in flags.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// ReadFile loads cfgFile, or looks for .varnamd.yaml in $HOME and the
// working directory when cfgFile is empty. A missing default file is not an
// error. It returns the file used, if any.
func ReadFile(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".varnamd")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("read config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load resolves a Config from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Listen:       v.GetString(KeyListen),
		Database:     v.GetString(KeyDatabase),
		DataDir:      v.GetString(KeyDataDir),
		DocsDir:      v.GetString(KeyDocsDir),
		SchemesDir:   v.GetString(KeySchemesDir),
		ReadTimeout:  v.GetDuration(KeyReadTimeout),
		WriteTimeout: v.GetDuration(KeyWriteTimeout),
	}
	if cfg.Listen == "" {
		return Config{}, fmt.Errorf("load config: %s is empty", KeyListen)
	}
	if cfg.Database == "" {
		return Config{}, fmt.Errorf("load config: %s is empty", KeyDatabase)
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 {
		return Config{}, fmt.Errorf("load config: negative timeout")
	}
	return cfg, nil
}
