package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhishek-2k23/Todo-RN/client/apiclient"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// clientConfig is the effective client configuration. Precedence is flag,
// then TODO_* environment variable, then config file, then default.
type clientConfig struct {
	APIURL      string `mapstructure:"api_url" yaml:"api_url"`
	StateDir    string `mapstructure:"state_dir" yaml:"state_dir"`
	RedisAddr   string `mapstructure:"redis_addr" yaml:"redis_addr,omitempty"`
	RedisPrefix string `mapstructure:"redis_prefix" yaml:"redis_prefix,omitempty"`
	Verbose     bool   `mapstructure:"verbose" yaml:"verbose"`
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".todo"
	}
	return filepath.Join(home, ".todo")
}

// defaultConfigPath is read when --config is not given and the file exists.
func defaultConfigPath() string {
	return filepath.Join(defaultStateDir(), "config.yaml")
}

// loadConfig merges the sources. An explicit path must exist; the default
// path is optional.
func loadConfig(path string, flags *pflag.FlagSet) (clientConfig, error) {
	v := viper.New()
	v.SetDefault("api_url", apiclient.DefaultBaseURL)
	v.SetDefault("state_dir", defaultStateDir())
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_prefix", "todo-client:")
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range map[string]string{
			"api_url":    "api-url",
			"state_dir":  "state-dir",
			"redis_addr": "redis",
			"verbose":    "verbose",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return clientConfig{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return clientConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg clientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return clientConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.APIURL == "" {
		return clientConfig{}, errors.New("api_url must not be empty")
	}
	return cfg, nil
}
