package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load builds the configuration from defaults, the YAML file at path and
// GITBRIDGE_* environment variables, in increasing precedence. With an empty
// path, gitbridge.yaml is looked up in the working directory and skipped when
// absent.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
	}

	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromBytes parses gitbridge configuration from raw YAML bytes on top of
// the defaults and environment.
func LoadFromBytes(data []byte) (*Config, error) {
	v := newViper()
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvironmentPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, value := range defaultValues() {
		v.SetDefault(key, value)
	}
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
