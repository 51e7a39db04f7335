// Package config provides configuration loading for gitbridge: defaults,
// an optional YAML file, and GITBRIDGE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for gitbridge.
type Config struct {
	Remote    RemoteConfig    `mapstructure:"remote" yaml:"remote"`
	Init      InitConfig      `mapstructure:"init" yaml:"init"`
	Signature SignatureConfig `mapstructure:"signature" yaml:"signature"`
	SSH       SSHConfig       `mapstructure:"ssh" yaml:"ssh"`
	GitHub    GitHubConfig    `mapstructure:"github" yaml:"github"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Transport TransportConfig `mapstructure:"transport" yaml:"transport"`
}

// RemoteConfig selects the remote used by push, fast-forward and checkout.
type RemoteConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
}

// InitConfig controls repository creation.
type InitConfig struct {
	DefaultBranch string `mapstructure:"default-branch" yaml:"default-branch"`
	Message       string `mapstructure:"message" yaml:"message"`
}

// SignatureConfig is the commit identity used when the repository
// configuration has none.
type SignatureConfig struct {
	Name  string `mapstructure:"name" yaml:"name"`
	Email string `mapstructure:"email" yaml:"email"`
}

// SSHConfig locates the private key for SSH remotes.
type SSHConfig struct {
	// HomeDir is resolved once at load time from the user's home directory
	// when not set explicitly.
	HomeDir    string `mapstructure:"home-dir" yaml:"home-dir"`
	KeyFile    string `mapstructure:"key-file" yaml:"key-file"`
	Passphrase string `mapstructure:"passphrase" yaml:"passphrase"`
	// KnownHosts enables strict host key checking against this file.
	KnownHosts string `mapstructure:"known-hosts" yaml:"known-hosts"`
}

// GitHubConfig provides tokens for HTTPS remotes.
type GitHubConfig struct {
	Token      string `mapstructure:"token" yaml:"token"`
	AppID      int64  `mapstructure:"app-id" yaml:"app-id"`
	AppKeyPath string `mapstructure:"app-key-path" yaml:"app-key-path"`
	BaseURL    string `mapstructure:"base-url" yaml:"base-url"`
	Owner      string `mapstructure:"owner" yaml:"owner"`
}

// LogConfig configures the diagnostic logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// TransportConfig controls how local remotes are served.
type TransportConfig struct {
	// EmbeddedFile serves file:// remotes in-process instead of through the
	// git binary.
	EmbeddedFile bool `mapstructure:"embedded-file" yaml:"embedded-file"`
}

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"console", "structured"}
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Remote.Name) == "" {
		errs = append(errs, errors.New("remote.name must not be empty"))
	}
	if c.Init.DefaultBranch == "" {
		errs = append(errs, errors.New("init.default-branch must not be empty"))
	} else if err := plumbing.NewBranchReferenceName(c.Init.DefaultBranch).Validate(); err != nil {
		errs = append(errs, fmt.Errorf("init.default-branch %q: %w", c.Init.DefaultBranch, err))
	}
	if (c.Signature.Name == "") != (c.Signature.Email == "") {
		errs = append(errs, errors.New("signature.name and signature.email must be set together"))
	}
	if c.GitHub.AppID < 0 {
		errs = append(errs, fmt.Errorf("github.app-id %d must not be negative", c.GitHub.AppID))
	}
	if !contains(validLogLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q must be one of %s", c.Log.Level, strings.Join(validLogLevels, ", ")))
	}
	if !contains(validLogFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format %q must be one of %s", c.Log.Format, strings.Join(validLogFormats, ", ")))
	}

	return errors.Join(errs...)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

const redacted = "********"

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	if out.SSH.Passphrase != "" {
		out.SSH.Passphrase = redacted
	}
	if out.GitHub.Token != "" {
		out.GitHub.Token = redacted
	}
	return &out
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}
