package config

import "os"

// Default values.
const (
	DefaultRemoteName    = "origin"
	DefaultBranch        = "main"
	DefaultInitMessage   = "Initial commit"
	DefaultKeyFile       = "id_rsa"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultConfigName    = "gitbridge"
	EnvironmentPrefix    = "GITBRIDGE"
	defaultEmbeddedFiles = true
)

// CreateDefaultConfiguration returns a Config with all default values
// populated. The SSH home directory is taken from the user's home directory
// and left empty when it cannot be determined.
func CreateDefaultConfiguration() *Config {
	return &Config{
		Remote: RemoteConfig{Name: DefaultRemoteName},
		Init: InitConfig{
			DefaultBranch: DefaultBranch,
			Message:       DefaultInitMessage,
		},
		SSH: SSHConfig{
			HomeDir: userHomeDir(),
			KeyFile: DefaultKeyFile,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Transport: TransportConfig{EmbeddedFile: defaultEmbeddedFiles},
	}
}

func userHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// defaultValues flattens CreateDefaultConfiguration into viper keys. Every
// key is registered so environment overrides apply even when no file sets it.
func defaultValues() map[string]any {
	d := CreateDefaultConfiguration()
	return map[string]any{
		"remote.name":             d.Remote.Name,
		"init.default-branch":     d.Init.DefaultBranch,
		"init.message":            d.Init.Message,
		"signature.name":          d.Signature.Name,
		"signature.email":         d.Signature.Email,
		"ssh.home-dir":            d.SSH.HomeDir,
		"ssh.key-file":            d.SSH.KeyFile,
		"ssh.passphrase":          d.SSH.Passphrase,
		"ssh.known-hosts":         d.SSH.KnownHosts,
		"github.token":            d.GitHub.Token,
		"github.app-id":           d.GitHub.AppID,
		"github.app-key-path":     d.GitHub.AppKeyPath,
		"github.base-url":         d.GitHub.BaseURL,
		"github.owner":            d.GitHub.Owner,
		"log.level":               d.Log.Level,
		"log.format":              d.Log.Format,
		"transport.embedded-file": d.Transport.EmbeddedFile,
	}
}
