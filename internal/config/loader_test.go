package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFromBytes_Full(t *testing.T) {
	data := []byte(`
remote:
  name: upstream
init:
  default-branch: trunk
  message: Genesis
signature:
  name: Bridge
  email: bridge@example.com
ssh:
  home-dir: /srv/bridge
  key-file: id_ed25519
  known-hosts: /srv/bridge/.ssh/known_hosts
github:
  app-id: 1234
  app-key-path: /srv/bridge/app.pem
  owner: my-org
log:
  level: debug
  format: structured
transport:
  embedded-file: false
`)

	cfg, err := LoadFromBytes(data)
	require.NoError(t, err)

	require.Equal(t, "upstream", cfg.Remote.Name)
	require.Equal(t, "trunk", cfg.Init.DefaultBranch)
	require.Equal(t, "Genesis", cfg.Init.Message)
	require.Equal(t, "Bridge", cfg.Signature.Name)
	require.Equal(t, "bridge@example.com", cfg.Signature.Email)
	require.Equal(t, "/srv/bridge", cfg.SSH.HomeDir)
	require.Equal(t, "id_ed25519", cfg.SSH.KeyFile)
	require.Equal(t, "/srv/bridge/.ssh/known_hosts", cfg.SSH.KnownHosts)
	require.Equal(t, int64(1234), cfg.GitHub.AppID)
	require.Equal(t, "/srv/bridge/app.pem", cfg.GitHub.AppKeyPath)
	require.Equal(t, "my-org", cfg.GitHub.Owner)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "structured", cfg.Log.Format)
	require.False(t, cfg.Transport.EmbeddedFile)
}

func TestLoadFromBytes_DefaultsFillGaps(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("remote:\n  name: upstream\n"))
	require.NoError(t, err)
	require.Equal(t, "upstream", cfg.Remote.Name)
	require.Equal(t, "main", cfg.Init.DefaultBranch)
	require.Equal(t, "Initial commit", cfg.Init.Message)
	require.True(t, cfg.Transport.EmbeddedFile)
}

func TestLoadFromBytes_InvalidYAML(t *testing.T) {
	_, err := LoadFromBytes([]byte("remote: [unclosed"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing config")
}

func TestLoadFromBytes_InvalidValues(t *testing.T) {
	_, err := LoadFromBytes([]byte("log:\n  level: loud\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid config")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("init:\n  default-branch: trunk\n"), 0o644))

	t.Setenv("GITBRIDGE_INIT_DEFAULT_BRANCH", "release")
	t.Setenv("GITBRIDGE_REMOTE_NAME", "mirror")
	t.Setenv("GITBRIDGE_GITHUB_APP_ID", "77")
	t.Setenv("GITBRIDGE_TRANSPORT_EMBEDDED_FILE", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "release", cfg.Init.DefaultBranch)
	require.Equal(t, "mirror", cfg.Remote.Name)
	require.Equal(t, int64(77), cfg.GitHub.AppID)
	require.False(t, cfg.Transport.EmbeddedFile)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading config file")
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "origin", cfg.Remote.Name)
}

func TestLoad_FindsFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gitbridge.yaml"), []byte("remote:\n  name: upstream\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "upstream", cfg.Remote.Name)
}
