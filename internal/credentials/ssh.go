package credentials

import (
	"fmt"
	"path/filepath"

	gossh "golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSHKeyResolver resolves the key file under <HomeDir>/.ssh for the user
// named in the remote URL.
type SSHKeyResolver struct {
	HomeDir string
	// KeyFile is relative to <HomeDir>/.ssh. Defaults to DefaultKeyFile.
	KeyFile    string
	Passphrase string
}

// NewSSHKeyResolver returns a resolver for the default key in homeDir.
func NewSSHKeyResolver(homeDir string) *SSHKeyResolver {
	return &SSHKeyResolver{HomeDir: homeDir, KeyFile: DefaultKeyFile}
}

func (r *SSHKeyResolver) Resolve(url, usernameHint string) (Credential, error) {
	if usernameHint == "" {
		return Credential{}, fmt.Errorf("%w: %s", ErrNoUsername, url)
	}
	if r.HomeDir == "" {
		return Credential{}, ErrHomeDirUnknown
	}

	keyFile := r.KeyFile
	if keyFile == "" {
		keyFile = DefaultKeyFile
	}

	return Credential{
		Username:       usernameHint,
		PrivateKeyPath: filepath.Join(r.HomeDir, ".ssh", keyFile),
		Passphrase:     r.Passphrase,
	}, nil
}

// KnownHostsCallback verifies SSH host keys against the given known_hosts
// files.
func KnownHostsCallback(files ...string) (gossh.HostKeyCallback, error) {
	callback, err := knownhosts.New(files...)
	if err != nil {
		return nil, fmt.Errorf("loading known hosts: %w", err)
	}
	return callback, nil
}
