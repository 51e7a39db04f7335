// Package credentials supplies authentication material for network
// transfers. Resolvers are consulted at the start of every clone, fetch and
// push; nothing they return is persisted.
package credentials

import "errors"

// DefaultKeyFile is the private key used when none is configured.
const DefaultKeyFile = "id_rsa"

var (
	// ErrHomeDirUnknown is returned when no home directory was configured to
	// locate the default key.
	ErrHomeDirUnknown = errors.New("home directory is unknown")

	// ErrNoUsername is returned when the remote URL carries no username.
	ErrNoUsername = errors.New("remote URL has no username")
)

// Credential is the authentication material for a single transfer.
type Credential struct {
	Username string
	// PrivateKeyPath and Passphrase are set for SSH key authentication.
	PrivateKeyPath string
	Passphrase     string
	// Token is set for HTTPS token authentication.
	Token string
}

// Resolver produces a Credential for url. usernameHint is the user named in
// the URL, if any.
type Resolver interface {
	Resolve(url, usernameHint string) (Credential, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(url, usernameHint string) (Credential, error)

func (f ResolverFunc) Resolve(url, usernameHint string) (Credential, error) {
	return f(url, usernameHint)
}
