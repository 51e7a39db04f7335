package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	gossh "golang.org/x/crypto/ssh"

	"github.com/MyCarrier-DevOps/go-gitbridge/internal/git"
)

var _ git.AuthProvider = (*Provider)(nil)

// DefaultHTTPSHost is the only host HTTPS credentials go to unless
// Provider.HTTPSHosts says otherwise.
const DefaultHTTPSHost = "github.com"

// Provider picks a Resolver by the scheme of the remote URL and turns its
// Credential into a go-git auth method.
type Provider struct {
	// SSH resolves ssh:// and scp-like remotes. Required for those remotes.
	SSH Resolver
	// HTTPS resolves http(s):// remotes on HTTPSHosts. Without it, and for
	// every other host, they are accessed anonymously.
	HTTPS Resolver
	// HTTPSHosts are the hostnames HTTPS credentials are sent to. Defaults
	// to DefaultHTTPSHost.
	HTTPSHosts []string
	// HostKeyCallback verifies SSH host keys. Nil keeps go-git's default,
	// which reads the user's known_hosts.
	HostKeyCallback gossh.HostKeyCallback
}

// Method returns the auth method for remoteURL. Local and git:// remotes need
// none and get a nil method.
//
//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *Provider) Method(remoteURL string) (transport.AuthMethod, error) {
	ep, err := transport.NewEndpoint(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parsing remote URL: %w", err)
	}

	switch ep.Protocol {
	case "ssh":
		return p.sshMethod(remoteURL, ep.User)
	case "http", "https":
		if !p.trustsHost(ep.Host) {
			return nil, nil
		}
		return p.httpMethod(remoteURL, ep.User)
	default:
		return nil, nil
	}
}

//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *Provider) sshMethod(remoteURL, user string) (transport.AuthMethod, error) {
	if p.SSH == nil {
		return nil, errors.New("no SSH resolver configured")
	}

	cred, err := p.SSH.Resolve(remoteURL, user)
	if err != nil {
		return nil, err
	}

	auth, err := gitssh.NewPublicKeysFromFile(cred.Username, cred.PrivateKeyPath, cred.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("loading SSH key %s: %w", cred.PrivateKeyPath, err)
	}
	if p.HostKeyCallback != nil {
		auth.HostKeyCallback = p.HostKeyCallback
	}
	return auth, nil
}

//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *Provider) httpMethod(remoteURL, user string) (transport.AuthMethod, error) {
	if p.HTTPS == nil {
		return nil, nil
	}

	cred, err := p.HTTPS.Resolve(remoteURL, user)
	if err != nil {
		return nil, err
	}
	return &githttp.BasicAuth{Username: cred.Username, Password: cred.Token}, nil
}

func (p *Provider) trustsHost(host string) bool {
	hosts := p.HTTPSHosts
	if len(hosts) == 0 {
		hosts = []string{DefaultHTTPSHost}
	}
	for _, h := range hosts {
		if strings.EqualFold(h, host) {
			return true
		}
	}
	return false
}
