// Package github provisions GitHub tokens for HTTPS git transfers, either
// from a personal or workflow token or from a GitHub App installation.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// ErrNoAuth is returned when neither a token nor complete App credentials
// are available.
var ErrNoAuth = errors.New("no GitHub authentication provided: set GITHUB_TOKEN or provide a GitHub App ID and key")

// TokenConfig holds the configuration for obtaining GitHub tokens.
type TokenConfig struct {
	// Token is a GitHub personal access token or GITHUB_TOKEN.
	// Falls back to GITHUB_TOKEN env var if empty.
	Token string

	// AppID is the GitHub App ID for app authentication.
	// Falls back to GH_APP_ID env var if zero.
	AppID int64

	// AppKeyPath is the path to a GitHub App private key PEM file.
	// Falls back to GH_APP_PRIVATE_KEY env var if empty.
	AppKeyPath string

	// BaseURL is a custom GitHub API base URL for GitHub Enterprise.
	// Falls back to GITHUB_API_URL env var if empty.
	BaseURL string

	// Owner is the account the App is installed on, used for auto-detecting
	// the installation.
	Owner string
}

// NewTokenSource returns a source of tokens for git over HTTPS.
// Auth resolution order: Token → GITHUB_TOKEN env → App credentials → ErrNoAuth.
//
//nolint:ireturn // callers consume the oauth2.TokenSource interface
func NewTokenSource(ctx context.Context, cfg TokenConfig) (oauth2.TokenSource, error) {
	token := resolveString(cfg.Token, "GITHUB_TOKEN")
	if token != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}), nil
	}

	appID := cfg.AppID
	if appID == 0 {
		if s := os.Getenv("GH_APP_ID"); s != "" {
			if v, err := strconv.ParseInt(s, 10, 64); err == nil {
				appID = v
			}
		}
	}
	appKey := resolveString(cfg.AppKeyPath, "GH_APP_PRIVATE_KEY")

	if appID != 0 && appKey != "" {
		return newInstallationTokenSource(ctx, appID, appKey, cfg.Owner, resolveString(cfg.BaseURL, "GITHUB_API_URL"))
	}

	return nil, ErrNoAuth
}

//nolint:ireturn // callers consume the oauth2.TokenSource interface
func newInstallationTokenSource(ctx context.Context, appID int64, keyPath, owner, baseURL string) (oauth2.TokenSource, error) {
	if owner == "" {
		return nil, errors.New("GitHub App authentication requires an owner to locate the installation")
	}

	// An app-level transport discovers the installation ID.
	appTransport, err := ghinstallation.NewAppsTransportKeyFromFile(http.DefaultTransport, appID, keyPath)
	if err != nil {
		return nil, fmt.Errorf("creating GitHub App transport: %w", err)
	}
	if baseURL != "" {
		appTransport.BaseURL = baseURL
	}

	appClient := gh.NewClient(&http.Client{Transport: appTransport})
	if baseURL != "" {
		appClient, err = appClient.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("setting enterprise URL: %w", err)
		}
	}

	installationID, err := findInstallation(ctx, appClient, owner)
	if err != nil {
		return nil, err
	}

	installTransport, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, appID, installationID, keyPath)
	if err != nil {
		return nil, fmt.Errorf("creating installation transport: %w", err)
	}
	if baseURL != "" {
		installTransport.BaseURL = baseURL
	}

	return oauth2.ReuseTokenSource(nil, &installationTokenSource{ctx: ctx, transport: installTransport}), nil
}

// installationTokenSource exchanges the App key for installation tokens.
type installationTokenSource struct {
	ctx       context.Context
	transport *ghinstallation.Transport
}

func (s *installationTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.transport.Token(s.ctx)
	if err != nil {
		return nil, fmt.Errorf("requesting installation token: %w", err)
	}

	expiresAt, _, err := s.transport.Expiry()
	if err != nil {
		return nil, fmt.Errorf("reading installation token expiry: %w", err)
	}

	return &oauth2.Token{AccessToken: token, Expiry: expiresAt}, nil
}

// findInstallation finds the GitHub App installation for the given owner.
func findInstallation(ctx context.Context, client *gh.Client, owner string) (int64, error) {
	opts := &gh.ListOptions{PerPage: 100}

	for {
		installations, resp, err := client.Apps.ListInstallations(ctx, opts)
		if err != nil {
			return 0, fmt.Errorf("listing GitHub App installations: %w", err)
		}

		for _, inst := range installations {
			if inst.GetAccount().GetLogin() == owner {
				return inst.GetID(), nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return 0, fmt.Errorf("no GitHub App installation found for owner %q", owner)
}

// GitHosts returns the git hostnames a GitHub token is valid for:
// github.com, plus the Enterprise host of baseURL (or GITHUB_API_URL).
func GitHosts(baseURL string) []string {
	hosts := []string{"github.com"}

	base := resolveString(baseURL, "GITHUB_API_URL")
	if base == "" {
		return hosts
	}
	u, err := url.Parse(base)
	if err != nil || u.Hostname() == "" {
		return hosts
	}
	host := strings.ToLower(u.Hostname())
	if host == "github.com" || host == "api.github.com" {
		return hosts
	}
	return append(hosts, host)
}

// resolveString returns the configured value if non-empty, otherwise the env var value.
func resolveString(value, envKey string) string {
	if value != "" {
		return value
	}
	return os.Getenv(envKey)
}
