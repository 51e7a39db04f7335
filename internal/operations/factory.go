package operations

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/MyCarrier-DevOps/go-gitbridge/internal/config"
	"github.com/MyCarrier-DevOps/go-gitbridge/internal/credentials"
	"github.com/MyCarrier-DevOps/go-gitbridge/internal/git"
	"github.com/MyCarrier-DevOps/go-gitbridge/internal/github"
)

// FromConfig builds Operations backed by go-git from cfg. SSH remotes use
// the key under cfg.SSH.HomeDir. HTTPS remotes on GitHub hosts use a GitHub
// token when one is configured; every other HTTPS remote runs anonymously.
func FromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Operations, error) {
	// 1. SSH credentials.
	provider := &credentials.Provider{
		SSH: &credentials.SSHKeyResolver{
			HomeDir:    cfg.SSH.HomeDir,
			KeyFile:    cfg.SSH.KeyFile,
			Passphrase: cfg.SSH.Passphrase,
		},
	}
	if cfg.SSH.KnownHosts != "" {
		callback, err := credentials.KnownHostsCallback(cfg.SSH.KnownHosts)
		if err != nil {
			return nil, err
		}
		provider.HostKeyCallback = callback
	}

	// 2. HTTPS credentials.
	source, err := github.NewTokenSource(ctx, github.TokenConfig{
		Token:      cfg.GitHub.Token,
		AppID:      cfg.GitHub.AppID,
		AppKeyPath: cfg.GitHub.AppKeyPath,
		BaseURL:    cfg.GitHub.BaseURL,
		Owner:      cfg.GitHub.Owner,
	})
	switch {
	case err == nil:
		provider.HTTPS = &credentials.TokenResolver{Source: source}
		provider.HTTPSHosts = github.GitHosts(cfg.GitHub.BaseURL)
	case errors.Is(err, github.ErrNoAuth):
		if logger != nil {
			logger.Debug("no GitHub credentials, HTTPS remotes are accessed anonymously")
		}
	default:
		return nil, fmt.Errorf("creating GitHub token source: %w", err)
	}

	// 3. Local remotes.
	if cfg.Transport.EmbeddedFile {
		git.InstallEmbeddedFileTransport()
	}

	return New(Options{
		Auth:          provider,
		Logger:        logger,
		RemoteName:    cfg.Remote.Name,
		DefaultBranch: cfg.Init.DefaultBranch,
		InitMessage:   cfg.Init.Message,
		Signature: git.Signature{
			Name:  cfg.Signature.Name,
			Email: cfg.Signature.Email,
		},
	}), nil
}
