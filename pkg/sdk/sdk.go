// Package sdk provides a public Go API over the gitbridge repository
// operations. Every call returns a Reply: a success message, or an error
// carrying exactly one outcome symbol.
//
// Basic usage:
//
//	client, err := sdk.New(ctx, sdk.Options{})
//	reply := client.Init(ctx, "/tmp/repo")
//	fmt.Println(reply.Message) // "init success"
//
//	reply = client.FastForward(ctx, "/tmp/clone", "main")
//	if !reply.OK() {
//	    fmt.Println(reply.Outcome) // e.g. "fast_forward_only"
//	}
package sdk

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MyCarrier-DevOps/go-gitbridge/internal/config"
	"github.com/MyCarrier-DevOps/go-gitbridge/internal/operations"
	"github.com/MyCarrier-DevOps/go-gitbridge/internal/outcome"
	"github.com/MyCarrier-DevOps/go-gitbridge/internal/output"
)

// Reply is the result of an operation.
type Reply = output.Reply

// Options configures a Client. Non-empty fields override the loaded
// configuration.
type Options struct {
	// ConfigPath is a gitbridge YAML config file. If empty, gitbridge.yaml in
	// the working directory is used when present.
	ConfigPath string

	// RemoteName is the remote used by push, fast-forward and checkout.
	// Defaults to "origin".
	RemoteName string

	// DefaultBranch is the branch HEAD points at after init. Defaults to
	// "main".
	DefaultBranch string

	// SignatureName and SignatureEmail are the commit identity used when the
	// repository configuration has none.
	SignatureName  string
	SignatureEmail string

	// HomeDir locates ~/.ssh for SSH remotes. Defaults to the user's home
	// directory.
	HomeDir string

	// Token is a GitHub token for HTTPS remotes. Falls back to GITHUB_TOKEN.
	Token string

	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Client runs repository operations.
type Client struct {
	ops *operations.Operations
}

// New loads configuration and returns a Client.
func New(ctx context.Context, opts Options) (*Client, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ops, err := operations.FromConfig(ctx, cfg, opts.Logger)
	if err != nil {
		return nil, err
	}
	return &Client{ops: ops}, nil
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.RemoteName != "" {
		cfg.Remote.Name = opts.RemoteName
	}
	if opts.DefaultBranch != "" {
		cfg.Init.DefaultBranch = opts.DefaultBranch
	}
	if opts.SignatureName != "" {
		cfg.Signature.Name = opts.SignatureName
	}
	if opts.SignatureEmail != "" {
		cfg.Signature.Email = opts.SignatureEmail
	}
	if opts.HomeDir != "" {
		cfg.SSH.HomeDir = opts.HomeDir
	}
	if opts.Token != "" {
		cfg.GitHub.Token = opts.Token
	}
}

func reply(res operations.Result, err error) Reply {
	return output.FromResult(res.Message, err)
}

// Init creates a working-tree repository with an initial commit.
func (c *Client) Init(ctx context.Context, dest string) Reply {
	return reply(c.ops.Init(ctx, dest))
}

// InitBare creates a bare repository with an initial commit.
func (c *Client) InitBare(ctx context.Context, dest string) Reply {
	return reply(c.ops.InitBare(ctx, dest))
}

// Clone clones url into dest.
func (c *Client) Clone(ctx context.Context, url, dest string) Reply {
	return reply(c.ops.Clone(ctx, url, dest))
}

// Commit stages all changes in dest and commits them with message.
func (c *Client) Commit(ctx context.Context, dest, message string) Reply {
	return reply(c.ops.Commit(ctx, dest, message))
}

// LatestMessage returns the message of the HEAD commit.
func (c *Client) LatestMessage(ctx context.Context, dest string) Reply {
	return reply(c.ops.LatestMessage(ctx, dest))
}

// PushRemote pushes branch to the configured remote.
func (c *Client) PushRemote(ctx context.Context, dest, branch string) Reply {
	return reply(c.ops.PushRemote(ctx, dest, branch))
}

// FastForward updates branch to the remote tip when that is a fast-forward.
func (c *Client) FastForward(ctx context.Context, path, branch string) Reply {
	return reply(c.ops.FastForward(ctx, path, branch))
}

// ListReferences returns every reference name, each followed by a comma.
func (c *Client) ListReferences(ctx context.Context, path string) Reply {
	return reply(c.ops.ListReferences(ctx, path))
}

// CheckoutBranch fetches branch and checks it out.
func (c *Client) CheckoutBranch(ctx context.Context, path, branch string) Reply {
	return reply(c.ops.CheckoutBranch(ctx, path, branch))
}

// Outcomes lists every outcome symbol a failed Reply can carry.
func Outcomes() []string {
	all := outcome.All()
	symbols := make([]string, 0, len(all))
	for _, o := range all {
		symbols = append(symbols, o.String())
	}
	return symbols
}
