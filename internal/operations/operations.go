// Package operations implements the bridge entry points. Each operation
// opens its own repository handle, runs to completion on the caller's
// goroutine, and reports failures as *outcome.Error.
package operations

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/MyCarrier-DevOps/go-gitbridge/internal/git"
	"github.com/MyCarrier-DevOps/go-gitbridge/internal/outcome"
)

// Operation names as registered with a host.
const (
	OpInit           = "init"
	OpInitBare       = "init_bare"
	OpClone          = "clone"
	OpAddCommit      = "add_commit"
	OpLatestMessage  = "latest_message"
	OpPushRemote     = "push_remote"
	OpFastForward    = "fast_forward"
	OpListReferences = "list_references_rust"
	OpCheckoutBranch = "checkout_branch"
)

// Success messages.
const (
	MsgInit       = "init success"
	MsgClone      = "clone success"
	MsgCommit     = "Commit success"
	MsgPushed     = "Pushed Successfully"
	MsgUpToDate   = "Up to date already"
	MsgUpdated    = "Updated"
	MsgCheckedOut = "Checked out"
)

// DefaultInitMessage is the message of the commit created by Init and
// InitBare.
const DefaultInitMessage = "Initial commit"

// Options configures Operations. Zero values select defaults.
type Options struct {
	// Engine creates and opens repositories. Defaults to go-git.
	Engine git.Engine
	// Auth resolves credentials for network operations. Nil runs transfers
	// anonymously.
	Auth git.AuthProvider
	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger

	RemoteName    string
	DefaultBranch string
	InitMessage   string
	// Signature is used when the repository configuration has no identity.
	Signature git.Signature
}

// Result is the payload of a successful operation.
type Result struct {
	Message string
}

// Operations runs repository operations against an Engine.
type Operations struct {
	engine        git.Engine
	auth          git.AuthProvider
	logger        *zap.Logger
	translator    *outcome.Translator
	remoteName    string
	defaultBranch string
	initMessage   string
	signature     git.Signature
}

// New returns Operations configured by opts.
func New(opts Options) *Operations {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var engine git.Engine = git.NewEngine()
	if opts.Engine != nil {
		engine = opts.Engine
	}
	remote := opts.RemoteName
	if remote == "" {
		remote = git.DefaultRemoteName
	}
	message := opts.InitMessage
	if message == "" {
		message = DefaultInitMessage
	}

	return &Operations{
		engine:        engine,
		auth:          opts.Auth,
		logger:        logger,
		translator:    outcome.NewTranslator(logger),
		remoteName:    remote,
		defaultBranch: opts.DefaultBranch,
		initMessage:   message,
		signature:     opts.Signature,
	}
}

// fail translates err for op. err must not be nil.
func (o *Operations) fail(op string, err error) (Result, error) {
	return Result{}, o.translator.Translate(op, err)
}

func (o *Operations) succeed(op, path, message string) (Result, error) {
	o.logger.Debug("operation succeeded",
		zap.String("operation", op),
		zap.String("path", path),
		zap.String("message", message),
	)
	return Result{Message: message}, nil
}

// Init creates a working-tree repository at dest, stages every file already
// present and records the initial commit.
func (o *Operations) Init(_ context.Context, dest string) (Result, error) {
	return o.initialize(OpInit, dest, false)
}

// InitBare creates a bare repository at dest with an initial commit of the
// empty tree.
func (o *Operations) InitBare(_ context.Context, dest string) (Result, error) {
	return o.initialize(OpInitBare, dest, true)
}

// initialize leaves nothing behind on failure: the identity is resolved
// before anything is written, and a repository that cannot take its first
// commit is discarded.
func (o *Operations) initialize(op, dest string, bare bool) (Result, error) {
	sig, err := o.engine.Signature(o.signature)
	if err != nil {
		return o.fail(op, err)
	}

	repo, err := o.engine.Init(dest, git.InitOptions{Bare: bare, DefaultBranch: o.defaultBranch})
	if err != nil {
		return o.fail(op, err)
	}

	if err := o.firstCommit(repo, sig); err != nil {
		if discardErr := repo.Discard(); discardErr != nil {
			o.logger.Error("discarding repository after failed init",
				zap.String("path", dest),
				zap.Error(discardErr),
			)
		}
		return o.fail(op, err)
	}
	return o.succeed(op, dest, MsgInit)
}

func (o *Operations) firstCommit(repo git.Repository, sig git.Signature) error {
	if !repo.IsBare() {
		if err := repo.StageAll(); err != nil {
			return err
		}
	}
	_, err := repo.Commit(o.initMessage, sig)
	return err
}

// Clone fetches the full history of url into dest. dest must be missing or
// empty.
func (o *Operations) Clone(ctx context.Context, url, dest string) (Result, error) {
	_, err := o.engine.Clone(ctx, url, dest, git.CloneOptions{
		RemoteName: o.remoteName,
		Auth:       o.auth,
	})
	if err != nil {
		return o.fail(OpClone, err)
	}
	return o.succeed(OpClone, dest, MsgClone)
}

// Commit stages every working-tree change in dest and commits it on top of
// the current branch tip. The branch must already have a commit.
func (o *Operations) Commit(_ context.Context, dest, message string) (Result, error) {
	repo, err := o.engine.Open(dest)
	if err != nil {
		return o.fail(OpAddCommit, err)
	}

	head, err := repo.Head()
	if err != nil {
		return o.fail(OpAddCommit, err)
	}

	sig, err := repo.Signature(o.signature)
	if err != nil {
		return o.fail(OpAddCommit, err)
	}
	if err := repo.StageAll(); err != nil {
		return o.fail(OpAddCommit, err)
	}
	commit, err := repo.Commit(message, sig)
	if err != nil {
		return o.fail(OpAddCommit, err)
	}

	o.logger.Debug("committed",
		zap.String("branch", git.ShortBranchName(head.Name)),
		zap.String("commit", commit.ShortHash()),
	)
	return o.succeed(OpAddCommit, dest, MsgCommit)
}

// LatestMessage returns the message of the commit HEAD resolves to.
func (o *Operations) LatestMessage(_ context.Context, dest string) (Result, error) {
	repo, err := o.engine.Open(dest)
	if err != nil {
		return o.fail(OpLatestMessage, err)
	}

	commit, err := repo.HeadCommit()
	if err != nil {
		return o.fail(OpLatestMessage, err)
	}
	return o.succeed(OpLatestMessage, dest, commit.Message)
}

// PushRemote pushes refs/heads/<branch> to the same ref on the configured
// remote. A remote that already has the commit counts as success.
func (o *Operations) PushRemote(ctx context.Context, dest, branch string) (Result, error) {
	repo, err := o.engine.Open(dest)
	if err != nil {
		return o.fail(OpPushRemote, err)
	}

	err = repo.Push(ctx, git.PushOptions{
		RemoteName: o.remoteName,
		Branch:     branch,
		Auth:       o.auth,
	})
	if err != nil {
		return o.fail(OpPushRemote, err)
	}
	return o.succeed(OpPushRemote, dest, MsgPushed)
}

// ListReferences returns every reference name in engine order, each
// followed by a comma.
func (o *Operations) ListReferences(_ context.Context, path string) (Result, error) {
	repo, err := o.engine.Open(path)
	if err != nil {
		return o.fail(OpListReferences, err)
	}

	refs, err := repo.References()
	if err != nil {
		return o.fail(OpListReferences, err)
	}

	var b strings.Builder
	for _, ref := range refs {
		b.WriteString(ref.Name)
		b.WriteByte(',')
	}
	return o.succeed(OpListReferences, path, b.String())
}

// CheckoutBranch fetches branch from the configured remote, creates the
// local branch at the fetched tip when it does not exist yet, and checks it
// out. An existing local branch is checked out as is.
func (o *Operations) CheckoutBranch(ctx context.Context, path, branch string) (Result, error) {
	repo, err := o.engine.Open(path)
	if err != nil {
		return o.fail(OpCheckoutBranch, err)
	}

	fetched, err := repo.Fetch(ctx, git.FetchOptions{
		RemoteName: o.remoteName,
		Branch:     branch,
		Auth:       o.auth,
	})
	if err != nil {
		return o.fail(OpCheckoutBranch, err)
	}

	created, err := repo.CreateBranch(branch, fetched.Hash)
	if err != nil {
		return o.fail(OpCheckoutBranch, err)
	}
	if !created {
		o.logger.Debug("branch exists, keeping local tip", zap.String("branch", branch))
	}

	if err := repo.CheckoutBranch(branch); err != nil {
		if created {
			if rmErr := repo.RemoveBranch(branch); rmErr != nil {
				o.logger.Error("removing branch after failed checkout",
					zap.String("branch", branch), zap.Error(rmErr))
			}
		}
		return o.fail(OpCheckoutBranch, err)
	}
	return o.succeed(OpCheckoutBranch, path, MsgCheckedOut)
}
