package git

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// AuthProvider resolves authentication for a remote URL. It is consulted at
// the start of every network transfer. A nil AuthMethod with a nil error
// means the transfer runs anonymously.
type AuthProvider interface {
	Method(remoteURL string) (transport.AuthMethod, error)
}

// Engine creates and locates repositories. Every call yields a fresh
// Repository; nothing is cached between calls.
type Engine interface {
	// Init creates a repository at path.
	Init(path string, opts InitOptions) (Repository, error)

	// Open opens an existing repository at path. Bare repositories are
	// detected automatically.
	Open(path string) (Repository, error)

	// Clone fetches the full history of url into a new repository at path.
	Clone(ctx context.Context, url, path string, opts CloneOptions) (Repository, error)

	// Signature resolves the commit identity from the global and system
	// configuration, or fallback when neither provides one.
	Signature(fallback Signature) (Signature, error)
}

// Repository provides the engine operations the bridge is built from.
// This is the key abstraction point for testing.
type Repository interface {
	// Path returns the location the repository was opened at.
	Path() string

	// IsBare reports whether the repository has no working tree.
	IsBare() bool

	// Discard removes what Init wrote to disk. It is a no-op for
	// repositories that were opened or cloned.
	Discard() error

	// Head returns the resolved HEAD reference. It returns ErrUnbornBranch
	// when HEAD points at a branch without commits.
	Head() (Reference, error)

	// HeadReference returns HEAD without resolving it.
	HeadReference() (Reference, error)

	// HeadCommit returns the commit HEAD resolves to.
	HeadCommit() (CommitInfo, error)

	// Signature returns the configured commit signature, or fallback when
	// the repository configuration does not provide one.
	Signature(fallback Signature) (Signature, error)

	// StageAll adds every working-tree change to the index.
	StageAll() error

	// Commit writes the index as a tree and commits it on the current
	// branch. The parent is the current tip, if any.
	Commit(message string, sig Signature) (CommitInfo, error)

	// Fetch updates the remote-tracking ref of a single branch and returns
	// the fetched tip.
	Fetch(ctx context.Context, opts FetchOptions) (AnnotatedCommit, error)

	// Push sends refs/heads/<branch> to the same ref on the remote.
	Push(ctx context.Context, opts PushOptions) error

	// AnalyzeMerge classifies fetched against refs/heads/<branch>. It never
	// modifies the repository. A missing branch is unborn only while HEAD
	// itself is unborn.
	AnalyzeMerge(branch string, fetched AnnotatedCommit) (MergeAnalysis, error)

	// BranchTip returns the commit hash of refs/heads/<branch>.
	BranchTip(branch string) (string, error)

	// UpdateBranch moves refs/heads/<branch> to newHash if it still points
	// at oldHash. An empty oldHash sets the branch unconditionally.
	UpdateBranch(branch, newHash, oldHash string) error

	// RemoveBranch deletes refs/heads/<branch>.
	RemoveBranch(branch string) error

	// SetHead points HEAD at refs/heads/<branch>.
	SetHead(branch string) error

	// RestoreHead writes ref back as HEAD.
	RestoreHead(ref Reference) error

	// ResetWorktree forces the index and working tree to match hash.
	ResetWorktree(hash string) error

	// CreateBranch creates refs/heads/<name> at hash. It reports false
	// without error when the branch already exists.
	CreateBranch(name, hash string) (bool, error)

	// CheckoutBranch checks out refs/heads/<name> into the working tree and
	// points HEAD at it.
	CheckoutBranch(name string) error

	// References lists every reference in the engine's enumeration order.
	References() ([]Reference, error)
}
