package git

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gogitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Compile-time checks that the go-git types implement the interfaces.
var (
	_ Engine     = GoGitEngine{}
	_ Repository = (*GoGitRepository)(nil)
)

// GoGitEngine implements Engine for on-disk repositories using go-git.
type GoGitEngine struct{}

// NewEngine returns the go-git backed Engine.
func NewEngine() GoGitEngine {
	return GoGitEngine{}
}

// Init creates a working-tree or bare repository at path. The returned
// repository can Discard what Init wrote.
func (GoGitEngine) Init(path string, opts InitOptions) (Repository, error) {
	plainOpts := &gogit.PlainInitOptions{Bare: opts.Bare}
	if opts.DefaultBranch != "" {
		if err := validateBranchName(opts.DefaultBranch); err != nil {
			return nil, err
		}
		plainOpts.DefaultBranch = plumbing.ReferenceName(BranchReferenceName(opts.DefaultBranch))
	}

	fp, err := takeFootprint(path)
	if err != nil {
		return nil, err
	}

	r, err := gogit.PlainInitWithOptions(path, plainOpts)
	if err != nil {
		return nil, fmt.Errorf("initializing repository at %s: %w", path, err)
	}
	repo := newRepository(r, path)
	repo.footprint = fp
	return repo, nil
}

// Signature resolves the commit identity from the global and system git
// configuration, then fallback. No repository is needed.
func (GoGitEngine) Signature(fallback Signature) (Signature, error) {
	for _, scope := range []gogitconfig.Scope{gogitconfig.GlobalScope, gogitconfig.SystemScope} {
		cfg, err := gogitconfig.LoadConfig(scope)
		if err != nil {
			return Signature{}, fmt.Errorf("reading signature configuration: %w", err)
		}
		if sig := identity(cfg); !sig.IsZero() {
			return completeSignature(sig, fallback)
		}
	}
	return completeSignature(Signature{}, fallback)
}

// Open opens the repository at path.
func (GoGitEngine) Open(path string) (Repository, error) {
	r, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return newRepository(r, path), nil
}

// Clone clones url into path. The destination must be missing or empty.
func (GoGitEngine) Clone(ctx context.Context, url, path string, opts CloneOptions) (Repository, error) {
	if err := ensureEmptyDestination(path); err != nil {
		return nil, err
	}

	auth, err := resolveAuth(opts.Auth, url)
	if err != nil {
		return nil, err
	}

	r, err := gogit.PlainCloneContext(ctx, path, false, &gogit.CloneOptions{
		URL:        url,
		Auth:       auth,
		RemoteName: remoteOrDefault(opts.RemoteName),
	})
	if err != nil {
		return nil, fmt.Errorf("cloning %s into %s: %w", url, path, err)
	}
	return newRepository(r, path), nil
}

func ensureEmptyDestination(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("inspecting destination %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDestinationNotEmpty, path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("reading destination %s: %w", path, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("%w: %s", ErrDestinationNotEmpty, path)
	}
	return nil
}

// footprint records the state of an Init destination so Discard removes
// only what Init added.
type footprint struct {
	// root is the topmost directory Init created. Empty when path existed.
	root string
	// entries are the names present in path before Init.
	entries map[string]struct{}
}

func takeFootprint(path string) (*footprint, error) {
	entries, err := os.ReadDir(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &footprint{root: missingRoot(path)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("inspecting destination %s: %w", path, err)
	}

	fp := &footprint{entries: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		fp.entries[e.Name()] = struct{}{}
	}
	return fp, nil
}

// missingRoot returns the topmost missing directory on the way to path.
func missingRoot(path string) string {
	root := filepath.Clean(path)
	for {
		parent := filepath.Dir(root)
		if parent == root {
			return root
		}
		if _, err := os.Stat(parent); !errors.Is(err, fs.ErrNotExist) {
			return root
		}
		root = parent
	}
}

//nolint:ireturn // go-git requires the transport.AuthMethod interface
func resolveAuth(provider AuthProvider, url string) (transport.AuthMethod, error) {
	if provider == nil {
		return nil, nil
	}
	method, err := provider.Method(url)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", ErrCredentials, url, err)
	}
	return method, nil
}

func validateBranchName(branch string) error {
	if strings.TrimSpace(branch) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidBranchName)
	}
	if err := plumbing.NewBranchReferenceName(branch).Validate(); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidBranchName, branch, err)
	}
	return nil
}

// GoGitRepository implements Repository using go-git.
type GoGitRepository struct {
	repo *gogit.Repository
	path string
	bare bool
	// footprint is set for repositories created by Init.
	footprint *footprint
}

func newRepository(r *gogit.Repository, path string) *GoGitRepository {
	_, err := r.Worktree()
	return &GoGitRepository{
		repo: r,
		path: path,
		bare: errors.Is(err, gogit.ErrIsBareRepository),
	}
}

func (r *GoGitRepository) Path() string {
	return r.path
}

func (r *GoGitRepository) IsBare() bool {
	return r.bare
}

func (r *GoGitRepository) Head() (Reference, error) {
	ref, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return Reference{}, fmt.Errorf("resolving HEAD: %w", ErrUnbornBranch)
	}
	if err != nil {
		return Reference{}, fmt.Errorf("resolving HEAD: %w", err)
	}
	return toReference(ref), nil
}

func (r *GoGitRepository) HeadReference() (Reference, error) {
	ref, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return Reference{}, fmt.Errorf("reading HEAD: %w", err)
	}
	return toReference(ref), nil
}

func (r *GoGitRepository) HeadCommit() (CommitInfo, error) {
	head, err := r.Head()
	if err != nil {
		return CommitInfo{}, err
	}
	return r.commitInfo(plumbing.NewHash(head.Target))
}

// Discard removes what Init wrote: the directories it created, or the
// entries it added to an existing directory. Opened and cloned repositories
// are left alone.
func (r *GoGitRepository) Discard() error {
	fp := r.footprint
	if fp == nil {
		return nil
	}
	r.footprint = nil

	if fp.root != "" {
		if err := os.RemoveAll(fp.root); err != nil {
			return fmt.Errorf("discarding %s: %w", fp.root, err)
		}
		return nil
	}

	entries, err := os.ReadDir(r.path)
	if err != nil {
		return fmt.Errorf("discarding %s: %w", r.path, err)
	}
	var errs []error
	for _, e := range entries {
		if _, ok := fp.entries[e.Name()]; ok {
			continue
		}
		errs = append(errs, os.RemoveAll(filepath.Join(r.path, e.Name())))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("discarding %s: %w", r.path, err)
	}
	return nil
}

func (r *GoGitRepository) Signature(fallback Signature) (Signature, error) {
	cfg, err := r.repo.ConfigScoped(gogitconfig.SystemScope)
	if err != nil {
		return Signature{}, fmt.Errorf("reading signature configuration: %w", err)
	}
	return completeSignature(identity(cfg), fallback)
}

// identity reads user.* and falls back to author.*.
func identity(cfg *gogitconfig.Config) Signature {
	sig := Signature{Name: cfg.User.Name, Email: cfg.User.Email}
	if sig.IsZero() {
		sig = Signature{Name: cfg.Author.Name, Email: cfg.Author.Email}
	}
	return sig
}

func completeSignature(sig, fallback Signature) (Signature, error) {
	if sig.IsZero() {
		sig = fallback
	}
	if sig.IsZero() {
		return Signature{}, ErrMissingSignature
	}
	if sig.When.IsZero() {
		sig.When = time.Now()
	}
	return sig, nil
}

func (r *GoGitRepository) StageAll() error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("staging changes: %w", err)
	}
	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return fmt.Errorf("staging changes: %w", err)
	}
	return nil
}

func (r *GoGitRepository) Commit(message string, sig Signature) (CommitInfo, error) {
	author := &object.Signature{Name: sig.Name, Email: sig.Email, When: sig.When}

	if r.bare {
		return r.commitBare(message, author)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return CommitInfo{}, fmt.Errorf("committing: %w", err)
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author:            author,
		Committer:         author,
		AllowEmptyCommits: true,
	})
	if err != nil {
		return CommitInfo{}, fmt.Errorf("committing: %w", err)
	}
	return r.commitInfo(hash)
}

// commitBare commits an empty tree on top of HEAD. A bare repository has no
// index to snapshot.
func (r *GoGitRepository) commitBare(message string, sig *object.Signature) (CommitInfo, error) {
	treeObj := r.repo.Storer.NewEncodedObject()
	if err := (&object.Tree{}).Encode(treeObj); err != nil {
		return CommitInfo{}, fmt.Errorf("encoding tree: %w", err)
	}
	treeHash, err := r.repo.Storer.SetEncodedObject(treeObj)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("writing tree: %w", err)
	}

	var parents []plumbing.Hash
	head, err := r.Head()
	switch {
	case err == nil:
		parents = append(parents, plumbing.NewHash(head.Target))
	case !errors.Is(err, ErrUnbornBranch):
		return CommitInfo{}, err
	}

	commit := &object.Commit{
		Author:       *sig,
		Committer:    *sig,
		Message:      message,
		TreeHash:     treeHash,
		ParentHashes: parents,
	}
	commitObj := r.repo.Storer.NewEncodedObject()
	if err := commit.Encode(commitObj); err != nil {
		return CommitInfo{}, fmt.Errorf("encoding commit: %w", err)
	}
	hash, err := r.repo.Storer.SetEncodedObject(commitObj)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("writing commit: %w", err)
	}

	headRef, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("reading HEAD: %w", err)
	}
	target := plumbing.HEAD
	if headRef.Type() == plumbing.SymbolicReference {
		target = headRef.Target()
	}
	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(target, hash)); err != nil {
		return CommitInfo{}, fmt.Errorf("updating %s: %w", target, err)
	}
	return r.commitInfo(hash)
}

func (r *GoGitRepository) remoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("looking up remote %s: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoRemoteURL, name)
	}
	return urls[0], nil
}

func (r *GoGitRepository) Fetch(ctx context.Context, opts FetchOptions) (AnnotatedCommit, error) {
	if err := validateBranchName(opts.Branch); err != nil {
		return AnnotatedCommit{}, err
	}

	remoteName := remoteOrDefault(opts.RemoteName)
	url, err := r.remoteURL(remoteName)
	if err != nil {
		return AnnotatedCommit{}, err
	}

	auth, err := resolveAuth(opts.Auth, url)
	if err != nil {
		return AnnotatedCommit{}, err
	}

	source := plumbing.ReferenceName(BranchReferenceName(opts.Branch))
	tracking := plumbing.ReferenceName(RemoteTrackingReferenceName(remoteName, opts.Branch))
	refSpec := gogitconfig.RefSpec(fmt.Sprintf("+%s:%s", source, tracking))
	if err := refSpec.Validate(); err != nil {
		return AnnotatedCommit{}, fmt.Errorf("building refspec for %s: %w", opts.Branch, err)
	}

	err = r.repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: remoteName,
		RefSpecs:   []gogitconfig.RefSpec{refSpec},
		Auth:       auth,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return AnnotatedCommit{}, fmt.Errorf("fetching %s from %s: %w", opts.Branch, remoteName, err)
	}

	ref, err := r.repo.Reference(tracking, true)
	if err != nil {
		return AnnotatedCommit{}, fmt.Errorf("resolving fetched %s: %w", tracking, err)
	}

	return AnnotatedCommit{
		Hash:        ref.Hash().String(),
		Remote:      remoteName,
		URL:         url,
		SourceRef:   source.String(),
		TrackingRef: tracking.String(),
	}, nil
}

func (r *GoGitRepository) Push(ctx context.Context, opts PushOptions) error {
	if _, err := r.BranchTip(opts.Branch); err != nil {
		return err
	}

	remoteName := remoteOrDefault(opts.RemoteName)
	url, err := r.remoteURL(remoteName)
	if err != nil {
		return err
	}

	auth, err := resolveAuth(opts.Auth, url)
	if err != nil {
		return err
	}

	ref := plumbing.NewBranchReferenceName(opts.Branch)
	err = r.repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []gogitconfig.RefSpec{gogitconfig.RefSpec(fmt.Sprintf("%s:%s", ref, ref))},
		Auth:       auth,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pushing %s to %s: %w", opts.Branch, remoteName, err)
	}
	return nil
}

func (r *GoGitRepository) BranchTip(branch string) (string, error) {
	if err := validateBranchName(branch); err != nil {
		return "", err
	}
	ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		return "", fmt.Errorf("resolving branch %s: %w", branch, err)
	}
	return ref.Hash().String(), nil
}

func (r *GoGitRepository) UpdateBranch(branch, newHash, oldHash string) error {
	name := plumbing.NewBranchReferenceName(branch)
	next := plumbing.NewHashReference(name, plumbing.NewHash(newHash))

	var prev *plumbing.Reference
	if oldHash != "" {
		prev = plumbing.NewHashReference(name, plumbing.NewHash(oldHash))
	}

	if err := r.repo.Storer.CheckAndSetReference(next, prev); err != nil {
		return fmt.Errorf("updating %s: %w", name, err)
	}
	return nil
}

func (r *GoGitRepository) RemoveBranch(branch string) error {
	name := plumbing.NewBranchReferenceName(branch)
	if err := r.repo.Storer.RemoveReference(name); err != nil {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}

func (r *GoGitRepository) SetHead(branch string) error {
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	if err := r.repo.Storer.SetReference(head); err != nil {
		return fmt.Errorf("setting HEAD to %s: %w", branch, err)
	}
	return nil
}

func (r *GoGitRepository) RestoreHead(ref Reference) error {
	head := plumbing.NewHashReference(plumbing.HEAD, plumbing.NewHash(ref.Target))
	if ref.Symbolic {
		head = plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.ReferenceName(ref.Target))
	}
	if err := r.repo.Storer.SetReference(head); err != nil {
		return fmt.Errorf("restoring HEAD: %w", err)
	}
	return nil
}

func (r *GoGitRepository) ResetWorktree(hash string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("resetting working tree: %w", err)
	}
	err = wt.Reset(&gogit.ResetOptions{
		Commit: plumbing.NewHash(hash),
		Mode:   gogit.HardReset,
	})
	if err != nil {
		return fmt.Errorf("resetting working tree to %s: %w", hash, err)
	}
	return nil
}

func (r *GoGitRepository) CreateBranch(name, hash string) (bool, error) {
	if err := validateBranchName(name); err != nil {
		return false, err
	}

	refName := plumbing.NewBranchReferenceName(name)
	_, err := r.repo.Reference(refName, false)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, fmt.Errorf("looking up branch %s: %w", name, err)
	}

	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(refName, plumbing.NewHash(hash))); err != nil {
		return false, fmt.Errorf("creating branch %s: %w", name, err)
	}
	return true, nil
}

func (r *GoGitRepository) CheckoutBranch(name string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("checking out %s: %w", name, err)
	}
	err = wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
	})
	if err != nil {
		return fmt.Errorf("checking out %s: %w", name, err)
	}
	return nil
}

func (r *GoGitRepository) References() ([]Reference, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}
	defer iter.Close()

	var refs []Reference
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		refs = append(refs, toReference(ref))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating references: %w", err)
	}
	return refs, nil
}

func (r *GoGitRepository) commitInfo(hash plumbing.Hash) (CommitInfo, error) {
	c, err := r.repo.CommitObject(hash)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("reading commit %s: %w", hash, err)
	}

	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	return CommitInfo{
		Hash:    c.Hash.String(),
		Message: c.Message,
		Author: Signature{
			Name:  c.Author.Name,
			Email: c.Author.Email,
			When:  c.Author.When,
		},
		Parents: parents,
	}, nil
}

func toReference(ref *plumbing.Reference) Reference {
	if ref.Type() == plumbing.SymbolicReference {
		return Reference{
			Name:     ref.Name().String(),
			Target:   ref.Target().String(),
			Symbolic: true,
		}
	}
	return Reference{
		Name:   ref.Name().String(),
		Target: ref.Hash().String(),
	}
}
