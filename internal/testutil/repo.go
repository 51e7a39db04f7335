// Package testutil provides helpers for creating temporary git repositories
// and remotes for tests.
//
// Helpers that talk to a remote (Clone, Push) use go-git's file transport.
// Callers must install the embedded file transport first, see
// git.InstallEmbeddedFileTransport.
package testutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gogitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	// DefaultBranch is the branch every TestRepo starts on.
	DefaultBranch = "main"

	// SignatureName and SignatureEmail identify every test commit.
	SignatureName  = "Test"
	SignatureEmail = "test@example.com"
)

// TestRepo is a builder for creating temporary git repositories with
// controlled commit history, branches and remotes.
type TestRepo struct {
	t    testing.TB
	path string
	repo *gogit.Repository
	time time.Time
}

// NewTestRepo creates and initializes a new repository with a working tree in
// a temporary directory. HEAD points at DefaultBranch, which is unborn.
func NewTestRepo(t testing.TB) *TestRepo {
	t.Helper()
	return initRepo(t, false)
}

// NewBareRepo creates a bare repository in a temporary directory, suitable as
// a push and fetch remote.
func NewBareRepo(t testing.TB) *TestRepo {
	t.Helper()
	return initRepo(t, true)
}

func initRepo(t testing.TB, bare bool) *TestRepo {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(DefaultBranch)},
		Bare:        bare,
	})
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	return newTestRepo(t, dir, repo)
}

// CloneTestRepo clones url into a temporary directory.
func CloneTestRepo(t testing.TB, url string) *TestRepo {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainClone(dir, false, &gogit.CloneOptions{URL: url})
	if err != nil {
		t.Fatalf("cloning %s: %v", url, err)
	}
	return newTestRepo(t, dir, repo)
}

// OpenTestRepo wraps an existing repository at dir.
func OpenTestRepo(t testing.TB, dir string) *TestRepo {
	t.Helper()
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		t.Fatalf("opening %s: %v", dir, err)
	}
	return newTestRepo(t, dir, repo)
}

func newTestRepo(t testing.TB, dir string, repo *gogit.Repository) *TestRepo {
	return &TestRepo{
		t:    t,
		path: dir,
		repo: repo,
		time: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Path returns the repository root directory.
func (r *TestRepo) Path() string {
	return r.path
}

// Repo exposes the underlying go-git repository for assertions.
func (r *TestRepo) Repo() *gogit.Repository {
	return r.repo
}

// WriteFile writes content to name relative to the repository root without
// staging it.
func (r *TestRepo) WriteFile(name, content string) {
	r.t.Helper()
	path := filepath.Join(r.path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("creating directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("writing %s: %v", name, err)
	}
}

// AddCommit creates a new commit with the given message. A file named after
// the repository directory and the commit time is created to ensure each
// commit has changes, also across clones of the same history.
// Returns the commit SHA.
func (r *TestRepo) AddCommit(message string) string {
	r.t.Helper()
	r.time = r.time.Add(time.Minute)

	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("getting worktree: %v", err)
	}

	filename := fmt.Sprintf("file-%s-%d.txt", filepath.Base(r.path), r.time.Unix())
	r.WriteFile(filename, message)

	if _, err := wt.Add(filename); err != nil {
		r.t.Fatalf("staging file: %v", err)
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: r.signature(),
	})
	if err != nil {
		r.t.Fatalf("committing: %v", err)
	}

	return hash.String()
}

func (r *TestRepo) signature() *object.Signature {
	return &object.Signature{
		Name:  SignatureName,
		Email: SignatureEmail,
		When:  r.time,
	}
}

// AddRemote registers url under name.
func (r *TestRepo) AddRemote(name, url string) {
	r.t.Helper()
	_, err := r.repo.CreateRemote(&gogitconfig.RemoteConfig{
		Name: name,
		URLs: []string{url},
	})
	if err != nil {
		r.t.Fatalf("adding remote %s: %v", name, err)
	}
}

// Push pushes refs/heads/<branch> to the same ref on remote. With force the
// remote ref is overwritten even when the update is not a fast-forward.
func (r *TestRepo) Push(remote, branch string, force bool) {
	r.t.Helper()
	ref := plumbing.NewBranchReferenceName(branch)
	spec := fmt.Sprintf("%s:%s", ref, ref)
	if force {
		spec = "+" + spec
	}

	err := r.repo.Push(&gogit.PushOptions{
		RemoteName: remote,
		RefSpecs:   []gogitconfig.RefSpec{gogitconfig.RefSpec(spec)},
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		r.t.Fatalf("pushing %s to %s: %v", branch, remote, err)
	}
}

// CreateBranch creates a new branch pointing at the given SHA without
// checking it out.
func (r *TestRepo) CreateBranch(name, sha string) {
	r.t.Helper()

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), plumbing.NewHash(sha))
	if err := r.repo.Storer.SetReference(ref); err != nil {
		r.t.Fatalf("creating branch %s: %v", name, err)
	}
}

// Checkout switches HEAD to the given branch.
func (r *TestRepo) Checkout(branch string) {
	r.t.Helper()
	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("getting worktree: %v", err)
	}

	err = wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
	})
	if err != nil {
		r.t.Fatalf("checking out %s: %v", branch, err)
	}
}

// HeadSha returns the current HEAD commit SHA.
func (r *TestRepo) HeadSha() string {
	r.t.Helper()
	head, err := r.repo.Head()
	if err != nil {
		r.t.Fatalf("getting HEAD: %v", err)
	}
	return head.Hash().String()
}

// HeadTarget returns the reference HEAD points at, e.g. refs/heads/main.
func (r *TestRepo) HeadTarget() string {
	r.t.Helper()
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		r.t.Fatalf("reading HEAD: %v", err)
	}
	return head.Target().String()
}

// BranchSha returns the commit SHA of refs/heads/<branch>, or an empty
// string when the branch does not exist.
func (r *TestRepo) BranchSha(branch string) string {
	r.t.Helper()
	ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		return ""
	}
	return ref.Hash().String()
}

// ReferenceNames returns every reference name in the repository.
func (r *TestRepo) ReferenceNames() []string {
	r.t.Helper()
	iter, err := r.repo.References()
	if err != nil {
		r.t.Fatalf("listing references: %v", err)
	}
	defer iter.Close()

	var names []string
	_ = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().String())
		return nil
	})
	return names
}

// CommitMessage returns the message of the commit sha.
func (r *TestRepo) CommitMessage(sha string) string {
	r.t.Helper()
	c, err := r.repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		r.t.Fatalf("reading commit %s: %v", sha, err)
	}
	return c.Message
}

// CommitParents returns the parent SHAs of the commit sha.
func (r *TestRepo) CommitParents(sha string) []string {
	r.t.Helper()
	c, err := r.repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		r.t.Fatalf("reading commit %s: %v", sha, err)
	}
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	return parents
}

// IsolateHome points HOME and XDG_CONFIG_HOME at an empty temporary
// directory so the developer's global git configuration does not leak into
// signature resolution. It returns the new home directory.
func IsolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	return home
}

// WriteGlobalIdentity writes user.name and user.email to the .gitconfig in
// home.
func WriteGlobalIdentity(t *testing.T, home, name, email string) {
	t.Helper()
	content := fmt.Sprintf("[user]\n\tname = %s\n\temail = %s\n", name, email)
	if err := os.WriteFile(filepath.Join(home, ".gitconfig"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing .gitconfig: %v", err)
	}
}
