package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MyCarrier-DevOps/go-gitbridge/internal/testutil"
)

var testSignature = Signature{
	Name:  testutil.SignatureName,
	Email: testutil.SignatureEmail,
	When:  time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := NewEngine().Open("/nonexistent/path")
	require.Error(t, err)
	require.Contains(t, err.Error(), "opening repository")
	require.Equal(t, CodeNotFound, Classify(err))
}

func TestOpen_DetectsBare(t *testing.T) {
	bare := testutil.NewBareRepo(t)
	repo, err := NewEngine().Open(bare.Path())
	require.NoError(t, err)
	require.True(t, repo.IsBare())
	require.Equal(t, bare.Path(), repo.Path())

	work := testutil.NewTestRepo(t)
	repo, err = NewEngine().Open(work.Path())
	require.NoError(t, err)
	require.False(t, repo.IsBare())
}

func TestInit_WorkingTree(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewEngine().Init(dir, InitOptions{DefaultBranch: "trunk"})
	require.NoError(t, err)
	require.False(t, repo.IsBare())

	_, err = repo.Head()
	require.ErrorIs(t, err, ErrUnbornBranch)

	head, err := repo.HeadReference()
	require.NoError(t, err)
	require.True(t, head.Symbolic)
	require.Equal(t, "refs/heads/trunk", head.Target)
}

func TestInit_InvalidDefaultBranch(t *testing.T) {
	_, err := NewEngine().Init(t.TempDir(), InitOptions{DefaultBranch: "bad..name"})
	require.ErrorIs(t, err, ErrInvalidBranchName)
	require.Equal(t, CodeInvalidSpec, Classify(err))
}

func TestInit_Twice(t *testing.T) {
	dir := t.TempDir()
	_, err := NewEngine().Init(dir, InitOptions{})
	require.NoError(t, err)

	_, err = NewEngine().Init(dir, InitOptions{})
	require.Error(t, err)
	require.Equal(t, CodeExists, Classify(err))
}

func TestCommit_Bare(t *testing.T) {
	repo, err := NewEngine().Init(t.TempDir(), InitOptions{Bare: true, DefaultBranch: "main"})
	require.NoError(t, err)
	require.True(t, repo.IsBare())

	first, err := repo.Commit("Initial commit", testSignature)
	require.NoError(t, err)
	require.Empty(t, first.Parents)

	second, err := repo.Commit("second", testSignature)
	require.NoError(t, err)
	require.Equal(t, []string{first.Hash}, second.Parents)

	head, err := repo.HeadCommit()
	require.NoError(t, err)
	require.Equal(t, second.Hash, head.Hash)
	require.Equal(t, "second", head.Message)

	tip, err := repo.BranchTip("main")
	require.NoError(t, err)
	require.Equal(t, second.Hash, tip)
}

func TestStageAll_Bare(t *testing.T) {
	repo, err := NewEngine().Init(t.TempDir(), InitOptions{Bare: true})
	require.NoError(t, err)

	err = repo.StageAll()
	require.Equal(t, CodeBareRepo, Classify(err))
}

func TestCommit_WorkingTree(t *testing.T) {
	tr := testutil.NewTestRepo(t)
	base := tr.AddCommit("base")
	tr.WriteFile("notes.txt", "hello")

	repo, err := NewEngine().Open(tr.Path())
	require.NoError(t, err)
	require.NoError(t, repo.StageAll())

	info, err := repo.Commit("add notes", testSignature)
	require.NoError(t, err)
	require.Equal(t, []string{base}, info.Parents)
	require.Equal(t, "add notes", info.Message)
	require.Equal(t, testutil.SignatureName, info.Author.Name)
	require.Equal(t, info.Hash, tr.HeadSha())

	// Nothing changed since; the commit is still recorded.
	empty, err := repo.Commit("empty", testSignature)
	require.NoError(t, err)
	require.Equal(t, []string{info.Hash}, empty.Parents)
}

func TestSignature(t *testing.T) {
	home := testutil.IsolateHome(t)
	repo, err := NewEngine().Init(t.TempDir(), InitOptions{})
	require.NoError(t, err)

	_, err = repo.Signature(Signature{})
	require.ErrorIs(t, err, ErrMissingSignature)
	require.Equal(t, CodeNotFound, Classify(err))

	fallback := Signature{Name: "Bridge", Email: "bridge@example.com"}
	sig, err := repo.Signature(fallback)
	require.NoError(t, err)
	require.Equal(t, "Bridge", sig.Name)
	require.False(t, sig.When.IsZero())

	testutil.WriteGlobalIdentity(t, home, "Global", "global@example.com")
	sig, err = repo.Signature(fallback)
	require.NoError(t, err)
	require.Equal(t, "Global", sig.Name)
	require.Equal(t, "global@example.com", sig.Email)
}

func TestEngineSignature(t *testing.T) {
	home := testutil.IsolateHome(t)

	_, err := NewEngine().Signature(Signature{})
	require.ErrorIs(t, err, ErrMissingSignature)

	fallback := Signature{Name: "Bridge", Email: "bridge@example.com"}
	sig, err := NewEngine().Signature(fallback)
	require.NoError(t, err)
	require.Equal(t, "Bridge", sig.Name)
	require.False(t, sig.When.IsZero())

	testutil.WriteGlobalIdentity(t, home, "Global", "global@example.com")
	sig, err = NewEngine().Signature(fallback)
	require.NoError(t, err)
	require.Equal(t, "Global", sig.Name)
	require.Equal(t, "global@example.com", sig.Email)
}

func TestDiscard_RemovesCreatedDirectories(t *testing.T) {
	parent := t.TempDir()
	dest := filepath.Join(parent, "a", "b", "repo")

	repo, err := NewEngine().Init(dest, InitOptions{})
	require.NoError(t, err)
	require.NoError(t, repo.Discard())

	_, err = os.Stat(filepath.Join(parent, "a"))
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(parent)
	require.NoError(t, err)
}

func TestDiscard_KeepsExistingEntries(t *testing.T) {
	for _, bare := range []bool{false, true} {
		dest := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dest, "keep.txt"), []byte("x"), 0o644))

		repo, err := NewEngine().Init(dest, InitOptions{Bare: bare})
		require.NoError(t, err)
		require.NoError(t, repo.Discard())

		entries, err := os.ReadDir(dest)
		require.NoError(t, err)
		require.Len(t, entries, 1, "bare=%v", bare)
		require.Equal(t, "keep.txt", entries[0].Name())
	}
}

func TestDiscard_OpenedRepository(t *testing.T) {
	tr := testutil.NewTestRepo(t)
	sha := tr.AddCommit("first")

	repo, err := NewEngine().Open(tr.Path())
	require.NoError(t, err)
	require.NoError(t, repo.Discard())
	require.Equal(t, sha, tr.HeadSha())
}

func TestClone_DestinationNotEmpty(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "keep.txt"), []byte("x"), 0o644))

	_, err := NewEngine().Clone(context.Background(), "/nonexistent", dest, CloneOptions{})
	require.ErrorIs(t, err, ErrDestinationNotEmpty)
	require.Equal(t, CodeExists, Classify(err))

	data, err := os.ReadFile(filepath.Join(dest, "keep.txt"))
	require.NoError(t, err)
	require.Equal(t, "x", string(data))
}

func TestClone_MissingSource(t *testing.T) {
	InstallEmbeddedFileTransport()
	dest := filepath.Join(t.TempDir(), "clone")

	_, err := NewEngine().Clone(context.Background(), filepath.Join(t.TempDir(), "missing"), dest, CloneOptions{})
	require.Error(t, err)
	require.Equal(t, CodeNotFound, Classify(err))
}

// remoteFixture is a bare remote seeded from a working repository.
type remoteFixture struct {
	remote *testutil.TestRepo
	source *testutil.TestRepo
}

func newRemoteFixture(t *testing.T) remoteFixture {
	t.Helper()
	InstallEmbeddedFileTransport()

	remote := testutil.NewBareRepo(t)
	source := testutil.NewTestRepo(t)
	source.AddCommit("first")
	source.AddRemote(DefaultRemoteName, remote.Path())
	source.Push(DefaultRemoteName, testutil.DefaultBranch, false)
	return remoteFixture{remote: remote, source: source}
}

func TestClone_RoundTrip(t *testing.T) {
	fx := newRemoteFixture(t)
	dest := filepath.Join(t.TempDir(), "clone")

	repo, err := NewEngine().Clone(context.Background(), fx.remote.Path(), dest, CloneOptions{})
	require.NoError(t, err)
	require.Equal(t, dest, repo.Path())

	head, err := repo.HeadCommit()
	require.NoError(t, err)
	require.Equal(t, fx.source.HeadSha(), head.Hash)
	require.Equal(t, "first", head.Message)
}

func TestFetch_UpdatesTrackingRef(t *testing.T) {
	fx := newRemoteFixture(t)
	local := testutil.CloneTestRepo(t, fx.remote.Path())

	next := fx.source.AddCommit("second")
	fx.source.Push(DefaultRemoteName, testutil.DefaultBranch, false)

	repo, err := NewEngine().Open(local.Path())
	require.NoError(t, err)

	fetched, err := repo.Fetch(context.Background(), FetchOptions{Branch: testutil.DefaultBranch})
	require.NoError(t, err)
	require.Equal(t, next, fetched.Hash)
	require.Equal(t, DefaultRemoteName, fetched.Remote)
	require.Equal(t, fx.remote.Path(), fetched.URL)
	require.Equal(t, "refs/heads/main", fetched.SourceRef)
	require.Equal(t, "refs/remotes/origin/main", fetched.TrackingRef)

	// The local branch is untouched by a fetch.
	require.NotEqual(t, next, local.BranchSha(testutil.DefaultBranch))

	again, err := repo.Fetch(context.Background(), FetchOptions{Branch: testutil.DefaultBranch})
	require.NoError(t, err)
	require.Equal(t, next, again.Hash)
}

func TestFetch_Errors(t *testing.T) {
	fx := newRemoteFixture(t)
	local := testutil.CloneTestRepo(t, fx.remote.Path())
	repo, err := NewEngine().Open(local.Path())
	require.NoError(t, err)

	_, err = repo.Fetch(context.Background(), FetchOptions{RemoteName: "upstream", Branch: "main"})
	require.Equal(t, CodeNotFound, Classify(err))

	_, err = repo.Fetch(context.Background(), FetchOptions{Branch: "does-not-exist"})
	require.Equal(t, CodeNotFound, Classify(err))

	_, err = repo.Fetch(context.Background(), FetchOptions{Branch: ""})
	require.Equal(t, CodeInvalidSpec, Classify(err))
}

func TestPush(t *testing.T) {
	fx := newRemoteFixture(t)
	local := testutil.CloneTestRepo(t, fx.remote.Path())
	next := local.AddCommit("from clone")

	repo, err := NewEngine().Open(local.Path())
	require.NoError(t, err)

	require.NoError(t, repo.Push(context.Background(), PushOptions{Branch: testutil.DefaultBranch}))
	require.Equal(t, next, fx.remote.BranchSha(testutil.DefaultBranch))

	// Pushing again is a no-op.
	require.NoError(t, repo.Push(context.Background(), PushOptions{Branch: testutil.DefaultBranch}))
}

func TestPush_NonFastForward(t *testing.T) {
	fx := newRemoteFixture(t)
	local := testutil.CloneTestRepo(t, fx.remote.Path())

	upstream := fx.source.AddCommit("upstream change")
	fx.source.Push(DefaultRemoteName, testutil.DefaultBranch, false)
	local.AddCommit("diverging change")

	repo, err := NewEngine().Open(local.Path())
	require.NoError(t, err)

	err = repo.Push(context.Background(), PushOptions{Branch: testutil.DefaultBranch})
	require.Error(t, err)
	require.Equal(t, CodeNotFastForward, Classify(err))
	require.Equal(t, upstream, fx.remote.BranchSha(testutil.DefaultBranch))
}

func TestPush_MissingBranch(t *testing.T) {
	fx := newRemoteFixture(t)
	local := testutil.CloneTestRepo(t, fx.remote.Path())
	repo, err := NewEngine().Open(local.Path())
	require.NoError(t, err)

	err = repo.Push(context.Background(), PushOptions{Branch: "nope"})
	require.Equal(t, CodeNotFound, Classify(err))
}

func TestUpdateBranch_CompareAndSwap(t *testing.T) {
	tr := testutil.NewTestRepo(t)
	first := tr.AddCommit("first")
	second := tr.AddCommit("second")

	repo, err := NewEngine().Open(tr.Path())
	require.NoError(t, err)

	err = repo.UpdateBranch("main", first, first)
	require.Error(t, err)
	require.Equal(t, CodeModified, Classify(err))
	require.Equal(t, second, tr.BranchSha("main"))

	require.NoError(t, repo.UpdateBranch("main", first, second))
	require.Equal(t, first, tr.BranchSha("main"))

	require.NoError(t, repo.UpdateBranch("other", second, ""))
	require.Equal(t, second, tr.BranchSha("other"))
}

func TestHeadManipulation(t *testing.T) {
	tr := testutil.NewTestRepo(t)
	sha := tr.AddCommit("first")
	tr.CreateBranch("feature", sha)

	repo, err := NewEngine().Open(tr.Path())
	require.NoError(t, err)

	saved, err := repo.HeadReference()
	require.NoError(t, err)

	require.NoError(t, repo.SetHead("feature"))
	require.Equal(t, "refs/heads/feature", tr.HeadTarget())

	require.NoError(t, repo.RestoreHead(saved))
	require.Equal(t, "refs/heads/main", tr.HeadTarget())
}

func TestRemoveBranch(t *testing.T) {
	tr := testutil.NewTestRepo(t)
	sha := tr.AddCommit("first")
	tr.CreateBranch("feature", sha)

	repo, err := NewEngine().Open(tr.Path())
	require.NoError(t, err)

	require.NoError(t, repo.RemoveBranch("feature"))
	require.Empty(t, tr.BranchSha("feature"))
	require.Equal(t, sha, tr.BranchSha("main"))
}

func TestResetWorktree(t *testing.T) {
	tr := testutil.NewTestRepo(t)
	first := tr.AddCommit("first")
	tr.AddCommit("second")

	repo, err := NewEngine().Open(tr.Path())
	require.NoError(t, err)
	require.NoError(t, repo.UpdateBranch("main", first, ""))
	require.NoError(t, repo.ResetWorktree(first))

	entries, err := os.ReadDir(tr.Path())
	require.NoError(t, err)
	var files []string
	for _, e := range entries {
		if e.Name() != ".git" {
			files = append(files, e.Name())
		}
	}
	require.Len(t, files, 1)
}

func TestCreateBranch(t *testing.T) {
	tr := testutil.NewTestRepo(t)
	first := tr.AddCommit("first")
	second := tr.AddCommit("second")

	repo, err := NewEngine().Open(tr.Path())
	require.NoError(t, err)

	created, err := repo.CreateBranch("feature", first)
	require.NoError(t, err)
	require.True(t, created)

	created, err = repo.CreateBranch("feature", second)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first, tr.BranchSha("feature"))

	_, err = repo.CreateBranch("bad..name", first)
	require.Equal(t, CodeInvalidSpec, Classify(err))
}

func TestCheckoutBranch(t *testing.T) {
	tr := testutil.NewTestRepo(t)
	first := tr.AddCommit("first")
	tr.AddCommit("second")
	tr.CreateBranch("feature", first)

	repo, err := NewEngine().Open(tr.Path())
	require.NoError(t, err)

	require.NoError(t, repo.CheckoutBranch("feature"))
	require.Equal(t, "refs/heads/feature", tr.HeadTarget())
	require.Equal(t, first, tr.HeadSha())

	err = repo.CheckoutBranch("missing")
	require.Equal(t, CodeNotFound, Classify(err))
}

func TestCheckoutBranch_DirtyWorktree(t *testing.T) {
	tr := testutil.NewTestRepo(t)
	first := tr.AddCommit("first")
	tr.CreateBranch("feature", first)

	entries, err := os.ReadDir(tr.Path())
	require.NoError(t, err)
	for _, e := range entries {
		if e.Name() != ".git" {
			tr.WriteFile(e.Name(), "local edit")
		}
	}

	repo, err := NewEngine().Open(tr.Path())
	require.NoError(t, err)

	err = repo.CheckoutBranch("feature")
	require.Equal(t, CodeUncommitted, Classify(err))
	require.Equal(t, "refs/heads/main", tr.HeadTarget())
}

func TestReferences(t *testing.T) {
	tr := testutil.NewTestRepo(t)
	sha := tr.AddCommit("first")
	tr.CreateBranch("feature", sha)

	repo, err := NewEngine().Open(tr.Path())
	require.NoError(t, err)

	refs, err := repo.References()
	require.NoError(t, err)

	byName := make(map[string]Reference, len(refs))
	for _, ref := range refs {
		byName[ref.Name] = ref
	}
	require.Contains(t, byName, "HEAD")
	require.True(t, byName["HEAD"].Symbolic)
	require.Equal(t, sha, byName["refs/heads/main"].Target)
	require.Equal(t, sha, byName["refs/heads/feature"].Target)
}
