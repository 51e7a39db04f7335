package git

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"syscall"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh/knownhosts"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect ErrorCode
	}{
		{"nil", nil, CodeGenericError},
		{"unknown", errors.New("boom"), CodeGenericError},
		{"missing repository", fmt.Errorf("opening repository at /x: %w", gogit.ErrRepositoryNotExists), CodeNotFound},
		{"missing reference", fmt.Errorf("resolving branch main: %w", plumbing.ErrReferenceNotFound), CodeNotFound},
		{"missing remote", fmt.Errorf("looking up remote origin: %w", gogit.ErrRemoteNotFound), CodeNotFound},
		{"no matching refspec", fmt.Errorf("fetching: %w", gogit.NoMatchingRefSpecError{}), CodeNotFound},
		{"missing signature", ErrMissingSignature, CodeNotFound},
		{"missing file", &fs.PathError{Op: "open", Path: "/x", Err: syscall.ENOENT}, CodeNotFound},
		{"canceled", fmt.Errorf("cloning: %w", context.Canceled), CodeUser},
		{"deadline", context.DeadlineExceeded, CodeUser},
		{"credentials", fmt.Errorf("%w for ssh://x: %w", ErrCredentials, fs.ErrNotExist), CodeAuth},
		{"authentication required", transport.ErrAuthenticationRequired, CodeAuth},
		{"ssh handshake", errors.New("ssh: handshake failed: ssh: unable to authenticate, attempted methods [none publickey]"), CodeAuth},
		{"unborn", fmt.Errorf("resolving HEAD: %w", ErrUnbornBranch), CodeUnbornBranch},
		{"destination exists", fmt.Errorf("%w: /tmp/x", ErrDestinationNotEmpty), CodeExists},
		{"remote exists", gogit.ErrRemoteExists, CodeExists},
		{"bare", fmt.Errorf("staging changes: %w", gogit.ErrIsBareRepository), CodeBareRepo},
		{"push rejected", errors.New("non-fast-forward update: refs/heads/main"), CodeNotFastForward},
		{"fetch rejected", gogit.ErrForceNeeded, CodeNotFastForward},
		{"invalid branch name", fmt.Errorf("%w %q: %w", ErrInvalidBranchName, "a..b", plumbing.ErrInvalidReferenceName), CodeInvalidSpec},
		{"reference moved", fmt.Errorf("updating refs/heads/main: %w", storage.ErrReferenceHasChanged), CodeModified},
		{"truncated stream", io.ErrUnexpectedEOF, CodeEOF},
		{"remote without url", fmt.Errorf("%w: origin", ErrNoRemoteURL), CodeInvalid},
		{"dirty worktree", fmt.Errorf("checking out main: %w", gogit.ErrUnstagedChanges), CodeUncommitted},
		{"not a directory", &fs.PathError{Op: "mkdir", Path: "/x", Err: syscall.ENOTDIR}, CodeDirectory},
		{"ref lock held", fmt.Errorf("updating refs/heads/main: %w", &fs.PathError{Op: "open", Path: "/r/.git/refs/heads/main.lock", Err: syscall.EEXIST}), CodeLocked},
		{"index lock held", &fs.PathError{Op: "open", Path: "/r/.git/index.lock", Err: fs.ErrExist}, CodeLocked},
		{"flock contention", &fs.PathError{Op: "flock", Path: "/r/.git/packed-refs", Err: syscall.EWOULDBLOCK}, CodeLocked},
		{"existing file is not a lock", &fs.PathError{Op: "open", Path: "/r/config", Err: syscall.EEXIST}, CodeExists},
		{"unknown host key", fmt.Errorf("ssh: handshake failed: %w", &knownhosts.KeyError{}), CodeCertificate},
		{"unknown authority", fmt.Errorf("Get https://x: %w", x509.UnknownAuthorityError{}), CodeCertificate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expect, Classify(tt.err))
		})
	}
}

func TestClassify_AlwaysValid(t *testing.T) {
	for _, rule := range sentinelRules {
		require.True(t, rule.code.Valid(), "rule for %v", rule.target)
	}
	for _, rule := range messageRules {
		require.True(t, rule.code.Valid(), "rule for %q", rule.fragment)
	}
}
