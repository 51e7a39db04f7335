package git

import (
	"context"
	"crypto/x509"
	"errors"
	"io"
	"io/fs"
	"strings"
	"syscall"

	gogit "github.com/go-git/go-git/v5"
	gogitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/idxfile"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/format/packfile"
	"github.com/go-git/go-git/v5/plumbing/format/pktline"
	"github.com/go-git/go-git/v5/plumbing/protocol/packp/sideband"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage"
	"github.com/go-git/go-git/v5/storage/filesystem/dotgit"
	"golang.org/x/crypto/ssh/knownhosts"
)

type codeRule struct {
	target error
	code   ErrorCode
}

// sentinelRules are checked in order with errors.Is. More specific causes
// come first: a credentials failure caused by a missing key file is an auth
// failure, not a missing file.
var sentinelRules = []codeRule{
	{context.Canceled, CodeUser},
	{context.DeadlineExceeded, CodeUser},
	{ErrCredentials, CodeAuth},

	{transport.ErrAuthenticationRequired, CodeAuth},
	{transport.ErrAuthorizationFailed, CodeAuth},
	{transport.ErrInvalidAuthMethod, CodeAuth},

	{ErrUnbornBranch, CodeUnbornBranch},
	{ErrDestinationNotEmpty, CodeExists},
	{ErrMissingSignature, CodeNotFound},
	{ErrNoRemoteURL, CodeInvalid},
	{ErrInvalidBranchName, CodeInvalidSpec},

	{gogit.ErrRepositoryNotExists, CodeNotFound},
	{gogit.ErrRepositoryIncomplete, CodeNotFound},
	{gogit.ErrRemoteNotFound, CodeNotFound},
	{gogit.ErrBranchNotFound, CodeNotFound},
	{gogit.ErrTagNotFound, CodeNotFound},
	{gogit.ErrMissingAuthor, CodeNotFound},
	{gogit.NoMatchingRefSpecError{}, CodeNotFound},
	{gogitconfig.ErrRemoteConfigNotFound, CodeNotFound},
	{transport.ErrRepositoryNotFound, CodeNotFound},
	{transport.ErrEmptyRemoteRepository, CodeNotFound},
	{plumbing.ErrReferenceNotFound, CodeNotFound},
	{plumbing.ErrObjectNotFound, CodeNotFound},

	{gogit.ErrRepositoryAlreadyExists, CodeExists},
	{gogit.ErrRemoteExists, CodeExists},
	{gogit.ErrBranchExists, CodeExists},
	{gogit.ErrTagExists, CodeExists},

	{gogit.ErrHashOrReference, CodeAmbiguous},
	{gogit.ErrBranchHashExclusive, CodeAmbiguous},

	{pktline.ErrPayloadTooLong, CodeBufSize},
	{sideband.ErrMaxPackedExceeded, CodeBufSize},

	{gogit.ErrIsBareRepository, CodeBareRepo},
	{gogit.ErrWorktreeNotProvided, CodeBareRepo},

	{gogit.ErrNonFastForwardUpdate, CodeNotFastForward},
	{gogit.ErrFastForwardMergeNotPossible, CodeNotFastForward},
	{gogit.ErrForceNeeded, CodeNotFastForward},

	{plumbing.ErrInvalidReferenceName, CodeInvalidSpec},
	{gogitconfig.ErrRefSpecMalformedSeparator, CodeInvalidSpec},
	{gogitconfig.ErrRefSpecMalformedWildcard, CodeInvalidSpec},

	{storage.ErrReferenceHasChanged, CodeModified},

	{plumbing.ErrInvalidType, CodePeel},
	{gogit.ErrUnableToResolveCommit, CodePeel},

	{io.ErrUnexpectedEOF, CodeEOF},
	{io.EOF, CodeEOF},

	{gogit.ErrInvalidReference, CodeInvalid},
	{gogit.ErrMissingURL, CodeInvalid},
	{gogit.ErrEmptyUrls, CodeInvalid},
	{gogit.ErrUnsupportedMergeStrategy, CodeInvalid},
	{gogitconfig.ErrInvalid, CodeInvalid},
	{packfile.ErrMalformedPackFile, CodeInvalid},
	{idxfile.ErrMalformedIdxFile, CodeInvalid},
	{plumbing.ErrMaxResolveRecursion, CodeInvalid},

	{gogit.ErrUnstagedChanges, CodeUncommitted},
	{gogit.ErrWorktreeNotClean, CodeIndexDirty},

	{dotgit.ErrIsDir, CodeDirectory},
	{syscall.ENOTDIR, CodeDirectory},
	{syscall.EISDIR, CodeDirectory},

	{index.ErrInvalidChecksum, CodeHashsumMismatch},

	{fs.ErrExist, CodeExists},
	{fs.ErrNotExist, CodeNotFound},
}

// messageRules cover failures that go-git and x/crypto/ssh only report as
// formatted strings.
var messageRules = []struct {
	fragment string
	code     ErrorCode
}{
	{"non-fast-forward update", CodeNotFastForward},
	{"unable to authenticate", CodeAuth},
	{"no supported methods remain", CodeAuth},
	{"knownhosts:", CodeCertificate},
	{"host key mismatch", CodeCertificate},
	{"x509:", CodeCertificate},
	{"unexpected EOF", CodeEOF},
}

// Classify maps an engine failure onto exactly one ErrorCode. Errors that
// match no known cause classify as CodeGenericError.
func Classify(err error) ErrorCode {
	if err == nil {
		return CodeGenericError
	}

	if isLockError(err) {
		return CodeLocked
	}

	for _, rule := range sentinelRules {
		if errors.Is(err, rule.target) {
			return rule.code
		}
	}

	if isCertificateError(err) {
		return CodeCertificate
	}

	msg := err.Error()
	for _, rule := range messageRules {
		if strings.Contains(msg, rule.fragment) {
			return rule.code
		}
	}

	return CodeGenericError
}

// isLockError reports contention on a repository lock: a *.lock file
// another git process holds, or a non-blocking flock that would block.
func isLockError(err error) bool {
	if errors.Is(err, syscall.EWOULDBLOCK) || errors.Is(err, syscall.EAGAIN) {
		return true
	}
	var pathErr *fs.PathError
	return errors.As(err, &pathErr) &&
		strings.HasSuffix(pathErr.Path, ".lock") &&
		errors.Is(pathErr.Err, fs.ErrExist)
}

func isCertificateError(err error) bool {
	var keyErr *knownhosts.KeyError
	if errors.As(err, &keyErr) {
		return true
	}
	var revokedErr *knownhosts.RevokedError
	if errors.As(err, &revokedErr) {
		return true
	}
	var authorityErr x509.UnknownAuthorityError
	if errors.As(err, &authorityErr) {
		return true
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return true
	}
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &invalidErr)
}
