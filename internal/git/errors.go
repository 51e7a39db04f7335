package git

import "errors"

// Sentinel errors raised by this package itself. Classify maps each of them
// onto an ErrorCode alongside the go-git errors.
var (
	// ErrUnbornBranch is returned when HEAD points at a branch with no commits.
	ErrUnbornBranch = errors.New("current branch has no commits")

	// ErrCredentials wraps any failure to produce authentication material
	// for a remote transfer.
	ErrCredentials = errors.New("resolving credentials")

	// ErrDestinationNotEmpty is returned when a clone target exists and is
	// not an empty directory.
	ErrDestinationNotEmpty = errors.New("destination path exists and is not an empty directory")

	// ErrNoRemoteURL is returned when a remote is configured without URLs.
	ErrNoRemoteURL = errors.New("remote has no URL")

	// ErrMissingSignature is returned when neither the repository
	// configuration nor the fallback provides a commit signature.
	ErrMissingSignature = errors.New("no signature configured: set user.name and user.email")

	// ErrInvalidBranchName is returned for branch names git would reject.
	ErrInvalidBranchName = errors.New("invalid branch name")
)
