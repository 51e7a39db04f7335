// Package outcome translates engine failures into the closed set of outcome
// symbols that cross the bridge boundary. Callers never see engine error text;
// it is written to the diagnostic log instead.
package outcome

import (
	"errors"
	"fmt"

	"github.com/MyCarrier-DevOps/go-gitbridge/internal/git"
)

// Outcome is a failure symbol. Its string form is the wire representation.
type Outcome string

const (
	GenericError    Outcome = "generic_error"
	NotFound        Outcome = "not_found"
	Exists          Outcome = "exists"
	Ambiguous       Outcome = "ambiguous"
	BufSize         Outcome = "buf_size"
	User            Outcome = "user"
	BareRepo        Outcome = "bare_repo"
	UnbornBranch    Outcome = "unborn_branch"
	Unmerged        Outcome = "unmerged"
	NotFastForward  Outcome = "not_fast_forward"
	InvalidSpec     Outcome = "invalid_spec"
	Conflict        Outcome = "conflict"
	Locked          Outcome = "locked"
	Modified        Outcome = "modified"
	Auth            Outcome = "auth"
	Certificate     Outcome = "certificate"
	Applied         Outcome = "applied"
	Peel            Outcome = "peel"
	EOF             Outcome = "eof"
	Invalid         Outcome = "invalid"
	Uncommitted     Outcome = "uncommitted"
	Directory       Outcome = "directory"
	MergeConflict   Outcome = "merge_conflict"
	HashsumMismatch Outcome = "hashsum_mismatch"
	IndexDirty      Outcome = "index_dirty"
	ApplyFail       Outcome = "apply_fail"
	Owner           Outcome = "owner"

	// FastForwardOnly is raised by the bridge itself when a fast-forward
	// update finds diverged histories.
	FastForwardOnly Outcome = "fast_forward_only"
)

// ErrFastForwardOnly is returned when the local branch cannot be moved to the
// fetched commit without a real merge.
var ErrFastForwardOnly = errors.New("histories diverged, only fast-forward updates are supported")

// All returns every outcome symbol: the engine symbols in error code order,
// followed by FastForwardOnly.
func All() []Outcome {
	all := make([]Outcome, 0, int(git.NumCodes)+1)
	for _, code := range git.Codes() {
		o, _ := FromCode(code)
		all = append(all, o)
	}
	return append(all, FastForwardOnly)
}

// Parse returns the outcome named s.
func Parse(s string) (Outcome, error) {
	for _, o := range All() {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown outcome %q", s)
}

func (o Outcome) String() string {
	return string(o)
}

// FromCode maps an engine error code onto its outcome. It reports false for a
// code outside the declared set.
func FromCode(code git.ErrorCode) (Outcome, bool) {
	switch code {
	case git.CodeGenericError:
		return GenericError, true
	case git.CodeNotFound:
		return NotFound, true
	case git.CodeExists:
		return Exists, true
	case git.CodeAmbiguous:
		return Ambiguous, true
	case git.CodeBufSize:
		return BufSize, true
	case git.CodeUser:
		return User, true
	case git.CodeBareRepo:
		return BareRepo, true
	case git.CodeUnbornBranch:
		return UnbornBranch, true
	case git.CodeUnmerged:
		return Unmerged, true
	case git.CodeNotFastForward:
		return NotFastForward, true
	case git.CodeInvalidSpec:
		return InvalidSpec, true
	case git.CodeConflict:
		return Conflict, true
	case git.CodeLocked:
		return Locked, true
	case git.CodeModified:
		return Modified, true
	case git.CodeAuth:
		return Auth, true
	case git.CodeCertificate:
		return Certificate, true
	case git.CodeApplied:
		return Applied, true
	case git.CodePeel:
		return Peel, true
	case git.CodeEOF:
		return EOF, true
	case git.CodeInvalid:
		return Invalid, true
	case git.CodeUncommitted:
		return Uncommitted, true
	case git.CodeDirectory:
		return Directory, true
	case git.CodeMergeConflict:
		return MergeConflict, true
	case git.CodeHashsumMismatch:
		return HashsumMismatch, true
	case git.CodeIndexDirty:
		return IndexDirty, true
	case git.CodeApplyFail:
		return ApplyFail, true
	case git.CodeOwner:
		return Owner, true
	case git.NumCodes:
	}
	return GenericError, false
}

// Error is the single failure form returned by bridge operations.
type Error struct {
	Outcome Outcome
	// Op is the operation that failed, e.g. "fast_forward".
	Op    string
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Outcome)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Outcome, e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Of returns the outcome carried by err, or GenericError when err is not an
// *Error.
func Of(err error) Outcome {
	var e *Error
	if errors.As(err, &e) {
		return e.Outcome
	}
	return GenericError
}
