// Package git is the engine adapter of the bridge. It wraps go-git behind the
// Engine and Repository interfaces, classifies engine failures into a closed
// set of ErrorCodes, and computes merge analysis for fast-forward updates.
package git

import (
	"strings"
	"time"
)

const (
	localBranchPrefix          = "refs/heads/"
	remoteTrackingBranchPrefix = "refs/remotes/"

	// DefaultRemoteName is the remote used when none is configured.
	DefaultRemoteName = "origin"
)

// Signature identifies the author and committer of a commit.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// IsZero reports whether the signature lacks a name or an email.
func (s Signature) IsZero() bool {
	return s.Name == "" || s.Email == ""
}

// CommitInfo is an immutable view of a commit.
type CommitInfo struct {
	Hash    string
	Message string
	Author  Signature
	Parents []string
}

// ShortHash returns the first 7 characters of the hash.
func (c CommitInfo) ShortHash() string {
	if len(c.Hash) >= 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// Reference is a named pointer to a commit or, for symbolic references, to
// another reference.
type Reference struct {
	Name   string // e.g., "refs/heads/main"
	Target string // commit hash, or the target name when Symbolic
	// Symbolic is true for aliases such as HEAD -> refs/heads/main.
	Symbolic bool
}

// BranchReferenceName returns the canonical name of a local branch.
func BranchReferenceName(branch string) string {
	return localBranchPrefix + branch
}

// RemoteTrackingReferenceName returns the canonical name of a remote-tracking
// branch.
func RemoteTrackingReferenceName(remote, branch string) string {
	return remoteTrackingBranchPrefix + remote + "/" + branch
}

// ShortBranchName strips the refs/heads/ prefix from a canonical name.
func ShortBranchName(name string) string {
	return strings.TrimPrefix(name, localBranchPrefix)
}

// AnnotatedCommit is a fetched commit together with where it came from.
// It is the comparison basis of merge analysis.
type AnnotatedCommit struct {
	Hash string
	// Remote is the remote name the commit was fetched from.
	Remote string
	// URL is the remote URL used for the fetch.
	URL string
	// SourceRef is the reference name on the remote, e.g. refs/heads/main.
	SourceRef string
	// TrackingRef is the local remote-tracking reference updated by the fetch.
	TrackingRef string
}

// MergeAnalysis classifies how a fetched commit relates to a local branch.
type MergeAnalysis int

const (
	// AnalysisNormal means the histories diverged and a real merge would be
	// required.
	AnalysisNormal MergeAnalysis = iota
	// AnalysisUpToDate means the fetched commit is already contained in the
	// local branch.
	AnalysisUpToDate
	// AnalysisFastForward means the local branch tip is a strict ancestor of
	// the fetched commit.
	AnalysisFastForward
	// AnalysisUnborn means the local branch has no commits yet.
	AnalysisUnborn
)

func (a MergeAnalysis) String() string {
	switch a {
	case AnalysisNormal:
		return "normal"
	case AnalysisUpToDate:
		return "up-to-date"
	case AnalysisFastForward:
		return "fast-forward"
	case AnalysisUnborn:
		return "unborn"
	default:
		return "unknown"
	}
}

// InitOptions configures repository creation.
type InitOptions struct {
	Bare bool
	// DefaultBranch is the short name HEAD points at after init.
	DefaultBranch string
}

// CloneOptions configures a clone.
type CloneOptions struct {
	RemoteName string
	Auth       AuthProvider
}

// FetchOptions configures a single-branch fetch.
type FetchOptions struct {
	RemoteName string
	Branch     string
	Auth       AuthProvider
}

// PushOptions configures a single-branch push to the same-named remote ref.
type PushOptions struct {
	RemoteName string
	Branch     string
	Auth       AuthProvider
}

func remoteOrDefault(name string) string {
	if name == "" {
		return DefaultRemoteName
	}
	return name
}
