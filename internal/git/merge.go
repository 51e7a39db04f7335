package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// AnalyzeMerge compares fetched with the tip of refs/heads/<branch>.
//
//   - HEAD has no commits and the branch does not exist: AnalysisUnborn
//   - fetched is the tip or one of its ancestors: AnalysisUpToDate
//   - the tip is an ancestor of fetched: AnalysisFastForward
//   - otherwise the histories diverged: AnalysisNormal
//
// A missing branch while HEAD has commits is an error wrapping
// plumbing.ErrReferenceNotFound.
func (r *GoGitRepository) AnalyzeMerge(branch string, fetched AnnotatedCommit) (MergeAnalysis, error) {
	if err := validateBranchName(branch); err != nil {
		return AnalysisNormal, err
	}

	local, err := r.repo.Reference(plumbing.ReferenceName(BranchReferenceName(branch)), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		if _, headErr := r.repo.Head(); errors.Is(headErr, plumbing.ErrReferenceNotFound) {
			return AnalysisUnborn, nil
		}
	}
	if err != nil {
		return AnalysisNormal, fmt.Errorf("resolving branch %s: %w", branch, err)
	}

	fetchedHash := plumbing.NewHash(fetched.Hash)
	if local.Hash() == fetchedHash {
		return AnalysisUpToDate, nil
	}

	localCommit, err := r.repo.CommitObject(local.Hash())
	if err != nil {
		return AnalysisNormal, fmt.Errorf("reading local tip of %s: %w", branch, err)
	}
	fetchedCommit, err := r.repo.CommitObject(fetchedHash)
	if err != nil {
		return AnalysisNormal, fmt.Errorf("reading fetched commit %s: %w", fetched.Hash, err)
	}

	behind, err := fetchedCommit.IsAncestor(localCommit)
	if err != nil {
		return AnalysisNormal, fmt.Errorf("comparing %s with %s: %w", branch, fetched.Hash, err)
	}
	if behind {
		return AnalysisUpToDate, nil
	}

	ahead, err := localCommit.IsAncestor(fetchedCommit)
	if err != nil {
		return AnalysisNormal, fmt.Errorf("comparing %s with %s: %w", branch, fetched.Hash, err)
	}
	if ahead {
		return AnalysisFastForward, nil
	}
	return AnalysisNormal, nil
}
