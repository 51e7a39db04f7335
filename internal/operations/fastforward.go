package operations

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/MyCarrier-DevOps/go-gitbridge/internal/git"
	"github.com/MyCarrier-DevOps/go-gitbridge/internal/outcome"
)

// FastForward fetches branch from the configured remote and moves
// refs/heads/<branch> to the fetched tip when that is a fast-forward.
//
// The branch is left untouched when it already contains the fetched tip.
// Diverged histories fail with outcome.FastForwardOnly and change nothing.
// A branch that does not exist locally is only created while HEAD has no
// commits; otherwise the call fails with outcome.NotFound.
// On a fast-forward the branch is updated only if it still points at the
// tip the analysis saw, then HEAD is attached to it and the working tree is
// reset. A failed reset restores the branch and HEAD.
func (o *Operations) FastForward(ctx context.Context, path, branch string) (Result, error) {
	repo, err := o.engine.Open(path)
	if err != nil {
		return o.fail(OpFastForward, err)
	}

	fetched, err := repo.Fetch(ctx, git.FetchOptions{
		RemoteName: o.remoteName,
		Branch:     branch,
		Auth:       o.auth,
	})
	if err != nil {
		return o.fail(OpFastForward, err)
	}

	// Read the tip before the analysis so the update below can detect a
	// concurrent move. A missing branch fails the analysis unless HEAD is
	// unborn too.
	tip, tipErr := repo.BranchTip(branch)

	analysis, err := repo.AnalyzeMerge(branch, fetched)
	if err != nil {
		return o.fail(OpFastForward, err)
	}

	o.logger.Debug("merge analysis",
		zap.String("branch", branch),
		zap.String("fetched", fetched.Hash),
		zap.String("analysis", analysis.String()),
	)

	switch analysis {
	case git.AnalysisUpToDate:
		return o.succeed(OpFastForward, path, MsgUpToDate)
	case git.AnalysisFastForward:
		if tipErr != nil {
			return o.fail(OpFastForward, tipErr)
		}
		if err := o.advance(repo, branch, fetched.Hash, tip); err != nil {
			return o.fail(OpFastForward, err)
		}
	case git.AnalysisUnborn:
		if err := o.advance(repo, branch, fetched.Hash, ""); err != nil {
			return o.fail(OpFastForward, err)
		}
	default:
		return o.fail(OpFastForward, outcome.ErrFastForwardOnly)
	}
	return o.succeed(OpFastForward, path, MsgUpdated)
}

// advance moves branch from old to target, attaches HEAD and updates the
// working tree. An empty old means the branch does not exist yet.
func (o *Operations) advance(repo git.Repository, branch, target, old string) error {
	head, err := repo.HeadReference()
	if err != nil {
		return err
	}

	if err := repo.UpdateBranch(branch, target, old); err != nil {
		return err
	}

	if err := repo.SetHead(branch); err != nil {
		o.rollback(repo, branch, target, old, head)
		return err
	}

	if !repo.IsBare() {
		if err := repo.ResetWorktree(target); err != nil {
			o.rollback(repo, branch, target, old, head)
			return err
		}
	}
	return nil
}

// rollback puts branch and HEAD back the way advance found them. Failures
// are logged, the caller reports the original error.
func (o *Operations) rollback(repo git.Repository, branch, target, old string, head git.Reference) {
	var errs []error
	if old == "" {
		errs = append(errs, repo.RemoveBranch(branch))
	} else {
		errs = append(errs, repo.UpdateBranch(branch, old, target))
	}
	errs = append(errs, repo.RestoreHead(head))

	if err := errors.Join(errs...); err != nil {
		o.logger.Error("rolling back fast-forward",
			zap.String("branch", branch),
			zap.Error(err),
		)
	}
}
