package outcome

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MyCarrier-DevOps/go-gitbridge/internal/git"
)

func TestFromCode_EveryCodeHasDistinctOutcome(t *testing.T) {
	seen := make(map[Outcome]git.ErrorCode)
	for _, code := range git.Codes() {
		o, ok := FromCode(code)
		require.True(t, ok, "code %s has no outcome", code)
		prev, dup := seen[o]
		require.False(t, dup, "%s and %s both map to %s", prev, code, o)
		seen[o] = code
	}
	require.NotContains(t, seen, FastForwardOnly)
}

func TestFromCode_Unknown(t *testing.T) {
	o, ok := FromCode(git.NumCodes)
	require.False(t, ok)
	require.Equal(t, GenericError, o)

	o, ok = FromCode(git.ErrorCode(-1))
	require.False(t, ok)
	require.Equal(t, GenericError, o)
}

func TestFromCode_Symbols(t *testing.T) {
	tests := []struct {
		code   git.ErrorCode
		expect string
	}{
		{git.CodeGenericError, "generic_error"},
		{git.CodeNotFound, "not_found"},
		{git.CodeBareRepo, "bare_repo"},
		{git.CodeUnbornBranch, "unborn_branch"},
		{git.CodeNotFastForward, "not_fast_forward"},
		{git.CodeEOF, "eof"},
		{git.CodeHashsumMismatch, "hashsum_mismatch"},
		{git.CodeOwner, "owner"},
	}
	for _, tt := range tests {
		t.Run(tt.expect, func(t *testing.T) {
			o, ok := FromCode(tt.code)
			require.True(t, ok)
			require.Equal(t, tt.expect, o.String())
		})
	}
}

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 28)
	require.Equal(t, GenericError, all[0])
	require.Equal(t, Owner, all[26])
	require.Equal(t, FastForwardOnly, all[27])
}

func TestParse(t *testing.T) {
	o, err := Parse("fast_forward_only")
	require.NoError(t, err)
	require.Equal(t, FastForwardOnly, o)

	o, err = Parse("index_dirty")
	require.NoError(t, err)
	require.Equal(t, IndexDirty, o)

	_, err = Parse("IndexDirty")
	require.Error(t, err)
}

func TestError(t *testing.T) {
	cause := fmt.Errorf("resolving HEAD: %w", git.ErrUnbornBranch)
	e := &Error{Outcome: UnbornBranch, Op: "add_commit", cause: cause}

	require.Equal(t, "add_commit: unborn_branch: resolving HEAD: current branch has no commits", e.Error())
	require.ErrorIs(t, e, git.ErrUnbornBranch)

	wrapped := fmt.Errorf("host call: %w", e)
	require.Equal(t, UnbornBranch, Of(wrapped))
	require.Equal(t, GenericError, Of(errors.New("plain")))

	bare := &Error{Outcome: FastForwardOnly, Op: "fast_forward"}
	require.Equal(t, "fast_forward: fast_forward_only", bare.Error())
}
