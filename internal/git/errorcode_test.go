package git

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodes_CoverEveryCode(t *testing.T) {
	codes := Codes()
	require.Len(t, codes, int(NumCodes))
	require.Len(t, codes, 27)

	seen := make(map[string]bool, len(codes))
	for i, c := range codes {
		require.Equal(t, ErrorCode(i), c)
		require.True(t, c.Valid())

		name := c.String()
		require.NotEmpty(t, name)
		require.NotContains(t, name, "ErrorCode(", "code %d has no name", i)
		require.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
}

func TestErrorCode_Invalid(t *testing.T) {
	require.False(t, NumCodes.Valid())
	require.False(t, ErrorCode(-1).Valid())
	require.Equal(t, "ErrorCode(27)", NumCodes.String())
	require.Equal(t, "ErrorCode(-1)", ErrorCode(-1).String())
}

func TestErrorCode_String(t *testing.T) {
	require.Equal(t, "GenericError", CodeGenericError.String())
	require.Equal(t, "NotFastForward", CodeNotFastForward.String())
	require.Equal(t, "Eof", CodeEOF.String())
	require.Equal(t, "Owner", CodeOwner.String())
}
